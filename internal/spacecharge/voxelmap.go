package spacecharge

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/coldbox-data/yield.report/internal/monitoring"
)

// voxelMapFile is the on-disk JSON schema for a field-offset map. Offsets
// are fractional (dimensionless) components relative to the nominal field,
// stored as flat arrays in x-major order: index = (ix*ny + iy)*nz + iz.
type voxelMapFile struct {
	MinX float64 `json:"min_x"`
	MaxX float64 `json:"max_x"`
	MinY float64 `json:"min_y"`
	MaxY float64 `json:"max_y"`
	MinZ float64 `json:"min_z"`
	MaxZ float64 `json:"max_z"`
	NX         int     `json:"nx"`
	NY         int     `json:"ny"`
	NZ         int     `json:"nz"`

	EX []float64 `json:"ex"`
	EY []float64 `json:"ey"`
	EZ []float64 `json:"ez"`
}

// VoxelMap is a loaded field-offset map. Lookups snap to the nearest
// voxel; points outside the mapped volume get zero offsets.
type VoxelMap struct {
	minX, maxX float64
	minY, maxY float64
	minZ, maxZ float64
	nx, ny, nz int
	ex, ey, ez []float64
}

// LoadVoxelMap reads a field-offset map from a JSON file. The file must
// have a .json extension and internally consistent array lengths.
func LoadVoxelMap(path string) (*VoxelMap, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("field map must have .json extension, got %q", ext)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read field map: %w", err)
	}

	var f voxelMapFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse field map JSON: %w", err)
	}
	m, err := newVoxelMap(f)
	if err != nil {
		return nil, err
	}
	monitoring.Logf("loaded field map %s: %dx%dx%d voxels", cleanPath, m.nx, m.ny, m.nz)
	return m, nil
}

func newVoxelMap(f voxelMapFile) (*VoxelMap, error) {
	if f.NX <= 0 || f.NY <= 0 || f.NZ <= 0 {
		return nil, fmt.Errorf("field map shape must be positive, got %dx%dx%d", f.NX, f.NY, f.NZ)
	}
	if f.MaxX <= f.MinX || f.MaxY <= f.MinY || f.MaxZ <= f.MinZ {
		return nil, fmt.Errorf("field map bounds are degenerate")
	}
	n := f.NX * f.NY * f.NZ
	if len(f.EX) != n || len(f.EY) != n || len(f.EZ) != n {
		return nil, fmt.Errorf("field map arrays have %d/%d/%d values, want %d",
			len(f.EX), len(f.EY), len(f.EZ), n)
	}
	return &VoxelMap{
		minX: f.MinX, maxX: f.MaxX,
		minY: f.MinY, maxY: f.MaxY,
		minZ: f.MinZ, maxZ: f.MaxZ,
		nx: f.NX, ny: f.NY, nz: f.NZ,
		ex: f.EX, ey: f.EY, ez: f.EZ,
	}, nil
}

func (m *VoxelMap) Enabled() bool { return true }

// OffsetsAt returns the fractional field offsets for the voxel containing
// the point. Out-of-volume points return zero offsets rather than
// extrapolating.
func (m *VoxelMap) OffsetsAt(x, y, z float64) (dx, dy, dz float64) {
	ix, ok := m.bin(x, m.minX, m.maxX, m.nx)
	if !ok {
		return 0, 0, 0
	}
	iy, ok := m.bin(y, m.minY, m.maxY, m.ny)
	if !ok {
		return 0, 0, 0
	}
	iz, ok := m.bin(z, m.minZ, m.maxZ, m.nz)
	if !ok {
		return 0, 0, 0
	}
	i := (ix*m.ny+iy)*m.nz + iz
	return m.ex[i], m.ey[i], m.ez[i]
}

// bin maps a coordinate to its voxel index along one axis. The upper bound
// is inclusive and lands in the last voxel.
func (m *VoxelMap) bin(v, min, max float64, n int) (int, bool) {
	if v < min || v > max {
		return 0, false
	}
	i := int(math.Floor((v - min) / (max - min) * float64(n)))
	if i >= n {
		i = n - 1
	}
	return i, true
}
