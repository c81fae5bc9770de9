package spacecharge

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/coldbox-data/yield.report/internal/monitoring"
)

func TestMain(m *testing.M) {
	monitoring.SetLogger(nil)
	os.Exit(m.Run())
}

func TestDisabled(t *testing.T) {
	var d Disabled
	if d.Enabled() {
		t.Error("Disabled.Enabled() = true, want false")
	}
	dx, dy, dz := d.OffsetsAt(10, -20, 30)
	if dx != 0 || dy != 0 || dz != 0 {
		t.Errorf("Disabled.OffsetsAt() = (%f, %f, %f), want zeros", dx, dy, dz)
	}
}

// writeMapFile writes a field map JSON into dir and returns its path.
func writeMapFile(t *testing.T, dir string, m voxelMapFile) string {
	t.Helper()
	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("failed to marshal map: %v", err)
	}
	path := filepath.Join(dir, "fieldmap.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write map: %v", err)
	}
	return path
}

// twoVoxelMap is a 2x1x1 volume spanning x in [0,10]: the low-x voxel has
// offsets (0.1, 0.2, 0.3), the high-x voxel is undistorted.
func twoVoxelMap() voxelMapFile {
	return voxelMapFile{
		MinX: 0, MaxX: 10,
		MinY: -5, MaxY: 5,
		MinZ: -5, MaxZ: 5,
		NX: 2, NY: 1, NZ: 1,
		EX: []float64{0.1, 0},
		EY: []float64{0.2, 0},
		EZ: []float64{0.3, 0},
	}
}

func TestVoxelMapLookup(t *testing.T) {
	path := writeMapFile(t, t.TempDir(), twoVoxelMap())
	m, err := LoadVoxelMap(path)
	if err != nil {
		t.Fatalf("LoadVoxelMap: %v", err)
	}
	if !m.Enabled() {
		t.Error("loaded map should report enabled")
	}

	tests := []struct {
		name       string
		x, y, z    float64
		dx, dy, dz float64
	}{
		{"low-x voxel", 2, 0, 0, 0.1, 0.2, 0.3},
		{"high-x voxel", 8, 0, 0, 0, 0, 0},
		{"upper bound lands in last voxel", 10, 5, 5, 0, 0, 0},
		{"outside volume", 11, 0, 0, 0, 0, 0},
		{"outside in y", 2, 7, 0, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dx, dy, dz := m.OffsetsAt(tt.x, tt.y, tt.z)
			if dx != tt.dx || dy != tt.dy || dz != tt.dz {
				t.Errorf("OffsetsAt(%g, %g, %g) = (%g, %g, %g), want (%g, %g, %g)",
					tt.x, tt.y, tt.z, dx, dy, dz, tt.dx, tt.dy, tt.dz)
			}
		})
	}
}

func TestLoadVoxelMapRejectsBadFiles(t *testing.T) {
	dir := t.TempDir()

	t.Run("wrong extension", func(t *testing.T) {
		if _, err := LoadVoxelMap(filepath.Join(dir, "map.yaml")); err == nil {
			t.Error("expected error for non-json extension")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadVoxelMap(filepath.Join(dir, "missing.json")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("mismatched array length", func(t *testing.T) {
		bad := twoVoxelMap()
		bad.EX = bad.EX[:1]
		if _, err := LoadVoxelMap(writeMapFile(t, t.TempDir(), bad)); err == nil {
			t.Error("expected error for short offset array")
		}
	})

	t.Run("degenerate bounds", func(t *testing.T) {
		bad := twoVoxelMap()
		bad.MaxX = bad.MinX
		if _, err := LoadVoxelMap(writeMapFile(t, t.TempDir(), bad)); err == nil {
			t.Error("expected error for degenerate bounds")
		}
	})

	t.Run("non-positive shape", func(t *testing.T) {
		bad := twoVoxelMap()
		bad.NX = 0
		if _, err := LoadVoxelMap(writeMapFile(t, t.TempDir(), bad)); err == nil {
			t.Error("expected error for zero-size shape")
		}
	})
}
