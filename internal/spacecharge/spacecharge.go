// Package spacecharge supplies position-dependent E-field distortion
// offsets, as produced by an external space-charge simulation and exported
// as a voxel map. Maps are read-only after loading and safe for concurrent
// lookup from many workers.
package spacecharge

// Disabled is the no-distortion provider: always disabled, zero offsets.
type Disabled struct{}

func (Disabled) Enabled() bool { return false }

func (Disabled) OffsetsAt(x, y, z float64) (dx, dy, dz float64) { return 0, 0, 0 }
