// Package spatialindex provides the pluggable nearest-vertex backends used
// by the mesh compression engine to dedup incoming points at a fixed
// resolution. Every backend answers the same question - "is there already
// an active point in the same resolution cell as this query point, and if
// so which active slot is it" - the backends differ only in how they
// answer it.
package spatialindex

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// Index is the nearest-vertex query backend used by the compression
// engine. Slots are assigned in insertion order, 0-based, and correspond
// 1:1 with the positions of the active-set parallel sequences the caller
// maintains; the index itself does not know about canonical ids or
// timestamps.
type Index interface {
	// Reset discards all indexed points and rebuilds the index from
	// points, assigning slot i to points[i].
	Reset(points []r3.Vector)

	// Insert adds p as the next sequential slot.
	Insert(p r3.Vector) error

	// NearestWithinCell reports the slot of a previously inserted point
	// that maps to the same resolution cell as p, if one exists.
	NearestWithinCell(p r3.Vector) (slot int, ok bool)
}

// BoundingBoxer is implemented by backends (only the octree backend) whose
// nearest-neighbor query is undefined outside the region they have seen
// points in.
type BoundingBoxer interface {
	BoundingBox() (min, max r3.Vector, ok bool)
}

// VoxelCoords keys a resolution-sized cell in the voxel hash-grid.
type VoxelCoords struct {
	I, J, K int64
}

// CellKey returns the VoxelCoords of the resolution-sized cell containing p.
func CellKey(p r3.Vector, resolution float64) VoxelCoords {
	return VoxelCoords{
		I: int64(math.Floor(p.X / resolution)),
		J: int64(math.Floor(p.Y / resolution)),
		K: int64(math.Floor(p.Z / resolution)),
	}
}

func validateResolution(resolution float64) error {
	if resolution <= 0 {
		return errors.Errorf("invalid resolution (%v): must be > 0", resolution)
	}
	return nil
}
