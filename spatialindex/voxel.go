package spatialindex

import (
	"github.com/golang/geo/r3"
)

// VoxelIndex ("delta index") keys every point by floor(coord/resolution)
// per axis and maps the cell key directly to an active slot. It requires
// no bounding-box pre-check, unlike OctreeIndex.
//
// Grounded on the VoxelCoords/VoxelGrid hash-grid in the teacher's
// pointcloud package, generalized from a map[VoxelCoords]*Voxel of point
// accumulators to a map[VoxelCoords]int of active-slot indices.
type VoxelIndex struct {
	resolution float64
	cells      map[VoxelCoords]int
	nextSlot   int
}

// NewVoxelIndex returns an empty VoxelIndex at the given resolution.
func NewVoxelIndex(resolution float64) (*VoxelIndex, error) {
	if err := validateResolution(resolution); err != nil {
		return nil, err
	}
	return &VoxelIndex{
		resolution: resolution,
		cells:      make(map[VoxelCoords]int),
	}, nil
}

// Reset discards all indexed points and rebuilds the grid from points.
func (vi *VoxelIndex) Reset(points []r3.Vector) {
	vi.cells = make(map[VoxelCoords]int, len(points))
	vi.nextSlot = 0
	for _, p := range points {
		vi.cells[CellKey(p, vi.resolution)] = vi.nextSlot
		vi.nextSlot++
	}
}

// Insert adds p as the next sequential slot.
func (vi *VoxelIndex) Insert(p r3.Vector) error {
	vi.cells[CellKey(p, vi.resolution)] = vi.nextSlot
	vi.nextSlot++
	return nil
}

// NearestWithinCell reports the slot of a previously inserted point that
// shares p's resolution cell, if any.
func (vi *VoxelIndex) NearestWithinCell(p r3.Vector) (int, bool) {
	slot, ok := vi.cells[CellKey(p, vi.resolution)]
	return slot, ok
}

// VoxelClearingIndex is a VoxelIndex that additionally supports clearing
// specific cells without a full Reset, for pruning strategies that evict
// cells directly rather than rebuilding from a retained-points list.
type VoxelClearingIndex struct {
	*VoxelIndex
}

// NewVoxelClearingIndex returns an empty VoxelClearingIndex at the given
// resolution.
func NewVoxelClearingIndex(resolution float64) (*VoxelClearingIndex, error) {
	base, err := NewVoxelIndex(resolution)
	if err != nil {
		return nil, err
	}
	return &VoxelClearingIndex{VoxelIndex: base}, nil
}

// Clear removes the given cells from the index, without touching any
// other cell's slot mapping or renumbering remaining slots. Slots freed
// this way are never reused; callers that rely on Clear are responsible
// for also dropping the corresponding active-set bookkeeping elsewhere.
func (vc *VoxelClearingIndex) Clear(cells []VoxelCoords) {
	for _, c := range cells {
		delete(vc.cells, c)
	}
}
