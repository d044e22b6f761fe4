package spatialindex

import (
	"github.com/golang/geo/r3"
)

// OctreeIndex is a dynamic, resolution-keyed spatial index modeled on a
// PCL-style octree: it grows a bounding box as points are inserted and
// treats a query as unmatched whenever its resolution cell falls outside
// the range of cells that box spans. The check is cell-aligned, so a query
// sharing a cell with an indexed point always passes it - mirroring
// the approximate-nearest-search precondition of
// original_source/src/compression/OctreeCompression.cpp, which checks
// isVoxelOccupiedAtPoint only after confirming the point lies within the
// octree's current getBoundingBox().
type OctreeIndex struct {
	resolution float64
	cells      map[VoxelCoords]int
	nextSlot   int

	haveBox bool
	boxMin  r3.Vector
	boxMax  r3.Vector
}

// NewOctreeIndex returns an empty OctreeIndex at the given resolution.
func NewOctreeIndex(resolution float64) (*OctreeIndex, error) {
	if err := validateResolution(resolution); err != nil {
		return nil, err
	}
	return &OctreeIndex{
		resolution: resolution,
		cells:      make(map[VoxelCoords]int),
	}, nil
}

// Reset discards all indexed points and the bounding box, then rebuilds
// both from points.
func (o *OctreeIndex) Reset(points []r3.Vector) {
	o.cells = make(map[VoxelCoords]int, len(points))
	o.nextSlot = 0
	o.haveBox = false
	for _, p := range points {
		o.insert(p)
	}
}

// Insert adds p as the next sequential slot and expands the bounding box
// to cover it.
func (o *OctreeIndex) Insert(p r3.Vector) error {
	o.insert(p)
	return nil
}

func (o *OctreeIndex) insert(p r3.Vector) {
	o.cells[CellKey(p, o.resolution)] = o.nextSlot
	o.nextSlot++
	o.expandBoundingBox(p)
}

func (o *OctreeIndex) expandBoundingBox(p r3.Vector) {
	if !o.haveBox {
		o.boxMin, o.boxMax = p, p
		o.haveBox = true
		return
	}
	o.boxMin = r3.Vector{X: min(o.boxMin.X, p.X), Y: min(o.boxMin.Y, p.Y), Z: min(o.boxMin.Z, p.Z)}
	o.boxMax = r3.Vector{X: max(o.boxMax.X, p.X), Y: max(o.boxMax.Y, p.Y), Z: max(o.boxMax.Z, p.Z)}
}

func (o *OctreeIndex) pointInBox(p r3.Vector) bool {
	if !o.haveBox {
		return false
	}
	k := CellKey(p, o.resolution)
	lo := CellKey(o.boxMin, o.resolution)
	hi := CellKey(o.boxMax, o.resolution)
	return k.I >= lo.I && k.I <= hi.I &&
		k.J >= lo.J && k.J <= hi.J &&
		k.K >= lo.K && k.K <= hi.K
}

// NearestWithinCell reports the slot of a previously inserted point that
// shares p's resolution cell, if p's cell also lies within the range of
// cells spanned by the octree's current bounding box.
func (o *OctreeIndex) NearestWithinCell(p r3.Vector) (int, bool) {
	if !o.pointInBox(p) {
		return 0, false
	}
	slot, ok := o.cells[CellKey(p, o.resolution)]
	return slot, ok
}

// BoundingBox returns the axis-aligned box covering every point indexed
// since the last Reset, and whether any such point exists.
func (o *OctreeIndex) BoundingBox() (r3.Vector, r3.Vector, bool) {
	return o.boxMin, o.boxMax, o.haveBox
}
