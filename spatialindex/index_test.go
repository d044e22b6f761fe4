package spatialindex

import (
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

// newBackends returns one instance of every Index implementation at the
// given resolution, so the shared behavioral contract can be run against
// all of them identically.
func newBackends(t *testing.T, resolution float64) map[string]Index {
	octree, err := NewOctreeIndex(resolution)
	test.That(t, err, test.ShouldBeNil)
	voxel, err := NewVoxelIndex(resolution)
	test.That(t, err, test.ShouldBeNil)
	clearing, err := NewVoxelClearingIndex(resolution)
	test.That(t, err, test.ShouldBeNil)

	return map[string]Index{
		"octree":  octree,
		"voxel":   voxel,
		"clear":   clearing,
	}
}

func TestSameCellMatches(t *testing.T) {
	for name, idx := range newBackends(t, 0.5) {
		t.Run(name, func(t *testing.T) {
			test.That(t, idx.Insert(r3.Vector{X: 0.1, Y: 0.1, Z: 0.1}), test.ShouldBeNil)
			slot, ok := idx.NearestWithinCell(r3.Vector{X: 0.2, Y: 0.2, Z: 0.2})
			test.That(t, ok, test.ShouldBeTrue)
			test.That(t, slot, test.ShouldEqual, 0)
		})
	}
}

func TestDifferentCellMayNotMatch(t *testing.T) {
	for name, idx := range newBackends(t, 0.5) {
		t.Run(name, func(t *testing.T) {
			test.That(t, idx.Insert(r3.Vector{X: 0, Y: 0, Z: 0}), test.ShouldBeNil)
			_, ok := idx.NearestWithinCell(r3.Vector{X: 5, Y: 5, Z: 5})
			test.That(t, ok, test.ShouldBeFalse)
		})
	}
}

func TestSlotsAreSequential(t *testing.T) {
	for name, idx := range newBackends(t, 1) {
		t.Run(name, func(t *testing.T) {
			test.That(t, idx.Insert(r3.Vector{X: 0, Y: 0, Z: 0}), test.ShouldBeNil)
			test.That(t, idx.Insert(r3.Vector{X: 10, Y: 0, Z: 0}), test.ShouldBeNil)
			test.That(t, idx.Insert(r3.Vector{X: 20, Y: 0, Z: 0}), test.ShouldBeNil)

			slot, ok := idx.NearestWithinCell(r3.Vector{X: 20, Y: 0, Z: 0})
			test.That(t, ok, test.ShouldBeTrue)
			test.That(t, slot, test.ShouldEqual, 2)
		})
	}
}

func TestResetRenumbersFromZero(t *testing.T) {
	for name, idx := range newBackends(t, 1) {
		t.Run(name, func(t *testing.T) {
			test.That(t, idx.Insert(r3.Vector{X: 0, Y: 0, Z: 0}), test.ShouldBeNil)
			test.That(t, idx.Insert(r3.Vector{X: 10, Y: 0, Z: 0}), test.ShouldBeNil)

			idx.Reset([]r3.Vector{{X: 10, Y: 0, Z: 0}})

			slot, ok := idx.NearestWithinCell(r3.Vector{X: 10, Y: 0, Z: 0})
			test.That(t, ok, test.ShouldBeTrue)
			test.That(t, slot, test.ShouldEqual, 0)

			_, ok = idx.NearestWithinCell(r3.Vector{X: 0, Y: 0, Z: 0})
			test.That(t, ok, test.ShouldBeFalse)
		})
	}
}

func TestOctreeRejectsQueriesOutsideBoundingBox(t *testing.T) {
	idx, err := NewOctreeIndex(0.5)
	test.That(t, err, test.ShouldBeNil)

	test.That(t, idx.Insert(r3.Vector{X: 0, Y: 0, Z: 0}), test.ShouldBeNil)
	test.That(t, idx.Insert(r3.Vector{X: 1, Y: 1, Z: 1}), test.ShouldBeNil)

	min, max, ok := idx.BoundingBox()
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, min, test.ShouldResemble, r3.Vector{X: 0, Y: 0, Z: 0})
	test.That(t, max, test.ShouldResemble, r3.Vector{X: 1, Y: 1, Z: 1})

	// Outside the box entirely: must not match even though, hypothetically,
	// nothing else occupies that cell either.
	_, ok = idx.NearestWithinCell(r3.Vector{X: 100, Y: 100, Z: 100})
	test.That(t, ok, test.ShouldBeFalse)
}

func TestVoxelIndexHasNoBoundingBoxGate(t *testing.T) {
	idx, err := NewVoxelIndex(0.5)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, idx.Insert(r3.Vector{X: 0, Y: 0, Z: 0}), test.ShouldBeNil)

	// The voxel backend has no BoundingBoxer method, so there is nothing
	// to gate on; a query that shares no cell with anything simply misses.
	_, isBoxer := interface{}(idx).(BoundingBoxer)
	test.That(t, isBoxer, test.ShouldBeFalse)
	_, ok := idx.NearestWithinCell(r3.Vector{X: 100, Y: 100, Z: 100})
	test.That(t, ok, test.ShouldBeFalse)
}

func TestVoxelClearingIndexClearEvictsOnlyNamedCells(t *testing.T) {
	idx, err := NewVoxelClearingIndex(1)
	test.That(t, err, test.ShouldBeNil)

	test.That(t, idx.Insert(r3.Vector{X: 0, Y: 0, Z: 0}), test.ShouldBeNil)
	test.That(t, idx.Insert(r3.Vector{X: 10, Y: 0, Z: 0}), test.ShouldBeNil)

	idx.Clear([]VoxelCoords{CellKey(r3.Vector{X: 0, Y: 0, Z: 0}, 1)})

	_, ok := idx.NearestWithinCell(r3.Vector{X: 0, Y: 0, Z: 0})
	test.That(t, ok, test.ShouldBeFalse)

	slot, ok := idx.NearestWithinCell(r3.Vector{X: 10, Y: 0, Z: 0})
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, slot, test.ShouldEqual, 1)
}

func TestCellKeyFloorsTowardNegativeInfinity(t *testing.T) {
	a := CellKey(r3.Vector{X: -0.1, Y: 0, Z: 0}, 1)
	b := CellKey(r3.Vector{X: -0.9, Y: 0, Z: 0}, 1)
	test.That(t, a, test.ShouldResemble, b)
	test.That(t, a.I, test.ShouldEqual, int64(-1))
}
