package compression

import (
	"image/color"

	"github.com/golang/geo/r3"

	"github.com/RonghaiHe/Kimera-PGMO/blockmesh"
)

// Vertex is a 3-D point with an optional color, the unit the canonical
// vertex table V and every input fragment are built from.
//
// Dedup is purely spatial: when two input vertices collapse into one
// canonical vertex, the color of whichever promotion happened first wins
// and later observations' colors are discarded (spec.md §9's "color of
// the first promotion wins" resolution to the source-ambiguous question
// of whether color participates in identity - it does not).
type Vertex struct {
	Position r3.Vector
	Color    color.NRGBA
	HasColor bool
}

// Triangle is an ordered triple of canonical ids into V.
type Triangle [3]int

func unorderedEqual(a Triangle, x, y, z int) bool {
	return (a[0] == x || a[0] == y || a[0] == z) &&
		(a[1] == x || a[1] == y || a[1] == z) &&
		(a[2] == x || a[2] == y || a[2] == z)
}

// Result is the output of a single CompressAndIntegrate call.
type Result struct {
	NewVertices  []Vertex
	NewTriangles []Triangle
	NewIndices   []int
	Remap        map[int]int
}

// BlockResult is the output of a single CompressAndIntegrateBlocks call.
type BlockResult struct {
	NewVertices  []Vertex
	NewTriangles []Triangle
	NewIndices   []int
	Remap        map[blockmesh.BlockVertexRef]int
}
