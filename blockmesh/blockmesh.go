// Package blockmesh adapts block-indexed volumetric mesh fragments (the
// wire shape a volumetric mesher emits) into the generic vertex/triangle
// form the compression engine consumes, while recording each expanded
// point's originating (block index, within-block position) so a caller
// can reconstruct a per-block remap once compression finishes.
package blockmesh

import (
	"image/color"

	"github.com/golang/geo/r3"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/RonghaiHe/Kimera-PGMO/logging"
)

// Block is one block-indexed volumetric mesh fragment: a flat stream of
// u16-encoded, block-local point offsets plus optional parallel color
// streams, where every three consecutive points form one triangle.
type Block struct {
	Index      [3]int32
	EdgeLength float32

	X, Y, Z []uint16
	R, G, B []uint8
	A       []uint8
}

// BlockVertexRef identifies one vertex of one Block by its position in
// that block's flat point stream.
type BlockVertexRef struct {
	Block [3]int32
	Local int
}

// Point is a decoded vertex from a Block, prior to being handed to the
// compression engine (which owns its own Vertex type; blockmesh does not
// import compression to avoid a dependency cycle between the adapter and
// its consumer).
type Point struct {
	Position r3.Vector
	Color    color.NRGBA
	HasColor bool
}

// scale returns the per-axis metric size of one u16 increment for a block
// of the given edge length, per spec: u16 value / 32768 * edge length.
func scale(edgeLength float32) float64 {
	return float64(edgeLength) / 32768.0
}

// origin returns the metric origin of the block with the given index and
// edge length: block_origin = index * edge_length.
func origin(index [3]int32, edgeLength float32) r3.Vector {
	e := float64(edgeLength)
	return r3.Vector{
		X: float64(index[0]) * e,
		Y: float64(index[1]) * e,
		Z: float64(index[2]) * e,
	}
}

// ExtractPoint decodes the i-th point of block, in the style of the
// original ExtractPoint helper: an unsigned u16 offset within [0, 65535]
// scaled by block_edge_length/32768 and added to the block's metric
// origin.
func ExtractPoint(block Block, i int) Point {
	o := origin(block.Index, block.EdgeLength)
	s := scale(block.EdgeLength)

	p := Point{
		Position: r3.Vector{
			X: o.X + float64(block.X[i])*s,
			Y: o.Y + float64(block.Y[i])*s,
			Z: o.Z + float64(block.Z[i])*s,
		},
	}
	if i < len(block.R) && i < len(block.G) && i < len(block.B) {
		a := uint8(255)
		if i < len(block.A) {
			a = block.A[i]
		}
		p.Color = color.NRGBA{R: block.R[i], G: block.G[i], B: block.B[i], A: a}
		p.HasColor = true
	}
	return p
}

// Expand flattens every block into the generic (points, faces) shape:
// every three consecutive decoded points of a block form one face, and
// each resulting point's originating (block index, within-block
// position) is recorded at the same position in refs. Malformed blocks
// (a stream length not divisible by three, or mismatched x/y/z stream
// lengths) are logged and skipped entirely, matching the
// empty/degenerate-input no-op semantics the compression engine itself
// uses for generic input.
func Expand(blocks []Block, logger logging.Logger) ([]Point, [][3]int, []BlockVertexRef, error) {
	if logger == nil {
		logger = logging.NewNoopLogger()
	}
	ingestID := uuid.New().String()

	var points []Point
	var faces [][3]int
	var refs []BlockVertexRef

	for _, b := range blocks {
		if err := validateBlock(b); err != nil {
			logger.Warnw("blockmesh: skipping malformed block",
				"ingest_id", ingestID, "block_index", b.Index, "reason", err)
			continue
		}

		base := len(points)
		for i := 0; i < len(b.X); i++ {
			points = append(points, ExtractPoint(b, i))
			refs = append(refs, BlockVertexRef{Block: b.Index, Local: i})
		}
		for i := 0; i+2 < len(b.X); i += 3 {
			faces = append(faces, [3]int{base + i, base + i + 1, base + i + 2})
		}
	}
	return points, faces, refs, nil
}

func validateBlock(b Block) error {
	n := len(b.X)
	if n%3 != 0 {
		return errors.Errorf("point stream length %d is not divisible by 3", n)
	}
	if len(b.Y) != n || len(b.Z) != n {
		return errors.Errorf("mismatched coordinate stream lengths (x=%d y=%d z=%d)", n, len(b.Y), len(b.Z))
	}
	return nil
}
