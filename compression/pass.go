package compression

import (
	"github.com/RonghaiHe/Kimera-PGMO/spatialindex"
)

// ingestPass holds the per-call temporary state spec.md §5 describes as
// released on return: the tentative index, temp_reindex, and the
// face-supported flags for candidate-new vertices. It is discarded after
// every CompressAndIntegrate[Blocks] call.
type ingestPass struct {
	c        *Compressor
	stampSec float64

	tempIndex   *spatialindex.VoxelIndex
	tempReindex []tentativeRef

	tentativePoints    []Vertex
	tentativeOrigin    []int
	tentativeSupported []bool
	convergedOn        map[int][]int

	freshIDs    map[int]bool
	remap       map[int]int
	seenIndices map[int]bool

	newVertices  []Vertex
	newTriangles []Triangle
	newIndices   []int
}

// newIngestPass allocates a fresh tentative index at c's resolution. The
// error is always nil here because c.resolution was already validated by
// NewCompressor; it is checked anyway rather than ignored outright.
func (c *Compressor) newIngestPass(stampSec float64) *ingestPass {
	tempIndex, err := spatialindex.NewVoxelIndex(c.resolution)
	if err != nil {
		c.logger.Errorw("compression: failed to allocate tentative index", "error", err)
		tempIndex = &spatialindex.VoxelIndex{}
	}
	return &ingestPass{
		c:           c,
		stampSec:    stampSec,
		tempIndex:   tempIndex,
		convergedOn: make(map[int][]int),
		freshIDs:    make(map[int]bool),
		remap:       make(map[int]int),
		seenIndices: make(map[int]bool),
	}
}

// classifyVertices is pass V1 of spec.md §4.1: classify every input
// vertex as reobserved, duplicate-candidate, or fresh candidate.
func (p *ingestPass) classifyVertices(vertices []Vertex) {
	p.tempReindex = make([]tentativeRef, len(vertices))

	for i, v := range vertices {
		pos := v.Position

		if slot, ok := p.c.index.NearestWithinCell(pos); ok {
			canon := p.c.activeID[slot]
			p.tempReindex[i] = canonicalRef(canon)
			p.remap[i] = canon
			p.addNewIndex(canon)
			p.c.activeT[slot] = p.stampSec
			continue
		}

		if slot, ok := p.tempIndex.NearestWithinCell(pos); ok {
			p.tempReindex[i] = tentativeSlotRef(slot)
			p.convergedOn[slot] = append(p.convergedOn[slot], i)
			continue
		}

		if err := p.tempIndex.Insert(pos); err != nil {
			p.c.logger.Errorw("compression: failed to insert vertex into tentative index, skipping vertex",
				"input_index", i, "error", err)
			continue
		}
		slot := len(p.tentativePoints)
		p.tentativePoints = append(p.tentativePoints, v)
		p.tentativeOrigin = append(p.tentativeOrigin, i)
		p.tentativeSupported = append(p.tentativeSupported, false)
		p.tempReindex[i] = tentativeSlotRef(slot)
	}
}

// qualifyFaces is pass F1 of spec.md §4.1: mark every tentative slot that
// participates in at least one non-degenerate face as face-supported.
func (p *ingestPass) qualifyFaces(faces []Triangle) {
	for _, face := range faces {
		ra := p.tempReindex[face[0]]
		rb := p.tempReindex[face[1]]
		rc := p.tempReindex[face[2]]

		if !ra.tentative && !rb.tentative && !rc.tentative {
			continue // no new-vertex justification to check
		}
		if refsEqual(ra, rb) || refsEqual(rb, rc) || refsEqual(ra, rc) {
			continue // degenerate
		}
		for _, r := range [3]tentativeRef{ra, rb, rc} {
			if r.tentative {
				p.tentativeSupported[r.id] = true
			}
		}
	}
}

// promote commits every face-supported tentative slot, in slot order
// (i.e. input order), as spec.md §4.1 requires for canonical-id
// monotonicity (invariant 7).
func (p *ingestPass) promote() {
	c := p.c
	for s, supported := range p.tentativeSupported {
		if !supported {
			continue
		}
		v := p.tentativePoints[s]

		if err := c.index.Insert(v.Position); err != nil {
			c.logger.Errorw("compression: failed to insert promoted vertex into spatial index, skipping vertex",
				"slot", s, "error", err)
			continue
		}

		k := len(c.v)
		c.v = append(c.v, v)
		c.activeXYZ = append(c.activeXYZ, v.Position)
		c.activeID = append(c.activeID, k)
		c.activeT = append(c.activeT, p.stampSec)
		c.adj[k] = nil

		p.freshIDs[k] = true
		p.newVertices = append(p.newVertices, v)
		p.addNewIndex(k)

		p.remap[p.tentativeOrigin[s]] = k
		for _, dup := range p.convergedOn[s] {
			p.remap[dup] = k
		}
	}
}

// emitFaces is pass F2 of spec.md §4.1: resolve every input face through
// the now-complete remap and append genuinely new, non-degenerate faces
// to F.
func (p *ingestPass) emitFaces(faces []Triangle) {
	c := p.c
	for _, face := range faces {
		ra, ok1 := p.remap[face[0]]
		rb, ok2 := p.remap[face[1]]
		rc, ok3 := p.remap[face[2]]
		if !ok1 || !ok2 || !ok3 {
			continue // referenced a vertex that was never promoted nor pre-existing
		}
		if ra == rb || rb == rc || ra == rc {
			continue // degenerate
		}

		newFace := p.freshIDs[ra] || p.freshIDs[rb] || p.freshIDs[rc]
		if !newFace {
			if _, exists := c.faceExists(ra, rb, rc); !exists {
				newFace = true
			}
		}
		if !newFace {
			continue
		}

		j := len(c.f)
		c.f = append(c.f, Triangle{ra, rb, rc})
		c.adj[ra] = append(c.adj[ra], j)
		c.adj[rb] = append(c.adj[rb], j)
		c.adj[rc] = append(c.adj[rc], j)
		p.newTriangles = append(p.newTriangles, Triangle{ra, rb, rc})
	}
}

func (p *ingestPass) addNewIndex(id int) {
	if p.seenIndices[id] {
		return
	}
	p.seenIndices[id] = true
	p.newIndices = append(p.newIndices, id)
}

// faceExists implements the duplicate-face test of spec.md §4.1: it
// checks intersection of the three adjacency lists rather than scanning
// F in full. Any j found in all three lists necessarily has F[j] equal
// to {a,b,c} as an unordered triple, since a,b,c are pairwise distinct
// and every triangle has exactly three distinct vertices.
func (c *Compressor) faceExists(a, b, cc int) (int, bool) {
	adjA := c.adj[a]
	if len(adjA) == 0 {
		return 0, false
	}
	inA := make(map[int]struct{}, len(adjA))
	for _, j := range adjA {
		inA[j] = struct{}{}
	}
	for _, j := range c.adj[b] {
		if _, ok := inA[j]; !ok {
			continue
		}
		for _, j2 := range c.adj[cc] {
			if j2 == j && unorderedEqual(c.f[j], a, b, cc) {
				return j, true
			}
		}
	}
	return 0, false
}
