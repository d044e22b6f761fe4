package compression

// PruneStoredMesh implements spec.md §4.1's pruneStoredMesh: active slots
// whose last-seen time is not strictly after earliestTimeSec are dropped
// from the active set and the spatial index is rebuilt from what remains.
// V, F, and canonical ids are never touched; adjacency entries for
// canonical ids that fall out of the active set are retained in full
// (spec.md §9's "prefer retaining all" policy - other triangles may
// still reference those ids, and a canonical id can never be reassigned
// or reused).
//
// A length mismatch between the active-set parallel sequences is a
// bookkeeping failure: it is logged and pruning is skipped entirely for
// that call, leaving state unchanged, per spec.md §7.
func (c *Compressor) PruneStoredMesh(earliestTimeSec float64) {
	if len(c.activeXYZ) == 0 {
		return
	}
	if len(c.activeT) != len(c.activeXYZ) || len(c.activeID) != len(c.activeXYZ) {
		c.logger.Errorw("compression: active-set length mismatch, skipping prune",
			"xyz", len(c.activeXYZ), "t", len(c.activeT), "id", len(c.activeID))
		return
	}

	retainedXYZ := c.activeXYZ[:0:0]
	retainedID := c.activeID[:0:0]
	retainedT := c.activeT[:0:0]

	for i, t := range c.activeT {
		if t > earliestTimeSec {
			retainedXYZ = append(retainedXYZ, c.activeXYZ[i])
			retainedID = append(retainedID, c.activeID[i])
			retainedT = append(retainedT, t)
		}
	}

	if len(retainedXYZ) == len(c.activeXYZ) {
		return // nothing pruned
	}

	c.activeXYZ, c.activeID, c.activeT = retainedXYZ, retainedID, retainedT
	c.index.Reset(retainedXYZ)
}
