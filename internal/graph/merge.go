package graph

// routeMerges is spec §4.D.5: for every merge parent (position >= 1 in
// Parents) of every row, either reuse/allocate a dedicated "bottom rail"
// for an off-screen parent, or create an on-screen merge riser.
//
// mergeRiserFrom maps a rail to the parent id it is dedicated to; 0 means
// unused. This assumes caller-supplied ids are never 0, matching the
// convention of the system this engine was ported from.
func (g *GraphContext) routeMerges(flags Flags) bool {
	var mergeRiserFrom [MaxRail]int
	last := g.last()
	if last == nil {
		return true
	}

	for _, r := range g.rows {
		for i := 1; i < len(r.Parents); i++ {
			cherrypick := i >= r.nNonCherrypick
			parentID := r.Parents[i]
			parent := g.ByID(parentID)

			if parent == nil {
				rail := -1
				for j := 0; j < MaxRail; j++ {
					if mergeRiserFrom[j] == parentID {
						rail = j
						break
					}
				}
				if rail == -1 {
					rail = g.findFreeRail(r.Idx, last.Idx, 0)
					if g.exhausted() {
						return false
					}
					mergeRiserFrom[rail] = parentID
				}
				mask := bit(rail)
				if cherrypick {
					r.MergeIn[rail] = 2
					r.CherrypickDown |= mask
				} else {
					r.MergeIn[rail] = 1
					r.MergeDown |= mask
				}
				for p := r.Next(); p != nil; p = p.Next() {
					p.RailInUse |= mask
				}
				continue
			}

			g.createMergeRiser(parent, r, cherrypick)
			if g.exhausted() {
				return false
			}
		}
	}
	return true
}

// createMergeRiser is spec §4.D.6: route a merge arrow from parent up to
// child, where parent is below child in the diagram. A parent's mergeOut
// rail is shared by every merge child, so it is only ever assigned once.
func (g *GraphContext) createMergeRiser(parent, child *Row, cherrypick bool) {
	if parent.MergeOut < 0 {
		u := parent.Risers[parent.Rail]
		switch {
		case u > 0 && u < child.Idx:
			// Parent's own primary riser already climbs past child; share it.
			parent.MergeOut = parent.Rail
		case parent.Idx-child.Idx < parent.SelfUp:
			// child falls within parent's reserved self-up margin.
			parent.MergeOut = parent.Rail
		default:
			rail := g.findFreeRail(child.Idx, parent.Idx-1, parent.Rail)
			parent.MergeOut = rail
			mask := bit(rail)
			for p := child.Next(); p != nil && p != parent; p = p.Next() {
				p.RailInUse |= mask
			}
		}
	}

	if cherrypick {
		if parent.CherrypickUpto == 0 || parent.CherrypickUpto > child.Idx {
			parent.CherrypickUpto = child.Idx
		}
		child.MergeIn[parent.MergeOut] = 2
	} else {
		parent.HasNormalOutMerge = true
		if parent.MergeUpto == 0 || parent.MergeUpto > child.Idx {
			parent.MergeUpto = child.Idx
		}
		child.MergeIn[parent.MergeOut] = 1
	}
}

// findMaxRail recomputes maxRail from the laid-out rows: the ceiling must
// account for rail and mergeOut assignments plus the highest bit set in
// mergeDown|cherrypickDown across every row.
func (g *GraphContext) findMaxRail() {
	g.maxRail = 0
	for _, r := range g.rows {
		if r.Rail > g.maxRail {
			g.maxRail = r.Rail
		}
		if r.MergeOut > g.maxRail {
			g.maxRail = r.MergeOut
		}
		down := r.MergeDown | r.CherrypickDown
		for g.maxRail < MaxRail && down > bit(g.maxRail+1)-1 {
			g.maxRail++
		}
	}
}

// routeDuplicates is spec §4.D.7: every duplicate row shares one rail,
// routed as a merge riser from its canonical row. If that first rail
// collides with a rail a merge riser already reached, every duplicate is
// moved to a second, strictly-higher rail so the duplicate rail is always
// the rightmost.
func (g *GraphContext) routeDuplicates() bool {
	hasDup := false
	for _, r := range g.rows {
		if r.IsDup {
			hasDup = true
			break
		}
	}
	if !hasDup {
		return true
	}

	g.findMaxRail()
	mxRail := g.maxRail
	dupRail := mxRail + 1

	for _, r := range g.rows {
		if !r.IsDup {
			continue
		}
		r.Rail = dupRail
		canon := g.ByID(r.ID)
		if canon == nil || canon == r {
			continue // should not happen: a dup always has a distinct canonical row
		}
		g.createMergeRiser(canon, r, false)
		if canon.MergeOut > mxRail {
			mxRail = canon.MergeOut
		}
	}
	if dupRail <= mxRail {
		dupRail = mxRail + 1
		for _, r := range g.rows {
			if r.IsDup {
				r.Rail = dupRail
			}
		}
	}

	// Open question: the source checks the pre-reallocation mxRail here,
	// which can let a dupRail of exactly MaxRail slip through undetected.
	// Check the rail actually assigned instead.
	if dupRail >= MaxRail {
		g.nErr = true
		return false
	}
	if mxRail > g.maxRail {
		g.maxRail = mxRail
	}
	if dupRail > g.maxRail {
		g.maxRail = dupRail
	}
	return true
}
