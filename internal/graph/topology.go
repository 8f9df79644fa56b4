package graph

// buildIDHash inserts every row into the id hash in display order, marking
// duplicates as it goes. Must run before anything else in Finish.
func (g *GraphContext) buildIDHash() {
	for _, r := range g.rows {
		g.hashInsert(r)
	}
}

// purgeOffscreenMergeParents drops merge parents that aren't present in the
// row set, when the caller asked to omit descenders or cross-merges. The
// cherry-pick tail count is adjusted to match.
func (g *GraphContext) purgeOffscreenMergeParents(flags Flags) {
	if flags&(FlagDisjoint|FlagXMerge) == 0 {
		return
	}
	for _, r := range g.rows {
		for i := 1; i < len(r.Parents); i++ {
			if g.ByID(r.Parents[i]) != nil {
				continue
			}
			r.Parents = append(r.Parents[:i], r.Parents[i+1:]...)
			if i < r.nNonCherrypick {
				r.nNonCherrypick--
			}
			i--
		}
	}
}

// swapPrimaryParent biases the engine toward a straight same-branch spine:
// if the primary parent is on a different branch but a non-cherry-pick
// merge parent shares the row's branch, that parent is promoted to
// position 0.
func (g *GraphContext) swapPrimaryParent() {
	for _, r := range g.rows {
		if r.IsDup {
			continue
		}
		if r.nNonCherrypick < 2 {
			continue // not a fork
		}
		primary := g.ByID(r.Parents[0])
		if primary == nil {
			continue // parent off-screen
		}
		if primary.Branch == r.Branch {
			continue // already same branch
		}
		for i := 1; i < r.nNonCherrypick; i++ {
			p := g.ByID(r.Parents[i])
			if p != nil && p.Branch == r.Branch {
				r.Parents[0], r.Parents[i] = r.Parents[i], r.Parents[0]
				break
			}
		}
	}
}

// choosePrimaryChildren walks rows top-to-bottom, assigning each on-screen
// primary parent its child pointer. Forks pick the child whose subtree
// extends furthest up (the longest straight rail wins). A parent whose idx
// is <= the child's idx is a time-warp: it is flagged but not linked.
func (g *GraphContext) choosePrimaryChildren() {
	for _, r := range g.rows {
		if r.IsDup || len(r.Parents) <= 0 {
			continue
		}
		parent := g.ByID(r.Parents[0])
		if parent == nil {
			continue // parent off-screen
		}
		if parent.Branch != r.Branch {
			continue // different branch
		}
		if parent.Idx <= r.Idx {
			// Asymmetric by design: the flag is set on the PARENT, not the
			// child, even though it is the child/parent time ordering that
			// is impossible. Downstream (assignChildren) reads the flag off
			// the row it is walking *from* to decide whether to stop
			// extending a rail upward through it.
			parent.TimeWarp = true
			g.timeWarps++
		} else if r.IdxTop < parent.IdxTop {
			parent.childIdx = r.Idx
			parent.IdxTop = r.IdxTop
		}
	}
}

// fillStepParentGaps bridges display gaps in a branch: a childless row
// adopts the nearest same-branch row above it whose own primary parent is
// off-screen, becoming its "step-child". Only runs when FlagFillGaps is set.
func (g *GraphContext) fillStepParentGaps(flags Flags) {
	if flags&FlagFillGaps == 0 {
		return
	}
	for _, r := range g.rows {
		if r.childIdx != 0 {
			continue
		}
		for above := r.Prev(); above != nil; above = above.Prev() {
			if len(above.Parents) <= 0 {
				continue
			}
			if above.Branch != r.Branch {
				continue
			}
			if g.ByID(above.Parents[0]) != nil {
				continue // parent is on-screen; not a gap
			}
			r.childIdx = above.Idx
			r.IsStepParent = true
			above.Parents[0] = r.ID
			break
		}
	}
}

// propagateIdxTop pushes each row's idxTop down to the minimum of its own
// and its child's, so every row in a chain reports the chain's topmost idx.
func (g *GraphContext) propagateIdxTop() {
	for _, r := range g.rows {
		if child := r.Child(); child != nil && r.IdxTop > child.IdxTop {
			r.IdxTop = child.IdxTop
		}
	}
}

// resolveTopology runs the full topology-resolution phase, in order, before
// any rail is allocated.
func (g *GraphContext) resolveTopology(flags Flags) {
	g.buildIDHash()
	g.purgeOffscreenMergeParents(flags)
	g.swapPrimaryParent()
	g.choosePrimaryChildren()
	g.fillStepParentGaps(flags)
	g.propagateIdxTop()
}
