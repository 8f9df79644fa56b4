package graph

// NonBranchChildren is the one external collaborator consulted during
// layout: it reports whether off-graph children exist for a row, which
// decides whether a terminal node gets a riser drawn off the top of the
// diagram. It is expected to be a pure in-memory lookup.
type NonBranchChildren func(id int) int

// newRail allocates and returns the next rail index, tracking maxRail.
func (g *GraphContext) newRail() int {
	g.maxRail++
	return g.maxRail
}

// assignRootRails is the trunk-first root pass (spec §4.D.1): rows whose
// primary parent is absent or off-screen get their own rail and a
// descender. Running it twice — first restricted to "trunk", then
// unrestricted — gives trunk a bias toward the left margin.
func (g *GraphContext) assignRootRails(flags Flags) bool {
	trunk := g.intern("trunk")
	omitDescenders := flags&FlagDisjoint != 0
	riserMargin := RiserMargin
	if omitDescenders {
		riserMargin = 0
	}

	for pass := 0; pass < 2; pass++ {
		for idx := len(g.rows); idx >= 1; idx-- {
			r := g.rows[idx-1]
			if pass == 0 && r.Branch != trunk {
				continue
			}
			if r.Rail >= 0 || r.IsDup || r.IsGhost() {
				continue
			}
			if len(r.Parents) != 0 && g.ByID(r.Parents[0]) != nil {
				continue
			}

			r.Rail = g.findFreeRail(r.IdxTop, r.Idx+riserMargin, 0)
			if g.exhausted() {
				return false
			}
			mask := bit(r.Rail)
			if !omitDescenders {
				r.BDescender = len(r.Parents) > 0
				n := RiserMargin
				for p := r; p != nil && n > 0; p = p.Next() {
					p.RailInUse |= mask
					n--
				}
			}
			g.assignChildren(r, flags)
			if g.exhausted() {
				return false
			}
		}
	}
	return true
}

// assignRemainingRails is spec §4.D.2: every row still unassigned after
// the root pass gets a rail relative to its on-screen primary parent, with
// a dedicated "down rail" spanning the whole diagram for time-warp rows.
func (g *GraphContext) assignRemainingRails(flags Flags, nonBranchChildren NonBranchChildren) bool {
	omitDescenders := flags&FlagDisjoint != 0

	for idx := len(g.rows); idx >= 1; idx-- {
		r := g.rows[idx-1]

		if r.Rail >= 0 {
			if r.childIdx == 0 && !r.TimeWarp {
				if !omitDescenders && nonBranchChildren != nil && nonBranchChildren(r.ID) != 0 {
					g.riserToTop(r)
				}
			}
			continue
		}
		if r.IsDup || r.IsGhost() {
			continue
		}

		parentID := r.Parents[0]
		parent := g.ByID(parentID)
		if parent == nil {
			// Defensive: the root pass above already catches every row
			// whose primary parent is off-screen, so this should not be
			// reachable, but the original keeps the guard and so do we.
			r.Rail = g.newRail()
			if g.exhausted() {
				return false
			}
			r.RailInUse = bit(r.Rail)
			continue
		}

		var mask uint64
		if parent.Idx > r.Idx {
			// Common case: child occurs after (above) its parent.
			r.Rail = g.findFreeRail(r.IdxTop, parent.Idx, parent.Rail)
			if g.exhausted() {
				return false
			}
			parent.Risers[r.Rail] = r.Idx
		} else {
			// Time-warp case: child occurs earlier in time than its
			// parent and appears below it in the timeline. A dedicated
			// "down rail" traverses the entire diagram to carry the edge.
			downRail := g.newRail()
			if downRail < 1 {
				downRail = g.newRail()
			}
			r.Rail = g.newRail()
			if g.exhausted() {
				return false
			}
			r.RailInUse = bit(r.Rail)
			parent.Risers[downRail] = r.Idx
			dmask := bit(downRail)
			for _, p := range g.rows {
				p.RailInUse |= dmask
			}
		}

		mask = bit(r.Rail)
		r.RailInUse |= mask
		if r.childIdx != 0 {
			g.assignChildren(r, flags)
			if g.exhausted() {
				return false
			}
		} else if !omitDescenders && nonBranchChildren != nil && nonBranchChildren(r.ID) != 0 {
			if !r.TimeWarp {
				g.riserToTop(r)
			}
		}

		if parent.Idx > r.Idx {
			for p := parent.Prev(); p != nil && p != r; p = p.Prev() {
				p.RailInUse |= mask
			}
		} else {
			for p := parent.Next(); p != nil && p != r; p = p.Next() {
				p.RailInUse |= mask
			}
		}
	}
	return true
}

// assignChildren (spec §4.D.3) extends bottom's rail upward through its
// primary-child chain. Stops before a row whose preceding row in the chain
// has TimeWarp set — that parent's time-warp flag, not the child's,
// governs whether the rail keeps extending (see choosePrimaryChildren).
func (g *GraphContext) assignChildren(bottom *Row, flags Flags) {
	rail := bottom.Rail
	mask := bit(rail)
	bottom.RailInUse |= mask

	prior := bottom
	for cur := prior.Child(); cur != nil; cur = prior.Child() {
		if prior.TimeWarp {
			break
		}
		cur.Rail = rail
		cur.RailInUse |= mask
		prior.Risers[rail] = cur.Idx
		for prior.Idx > cur.Idx {
			prior.RailInUse |= mask
			prior = prior.Prev()
		}
	}

	if !prior.IsLeaf && flags&FlagDisjoint == 0 {
		n := RiserMargin
		prior.SelfUp = 0
		for p := prior; p != nil && n > 0; p = p.Prev() {
			prior.SelfUp++
			p.RailInUse |= mask
			n--
		}
	}
}

// riserToTop (spec §4.D.4) marks a terminal row's rail as running off the
// top of the diagram toward an off-graph, non-branch child.
func (g *GraphContext) riserToTop(r *Row) {
	mask := bit(r.Rail)
	r.Risers[r.Rail] = 0
	n := RiserMargin
	for p := r; p != nil && n > 0; p = p.Prev() {
		p.RailInUse |= mask
		n--
	}
}
