package graph

// bit returns the mask for rail n.
func bit(n int) uint64 { return uint64(1) << uint(n) }

// findFreeRail returns a rail with no line segment occupying it across
// every row in [topIdx, bottomIdx]. If nearRail <= 0 the smallest free rail
// wins; otherwise the free rail closest to nearRail wins. If no rail is
// free, the context's error flag is set (see Failed) and rail 0 is
// returned as a harmless placeholder — callers must check maxRail against
// MaxRail afterward, per spec.
func (g *GraphContext) findFreeRail(topIdx, bottomIdx, nearRail int) int {
	var inUse uint64
	for idx := topIdx; idx <= bottomIdx; idx++ {
		if r := g.row(idx); r != nil {
			inUse |= r.RailInUse
		}
	}

	best := 0
	found := false
	bestDist := 0
	for i := 0; i < MaxRail; i++ {
		if inUse&bit(i) != 0 {
			continue
		}
		if nearRail <= 0 {
			best = i
			found = true
			break
		}
		dist := i - nearRail
		if dist < 0 {
			dist = -dist
		}
		if !found || dist < bestDist {
			bestDist = dist
			best = i
			found = true
		}
	}

	if !found {
		g.nErr = true
	}
	if best > g.maxRail {
		g.maxRail = best
	}
	return best
}

// exhausted reports whether the rail budget has been exceeded; callers
// abort layout the moment this becomes true, mirroring graph.c's repeated
// `if (p->mxRail >= GR_MAX_RAIL) return;` guards. A findFreeRail miss also
// trips this even when maxRail hasn't crossed MaxRail yet — without that, a
// span that comes up fully packed while maxRail is still below the ceiling
// would fall through to the rail-0 placeholder and double-use it instead of
// aborting.
func (g *GraphContext) exhausted() bool {
	return g.maxRail >= MaxRail || g.nErr
}
