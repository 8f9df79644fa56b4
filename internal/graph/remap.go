package graph

// remapRails is spec §4.D.8: compute the final rendered column for each
// rail. By default a rail maps to itself; if the caller named a
// preferred-left branch and no time-warp occurred anywhere in the graph,
// that branch's rail is walked to the left margin, row by row, shifting
// intervening columns right to make room.
func (g *GraphContext) remapRails(preferredLeftBranch string, flags Flags) {
	for i := 0; i <= g.maxRail; i++ {
		g.railMap[i] = i
	}

	if preferredLeftBranch == "" || g.timeWarps != 0 {
		return
	}
	left := g.intern(preferredLeftBranch)

	j := 0
	for _, r := range g.rows {
		if r.Branch != left || g.railMap[r.Rail] < j {
			continue
		}
		for i := 0; i <= g.maxRail; i++ {
			if g.railMap[i] >= j && g.railMap[i] <= r.Rail {
				g.railMap[i]++
			}
		}
		g.railMap[r.Rail] = j
		j++
	}
}
