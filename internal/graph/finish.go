package graph

// Flags control optional Finish behaviors not implied by the row data
// itself.
type Flags uint8

const (
	// FlagDisjoint omits descenders, skips the step-parent filler, and
	// treats rows as not contiguous with whatever comes after them.
	FlagDisjoint Flags = 1 << iota
	// FlagFillGaps enables the step-parent filler for same-branch gaps.
	FlagFillGaps
	// FlagXMerge drops merge parents that are not present in the row set.
	FlagXMerge
)

// Finish runs topology resolution, rail assignment, merge routing,
// duplicate routing, and the rail-to-column remap, in that order, mutating
// every Row in place. It may be called at most once per context; a second
// call is a no-op. nonBranchChildren may be nil, which is equivalent to a
// callback that always returns 0.
func (g *GraphContext) Finish(preferredLeftBranch string, flags Flags, nonBranchChildren NonBranchChildren) {
	if g.finished {
		return
	}
	g.finished = true
	g.nErr = false

	g.resolveTopology(flags)

	if !g.assignRootRails(flags) {
		return
	}
	if !g.assignRemainingRails(flags, nonBranchChildren) {
		return
	}
	if !g.routeMerges(flags) {
		return
	}
	if !g.routeDuplicates() {
		return
	}
	g.findMaxRail()
	g.remapRails(preferredLeftBranch, flags)
}
