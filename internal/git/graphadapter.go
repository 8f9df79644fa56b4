package git

import "github.com/railgraph/fossview/internal/graph"

// CommitGraph bridges a fetched commit window into a laid-out
// graph.GraphContext, and lets the caller walk back from rail-assigned
// rows to the Commit each one came from.
type CommitGraph struct {
	Context *graph.GraphContext
	byID    map[int]*Commit
	idByRow map[string]int
}

// CommitFor returns the Commit a laid-out Row was built from.
func (g *CommitGraph) CommitFor(r *graph.Row) *Commit { return g.byID[r.ID] }

// RowFor returns the laid-out Row for a commit hash, or nil if the hash
// was never added (e.g. an out-of-window parent).
func (g *CommitGraph) RowFor(hash string) *graph.Row {
	id, ok := g.idByRow[hash]
	if !ok {
		return nil
	}
	return g.Context.ByID(id)
}

// BuildCommitGraph assigns each commit a stable sequential int id (the
// engine's "rid") in display order and appends one row per commit. A
// commit's cherry-pick source, if present and in-window, is appended as
// a second parent tagged cherry-pick — real cherry-picks are ordinary
// single-parent commits, so this is a synthetic merge edge added purely
// so the layout engine can draw the dashed provenance arrow described by
// the spec's cherry-pick merge semantics. Parents outside the window are
// dropped; a commit left with no in-window parent gets the source as its
// primary parent instead, and the engine then treats it as an ordinary
// parent rather than a cherry-pick.
func BuildCommitGraph(commits []*Commit) *CommitGraph {
	ids := make(map[string]int, len(commits))
	for i, c := range commits {
		ids[c.Hash] = i + 1
	}

	cg := &CommitGraph{
		Context: graph.NewContext(),
		byID:    make(map[int]*Commit, len(commits)),
		idByRow: ids,
	}

	for _, c := range commits {
		id := ids[c.Hash]
		parentIDs := make([]int, 0, len(c.Parents)+1)
		for _, p := range c.Parents {
			if pid, ok := ids[p]; ok {
				parentIDs = append(parentIDs, pid)
			}
		}

		nCherrypick := 0
		if c.CherrypickSource != "" {
			if srcID, ok := ids[c.CherrypickSource]; ok {
				parentIDs = append(parentIDs, srcID)
				nCherrypick = 1
			}
		}

		cg.Context.AddRow(id, parentIDs, nCherrypick, c.Branch, c.Branch, c.Hash, c.IsLeaf)
		cg.byID[id] = c
	}

	return cg
}

// NonBranchChildren re-exports the graph.NonBranchChildren callback type
// accepted by CommitGraph.Context.Finish. This package provides no
// implementation of it; the renderer passes nil, treating the fetched
// window as closed.
type NonBranchChildren = graph.NonBranchChildren
