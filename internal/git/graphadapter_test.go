package git

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildCommitGraphLinearHistory(t *testing.T) {
	commits := []*Commit{
		commitAt("c3", "c2"),
		commitAt("c2", "c1"),
		commitAt("c1"),
	}
	for _, c := range commits {
		c.Branch = "trunk"
	}

	cg := BuildCommitGraph(commits)
	cg.Context.Finish("", 0, nil)
	require.False(t, cg.Context.Failed())

	r3 := cg.RowFor("c3")
	r2 := cg.RowFor("c2")
	r1 := cg.RowFor("c1")
	require.NotNil(t, r1)
	require.NotNil(t, r2)
	require.NotNil(t, r3)
	require.Equal(t, 0, r3.Rail)
	require.Equal(t, 0, r2.Rail)
	require.Equal(t, 0, r1.Rail)

	require.Same(t, commits[0], cg.CommitFor(r3))
	require.Same(t, commits[2], cg.CommitFor(r1))
}

func TestBuildCommitGraphOutOfWindowParent(t *testing.T) {
	// c1's parent was never fetched; RowFor must report it missing rather
	// than panicking on a dangling id.
	commits := []*Commit{commitAt("c1", "missing-parent")}
	cg := BuildCommitGraph(commits)
	cg.Context.Finish("", 0, nil)

	require.NotNil(t, cg.RowFor("c1"))
	require.Nil(t, cg.RowFor("missing-parent"))
}

func TestBuildCommitGraphCherrypickEdge(t *testing.T) {
	commits := []*Commit{
		commitAt("c2", "c0"),
		commitAt("c1", "c0"),
		commitAt("c0"),
	}
	commits[0].CherrypickSource = "c1"

	cg := BuildCommitGraph(commits)
	cg.Context.Finish("", 0, nil)
	require.False(t, cg.Context.Failed())

	r2 := cg.RowFor("c2")
	r1 := cg.RowFor("c1")
	require.NotNil(t, r1)
	require.Equal(t, uint8(2), r2.MergeIn[r1.MergeOut])
}

func TestBuildCommitGraphUnresolvedCherrypickSourceIgnored(t *testing.T) {
	// CherrypickSource pointing outside the fetched window must not be
	// wired as a parent edge.
	commits := []*Commit{commitAt("c1")}
	commits[0].CherrypickSource = "not-in-window"

	cg := BuildCommitGraph(commits)
	cg.Context.Finish("", 0, nil)
	require.False(t, cg.Context.Failed())
	require.NotNil(t, cg.RowFor("c1"))
}
