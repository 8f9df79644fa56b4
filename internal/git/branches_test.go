package git

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func commitAt(hash string, parents ...string) *Commit {
	return &Commit{
		Hash:    hash,
		Date:    time.Unix(0, 0),
		Message: "msg",
		Parents: parents,
	}
}

func TestDeriveLeaves(t *testing.T) {
	commits := []*Commit{
		commitAt("c3", "c2"),
		commitAt("c2", "c1"),
		commitAt("c1"),
	}
	DeriveLeaves(commits)

	require.True(t, commits[0].IsLeaf, "head commit with no children is a leaf")
	require.False(t, commits[1].IsLeaf)
	require.False(t, commits[2].IsLeaf)
}

func TestDeriveLeavesOffWindowChild(t *testing.T) {
	// c1's real child was never fetched, so within this window c1 is a leaf.
	commits := []*Commit{commitAt("c1")}
	DeriveLeaves(commits)
	require.True(t, commits[0].IsLeaf)
}

func TestParseCherrypickSource(t *testing.T) {
	body := "fix the thing\n\n(cherry picked from commit abc1234)\n"
	require.Equal(t, "abc1234", parseCherrypickSource(body))

	require.Equal(t, "", parseCherrypickSource("a plain commit body with no trailer"))
}

func TestDeriveBranchesSimpleFork(t *testing.T) {
	// trunk: c1 <- c2 <- c3 (HEAD)
	// feat:        c2 <- c4 (HEAD of feature)
	commits := []*Commit{
		commitAt("c4", "c2"),
		commitAt("c3", "c2"),
		commitAt("c2", "c1"),
		commitAt("c1"),
	}
	refMap := map[string][]Ref{
		"c3": {{Name: "main", RefType: RefTypeBranch}},
		"c4": {{Name: "feature", RefType: RefTypeBranch}},
	}

	DeriveBranches(commits, refMap, "main")

	byHash := make(map[string]*Commit, len(commits))
	for _, c := range commits {
		byHash[c.Hash] = c
	}

	require.Equal(t, "main", byHash["c3"].Branch)
	require.Equal(t, "feature", byHash["c4"].Branch)
	// Shared history is claimed by the current branch since it's walked first.
	require.Equal(t, "main", byHash["c2"].Branch)
	require.Equal(t, "main", byHash["c1"].Branch)
}

func TestDeriveBranchesNoRefs(t *testing.T) {
	commits := []*Commit{
		commitAt("c2", "c1"),
		commitAt("c1"),
	}
	DeriveBranches(commits, map[string][]Ref{}, "")

	for _, c := range commits {
		require.Equal(t, "trunk", c.Branch)
	}
}

func TestDeriveBranchesCurrentBranchPriority(t *testing.T) {
	// Two branch heads point at the same commit; current branch must win.
	commits := []*Commit{commitAt("c1")}
	refMap := map[string][]Ref{
		"c1": {
			{Name: "feature", RefType: RefTypeBranch},
			{Name: "main", RefType: RefTypeBranch},
		},
	}

	DeriveBranches(commits, refMap, "main")
	require.Equal(t, "main", commits[0].Branch)
}
