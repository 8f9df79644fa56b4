package git

import (
	"regexp"
	"sort"
)

// cherrypickTrailer matches git's standard "cherry picked from commit X"
// trailer, appended to the message body by `git cherry-pick -x`.
var cherrypickTrailer = regexp.MustCompile(`(?m)^\s*\(cherry picked from commit ([0-9a-f]{7,40})\)\s*$`)

// parseCherrypickSource extracts the source hash from a cherry-pick
// trailer in a commit body, or "" if none is present.
func parseCherrypickSource(body string) string {
	m := cherrypickTrailer.FindStringSubmatch(body)
	if m == nil {
		return ""
	}
	return m[1]
}

// DeriveLeaves marks every commit with no in-window child as a leaf. This
// is local to the fetched window: a commit whose only real-world child
// fell outside the fetch limit is still treated as a leaf for layout
// purposes, matching how the caller would treat any other off-screen
// relationship.
func DeriveLeaves(commits []*Commit) {
	hasChild := make(map[string]bool, len(commits))
	for _, c := range commits {
		for _, p := range c.Parents {
			hasChild[p] = true
		}
	}
	for _, c := range commits {
		c.IsLeaf = !hasChild[c.Hash]
	}
}

// DeriveBranches assigns each commit exactly one branch label by walking
// backward from every branch head, in priority order, and claiming every
// reachable commit that has not already been claimed by a higher-priority
// branch. This mirrors WalkBranchMembership's reachability walk, but
// produces exclusive ownership instead of a membership set, since the
// layout engine's branch label is a single interned identity per row.
//
// Priority order: the current HEAD branch first (it wins ties, biasing
// the shared history toward it), then remaining branches by name for
// determinism. Tags are not walked. Commits unreachable from any branch keep the
// branch label of their first-encountered child during the fallback
// pass, or "trunk" if no child was ever claimed either.
func DeriveBranches(commits []*Commit, refMap map[string][]Ref, currentBranch string) {
	byHash := make(map[string]*Commit, len(commits))
	for _, c := range commits {
		byHash[c.Hash] = c
	}

	heads := branchHeadsByPriority(refMap, currentBranch)
	claimed := make(map[string]bool, len(commits))

	for _, h := range heads {
		walkClaim(byHash, h.hash, h.name, claimed)
	}

	// Fallback: anything left unclaimed (commits reachable only through
	// history older than every branch head, or in a repo with no refs at
	// all) inherits its first claimed child's branch, walking in display
	// order so a chain resolves before its parent is visited.
	for _, c := range commits {
		if c.Branch != "" {
			continue
		}
		branch := "trunk"
	children:
		for _, child := range commits {
			for _, p := range child.Parents {
				if p == c.Hash && child.Branch != "" {
					branch = child.Branch
					break children
				}
			}
		}
		c.Branch = branch
	}
}

type branchHead struct {
	name string
	hash string
}

func branchHeadsByPriority(refMap map[string][]Ref, currentBranch string) []branchHead {
	var current, rest []branchHead
	for hash, refs := range refMap {
		for _, ref := range refs {
			if ref.RefType != RefTypeBranch {
				continue
			}
			h := branchHead{name: ref.Name, hash: hash}
			if ref.Name == currentBranch {
				current = append(current, h)
			} else {
				rest = append(rest, h)
			}
		}
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i].name < rest[j].name })
	return append(current, rest...)
}

func walkClaim(byHash map[string]*Commit, startHash, branch string, claimed map[string]bool) {
	stack := []string{startHash}
	for len(stack) > 0 {
		hash := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if claimed[hash] {
			continue
		}
		c, ok := byHash[hash]
		if !ok {
			continue
		}
		c.Branch = branch
		claimed[hash] = true

		// First-parent only: a merge's second-and-later parents belong to
		// whatever branch they were already on, not the merge target's
		// branch, so ownership doesn't bleed across merge edges.
		if len(c.Parents) > 0 && !claimed[c.Parents[0]] {
			stack = append(stack, c.Parents[0])
		}
	}
}
