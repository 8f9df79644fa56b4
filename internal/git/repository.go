package git

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/pkg/errors"
)

type Repository struct {
	repo *git.Repository
	path string
}

type Commit struct {
	Hash      string
	ShortHash string
	Author    string
	Email     string
	Date      time.Time
	Message   string
	Subject   string
	Parents   []string
	Refs      []Ref

	// Branch is the single branch label assigned during graph layout; see
	// DeriveBranches. Empty until that pass runs.
	Branch string
	// IsLeaf is true when no other commit in the fetched window names this
	// one as a parent.
	IsLeaf bool
	// CherrypickSource is the hash this commit was cherry-picked from, if
	// its message carries a "cherry picked from commit" trailer and that
	// hash is present in the fetched window. Empty otherwise.
	CherrypickSource string
}

type Ref struct {
	Name     string
	RefType  RefType
	IsHead   bool
	IsRemote bool
}

type RefType int

const (
	RefTypeBranch RefType = iota
	RefTypeTag
)

// UncommittedHash is a sentinel hash used for the synthetic "Uncommitted changes"
// entry at the top of the commit list.
const UncommittedHash = "0000000000000000000000000000000000000000"

// UncommittedShortHash is the short hash displayed for uncommitted changes.
const UncommittedShortHash = "·······"

type ChangedFile struct {
	Status    string // "A" added, "M" modified, "D" deleted, "R" renamed, "?" untracked
	Path      string
	Additions int // lines added (0 for binary files)
	Deletions int // lines removed (0 for binary files)
}

type Branch struct {
	Name      string
	IsHead    bool
	IsCurrent bool
	Hash      string
}

func OpenRepository(path string) (*Repository, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open repository at %s", path)
	}

	return &Repository{
		repo: repo,
		path: path,
	}, nil
}

// Path returns the filesystem path of the repository root.
func (r *Repository) Path() string {
	return r.path
}

// recordSep and fieldSep delimit git log output. \x1e (record separator)
// closes each commit record after its free-form body, which may itself
// contain newlines; \x00 (NUL) cannot appear in any field including the
// body, so it safely separates the fixed-width fields within a record.
const recordSep = "\x1e"
const fieldSep = "\x00"

func (r *Repository) GetCommits(limit int) ([]*Commit, error) {
	refMap := r.buildRefMap()

	// Use git log shell command instead of go-git's Log, which fails to
	// return commits from all branches in proper topological order.
	format := "%H" + fieldSep + "%P" + fieldSep + "%an" + fieldSep + "%ae" +
		fieldSep + "%at" + fieldSep + "%s" + fieldSep + "%B" + recordSep
	args := []string{
		"-C", r.path,
		"log", "--all", "--topo-order",
		fmt.Sprintf("--format=%s", format),
		fmt.Sprintf("-%d", limit),
	}

	cmd := exec.Command("git", args...)
	out, err := cmd.Output()
	if err != nil {
		return nil, errors.Wrap(err, "git log")
	}

	records := strings.Split(string(out), recordSep)
	commits := make([]*Commit, 0, len(records))

	for _, rec := range records {
		rec = strings.TrimPrefix(rec, "\n")
		if strings.TrimSpace(rec) == "" {
			continue
		}

		parts := strings.SplitN(rec, fieldSep, 7)
		if len(parts) < 7 {
			continue // malformed record
		}

		hash := parts[0]
		parentStr := parts[1]
		author := parts[2]
		email := parts[3]
		tsStr := parts[4]
		subject := parts[5]
		body := strings.TrimSuffix(parts[6], "\n")

		var parents []string
		if parentStr != "" {
			parents = strings.Split(parentStr, " ")
		}

		ts, err := strconv.ParseInt(tsStr, 10, 64)
		if err != nil {
			ts = 0
		}

		refs := refMap[hash]
		shortHash := hash
		if len(hash) >= 7 {
			shortHash = hash[:7]
		}

		commits = append(commits, &Commit{
			Hash:             hash,
			ShortHash:        shortHash,
			Author:           author,
			Email:            email,
			Date:             time.Unix(ts, 0),
			Message:          body,
			Subject:          subject,
			Parents:          parents,
			Refs:             refs,
			CherrypickSource: parseCherrypickSource(body),
		})
	}

	// Keep a cherry-pick source only when it names a commit in this window.
	inWindow := make(map[string]bool, len(commits))
	for _, c := range commits {
		inWindow[c.Hash] = true
	}
	for _, c := range commits {
		if !inWindow[c.CherrypickSource] {
			c.CherrypickSource = ""
		}
	}

	DeriveLeaves(commits)
	DeriveBranches(commits, refMap, r.currentBranch())

	return commits, nil
}

// currentBranch returns the short name of HEAD's branch, or "" if detached.
func (r *Repository) currentBranch() string {
	head, err := r.repo.Head()
	if err != nil || !head.Name().IsBranch() {
		return ""
	}
	return head.Name().Short()
}

func (r *Repository) buildRefMap() map[string][]Ref {
	refMap := make(map[string][]Ref)

	head, _ := r.repo.Head()
	headName := ""
	if head != nil {
		headName = head.Name().String()
	}

	refs, err := r.repo.References()
	if err != nil {
		return refMap
	}

	refs.ForEach(func(ref *plumbing.Reference) error {
		hash := ref.Hash().String()
		name := ref.Name()

		if name.IsBranch() {
			refMap[hash] = append(refMap[hash], Ref{
				Name:     name.Short(),
				RefType:  RefTypeBranch,
				IsHead:   name.String() == headName,
				IsRemote: false,
			})
		} else if name.IsRemote() {
			refMap[hash] = append(refMap[hash], Ref{
				Name:     name.Short(),
				RefType:  RefTypeBranch,
				IsHead:   false,
				IsRemote: true,
			})
		} else if name.IsTag() {
			refMap[hash] = append(refMap[hash], Ref{
				Name:     name.Short(),
				RefType:  RefTypeTag,
				IsHead:   false,
				IsRemote: false,
			})
		}
		return nil
	})

	return refMap
}

func (r *Repository) GetBranches() ([]*Branch, error) {
	branches := []*Branch{}

	head, err := r.repo.Head()
	if err != nil {
		return nil, err
	}

	refs, err := r.repo.References()
	if err != nil {
		return nil, err
	}

	err = refs.ForEach(func(ref *plumbing.Reference) error {
		if ref.Name().IsBranch() {
			branchName := ref.Name().Short()
			isHead := ref.Name() == head.Name()

			branches = append(branches, &Branch{
				Name:      branchName,
				IsHead:    isHead,
				IsCurrent: isHead,
				Hash:      ref.Hash().String(),
			})
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	return branches, nil
}
