package git

import (
	"os/exec"
	"strconv"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/pkg/errors"
)

// runGit shells out for the handful of operations go-git handles poorly or
// not at all: push/pull/fetch need the system's credential helper and SSH
// agent, and diff/status formatting is simpler read verbatim from porcelain
// output than rebuilt from go-git's object model.
func (r *Repository) runGit(args ...string) ([]byte, error) {
	cmd := exec.Command("git", append([]string{"-C", r.path}, args...)...)
	out, err := cmd.Output()
	if err != nil {
		return out, errors.Wrapf(err, "git %s", strings.Join(args, " "))
	}
	return out, nil
}

func (r *Repository) Push() error {
	_, err := r.runGit("push")
	return err
}

func (r *Repository) Pull(rebase bool) error {
	args := []string{"pull"}
	if rebase {
		args = append(args, "--rebase")
	}
	_, err := r.runGit(args...)
	return err
}

func (r *Repository) Fetch() error {
	_, err := r.runGit("fetch", "--all")
	return err
}

// Checkout switches the working tree to branch using go-git's worktree API
// rather than shelling out, since it touches no remote and needs no
// credential helper.
func (r *Repository) Checkout(branch string) error {
	wt, err := r.repo.Worktree()
	if err != nil {
		return errors.Wrap(err, "open worktree")
	}
	err = wt.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(branch),
	})
	return errors.Wrapf(err, "checkout %s", branch)
}

// Commit stages every tracked and untracked change and commits it via
// go-git's worktree API. There is no staging UI yet, so the stage is
// always "everything".
func (r *Repository) Commit(message string) error {
	wt, err := r.repo.Worktree()
	if err != nil {
		return errors.Wrap(err, "open worktree")
	}
	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return errors.Wrap(err, "stage changes")
	}
	_, err = wt.Commit(message, &git.CommitOptions{})
	return errors.Wrap(err, "commit")
}

func (r *Repository) GetDiff(hash string) (string, error) {
	out, err := r.runGit("show", "--no-color", "--format=", hash)
	return string(out), err
}

func (r *Repository) GetChangedFiles(hash string) ([]ChangedFile, error) {
	statusOut, err := r.runGit("diff-tree", "--no-commit-id", "--name-status", "-r", hash)
	if err != nil {
		return nil, err
	}

	// Per-file line stats are best-effort; a binary file or a shallow
	// history edge can make numstat empty without invalidating the names.
	numstatOut, _ := r.runGit("diff-tree", "--no-commit-id", "--numstat", "-r", hash)
	stats := parseNumstat(string(numstatOut))

	var files []ChangedFile
	for _, line := range strings.Split(strings.TrimSpace(string(statusOut)), "\n") {
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "\t", 2)
		if len(parts) != 2 {
			continue
		}
		s := stats[parts[1]]
		files = append(files, ChangedFile{
			Status:    parts[0],
			Path:      parts[1],
			Additions: s[0],
			Deletions: s[1],
		})
	}
	return files, nil
}

func (r *Repository) GetFileDiff(hash, filePath string) (string, error) {
	out, err := r.runGit("show", "--no-color", "--format=", hash, "--", filePath)
	return string(out), err
}

// GetWorkingTreeFiles returns all staged and unstaged changed files in the
// working tree, with per-file line stats vs HEAD.
func (r *Repository) GetWorkingTreeFiles() ([]ChangedFile, error) {
	statusOut, err := r.runGit("status", "--porcelain")
	if err != nil {
		return nil, err
	}

	numstatOut, _ := r.runGit("diff", "--numstat", "HEAD")
	stats := parseNumstat(string(numstatOut))

	var files []ChangedFile
	for _, line := range strings.Split(string(statusOut), "\n") {
		if len(line) < 4 {
			continue
		}
		// Porcelain format: XY <path>, X = index status, Y = worktree status.
		xy := line[:2]
		path := line[3:]

		status := "M"
		switch {
		case xy[0] == '?' || xy[1] == '?':
			status = "?"
		case xy[0] == 'A' || xy[1] == 'A':
			status = "A"
		case xy[0] == 'D' || xy[1] == 'D':
			status = "D"
		case xy[0] == 'R' || xy[1] == 'R':
			status = "R"
		}

		s := stats[path]
		files = append(files, ChangedFile{
			Status:    status,
			Path:      path,
			Additions: s[0],
			Deletions: s[1],
		})
	}
	return files, nil
}

// GetWorkingTreeFileDiff returns the diff for a single file in the working
// tree: the staged diff if there is one, otherwise the unstaged diff, and
// a whole-file add for untracked paths. Staged and unstaged hunks are not
// combined.
func (r *Repository) GetWorkingTreeFileDiff(filePath string) (string, error) {
	unstaged, _ := r.runGit("diff", "--no-color", "--", filePath)
	staged, _ := r.runGit("diff", "--cached", "--no-color", "--", filePath)

	if len(unstaged) == 0 && len(staged) == 0 {
		untracked, _ := r.runGit("diff", "--no-color", "--no-index", "/dev/null", filePath)
		return string(untracked), nil
	}
	if len(staged) > 0 {
		return string(staged), nil
	}
	return string(unstaged), nil
}

// HasWorkingTreeChanges returns true if there are any uncommitted changes.
func (r *Repository) HasWorkingTreeChanges() bool {
	out, err := r.runGit("status", "--porcelain")
	return err == nil && len(strings.TrimSpace(string(out))) > 0
}

// parseNumstat turns `git diff --numstat` output into a path -> (additions,
// deletions) map; "-" counts (binary files) parse to 0.
func parseNumstat(out string) map[string][2]int {
	stats := make(map[string][2]int)
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "\t", 3)
		if len(parts) != 3 {
			continue
		}
		adds, _ := strconv.Atoi(parts[0])
		dels, _ := strconv.Atoi(parts[1])
		stats[parts[2]] = [2]int{adds, dels}
	}
	return stats
}
