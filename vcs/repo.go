// Package vcs gives a workspace directory a commit-based history.
//
// It wraps go-git and is independent of who makes the changes: the agent
// loop and direct API callers both commit through the same adapter. A
// history store is created lazily on first open with a baseline commit
// capturing whatever the tree already contains.
//
// Revert is a hard reset: it discards the working tree's current state
// and replaces it with the state at the target commit. Uncommitted
// changes and the effects of later commits are lost from the working
// tree. This matches the destructive semantics callers rely on; do not
// soften it into a revert-commit.
//
// Nothing here serializes concurrent commits against one workspace;
// simultaneous commit calls on the same root are undefined unless the
// caller adds its own serialization.
package vcs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// Fixed identity used for the baseline commit.
const (
	systemAuthorName  = "Penfold System"
	systemAuthorEmail = "system@penfold.local"
)

// shortSHALen is the length of abbreviated commit identifiers.
const shortSHALen = 8

// Commit is one snapshot in a workspace's history.
type Commit struct {
	SHA      string    `json:"sha"`
	ShortSHA string    `json:"short_sha"`
	Author   string    `json:"author"`
	Email    string    `json:"email"`
	Message  string    `json:"message"`
	Date     time.Time `json:"date"`
}

// Status is a point-in-time snapshot of working-tree state relative to
// the last commit.
type Status struct {
	Branch     string   `json:"branch"`
	HasChanges bool     `json:"has_changes"`
	Untracked  []string `json:"untracked_files"`
	Modified   []string `json:"modified_files"`
	Staged     []string `json:"staged_files"`
}

// Repository is the version-control adapter for one workspace root.
type Repository struct {
	root string
	repo *git.Repository
}

const gitignoreContent = `# OS
.DS_Store
Thumbs.db

# Editors
*.swp
`

// Open opens the history store at root, initializing it with a baseline
// commit if none exists yet. Repeated opens on the same root are
// idempotent.
func Open(root string) (*Repository, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, &AdapterError{Op: "open", Err: err}
	}
	repo, err := git.PlainOpen(root)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		repo, err = git.PlainInit(root, false)
		if err != nil {
			return nil, &AdapterError{Op: "init", Err: err}
		}
		r := &Repository{root: root, repo: repo}
		if err := r.baselineCommit(); err != nil {
			return nil, err
		}
		return r, nil
	}
	if err != nil {
		return nil, &AdapterError{Op: "open", Err: err}
	}
	return &Repository{root: root, repo: repo}, nil
}

// Root returns the tracked directory.
func (r *Repository) Root() string { return r.root }

// baselineCommit captures every file currently present under root in a
// single initial commit authored by the system identity.
func (r *Repository) baselineCommit() error {
	gitignore := filepath.Join(r.root, ".gitignore")
	if _, err := os.Stat(gitignore); os.IsNotExist(err) {
		if err := os.WriteFile(gitignore, []byte(gitignoreContent), 0o644); err != nil {
			return &AdapterError{Op: "init", Err: err}
		}
	}

	wt, err := r.repo.Worktree()
	if err != nil {
		return &AdapterError{Op: "init", Err: err}
	}
	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return &AdapterError{Op: "init", Err: err}
	}
	sig := &object.Signature{Name: systemAuthorName, Email: systemAuthorEmail, When: time.Now()}
	_, err = wt.Commit("Initial commit", &git.CommitOptions{
		Author:            sig,
		Committer:         sig,
		AllowEmptyCommits: true,
	})
	if err != nil {
		return &AdapterError{Op: "init", Err: err}
	}
	return nil
}

// Commit stages all current additions, modifications and deletions under
// root and commits them with the given author. A clean tree yields an
// empty commit id and a nil error; having nothing to commit is a normal
// outcome, not a failure.
func (r *Repository) Commit(message, authorName, authorEmail string) (string, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return "", &AdapterError{Op: "commit", Err: err}
	}
	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return "", &AdapterError{Op: "commit", Err: err}
	}
	status, err := wt.Status()
	if err != nil {
		return "", &AdapterError{Op: "commit", Err: err}
	}
	if status.IsClean() {
		return "", nil
	}
	if authorName == "" {
		authorName = systemAuthorName
	}
	if authorEmail == "" {
		authorEmail = systemAuthorEmail
	}
	sig := &object.Signature{Name: authorName, Email: authorEmail, When: time.Now()}
	hash, err := wt.Commit(message, &git.CommitOptions{Author: sig, Committer: sig})
	if err != nil {
		return "", &AdapterError{Op: "commit", Err: err}
	}
	return hash.String(), nil
}

// History returns up to maxCount commits, most recent first. A non-empty
// pathFilter restricts the walk to commits touching that path (file or
// directory prefix).
func (r *Repository) History(maxCount int, pathFilter string) ([]Commit, error) {
	head, err := r.repo.Head()
	if err != nil {
		return nil, &AdapterError{Op: "history", Err: err}
	}
	opts := &git.LogOptions{From: head.Hash()}
	if pathFilter != "" {
		filter := filepath.ToSlash(pathFilter)
		opts.PathFilter = func(p string) bool {
			return p == filter || strings.HasPrefix(p, filter+"/")
		}
	}
	iter, err := r.repo.Log(opts)
	if err != nil {
		return nil, &AdapterError{Op: "history", Err: err}
	}
	defer iter.Close()

	var commits []Commit
	err = iter.ForEach(func(c *object.Commit) error {
		if maxCount > 0 && len(commits) >= maxCount {
			return storer.ErrStop
		}
		commits = append(commits, toCommit(c))
		return nil
	})
	if err != nil && !errors.Is(err, storer.ErrStop) {
		return nil, &AdapterError{Op: "history", Err: err}
	}
	return commits, nil
}

func toCommit(c *object.Commit) Commit {
	return Commit{
		SHA:      c.Hash.String(),
		ShortSHA: c.Hash.String()[:shortSHALen],
		Author:   c.Author.Name,
		Email:    c.Author.Email,
		Message:  strings.TrimSpace(c.Message),
		Date:     c.Author.When,
	}
}

// resolve turns a full or abbreviated hex commit reference into the
// commit object it names.
func (r *Repository) resolve(ref string) (*object.Commit, error) {
	hash, err := r.repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return nil, &NotFoundError{Ref: ref}
	}
	commit, err := r.repo.CommitObject(*hash)
	if err != nil {
		return nil, &NotFoundError{Ref: ref}
	}
	return commit, nil
}

// Diff returns the unified diff of the referenced commit against its
// parent, or against the empty tree for the root commit. Full and short
// identifiers are both accepted.
func (r *Repository) Diff(ref string) (string, error) {
	commit, err := r.resolve(ref)
	if err != nil {
		return "", err
	}
	var parentTree *object.Tree
	if commit.NumParents() > 0 {
		parent, err := commit.Parent(0)
		if err != nil {
			return "", &AdapterError{Op: "diff", Err: err}
		}
		parentTree, err = parent.Tree()
		if err != nil {
			return "", &AdapterError{Op: "diff", Err: err}
		}
	}
	tree, err := commit.Tree()
	if err != nil {
		return "", &AdapterError{Op: "diff", Err: err}
	}
	changes, err := object.DiffTree(parentTree, tree)
	if err != nil {
		return "", &AdapterError{Op: "diff", Err: err}
	}
	patch, err := changes.Patch()
	if err != nil {
		return "", &AdapterError{Op: "diff", Err: err}
	}
	return patch.String(), nil
}

// Revert hard-resets the entire tracked tree to the state at ref. Files
// added by later commits are removed from the working tree and
// uncommitted changes are discarded. The unknown-ref case fails with
// NotFoundError before anything is touched.
func (r *Repository) Revert(ref string) error {
	commit, err := r.resolve(ref)
	if err != nil {
		return err
	}
	wt, err := r.repo.Worktree()
	if err != nil {
		return &AdapterError{Op: "revert", Err: err}
	}
	if err := wt.Reset(&git.ResetOptions{Commit: commit.Hash, Mode: git.HardReset}); err != nil {
		return &AdapterError{Op: "revert", Err: err}
	}
	return nil
}

// Status reports the current branch and the working tree's relation to
// the last commit.
func (r *Repository) Status() (*Status, error) {
	head, err := r.repo.Head()
	if err != nil {
		return nil, &AdapterError{Op: "status", Err: err}
	}
	wt, err := r.repo.Worktree()
	if err != nil {
		return nil, &AdapterError{Op: "status", Err: err}
	}
	status, err := wt.Status()
	if err != nil {
		return nil, &AdapterError{Op: "status", Err: err}
	}

	s := &Status{
		Branch:     head.Name().Short(),
		HasChanges: !status.IsClean(),
	}
	for path, fs := range status {
		if fs.Worktree == git.Untracked {
			s.Untracked = append(s.Untracked, path)
			continue
		}
		if fs.Worktree != git.Unmodified {
			s.Modified = append(s.Modified, path)
		}
		if fs.Staging != git.Unmodified && fs.Staging != git.Untracked {
			s.Staged = append(s.Staged, path)
		}
	}
	sort.Strings(s.Untracked)
	sort.Strings(s.Modified)
	sort.Strings(s.Staged)
	return s, nil
}

// FileAt returns the content of path as of the referenced commit.
func (r *Repository) FileAt(ref, path string) (string, error) {
	commit, err := r.resolve(ref)
	if err != nil {
		return "", err
	}
	file, err := commit.File(filepath.ToSlash(path))
	if err != nil {
		if errors.Is(err, object.ErrFileNotFound) {
			return "", &NotFoundError{Ref: fmt.Sprintf("%s:%s", ref, path)}
		}
		return "", &AdapterError{Op: "file-at", Err: err}
	}
	content, err := file.Contents()
	if err != nil {
		return "", &AdapterError{Op: "file-at", Err: err}
	}
	return content, nil
}
