// Package vcs wraps the git command line client. Each component keeps a
// working clone of its upstream repository and all pending translation
// edits are committed there before being pushed.
package vcs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
)

// ErrNotRepository is returned when opening a directory that is not a
// git checkout.
var ErrNotRepository = errors.New("vcs: not a git repository")

// Repo is a git working copy.
type Repo struct {
	Path   string
	Branch string

	// Committer identity used for commits made by the platform itself.
	CommitterName  string
	CommitterEmail string
}

// Open returns a handle to an existing checkout.
func Open(path, branch string) (*Repo, error) {
	if _, err := os.Stat(filepath.Join(path, ".git")); err != nil {
		return nil, ErrNotRepository
	}
	return &Repo{Path: path, Branch: branch}, nil
}

// Clone creates a new checkout of url at path on the given branch.
func Clone(ctx context.Context, url, branch, path string) (*Repo, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	args := []string{"clone", "--branch", branch, url, path}
	cmd := exec.CommandContext(ctx, "git", args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, gitError("clone", err, out)
	}
	return &Repo{Path: path, Branch: branch}, nil
}

// CloneOrOpen opens the checkout at path, cloning it first when missing.
func CloneOrOpen(ctx context.Context, url, branch, path string) (*Repo, error) {
	repo, err := Open(path, branch)
	if err == nil {
		return repo, nil
	}
	if !errors.Is(err, ErrNotRepository) {
		return nil, err
	}
	log.WithFields(log.Fields{"url": url, "path": path}).Info("cloning repository")
	return Clone(ctx, url, branch, path)
}

func (r *Repo) git(ctx context.Context, args ...string) (string, error) {
	full := args
	if r.CommitterName != "" {
		full = append([]string{
			"-c", "user.name=" + r.CommitterName,
			"-c", "user.email=" + r.CommitterEmail,
		}, args...)
	}
	cmd := exec.CommandContext(ctx, "git", full...)
	cmd.Dir = r.Path
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", gitError(args[0], err, out)
	}
	return strings.TrimRight(string(out), "\n"), nil
}

func gitError(op string, err error, out []byte) error {
	msg := strings.TrimSpace(string(out))
	if msg == "" {
		return fmt.Errorf("vcs: git %s: %w", op, err)
	}
	return fmt.Errorf("vcs: git %s: %w: %s", op, err, msg)
}

// Update fetches the remote and merges the tracking branch into the
// working copy.
func (r *Repo) Update(ctx context.Context) error {
	if _, err := r.git(ctx, "fetch", "origin"); err != nil {
		return err
	}
	_, err := r.git(ctx, "merge", "--no-edit", "origin/"+r.Branch)
	return err
}

// NeedsCommit reports whether the working copy has uncommitted changes,
// optionally limited to the given paths.
func (r *Repo) NeedsCommit(ctx context.Context, paths ...string) (bool, error) {
	args := []string{"status", "--porcelain"}
	if len(paths) > 0 {
		args = append(append(args, "--"), paths...)
	}
	out, err := r.git(ctx, args...)
	if err != nil {
		return false, err
	}
	return out != "", nil
}

// Commit records pending changes to the given paths. Author is in the
// usual "Name <email>" form; when empty the committer identity is used.
func (r *Repo) Commit(ctx context.Context, message, author string, paths ...string) error {
	addArgs := []string{"add", "--"}
	if len(paths) == 0 {
		addArgs = []string{"add", "-A"}
	} else {
		addArgs = append(addArgs, paths...)
	}
	if _, err := r.git(ctx, addArgs...); err != nil {
		return err
	}
	commitArgs := []string{"commit", "-m", message}
	if author != "" {
		commitArgs = append(commitArgs, "--author", author)
	}
	_, err := r.git(ctx, commitArgs...)
	return err
}

// Push publishes the local branch to origin.
func (r *Repo) Push(ctx context.Context) error {
	_, err := r.git(ctx, "push", "origin", r.Branch)
	return err
}

// LastRevision returns the hash of the current HEAD.
func (r *Repo) LastRevision(ctx context.Context) (string, error) {
	return r.git(ctx, "rev-parse", "HEAD")
}

// Status returns the human readable repository status shown on the
// management pages.
func (r *Repo) Status(ctx context.Context) (string, error) {
	return r.git(ctx, "status")
}

// NeedsPush reports whether local commits are missing on the remote
// tracking branch.
func (r *Repo) NeedsPush(ctx context.Context) (bool, error) {
	out, err := r.git(ctx, "log", "--format=%H", "origin/"+r.Branch+"..HEAD")
	if err != nil {
		return false, err
	}
	return out != "", nil
}
