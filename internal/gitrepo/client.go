// Package gitrepo wraps go-git operations on the blog's working copy.
package gitrepo

import (
	"context"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/yamori/draft/internal/errors"
)

// Client provides git operations on a single local repository.
type Client struct {
	repo *git.Repository
	path string
}

// Open opens the repository containing path, walking upward to find .git.
func Open(path string) (*Client, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, errors.NewNotARepository(path, err)
	}
	return &Client{repo: repo, path: path}, nil
}

// Path returns the path the client was opened with.
func (c *Client) Path() string {
	return c.path
}

// CheckoutBranch switches the working copy to an existing local branch.
func (c *Client) CheckoutBranch(name string) error {
	worktree, err := c.repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}

	err = worktree.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(name),
	})
	if err != nil {
		return fmt.Errorf("failed to checkout %s: %w", name, err)
	}
	return nil
}

// Pull fetches and merges branch from remote into the working copy.
// An already-up-to-date repository is not an error.
func (c *Client) Pull(ctx context.Context, remote, branch string) error {
	worktree, err := c.repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}

	err = worktree.PullContext(ctx, &git.PullOptions{
		RemoteName:    remote,
		ReferenceName: plumbing.NewBranchReferenceName(branch),
		SingleBranch:  true,
	})
	if err != nil && err != git.NoErrAlreadyUpToDate {
		return fmt.Errorf("failed to pull %s from %s: %w", branch, remote, err)
	}
	return nil
}

// CreateBranch creates a new branch at HEAD and switches the working copy to it.
func (c *Client) CreateBranch(name string) error {
	worktree, err := c.repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}

	err = worktree.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(name),
		Create: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create branch %s: %w", name, err)
	}
	return nil
}

// CurrentBranch returns the short name of the branch HEAD points at.
func (c *Client) CurrentBranch() (string, error) {
	head, err := c.repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	if !head.Name().IsBranch() {
		return "", fmt.Errorf("HEAD is detached at %s", head.Hash())
	}
	return head.Name().Short(), nil
}

// IsClean reports whether the worktree has no uncommitted changes.
func (c *Client) IsClean() (bool, error) {
	worktree, err := c.repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("failed to get worktree: %w", err)
	}

	status, err := worktree.Status()
	if err != nil {
		return false, fmt.Errorf("failed to get worktree status: %w", err)
	}
	return status.IsClean(), nil
}

// BranchExists reports whether a local branch with the given name exists.
func (c *Client) BranchExists(name string) (bool, error) {
	_, err := c.repo.Reference(plumbing.NewBranchReferenceName(name), false)
	if err == plumbing.ErrReferenceNotFound {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up branch %s: %w", name, err)
	}
	return true, nil
}

// HasRemote reports whether the named remote is configured.
func (c *Client) HasRemote(name string) (bool, error) {
	_, err := c.repo.Remote(name)
	if err == git.ErrRemoteNotFound {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up remote %s: %w", name, err)
	}
	return true, nil
}
