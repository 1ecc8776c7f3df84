// Package git initializes a local git repository in a scaffolded project.
// It uses go-git so no git binary is required and nothing touches the network.
package git

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// DefaultBranch is the initial branch of repositories created by pystrap.
const DefaultBranch = "main"

// InitResult describes the repository found or created at a root.
type InitResult struct {
	// Root is the worktree root of the repository.
	Root string
	// Created is false when root was already inside a repository.
	Created bool
	// Branch is the branch HEAD points at.
	Branch string
}

// Opener abstracts the method of opening a git repository
// This allows for dependency injection in tests
type Opener interface {
	// Open opens the repository containing path, searching parent
	// directories. It returns git.ErrRepositoryNotExists when there is none.
	Open(path string) (*git.Repository, error)
}

// DefaultOpener implements Opener using go-git's PlainOpenWithOptions
type DefaultOpener struct{}

// Open opens the repository containing path.
func (DefaultOpener) Open(path string) (*git.Repository, error) {
	return git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
}

// InitRepository creates a repository at root unless root already belongs
// to one, in which case the enclosing repository is reported unchanged.
func InitRepository(root string) (*InitResult, error) {
	return initRepository(DefaultOpener{}, root, DefaultBranch)
}

func initRepository(opener Opener, root, branch string) (*InitResult, error) {
	existing, err := opener.Open(root)
	switch {
	case err == nil:
		return describe(existing, root, false)
	case !errors.Is(err, git.ErrRepositoryNotExists):
		return nil, fmt.Errorf("checking for an existing repository at %s: %w", root, err)
	}

	repo, err := git.PlainInitWithOptions(root, &git.PlainInitOptions{
		InitOptions: git.InitOptions{DefaultBranch: plumbing.NewBranchReferenceName(branch)},
	})
	if err != nil {
		return nil, fmt.Errorf("initializing repository at %s: %w", root, err)
	}
	return describe(repo, root, true)
}

func describe(repo *git.Repository, root string, created bool) (*InitResult, error) {
	res := &InitResult{Root: root, Created: created}

	if wt, err := repo.Worktree(); err == nil {
		res.Root = wt.Filesystem.Root()
	}

	branch, err := HeadBranch(repo)
	if err != nil {
		return nil, err
	}
	res.Branch = branch
	return res, nil
}

// HeadBranch returns the short name of the branch HEAD points at, which may
// not have any commits yet. It returns "detached" for a detached HEAD.
func HeadBranch(repo *git.Repository) (string, error) {
	head, err := repo.Storer.Reference(plumbing.HEAD)
	if err != nil {
		return "", fmt.Errorf("reading HEAD: %w", err)
	}
	if head.Type() == plumbing.SymbolicReference {
		return head.Target().Short(), nil
	}
	return "detached", nil
}
