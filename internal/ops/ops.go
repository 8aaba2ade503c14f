// Package ops implements the operations shared by the CLI and MCP surfaces.
package ops

import (
	"context"
	"time"
)

// Repo is the version-control surface a scaffolding run needs. Implemented by
// gitrepo.Client; faked in tests.
type Repo interface {
	CheckoutBranch(name string) error
	Pull(ctx context.Context, remote, branch string) error
	CreateBranch(name string) error
}

// ContentGenerator invokes the site generator's new-content operation.
type ContentGenerator interface {
	NewContent(ctx context.Context, kind, path string) error
}

// Inspector provides the read-only repository views the doctor operation uses.
type Inspector interface {
	CurrentBranch() (string, error)
	IsClean() (bool, error)
	BranchExists(name string) (bool, error)
	HasRemote(name string) (bool, error)
}

// Deps bundles the external collaborators of a scaffolding run.
type Deps struct {
	Repo Repo
	Gen  ContentGenerator
	Now  func() time.Time // nil: time.Now
}

func (d Deps) now() time.Time {
	if d.Now == nil {
		return time.Now()
	}
	return d.Now()
}
