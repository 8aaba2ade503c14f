package ops

import (
	"context"
	"strings"

	"github.com/yamori/draft/internal/config"
	"github.com/yamori/draft/internal/errors"
	"github.com/yamori/draft/internal/scaffold"
)

// NewInput contains parameters for the New operation.
type NewInput struct {
	Category string // required, one of the fixed category set
	Slug     string // required
	DryRun   bool   // resolve the plan but perform no side effects
}

// NewOutput contains the result of the New operation.
type NewOutput struct {
	Category string        `json:"category"`
	Slug     string        `json:"slug"`
	Plan     scaffold.Plan `json:"plan"`
	DryRun   bool          `json:"dry_run,omitempty"`
	Steps    []string      `json:"steps,omitempty"` // executed steps, in order
}

// New scaffolds a new post: sync the default branch, create the post branch
// when the category has one, then invoke the generator. Input is validated
// before any side effect; any failing step aborts the run with no rollback —
// git history and the filesystem are the source of truth and are left as-is
// for manual inspection.
func New(ctx context.Context, deps Deps, cfg *config.Config, input NewInput) (*NewOutput, error) {
	if strings.TrimSpace(input.Category) == "" {
		return nil, errors.NewMissingArgument("category")
	}

	category, err := scaffold.ParseCategory(input.Category)
	if err != nil {
		return nil, err
	}

	plan, err := scaffold.Resolve(scaffold.Request{Category: category, Slug: input.Slug}, deps.now())
	if err != nil {
		return nil, err
	}

	output := &NewOutput{
		Category: string(category),
		Slug:     input.Slug,
		Plan:     plan,
		DryRun:   input.DryRun,
	}
	if input.DryRun {
		return output, nil
	}

	// Strict sequential pipeline: each step runs only after the previous
	// one reported success.
	if err := deps.Repo.CheckoutBranch(cfg.DefaultBranch); err != nil {
		return nil, errors.NewSyncFailed(cfg.DefaultBranch, err)
	}
	output.Steps = append(output.Steps, "checkout "+cfg.DefaultBranch)

	if err := deps.Repo.Pull(ctx, cfg.Remote, cfg.DefaultBranch); err != nil {
		return nil, errors.NewSyncFailed(cfg.DefaultBranch, err)
	}
	output.Steps = append(output.Steps, "pull "+cfg.Remote+" "+cfg.DefaultBranch)

	if plan.Branch != "" {
		if err := deps.Repo.CreateBranch(plan.Branch); err != nil {
			return nil, errors.NewBranchFailed(plan.Branch, err)
		}
		output.Steps = append(output.Steps, "branch "+plan.Branch)
	}

	if err := deps.Gen.NewContent(ctx, plan.Kind, plan.Path); err != nil {
		return nil, err
	}
	output.Steps = append(output.Steps, "generate "+plan.Kind+" "+plan.Path)

	return output, nil
}
