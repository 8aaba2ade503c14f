package ops

import (
	"strings"

	"github.com/yamori/draft/internal/errors"
	"github.com/yamori/draft/internal/scaffold"
)

// PlanInput contains parameters for the Plan operation.
type PlanInput struct {
	Category string
	Slug     string
}

// PlanOutput contains the resolved plan. Pure: no repository or generator
// access happens.
type PlanOutput struct {
	Category string        `json:"category"`
	Slug     string        `json:"slug"`
	Plan     scaffold.Plan `json:"plan"`
}

// Plan resolves the branch/kind/path for a (category, slug) pair without
// performing any side effects.
func Plan(deps Deps, input PlanInput) (*PlanOutput, error) {
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

	return &PlanOutput{
		Category: string(category),
		Slug:     input.Slug,
		Plan:     plan,
	}, nil
}
