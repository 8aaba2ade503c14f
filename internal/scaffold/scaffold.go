// Package scaffold resolves a (category, slug) pair into the branch, template
// kind, and destination path used to bootstrap a new blog post.
package scaffold

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/yamori/draft/internal/errors"
)

// Category identifies one of the fixed content categories.
type Category string

const (
	CategoryArticle          Category = "article"
	CategoryArchitectureNote Category = "architecture-note"
	CategoryCSharpTip        Category = "csharp-tip"
	CategoryHowTo            Category = "how-to"
	CategoryWhatIs           Category = "what-is"
)

// Request is the single input of a scaffolding run. Built once at process
// start from explicit arguments; immutable afterwards.
type Request struct {
	Category Category
	Slug     string
}

// Plan is the resolved invocation for a request: which branch to create (empty
// means none), which generator kind to use, and where the content goes.
// A Plan is a pure function of (Request, now); it holds no lifecycle of its own.
type Plan struct {
	Branch string `json:"branch,omitempty"`
	Kind   string `json:"kind"`
	Path   string `json:"path"`
}

// categorySpec drives the single scaffolding code path for every category.
type categorySpec struct {
	branchPrefix string // empty: no branch step
	kind         string
	path         func(slug string, year int) string
}

var categoryTable = map[Category]categorySpec{
	CategoryArticle: {
		branchPrefix: "article",
		kind:         "article",
		path: func(slug string, year int) string {
			return "article/" + strconv.Itoa(year) + "/" + slug + "/"
		},
	},
	CategoryArchitectureNote: {
		branchPrefix: "archi-note",
		kind:         "archi",
		path: func(slug string, _ int) string {
			return "architecture-note/" + slug
		},
	},
	CategoryCSharpTip: {
		branchPrefix: "cstip",
		kind:         "cstip",
		path: func(slug string, _ int) string {
			return "csharp-tip/" + slug + "/index.md"
		},
	},
	CategoryHowTo: {
		kind: "how-to",
		path: func(slug string, _ int) string {
			return "how-to/" + slug
		},
	},
	CategoryWhatIs: {
		kind: "what-is",
		path: func(slug string, _ int) string {
			return "what-is/" + slug
		},
	},
}

// categoryOrder fixes the display order for Categories and error messages.
var categoryOrder = []Category{
	CategoryArticle,
	CategoryArchitectureNote,
	CategoryCSharpTip,
	CategoryHowTo,
	CategoryWhatIs,
}

// Categories returns the fixed category set in display order.
func Categories() []Category {
	out := make([]Category, len(categoryOrder))
	copy(out, categoryOrder)
	return out
}

// CategoryNames returns the category names in display order.
func CategoryNames() []string {
	names := make([]string, len(categoryOrder))
	for i, c := range categoryOrder {
		names[i] = string(c)
	}
	return names
}

// ParseCategory maps a user-supplied name onto a known category.
func ParseCategory(name string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := categoryTable[c]; !ok {
		return "", errors.NewUnknownCategory(name, CategoryNames())
	}
	return c, nil
}

// ValidateSlug rejects slugs that cannot safely form a file path or branch
// name. Beyond that the slug is taken literally: branch names and paths
// round-trip it with no transformation.
func ValidateSlug(slug string) error {
	if slug == "" {
		return errors.NewMissingArgument("slug")
	}
	if strings.ContainsAny(slug, " \t\n") {
		return errors.NewInvalidSlug(slug, "contains whitespace")
	}
	if strings.ContainsAny(slug, `/\`) {
		return errors.NewInvalidSlug(slug, "contains a path separator")
	}
	if strings.HasPrefix(slug, ".") {
		return errors.NewInvalidSlug(slug, "starts with a dot")
	}
	return nil
}

// Resolve computes the plan for a request. now supplies the year for
// categories whose path is date-based.
func Resolve(req Request, now time.Time) (Plan, error) {
	spec, ok := categoryTable[req.Category]
	if !ok {
		return Plan{}, errors.NewUnknownCategory(string(req.Category), CategoryNames())
	}
	if err := ValidateSlug(req.Slug); err != nil {
		return Plan{}, err
	}

	plan := Plan{
		Kind: spec.kind,
		Path: spec.path(req.Slug, now.Year()),
	}
	if spec.branchPrefix != "" {
		plan.Branch = fmt.Sprintf("%s/%s", spec.branchPrefix, req.Slug)
	}
	return plan, nil
}

// CreatesBranch reports whether the category's scaffolding run includes a
// branch-create step.
func (c Category) CreatesBranch() bool {
	return categoryTable[c].branchPrefix != ""
}

// Kind returns the generator template kind for the category.
func (c Category) Kind() string {
	return categoryTable[c].kind
}

// BranchPrefix returns the branch prefix, or "" for categories without a
// branch step.
func (c Category) BranchPrefix() string {
	return categoryTable[c].branchPrefix
}

// PathRoot returns the top-level content directory a category's posts live in.
func (c Category) PathRoot() string {
	switch c {
	case CategoryArticle:
		return "article"
	case CategoryArchitectureNote:
		return "architecture-note"
	case CategoryCSharpTip:
		return "csharp-tip"
	case CategoryHowTo:
		return "how-to"
	case CategoryWhatIs:
		return "what-is"
	}
	return string(c)
}
