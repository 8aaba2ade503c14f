package ops

import (
	"path/filepath"

	"github.com/yamori/draft/internal/config"
	"github.com/yamori/draft/internal/content"
	"github.com/yamori/draft/internal/errors"
	"github.com/yamori/draft/internal/scaffold"
)

// ListInput contains parameters for the List operation.
type ListInput struct {
	Category string // optional filter; empty means all categories
	Limit    int    // 0 means no limit
}

// ListOutput contains the result of the List operation.
type ListOutput struct {
	Items []content.Post `json:"items"`
	Total int            `json:"total"`
}

// List enumerates existing posts under the configured content root.
func List(cfg *config.Config, input ListInput) (*ListOutput, error) {
	categories := scaffold.Categories()
	if input.Category != "" {
		category, err := scaffold.ParseCategory(input.Category)
		if err != nil {
			return nil, err
		}
		categories = []scaffold.Category{category}
	}

	contentRoot := filepath.Join(cfg.SiteDir, cfg.ContentDir)
	posts, err := content.ListPosts(contentRoot, categories)
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	total := len(posts)
	if input.Limit > 0 && len(posts) > input.Limit {
		posts = posts[:input.Limit]
	}

	return &ListOutput{Items: posts, Total: total}, nil
}
