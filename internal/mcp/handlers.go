package mcp

import (
	"context"
	"encoding/json"
	"os"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/yamori/draft/internal/config"
	"github.com/yamori/draft/internal/errors"
	"github.com/yamori/draft/internal/generator"
	"github.com/yamori/draft/internal/gitrepo"
	"github.com/yamori/draft/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	cfg *config.Config

	// openDeps builds the run dependencies lazily so tools that need no
	// repository (post_plan, post_list) work outside one. Replaced in tests.
	openDeps func() (ops.Deps, error)
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(cfg *config.Config) *Handlers {
	return &Handlers{
		cfg: cfg,
		openDeps: func() (ops.Deps, error) {
			client, err := gitrepo.Open(cfg.SiteDir)
			if err != nil {
				return ops.Deps{}, err
			}
			gen := generator.New(cfg.Generator, cfg.SiteDir)
			// stdout carries the MCP protocol; the generator's output goes
			// to stderr instead.
			gen.Stdout = os.Stderr
			gen.Stderr = os.Stderr
			return ops.Deps{Repo: client, Gen: gen}, nil
		},
	}
}

// Tool definitions

var planToolDef = mcp.NewTool("post_plan",
	mcp.WithDescription("Resolve the branch, template kind, and destination path for a new blog post without performing any side effects"),
	mcp.WithString("category", mcp.Required(),
		mcp.Description("Content category: article, architecture-note, csharp-tip, how-to, or what-is")),
	mcp.WithString("slug", mcp.Required(),
		mcp.Description("Slug for the new post (forms its path and branch name)")),
)

var scaffoldToolDef = mcp.NewTool("post_scaffold",
	mcp.WithDescription("Scaffold a new blog post: sync the default branch, create the post branch when the category has one, and invoke the site generator"),
	mcp.WithString("category", mcp.Required(),
		mcp.Description("Content category: article, architecture-note, csharp-tip, how-to, or what-is")),
	mcp.WithString("slug", mcp.Required(),
		mcp.Description("Slug for the new post (forms its path and branch name)")),
	mcp.WithBoolean("dry_run",
		mcp.Description("Resolve the plan but perform no repository or generator side effects")),
)

var listToolDef = mcp.NewTool("post_list",
	mcp.WithDescription("List existing posts under the blog's content directory"),
	mcp.WithString("category",
		mcp.Description("Optional category filter")),
	mcp.WithNumber("limit",
		mcp.Description("Maximum items to return (0 = no limit)")),
)

// Request types for each tool

// PlanRequest represents the arguments for post_plan.
type PlanRequest struct {
	Category string `json:"category"`
	Slug     string `json:"slug"`
}

// ScaffoldRequest represents the arguments for post_scaffold.
type ScaffoldRequest struct {
	Category string `json:"category"`
	Slug     string `json:"slug"`
	DryRun   bool   `json:"dry_run,omitempty"`
}

// ListRequest represents the arguments for post_list.
type ListRequest struct {
	Category string `json:"category,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

// HandlePlan handles the post_plan tool call.
func (h *Handlers) HandlePlan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[PlanRequest](req)
	if err != nil {
		return errorResult(errors.NewInternal(err)), nil
	}

	result, err := ops.Plan(ops.Deps{}, ops.PlanInput{
		Category: input.Category,
		Slug:     input.Slug,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleScaffold handles the post_scaffold tool call.
func (h *Handlers) HandleScaffold(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ScaffoldRequest](req)
	if err != nil {
		return errorResult(errors.NewInternal(err)), nil
	}

	// Validate before opening the repository so bad input reports its own
	// error code regardless of where the server runs.
	if _, err := ops.Plan(ops.Deps{}, ops.PlanInput{Category: input.Category, Slug: input.Slug}); err != nil {
		return errorResult(err), nil
	}

	deps := ops.Deps{}
	if !input.DryRun {
		deps, err = h.openDeps()
		if err != nil {
			return errorResult(err), nil
		}
	}

	result, err := ops.New(ctx, deps, h.cfg, ops.NewInput{
		Category: input.Category,
		Slug:     input.Slug,
		DryRun:   input.DryRun,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleList handles the post_list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ListRequest](req)
	if err != nil {
		return errorResult(errors.NewInternal(err)), nil
	}

	result, err := ops.List(h.cfg, ops.ListInput{
		Category: input.Category,
		Limit:    input.Limit,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if dErr, ok := err.(*errors.DraftError); ok {
		errorObj := map[string]any{
			"code":    dErr.Code,
			"message": dErr.Message,
			"status":  dErr.Status,
		}
		// Internal details stay out of the payload to avoid leaking paths.
		if dErr.Code != errors.ErrInternal && dErr.Details != nil {
			details := make(map[string]any, len(dErr.Details))
			for k, v := range dErr.Details {
				if k == "cause" {
					continue // error values don't marshal usefully
				}
				details[k] = v
			}
			errorObj["details"] = details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
