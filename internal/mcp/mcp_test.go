package mcp

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/yamori/draft/internal/config"
	"github.com/yamori/draft/internal/errors"
	"github.com/yamori/draft/internal/ops"
)

// makeRequest creates a CallToolRequest with the given arguments.
func makeRequest(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

// resultText extracts the text payload of a tool result.
func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("result has no content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content[0] is %T, want TextContent", result.Content[0])
	}
	return text.Text
}

// fakeRepo records git operations.
type fakeRepo struct {
	calls []string
}

func (f *fakeRepo) CheckoutBranch(name string) error {
	f.calls = append(f.calls, "checkout "+name)
	return nil
}

func (f *fakeRepo) Pull(_ context.Context, remote, branch string) error {
	f.calls = append(f.calls, "pull "+remote+" "+branch)
	return nil
}

func (f *fakeRepo) CreateBranch(name string) error {
	f.calls = append(f.calls, "branch "+name)
	return nil
}

// fakeGen records generator invocations.
type fakeGen struct {
	calls []string
}

func (f *fakeGen) NewContent(_ context.Context, kind, path string) error {
	f.calls = append(f.calls, "new "+kind+" "+path)
	return nil
}

func testHandlers(repo *fakeRepo, gen *fakeGen) *Handlers {
	cfg := config.DefaultConfig()
	h := NewHandlers(cfg)
	h.openDeps = func() (ops.Deps, error) {
		return ops.Deps{
			Repo: repo,
			Gen:  gen,
			Now:  func() time.Time { return time.Date(2023, 1, 10, 0, 0, 0, 0, time.UTC) },
		}, nil
	}
	return h
}

func TestHandlePlan_Success(t *testing.T) {
	h := testHandlers(nil, nil)

	result, err := h.HandlePlan(context.Background(), makeRequest(map[string]any{
		"category": "csharp-tip",
		"slug":     "format-strings",
	}))
	if err != nil {
		t.Fatalf("HandlePlan() error = %v", err)
	}
	if result.IsError {
		t.Fatalf("HandlePlan() returned error result: %s", resultText(t, result))
	}

	var output ops.PlanOutput
	if err := json.Unmarshal([]byte(resultText(t, result)), &output); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if output.Plan.Branch != "cstip/format-strings" {
		t.Errorf("Branch = %q, want %q", output.Plan.Branch, "cstip/format-strings")
	}
	if output.Plan.Path != "csharp-tip/format-strings/index.md" {
		t.Errorf("Path = %q", output.Plan.Path)
	}
}

func TestHandlePlan_MissingSlug(t *testing.T) {
	h := testHandlers(nil, nil)

	result, err := h.HandlePlan(context.Background(), makeRequest(map[string]any{
		"category": "article",
	}))
	if err != nil {
		t.Fatalf("HandlePlan() error = %v", err)
	}
	if !result.IsError {
		t.Fatal("HandlePlan() IsError = false, want true")
	}

	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal([]byte(resultText(t, result)), &payload); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if payload.Error.Code != string(errors.ErrMissingArgument) {
		t.Errorf("error code = %q, want %q", payload.Error.Code, errors.ErrMissingArgument)
	}
}

func TestHandleScaffold_FullRun(t *testing.T) {
	repo := &fakeRepo{}
	gen := &fakeGen{}
	h := testHandlers(repo, gen)

	result, err := h.HandleScaffold(context.Background(), makeRequest(map[string]any{
		"category": "how-to",
		"slug":     "my-new-post",
	}))
	if err != nil {
		t.Fatalf("HandleScaffold() error = %v", err)
	}
	if result.IsError {
		t.Fatalf("HandleScaffold() returned error result: %s", resultText(t, result))
	}

	wantRepo := []string{"checkout master", "pull origin master"}
	if len(repo.calls) != len(wantRepo) {
		t.Fatalf("repo.calls = %v, want %v", repo.calls, wantRepo)
	}
	for i := range wantRepo {
		if repo.calls[i] != wantRepo[i] {
			t.Errorf("repo.calls[%d] = %q, want %q", i, repo.calls[i], wantRepo[i])
		}
	}
	if len(gen.calls) != 1 || gen.calls[0] != "new how-to how-to/my-new-post" {
		t.Errorf("gen.calls = %v", gen.calls)
	}
}

func TestHandleScaffold_DryRunSkipsDeps(t *testing.T) {
	cfg := config.DefaultConfig()
	h := NewHandlers(cfg)
	h.openDeps = func() (ops.Deps, error) {
		t.Fatal("openDeps must not be called for a dry run")
		return ops.Deps{}, nil
	}

	result, err := h.HandleScaffold(context.Background(), makeRequest(map[string]any{
		"category": "article",
		"slug":     "my-post",
		"dry_run":  true,
	}))
	if err != nil {
		t.Fatalf("HandleScaffold() error = %v", err)
	}
	if result.IsError {
		t.Fatalf("HandleScaffold() returned error result: %s", resultText(t, result))
	}
}

func TestHandleScaffold_InvalidInputSkipsRepository(t *testing.T) {
	// Bad input must report its own error code even when no repository is
	// reachable: validation runs before the repository is opened.
	cfg := config.DefaultConfig()
	h := NewHandlers(cfg)
	opened := false
	h.openDeps = func() (ops.Deps, error) {
		opened = true
		return ops.Deps{}, nil
	}

	tests := []struct {
		name     string
		args     map[string]any
		wantCode errors.ErrorCode
	}{
		{"missing slug", map[string]any{"category": "article"}, errors.ErrMissingArgument},
		{"invalid slug", map[string]any{"category": "article", "slug": "has space"}, errors.ErrInvalidSlug},
		{"unknown category", map[string]any{"category": "poem", "slug": "ok"}, errors.ErrUnknownCategory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := h.HandleScaffold(context.Background(), makeRequest(tt.args))
			if err != nil {
				t.Fatalf("HandleScaffold() error = %v", err)
			}
			if !result.IsError {
				t.Fatal("HandleScaffold() IsError = false, want true")
			}

			var payload struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			if err := json.Unmarshal([]byte(resultText(t, result)), &payload); err != nil {
				t.Fatalf("unmarshal result: %v", err)
			}
			if payload.Error.Code != string(tt.wantCode) {
				t.Errorf("error code = %q, want %q", payload.Error.Code, tt.wantCode)
			}
			if opened {
				t.Error("openDeps was called for invalid input")
			}
		})
	}
}

func TestHandleList_EmptyTree(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.SiteDir = t.TempDir()
	h := NewHandlers(cfg)

	result, err := h.HandleList(context.Background(), makeRequest(map[string]any{}))
	if err != nil {
		t.Fatalf("HandleList() error = %v", err)
	}
	if result.IsError {
		t.Fatalf("HandleList() returned error result: %s", resultText(t, result))
	}

	var output ops.ListOutput
	if err := json.Unmarshal([]byte(resultText(t, result)), &output); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if output.Total != 0 {
		t.Errorf("Total = %d, want 0", output.Total)
	}
}

func TestValidateDisabledTools(t *testing.T) {
	unknown := ValidateDisabledTools([]string{"post_plan", "capsule_store"})
	if len(unknown) != 1 || unknown[0] != "capsule_store" {
		t.Errorf("ValidateDisabledTools() = %v, want [capsule_store]", unknown)
	}
}

func TestAllToolNames(t *testing.T) {
	names := AllToolNames()
	if len(names) != 3 {
		t.Fatalf("AllToolNames() = %v, want 3 names", names)
	}
}
