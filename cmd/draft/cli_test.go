package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/urfave/cli/v2"

	"github.com/yamori/draft/internal/config"
	"github.com/yamori/draft/internal/errors"
	"github.com/yamori/draft/internal/ops"
)

// captureStdout runs fn while capturing everything written to os.Stdout.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe() error = %v", err)
	}
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = oldStdout

	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	return string(data)
}

func TestPlanCommand(t *testing.T) {
	app := newCLIApp(config.DefaultConfig())

	var runErr error
	out := captureStdout(t, func() {
		runErr = app.Run([]string{"draft", "plan", "--slug", "format-strings", "csharp-tip"})
	})
	if runErr != nil {
		t.Fatalf("Run() error = %v", runErr)
	}

	var output ops.PlanOutput
	if err := json.Unmarshal([]byte(out), &output); err != nil {
		t.Fatalf("unmarshal output: %v\noutput: %s", err, out)
	}
	if output.Plan.Branch != "cstip/format-strings" {
		t.Errorf("Branch = %q, want %q", output.Plan.Branch, "cstip/format-strings")
	}
	if output.Plan.Kind != "cstip" {
		t.Errorf("Kind = %q, want %q", output.Plan.Kind, "cstip")
	}
	if output.Plan.Path != "csharp-tip/format-strings/index.md" {
		t.Errorf("Path = %q", output.Plan.Path)
	}
}

func TestPlanCommand_MissingSlug(t *testing.T) {
	app := newCLIApp(config.DefaultConfig())

	err := app.Run([]string{"draft", "plan", "article"})
	exitErr, ok := err.(cli.ExitCoder)
	if !ok {
		t.Fatalf("Run() error = %v, want cli.ExitCoder", err)
	}
	if exitErr.ExitCode() != 1 {
		t.Errorf("ExitCode() = %d, want 1", exitErr.ExitCode())
	}
	if !strings.Contains(err.Error(), "MISSING_ARGUMENT") {
		t.Errorf("error message = %q, want MISSING_ARGUMENT code", err.Error())
	}
}

func TestNewCommand_MissingSlug(t *testing.T) {
	// Input validation must reject the run before any repository access:
	// the config points at a directory that is not a git repository, so
	// reaching the repository would produce NOT_A_REPOSITORY instead.
	cfg := config.DefaultConfig()
	cfg.SiteDir = t.TempDir()
	app := newCLIApp(cfg)

	err := app.Run([]string{"draft", "new", "article"})
	exitErr, ok := err.(cli.ExitCoder)
	if !ok {
		t.Fatalf("Run() error = %v, want cli.ExitCoder", err)
	}
	if exitErr.ExitCode() != 1 {
		t.Errorf("ExitCode() = %d, want 1", exitErr.ExitCode())
	}
	if !strings.Contains(err.Error(), "MISSING_ARGUMENT") {
		t.Errorf("error message = %q, want MISSING_ARGUMENT code", err.Error())
	}
}

func TestNewCommand_DryRunNeedsNoRepository(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.SiteDir = t.TempDir()
	app := newCLIApp(cfg)

	var runErr error
	out := captureStdout(t, func() {
		runErr = app.Run([]string{"draft", "new", "--dry-run", "how-to", "my-new-post"})
	})
	if runErr != nil {
		t.Fatalf("Run() error = %v", runErr)
	}

	var output ops.NewOutput
	if err := json.Unmarshal([]byte(out), &output); err != nil {
		t.Fatalf("unmarshal output: %v\noutput: %s", err, out)
	}
	if !output.DryRun {
		t.Error("DryRun = false, want true")
	}
	if output.Plan.Kind != "how-to" {
		t.Errorf("Kind = %q, want %q", output.Plan.Kind, "how-to")
	}
	if output.Plan.Path != "how-to/my-new-post" {
		t.Errorf("Path = %q, want %q", output.Plan.Path, "how-to/my-new-post")
	}
	if len(output.Steps) != 0 {
		t.Errorf("Steps = %v, want none for dry run", output.Steps)
	}
}

func TestCategoriesCommand(t *testing.T) {
	app := newCLIApp(config.DefaultConfig())

	var runErr error
	out := captureStdout(t, func() {
		runErr = app.Run([]string{"draft", "categories"})
	})
	if runErr != nil {
		t.Fatalf("Run() error = %v", runErr)
	}

	var infos []struct {
		Category      string `json:"category"`
		Kind          string `json:"kind"`
		CreatesBranch bool   `json:"creates_branch"`
		BranchPrefix  string `json:"branch_prefix"`
	}
	if err := json.Unmarshal([]byte(out), &infos); err != nil {
		t.Fatalf("unmarshal output: %v\noutput: %s", err, out)
	}
	if len(infos) != 5 {
		t.Fatalf("got %d categories, want 5", len(infos))
	}

	branching := 0
	for _, info := range infos {
		if info.CreatesBranch {
			branching++
			if info.BranchPrefix == "" {
				t.Errorf("category %s creates a branch but has no prefix", info.Category)
			}
		}
	}
	if branching != 3 {
		t.Errorf("got %d branching categories, want 3", branching)
	}
}

func TestListCommand_EmptyTree(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.SiteDir = t.TempDir()
	app := newCLIApp(cfg)

	var runErr error
	out := captureStdout(t, func() {
		runErr = app.Run([]string{"draft", "list"})
	})
	if runErr != nil {
		t.Fatalf("Run() error = %v", runErr)
	}

	var output ops.ListOutput
	if err := json.Unmarshal([]byte(out), &output); err != nil {
		t.Fatalf("unmarshal output: %v\noutput: %s", err, out)
	}
	if output.Total != 0 {
		t.Errorf("Total = %d, want 0", output.Total)
	}
}

func TestExitCode_PropagatesCommandStatus(t *testing.T) {
	// A failing external command must surface its own exit status at the
	// process boundary, not a flattened 1.
	cmdErr := errors.NewCommandFailed("hugo new how-to/my-new-post --kind how-to", 7, fmt.Errorf("exit status 7"))

	err := outputError(cmdErr)
	coder, ok := err.(cli.ExitCoder)
	if !ok {
		t.Fatalf("outputError() = %T, want cli.ExitCoder", err)
	}
	if coder.ExitCode() != 7 {
		t.Errorf("ExitCode() = %d, want 7", coder.ExitCode())
	}
	if got := exitCode(err); got != 7 {
		t.Errorf("exitCode() = %d, want 7", got)
	}
}

func TestExitCode_DefaultsToOne(t *testing.T) {
	if got := exitCode(fmt.Errorf("plain error")); got != 1 {
		t.Errorf("exitCode(plain) = %d, want 1", got)
	}

	err := outputError(errors.NewMissingArgument("slug"))
	if got := exitCode(err); got != 1 {
		t.Errorf("exitCode(missing argument) = %d, want 1", got)
	}
}

func TestIsCLIModeCommands(t *testing.T) {
	for _, name := range []string{"new", "plan", "list", "doctor", "categories", "help"} {
		if !cliCommands[name] {
			t.Errorf("cliCommands[%q] = false, want true", name)
		}
	}
	if cliCommands["store"] {
		t.Error("cliCommands[store] = true, want false")
	}
}
