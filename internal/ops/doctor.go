package ops

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/yamori/draft/internal/config"
)

// GeneratorProbe checks the generator binary can be invoked.
type GeneratorProbe interface {
	Available() error
}

// DoctorDeps bundles the collaborators the Doctor operation inspects.
type DoctorDeps struct {
	Inspector Inspector // nil when the repository could not be opened
	OpenErr   error     // why, when Inspector is nil
	Generator GeneratorProbe
}

// Check is one environment check result.
type Check struct {
	Name   string `json:"name"`
	OK     bool   `json:"ok"`
	Detail string `json:"detail,omitempty"`
}

// DoctorOutput contains the result of the Doctor operation.
type DoctorOutput struct {
	Checks  []Check `json:"checks"`
	Healthy bool    `json:"healthy"`
}

// Doctor verifies the environment a scaffolding run depends on: a reachable
// git repository with the default branch and remote, a clean worktree, the
// generator binary on PATH, and the content directory.
func Doctor(deps DoctorDeps, cfg *config.Config) (*DoctorOutput, error) {
	var checks []Check

	if deps.Inspector == nil {
		detail := "not inside a git repository"
		if deps.OpenErr != nil {
			detail = deps.OpenErr.Error()
		}
		checks = append(checks, Check{Name: "git repository", OK: false, Detail: detail})
	} else {
		branch, err := deps.Inspector.CurrentBranch()
		checks = append(checks, checkResult("git repository", err, "on branch "+branch))

		exists, err := deps.Inspector.BranchExists(cfg.DefaultBranch)
		if err == nil && !exists {
			err = fmt.Errorf("branch %q not found", cfg.DefaultBranch)
		}
		checks = append(checks, checkResult("default branch", err, cfg.DefaultBranch))

		hasRemote, err := deps.Inspector.HasRemote(cfg.Remote)
		if err == nil && !hasRemote {
			err = fmt.Errorf("remote %q not configured", cfg.Remote)
		}
		checks = append(checks, checkResult("remote", err, cfg.Remote))

		clean, err := deps.Inspector.IsClean()
		if err == nil && !clean {
			err = fmt.Errorf("worktree has uncommitted changes")
		}
		checks = append(checks, checkResult("clean worktree", err, ""))
	}

	checks = append(checks, checkResult("generator", deps.Generator.Available(), cfg.Generator))

	contentRoot := filepath.Join(cfg.SiteDir, cfg.ContentDir)
	info, err := os.Stat(contentRoot)
	if err == nil && !info.IsDir() {
		err = fmt.Errorf("%s is not a directory", contentRoot)
	}
	checks = append(checks, checkResult("content directory", err, contentRoot))

	healthy := true
	for _, c := range checks {
		if !c.OK {
			healthy = false
			break
		}
	}

	return &DoctorOutput{Checks: checks, Healthy: healthy}, nil
}

// checkResult folds an error into a Check, preferring the error text as detail.
func checkResult(name string, err error, detail string) Check {
	if err != nil {
		return Check{Name: name, OK: false, Detail: err.Error()}
	}
	return Check{Name: name, OK: true, Detail: detail}
}
