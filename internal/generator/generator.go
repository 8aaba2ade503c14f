// Package generator invokes the external site generator's "new content" command.
package generator

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/yamori/draft/internal/errors"
)

// Hugo drives a Hugo-compatible generator binary. The generator is an
// external tool; draft only supplies kind and path and propagates its
// success/failure status.
type Hugo struct {
	// Bin is the generator binary name or path (default "hugo").
	Bin string

	// SiteDir is the working directory the generator runs in.
	SiteDir string

	// Stdout and Stderr can be set for testing; defaults to os.Stdout/os.Stderr.
	// The generator's own diagnostics reach the user unmodified.
	Stdout io.Writer
	Stderr io.Writer
}

// New creates a generator rooted at siteDir.
func New(bin, siteDir string) *Hugo {
	return &Hugo{Bin: bin, SiteDir: siteDir}
}

// Available checks that the generator binary can be found on PATH.
func (h *Hugo) Available() error {
	if _, err := exec.LookPath(h.Bin); err != nil {
		return fmt.Errorf("generator %q not found: %w", h.Bin, err)
	}
	return nil
}

// NewContent invokes `<bin> new <path> --kind <kind>` in the site directory.
// A non-zero exit aborts with the generator's exit status preserved.
func (h *Hugo) NewContent(ctx context.Context, kind, path string) error {
	bin, err := exec.LookPath(h.Bin)
	if err != nil {
		return errors.NewCommandFailed(h.Bin, 1, err)
	}

	args := []string{"new", path, "--kind", kind}

	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = h.SiteDir

	stdout := h.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := h.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		display := h.Bin + " " + strings.Join(args, " ")
		if exitErr, ok := err.(*exec.ExitError); ok {
			return errors.NewCommandFailed(display, exitErr.ExitCode(), err)
		}
		return errors.NewCommandFailed(display, 1, err)
	}
	return nil
}
