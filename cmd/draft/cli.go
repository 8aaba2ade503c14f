package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yamori/draft/internal/config"
	"github.com/yamori/draft/internal/errors"
	"github.com/yamori/draft/internal/generator"
	"github.com/yamori/draft/internal/gitrepo"
	"github.com/yamori/draft/internal/ops"
	"github.com/yamori/draft/internal/scaffold"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(cfg *config.Config) *cli.App {
	app := &cli.App{
		Name:    "draft",
		Usage:   "Blog post scaffolder",
		Version: Version,
		Commands: []*cli.Command{
			newCmd(cfg),
			planCmd(cfg),
			listCmd(cfg),
			doctorCmd(cfg),
			categoriesCmd(),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// newCmd creates the new command.
func newCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "new",
		Usage:     "Scaffold a new post: sync the default branch, branch off when the category has one, invoke the generator",
		ArgsUsage: "<category> [slug]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "slug", Aliases: []string{"s"}, Usage: "Slug for the new post"},
			&cli.BoolFlag{Name: "dry-run", Usage: "Print the resolved plan without side effects"},
		},
		Action: func(c *cli.Context) error {
			input := ops.NewInput{
				Category: c.Args().First(),
				Slug:     slugArg(c),
				DryRun:   c.Bool("dry-run"),
			}

			// Validate before touching the repository so bad input never
			// reaches an external tool.
			if _, err := ops.Plan(ops.Deps{}, ops.PlanInput{Category: input.Category, Slug: input.Slug}); err != nil {
				return outputError(err)
			}

			deps := ops.Deps{}
			if !input.DryRun {
				var err error
				deps, err = openDeps(cfg)
				if err != nil {
					return outputError(err)
				}
			}

			output, err := ops.New(c.Context, deps, cfg, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// planCmd creates the plan command.
func planCmd(_ *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "plan",
		Usage:     "Resolve the branch, kind, and path for a post without side effects",
		ArgsUsage: "<category> [slug]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "slug", Aliases: []string{"s"}, Usage: "Slug for the new post"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Plan(ops.Deps{}, ops.PlanInput{
				Category: c.Args().First(),
				Slug:     slugArg(c),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// listCmd creates the list command.
func listCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List existing posts under the content directory",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "category", Aliases: []string{"c"}, Usage: "Filter by category"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Usage: "Maximum items to return (0 = no limit)"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.List(cfg, ops.ListInput{
				Category: c.String("category"),
				Limit:    c.Int("limit"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// doctorCmd creates the doctor command.
func doctorCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "doctor",
		Usage: "Check the environment a scaffolding run depends on",
		Action: func(c *cli.Context) error {
			deps := ops.DoctorDeps{
				Generator: generator.New(cfg.Generator, cfg.SiteDir),
			}
			client, err := gitrepo.Open(cfg.SiteDir)
			if err != nil {
				deps.OpenErr = err
			} else {
				deps.Inspector = client
			}

			output, err := ops.Doctor(deps, cfg)
			if err != nil {
				return outputError(err)
			}

			for _, check := range output.Checks {
				mark := "[ OK ]"
				if !check.OK {
					mark = "[FAIL]"
				}
				line := fmt.Sprintf("%s %s", mark, check.Name)
				if check.Detail != "" {
					line += ": " + check.Detail
				}
				fmt.Println(line)
			}

			if !output.Healthy {
				return cli.Exit("environment is not ready for scaffolding", 1)
			}
			return nil
		},
	}
}

// categoriesCmd creates the categories command.
func categoriesCmd() *cli.Command {
	type categoryInfo struct {
		Category      string `json:"category"`
		Kind          string `json:"kind"`
		CreatesBranch bool   `json:"creates_branch"`
		BranchPrefix  string `json:"branch_prefix,omitempty"`
	}

	return &cli.Command{
		Name:  "categories",
		Usage: "List the content categories and their scaffolding shapes",
		Action: func(c *cli.Context) error {
			infos := make([]categoryInfo, 0, len(scaffold.Categories()))
			for _, category := range scaffold.Categories() {
				infos = append(infos, categoryInfo{
					Category:      string(category),
					Kind:          category.Kind(),
					CreatesBranch: category.CreatesBranch(),
					BranchPrefix:  category.BranchPrefix(),
				})
			}
			return outputJSON(infos)
		},
	}
}

// Helper functions

// slugArg reads the slug from the --slug flag or, failing that, the second
// positional argument. Flag parsing stops at the first positional argument,
// so `draft new how-to my-post` is the natural spelling.
func slugArg(c *cli.Context) string {
	if slug := c.String("slug"); slug != "" {
		return slug
	}
	if c.NArg() > 1 {
		return c.Args().Get(1)
	}
	return ""
}

// openDeps opens the repository and generator a scaffolding run needs.
func openDeps(cfg *config.Config) (ops.Deps, error) {
	client, err := gitrepo.Open(cfg.SiteDir)
	if err != nil {
		return ops.Deps{}, err
	}
	return ops.Deps{
		Repo: client,
		Gen:  generator.New(cfg.Generator, cfg.SiteDir),
	}, nil
}

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI. Command failures exit with the failing
// tool's own status; everything else exits 1.
func outputError(err error) error {
	if dErr, ok := err.(*errors.DraftError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", dErr.Code, dErr.Message), errors.ExitStatus(dErr))
	}
	return cli.Exit(err.Error(), 1)
}
