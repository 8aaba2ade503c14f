package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Config holds application configuration.
type Config struct {
	// SiteDir is the root of the blog repository. Relative values are resolved
	// against the current working directory. Defaults to ".".
	SiteDir string `json:"site_dir,omitempty"`

	// ContentDir is the content root the generator writes into, relative to
	// SiteDir. Defaults to "content".
	ContentDir string `json:"content_dir,omitempty"`

	// DefaultBranch is the mainline branch each scaffolding run starts from.
	// Defaults to "master".
	DefaultBranch string `json:"default_branch,omitempty"`

	// Remote is the git remote pulled before scaffolding. Defaults to "origin".
	Remote string `json:"remote,omitempty"`

	// Generator is the site generator binary invoked for new content.
	// Defaults to "hugo".
	Generator string `json:"generator,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	// Unknown tool names are ignored with a warning.
	DisabledTools []string `json:"disabled_tools,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		SiteDir:       ".",
		ContentDir:    "content",
		DefaultBranch: "master",
		Remote:        "origin",
		Generator:     "hugo",
	}
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.draft.
func Load(baseDir string) (*Config, error) {
	cfg, err := loadFileRaw(filepath.Join(baseDir, "config.json"))
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// LoadWithRepo loads configuration from both global (~/.draft) and repo (.draft)
// directories. Repo config is found by walking upward from startDir to the nearest
// .draft/config.json. Repo config takes precedence for scalar values; arrays are
// merged (deduplicated). Either or both configs may be missing.
func LoadWithRepo(globalDir, startDir string) (*Config, error) {
	global, err := loadFileRaw(filepath.Join(globalDir, "config.json"))
	if err != nil {
		return nil, err
	}

	repo, err := loadFileRaw(FindRepoConfig(startDir))
	if err != nil {
		return nil, err
	}

	// Apply defaults, then global, then repo
	return Merge(Merge(DefaultConfig(), global), repo), nil
}

// FindRepoConfig walks upward from startDir to find the nearest .draft/config.json.
// Returns the path if found, or empty string if not found.
func FindRepoConfig(startDir string) string {
	dir := startDir
	for {
		configPath := filepath.Join(dir, ".draft", "config.json")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root, not found
			return ""
		}
		dir = parent
	}
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if configPath == "" || errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.SiteDir = pickString(base.SiteDir, overlay.SiteDir)
	result.ContentDir = pickString(base.ContentDir, overlay.ContentDir)
	result.DefaultBranch = pickString(base.DefaultBranch, overlay.DefaultBranch)
	result.Remote = pickString(base.Remote, overlay.Remote)
	result.Generator = pickString(base.Generator, overlay.Generator)

	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

// pickString returns overlay if non-empty, else base.
func pickString(base, overlay string) string {
	if overlay != "" {
		return overlay
	}
	return base
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range append(append([]string{}, a...), b...) {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
