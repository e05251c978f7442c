package configs

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	kerrors "github.com/Pamacea/shadow-secret/internal/errors"
	"github.com/Pamacea/shadow-secret/internal/utils"
)

// Config is the parsed shadow-secret.yaml for a project.
type Config struct {
	Vault   VaultConfig    `yaml:"vault"`
	Targets []TargetConfig `yaml:"targets"`

	// Dir is the directory the config was loaded from. Relative target
	// and vault paths resolve against it. Not part of the YAML.
	Dir string `yaml:"-"`
}

// VaultConfig declares where the encrypted secrets live and how to open them.
type VaultConfig struct {
	// Source is the encrypted vault file, relative to the config directory
	// unless VaultPath overrides the base.
	Source string `yaml:"source"`
	// VaultPath optionally rebases Source onto another directory.
	VaultPath string `yaml:"vault_path,omitempty"`
	// Engine is "sops" or "age". Empty means sops.
	Engine string `yaml:"engine,omitempty"`
	// AgeKeyPath points at the age identity file for the age engine.
	AgeKeyPath string `yaml:"age_key_path,omitempty"`
	// RequireMount refuses to unlock when VaultPath is not mounted.
	RequireMount bool `yaml:"require_mount,omitempty"`
}

// TargetConfig names one file (or glob of files) to inject secrets into.
type TargetConfig struct {
	Name         string   `yaml:"name"`
	Path         string   `yaml:"path"`
	Placeholders []string `yaml:"placeholders"`
}

// Load reads and strictly parses a config file. Unknown YAML fields are
// an error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", kerrors.ErrConfigNotFound, path)
		}
		return nil, &kerrors.IoError{Op: "read", Path: path, Err: err}
	}

	config := &Config{}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(config); err != nil && err != io.EOF {
		return nil, fmt.Errorf("%w: %s: %v", kerrors.ErrInvalidConfig, path, err)
	}

	config.Dir = filepath.Dir(path)
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Discover locates the project config by walking up from the working
// directory, falling back to the global config in the user config
// directory. The returned path is the file that was loaded.
func Discover() (*Config, string, error) {
	root, err := utils.FindProjectRoot()
	if err != nil {
		return nil, "", err
	}
	if root != "" {
		path := filepath.Join(root, utils.ConfigFileName)
		config, err := Load(path)
		return config, path, err
	}

	globalPath := filepath.Join(UserShadowSettings.UserConfigsPath, utils.ConfigFileName)
	if _, err := os.Stat(globalPath); err == nil {
		config, err := Load(globalPath)
		return config, globalPath, err
	}

	return nil, "", fmt.Errorf("%w: searched up from the working directory and in %s",
		kerrors.ErrConfigNotFound, UserShadowSettings.UserConfigsPath)
}

// Validate checks the invariants a loaded config must satisfy.
func (c *Config) Validate() error {
	var problems []string

	if c.Vault.Source == "" {
		problems = append(problems, "vault.source is required")
	}
	switch c.Vault.Engine {
	case "", "sops", "age":
	default:
		problems = append(problems, fmt.Sprintf("vault.engine %q is not supported (use \"sops\" or \"age\")", c.Vault.Engine))
	}

	if len(c.Targets) == 0 {
		problems = append(problems, "at least one target is required")
	}
	seen := make(map[string]bool)
	for i, target := range c.Targets {
		if target.Name == "" {
			problems = append(problems, fmt.Sprintf("targets[%d].name is required", i))
		} else if seen[target.Name] {
			problems = append(problems, fmt.Sprintf("duplicate target name %q", target.Name))
		}
		seen[target.Name] = true

		if target.Path == "" {
			problems = append(problems, fmt.Sprintf("target %q has no path", target.Name))
		}
		if len(target.Placeholders) == 0 {
			problems = append(problems, fmt.Sprintf("target %q has no placeholders", target.Name))
		}
		for _, placeholder := range target.Placeholders {
			if !utils.IsValidPlaceholder(placeholder) {
				problems = append(problems, fmt.Sprintf("target %q: %q is not a valid placeholder", target.Name, placeholder))
			}
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w:\n  - %s", kerrors.ErrInvalidConfig, strings.Join(problems, "\n  - "))
	}
	return nil
}

// VaultSourcePath resolves the vault source to an absolute path, applying
// the vault_path override and "~" expansion.
func (c *Config) VaultSourcePath() (string, error) {
	base := c.Dir
	if c.Vault.VaultPath != "" {
		expanded, err := utils.ExpandHome(c.Vault.VaultPath)
		if err != nil {
			return "", err
		}
		base = expanded
	}

	source, err := utils.ExpandHome(c.Vault.Source)
	if err != nil {
		return "", err
	}
	if filepath.IsAbs(source) {
		return source, nil
	}
	return filepath.Join(base, source), nil
}

// AgeIdentityPath resolves age_key_path against the config directory,
// with "~" expansion. "-" (stdin) and empty pass through unchanged.
func (c *Config) AgeIdentityPath() (string, error) {
	p := c.Vault.AgeKeyPath
	if p == "" || p == "-" {
		return p, nil
	}
	expanded, err := utils.ExpandHome(p)
	if err != nil {
		return "", err
	}
	if filepath.IsAbs(expanded) {
		return expanded, nil
	}
	return filepath.Join(c.Dir, expanded), nil
}

// ResolvedTarget is one concrete file to inject, after glob expansion.
type ResolvedTarget struct {
	Name         string
	Path         string
	Placeholders []string
}

// ResolveTargets expands each target's path against the config directory.
// Glob patterns fan out to every matching file; a literal path that does
// not exist is still returned so callers can report it as missing. A file
// reached by more than one target resolves once, to the first target that
// named it, so it is never injected (and snapshotted) twice.
func (c *Config) ResolveTargets() ([]ResolvedTarget, error) {
	var resolved []ResolvedTarget
	seen := make(map[string]bool)

	add := func(target TargetConfig, path string) {
		if seen[path] {
			return
		}
		seen[path] = true
		resolved = append(resolved, ResolvedTarget{
			Name:         target.Name,
			Path:         path,
			Placeholders: target.Placeholders,
		})
	}

	for _, target := range c.Targets {
		pattern := target.Path
		if !filepath.IsAbs(pattern) {
			pattern = filepath.Join(c.Dir, pattern)
		}

		if !hasGlobMeta(target.Path) {
			add(target, pattern)
			continue
		}

		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("target %q: bad glob %q: %w", target.Name, target.Path, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("%w: target %q glob %q matched nothing", kerrors.ErrTargetNotFound, target.Name, target.Path)
		}
		sort.Strings(matches)
		for _, match := range matches {
			add(target, match)
		}
	}
	return resolved, nil
}

func hasGlobMeta(pattern string) bool {
	for _, r := range pattern {
		switch r {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}
