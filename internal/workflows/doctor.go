package workflows

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Pamacea/shadow-secret/internal/configs"
	kerrors "github.com/Pamacea/shadow-secret/internal/errors"
	"github.com/Pamacea/shadow-secret/internal/injector"
	"github.com/Pamacea/shadow-secret/internal/vault"
)

// CheckStatus represents the result status of a health check.
type CheckStatus int

const (
	// CheckPass means the check passed.
	CheckPass CheckStatus = iota
	// CheckWarning means the check found a non-critical issue.
	CheckWarning
	// CheckError means the check found a critical issue.
	CheckError
)

// String returns a string representation of CheckStatus.
func (s CheckStatus) String() string {
	switch s {
	case CheckPass:
		return "pass"
	case CheckWarning:
		return "warning"
	case CheckError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalJSON implements json.Marshaler for CheckStatus.
func (s CheckStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// CheckResult holds the result of a single health check.
type CheckResult struct {
	Name       string      `json:"name"`
	Status     CheckStatus `json:"status"`
	Message    string      `json:"message"`
	Suggestion string      `json:"suggestion,omitempty"`
}

// DoctorResult holds the complete result of the doctor workflow.
type DoctorResult struct {
	Checks      []CheckResult `json:"checks"`
	Summary     DoctorSummary `json:"summary"`
	Suggestions []string      `json:"suggestions,omitempty"`
}

// DoctorSummary holds counts of checks by status.
type DoctorSummary struct {
	Passed   int `json:"passed"`
	Warnings int `json:"warnings"`
	Errors   int `json:"errors"`
}

// DoctorOptions configures the doctor workflow.
type DoctorOptions struct {
	// ConfigPath points at an explicit config. Empty means discover.
	ConfigPath string
}

// Doctor runs health checks on the shadow-secret setup.
//
// The doctor workflow checks:
//   - Project configuration presence and validity
//   - Decryption engine availability (sops binary or age identity)
//   - Vault source existence
//   - Target files existence and readability
//   - Placeholder presence in target files
func Doctor(ctx context.Context, opts DoctorOptions) (*DoctorResult, error) {
	var results []CheckResult

	config, configResult := checkConfig(opts.ConfigPath)
	results = append(results, configResult)

	if config != nil {
		results = append(results, checkEngine(ctx, config))
		results = append(results, checkVaultSource(config))
		results = append(results, checkTargets(config))
		results = append(results, checkPlaceholderUsage(config))
	}

	summary := calculateDoctorSummary(results)

	var suggestions []string
	seen := make(map[string]bool)
	for _, result := range results {
		if result.Suggestion != "" && result.Status != CheckPass && !seen[result.Suggestion] {
			suggestions = append(suggestions, result.Suggestion)
			seen[result.Suggestion] = true
		}
	}

	return &DoctorResult{
		Checks:      results,
		Summary:     summary,
		Suggestions: suggestions,
	}, nil
}

// checkConfig checks if the project config exists and parses correctly.
// Returns the loaded config so later checks can reuse it.
func checkConfig(configPath string) (*configs.Config, CheckResult) {
	var config *configs.Config
	var err error
	if configPath != "" {
		config, err = configs.Load(configPath)
	} else {
		config, _, err = configs.Discover()
	}
	if err != nil {
		return nil, CheckResult{
			Name:       "Project configuration",
			Status:     CheckError,
			Message:    fmt.Sprintf("Failed to load configuration: %v", err),
			Suggestion: "Run 'shadow-secret init-project' to create one, or fix the reported problems",
		}
	}

	return config, CheckResult{
		Name:    "Project configuration",
		Status:  CheckPass,
		Message: fmt.Sprintf("Configuration valid (%d target(s))", len(config.Targets)),
	}
}

// checkEngine verifies the configured decryption engine is usable.
func checkEngine(ctx context.Context, config *configs.Config) CheckResult {
	switch config.Vault.Engine {
	case "age":
		if config.Vault.AgeKeyPath == "" && os.Getenv("SOPS_AGE_KEY_FILE") == "" {
			return CheckResult{
				Name:       "Decryption engine",
				Status:     CheckError,
				Message:    "age engine configured but no identity available",
				Suggestion: "Set age_key_path in shadow-secret.yaml or export SOPS_AGE_KEY_FILE",
			}
		}
		return CheckResult{
			Name:    "Decryption engine",
			Status:  CheckPass,
			Message: "age engine with an identity configured",
		}
	default: // sops
		if !vault.SopsInstalled() {
			return CheckResult{
				Name:       "Decryption engine",
				Status:     CheckError,
				Message:    "sops binary not found in PATH",
				Suggestion: "Install sops, or switch vault.engine to \"age\"",
			}
		}
		version, err := vault.SopsVersion(ctx)
		if err != nil {
			return CheckResult{
				Name:       "Decryption engine",
				Status:     CheckWarning,
				Message:    fmt.Sprintf("sops is installed but --version failed: %v", err),
				Suggestion: "Check the sops installation",
			}
		}
		return CheckResult{
			Name:    "Decryption engine",
			Status:  CheckPass,
			Message: version,
		}
	}
}

// checkVaultSource checks the encrypted vault file exists.
func checkVaultSource(config *configs.Config) CheckResult {
	source, err := config.VaultSourcePath()
	if err != nil {
		return CheckResult{
			Name:       "Vault source",
			Status:     CheckError,
			Message:    fmt.Sprintf("Cannot resolve vault source: %v", err),
			Suggestion: "Check vault.source and vault_path in shadow-secret.yaml",
		}
	}

	if _, err := os.Stat(source); err != nil {
		status := CheckError
		suggestion := "Check vault.source in shadow-secret.yaml"
		if config.Vault.RequireMount {
			suggestion = "Mount the vault volume, or check vault_path"
		}
		return CheckResult{
			Name:       "Vault source",
			Status:     status,
			Message:    fmt.Sprintf("Vault file not found at %s", source),
			Suggestion: suggestion,
		}
	}

	return CheckResult{
		Name:    "Vault source",
		Status:  CheckPass,
		Message: fmt.Sprintf("Vault file present at %s", source),
	}
}

// checkTargets checks every resolved target exists and is readable text.
func checkTargets(config *configs.Config) CheckResult {
	targets, err := config.ResolveTargets()
	if err != nil {
		return CheckResult{
			Name:       "Target files",
			Status:     CheckError,
			Message:    fmt.Sprintf("Failed to resolve targets: %v", err),
			Suggestion: "Check target paths and globs in shadow-secret.yaml",
		}
	}

	var missing, unreadable int
	for _, target := range targets {
		if _, err := injector.CreateSnapshot(target.Path); err != nil {
			if errors.Is(err, kerrors.ErrTargetNotFound) {
				missing++
			} else {
				unreadable++
			}
		}
	}

	if missing > 0 || unreadable > 0 {
		return CheckResult{
			Name:       "Target files",
			Status:     CheckError,
			Message:    fmt.Sprintf("%d target(s) missing, %d unreadable (of %d)", missing, unreadable, len(targets)),
			Suggestion: "Create the missing target files; injection never creates them",
		}
	}

	return CheckResult{
		Name:    "Target files",
		Status:  CheckPass,
		Message: fmt.Sprintf("All %d target file(s) present and readable", len(targets)),
	}
}

// checkPlaceholderUsage warns when a configured placeholder never appears
// in its target. Harmless, but usually a sign of config drift.
func checkPlaceholderUsage(config *configs.Config) CheckResult {
	targets, err := config.ResolveTargets()
	if err != nil {
		return CheckResult{
			Name:    "Placeholder usage",
			Status:  CheckWarning,
			Message: "Skipped (targets could not be resolved)",
		}
	}

	var unused int
	for _, target := range targets {
		snapshot, err := injector.CreateSnapshot(target.Path)
		if err != nil {
			continue
		}
		for _, placeholder := range target.Placeholders {
			if !strings.Contains(snapshot.Content(), placeholder) {
				unused++
			}
		}
	}

	if unused > 0 {
		return CheckResult{
			Name:       "Placeholder usage",
			Status:     CheckWarning,
			Message:    fmt.Sprintf("%d configured placeholder(s) never appear in their target", unused),
			Suggestion: "Remove stale placeholders from shadow-secret.yaml or add them to the target files",
		}
	}

	return CheckResult{
		Name:    "Placeholder usage",
		Status:  CheckPass,
		Message: "Every configured placeholder appears in its target",
	}
}

// calculateDoctorSummary calculates the counts of checks by status.
func calculateDoctorSummary(results []CheckResult) DoctorSummary {
	var summary DoctorSummary
	for _, result := range results {
		switch result.Status {
		case CheckPass:
			summary.Passed++
		case CheckWarning:
			summary.Warnings++
		case CheckError:
			summary.Errors++
		}
	}
	return summary
}
