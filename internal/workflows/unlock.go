package workflows

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/Pamacea/shadow-secret/internal/audit"
	"github.com/Pamacea/shadow-secret/internal/cleaner"
	"github.com/Pamacea/shadow-secret/internal/configs"
	"github.com/Pamacea/shadow-secret/internal/injector"
	logger "github.com/Pamacea/shadow-secret/internal/logging"
	"github.com/Pamacea/shadow-secret/internal/utils"
	"github.com/Pamacea/shadow-secret/internal/vault"
)

// UnlockOptions configures the unlock workflow.
type UnlockOptions struct {
	// ConfigPath points at an explicit shadow-secret.yaml. Empty means
	// discover it from the working directory.
	ConfigPath string
	// IdentityFile overrides the configured age identity. "-" reads it
	// from stdin.
	IdentityFile string
	// Ledger receives each snapshot the moment its file is injected.
	// Callers that install termination handlers before unlocking pass
	// the ledger those handlers watch, so a trigger firing mid-injection
	// can still restore. Nil means a fresh ledger.
	Ledger *cleaner.Ledger
	Logger logger.Logger
}

// InjectedTarget records one file that received secrets.
type InjectedTarget struct {
	Name string
	Path string
}

// UnlockResult describes a live unlocked session. The caller owns the
// ledger and must arrange restoration before exiting.
type UnlockResult struct {
	Ledger      *cleaner.Ledger
	Targets     []InjectedTarget
	SecretCount int
	KillList    []string
	SessionID   string
	ConfigPath  string
}

// Unlock decrypts the vault and injects secrets into every configured
// target. If any target fails, files injected so far are restored and
// the error is returned; unlock either lands completely or not at all.
func Unlock(ctx context.Context, opts UnlockOptions) (*UnlockResult, error) {
	log := opts.Logger

	var config *configs.Config
	configPath := opts.ConfigPath
	var err error
	if configPath != "" {
		config, err = configs.Load(configPath)
	} else {
		config, configPath, err = configs.Discover()
	}
	if err != nil {
		return nil, err
	}
	log.Infof("using config %s", configPath)

	if config.Vault.RequireMount && config.Vault.VaultPath != "" {
		vaultPath, err := utils.ExpandHome(config.Vault.VaultPath)
		if err != nil {
			return nil, err
		}
		if _, statErr := os.Stat(vaultPath); statErr != nil {
			return nil, fmt.Errorf("vault_path %s is not mounted: %w", vaultPath, statErr)
		}
	}

	source, err := config.VaultSourcePath()
	if err != nil {
		return nil, err
	}

	identityFile := opts.IdentityFile
	if identityFile == "" {
		identityFile, err = config.AgeIdentityPath()
		if err != nil {
			return nil, err
		}
	}

	v, err := vault.Load(ctx, vault.LoadOptions{
		Source:       source,
		Engine:       config.Vault.Engine,
		IdentityFile: identityFile,
	})
	if err != nil {
		return nil, err
	}
	log.Infof("loaded %d secrets from %s", v.Len(), source)

	targets, err := config.ResolveTargets()
	if err != nil {
		return nil, err
	}

	secrets := v.All()
	ledger := opts.Ledger
	if ledger == nil {
		ledger = cleaner.NewLedger()
	}
	var injected []InjectedTarget

	for _, target := range targets {
		snapshot, err := injector.Inject(target.Path, secrets, target.Placeholders)
		if err != nil {
			// Put back everything injected so far before failing.
			for _, s := range ledger.Drain() {
				if restoreErr := s.Restore(); restoreErr != nil {
					log.Errorf("rollback of %s failed: %v", s.Path(), restoreErr)
				}
			}
			return nil, fmt.Errorf("target %q: %w", target.Name, err)
		}
		ledger.Register(snapshot)
		injected = append(injected, InjectedTarget{Name: target.Name, Path: target.Path})
		log.Debugf("injected %s", target.Path)
	}

	userConfig, err := configs.EnsureUserConfig()
	if err != nil {
		log.Warnf("could not load user config: %v", err)
		userConfig = &configs.UserConfig{}
	}

	sessionID := uuid.New().String()

	entry := audit.NewEntry("unlock")
	entry.Session = sessionID
	entry.ConfigPath = configPath
	entry.SecretsCount = v.Len()
	for _, t := range injected {
		entry.Targets = append(entry.Targets, t.Path)
	}
	audit.Log(entry)

	return &UnlockResult{
		Ledger:      ledger,
		Targets:     injected,
		SecretCount: v.Len(),
		KillList:    userConfig.KillList(cleaner.DefaultKillList),
		SessionID:   sessionID,
		ConfigPath:  configPath,
	}, nil
}

// Restore runs the restoration half of a session and audits the outcome.
func Restore(log logger.Logger, result *UnlockResult, outcome string) cleaner.RestoreResult {
	restoreResult := cleaner.CleanupAndRestore(log, result.Ledger, result.KillList)

	entry := audit.NewEntry("restore")
	entry.Session = result.SessionID
	entry.Attempted = restoreResult.Attempted
	entry.Restored = restoreResult.Restored
	entry.Outcome = outcome
	audit.Log(entry)

	return restoreResult
}
