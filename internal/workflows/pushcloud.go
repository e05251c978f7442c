package workflows

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/Pamacea/shadow-secret/internal/audit"
	"github.com/Pamacea/shadow-secret/internal/cloud/vercel"
	"github.com/Pamacea/shadow-secret/internal/configs"
	kerrors "github.com/Pamacea/shadow-secret/internal/errors"
	logger "github.com/Pamacea/shadow-secret/internal/logging"
	"github.com/Pamacea/shadow-secret/internal/vault"
)

// localOnlyPrefix marks secrets that must never leave the machine.
const localOnlyPrefix = "LOCAL_ONLY_"

// PushCloudOptions configures the push-cloud workflow.
type PushCloudOptions struct {
	// ConfigPath points at an explicit config. Empty means discover.
	ConfigPath string
	// ProjectID is the Vercel project. Empty means detect it from
	// .vercel/project.json next to the config.
	ProjectID string
	// Token authenticates against the API. Empty means VERCEL_TOKEN.
	Token string
	// DryRun lists what would be pushed without calling the API.
	DryRun bool
	// Confirm is called with a summary before anything is pushed.
	// Returning false aborts. Nil means no confirmation step.
	Confirm func(prompt string) bool
	// Client overrides the API client. Used in tests.
	Client *vercel.Client
	Logger logger.Logger
}

// PushCloudResult summarizes a push.
type PushCloudResult struct {
	ProjectID string
	Pushed    []string
	Skipped   []string
	DryRun    bool
	Aborted   bool
}

// PushCloud uploads vault secrets to the linked Vercel project as
// encrypted environment variables. Secrets prefixed LOCAL_ONLY_ are
// skipped.
func PushCloud(ctx context.Context, opts PushCloudOptions) (*PushCloudResult, error) {
	log := opts.Logger

	var config *configs.Config
	var err error
	if opts.ConfigPath != "" {
		config, err = configs.Load(opts.ConfigPath)
	} else {
		config, _, err = configs.Discover()
	}
	if err != nil {
		return nil, err
	}

	source, err := config.VaultSourcePath()
	if err != nil {
		return nil, err
	}

	identityFile, err := config.AgeIdentityPath()
	if err != nil {
		return nil, err
	}

	v, err := vault.Load(ctx, vault.LoadOptions{
		Source:       source,
		Engine:       config.Vault.Engine,
		IdentityFile: identityFile,
	})
	if err != nil {
		return nil, err
	}

	var keys, skipped []string
	for key := range v.All() {
		if strings.HasPrefix(key, localOnlyPrefix) {
			skipped = append(skipped, key)
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	sort.Strings(skipped)

	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: every secret is %s-prefixed", kerrors.ErrNoSecrets, localOnlyPrefix)
	}

	projectID := opts.ProjectID
	if projectID == "" {
		projectID, err = vercel.DetectProjectID(config.Dir)
		if err != nil {
			return nil, err
		}
	}

	result := &PushCloudResult{ProjectID: projectID, Skipped: skipped}

	if opts.DryRun {
		result.DryRun = true
		result.Pushed = keys
		return result, nil
	}

	token := opts.Token
	if token == "" {
		token = os.Getenv("VERCEL_TOKEN")
	}
	if token == "" {
		return nil, kerrors.ErrVercelTokenMissing
	}

	if opts.Confirm != nil {
		prompt := fmt.Sprintf("Push %d secret(s) to Vercel project %s", len(keys), projectID)
		if !opts.Confirm(prompt) {
			result.Aborted = true
			return result, nil
		}
	}

	client := opts.Client
	if client == nil {
		client = vercel.NewClient(token)
	}

	var failures []string
	for _, key := range keys {
		value, _ := v.Get(key)
		if err := client.UpsertEnvVar(ctx, projectID, key, value); err != nil {
			log.Errorf("push %s: %v", key, err)
			failures = append(failures, key)
			continue
		}
		log.Infof("pushed %s", key)
		result.Pushed = append(result.Pushed, key)
	}

	entry := audit.NewEntry("push-cloud")
	entry.ConfigPath = config.Dir
	entry.Pushed = len(result.Pushed)
	audit.Log(entry)

	if len(failures) > 0 {
		return result, fmt.Errorf("%w: %s", kerrors.ErrPushFailed, strings.Join(failures, ", "))
	}
	return result, nil
}
