package workflows

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"filippo.io/age"
	"filippo.io/age/armor"

	"github.com/Pamacea/shadow-secret/internal/audit"
	"github.com/Pamacea/shadow-secret/internal/configs"
	logger "github.com/Pamacea/shadow-secret/internal/logging"
)

// InitProjectOptions configures project scaffolding.
type InitProjectOptions struct {
	// Dir is the project directory. Empty means the working directory.
	Dir string
	// Force overwrites an existing shadow-secret.yaml.
	Force  bool
	Logger logger.Logger
}

// InitProjectResult lists what scaffolding produced.
type InitProjectResult struct {
	ConfigPath string
	VaultPath  string
	KeyPath    string
	PublicKey  string
	Created    []string
}

const exampleVaultPlaintext = "# Replace these with your real secrets, then re-encrypt.\nAPI_KEY=changeme\n"

const exampleTarget = "API_KEY=$API_KEY\n"

// InitProject scaffolds a new shadow-secret project: an age identity in
// the user config directory, an encrypted example vault, a .sops.yaml so
// the sops CLI can edit the vault with the same key, an example target,
// and the shadow-secret.yaml tying them together.
func InitProject(ctx context.Context, opts InitProjectOptions) (*InitProjectResult, error) {
	log := opts.Logger

	dir := opts.Dir
	if dir == "" {
		dir = "."
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	configPath := filepath.Join(dir, "shadow-secret.yaml")
	if _, err := os.Stat(configPath); err == nil && !opts.Force {
		return nil, fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
	}

	result := &InitProjectResult{ConfigPath: configPath}

	identity, keyPath, created, err := ensureAgeIdentity()
	if err != nil {
		return nil, err
	}
	result.KeyPath = keyPath
	result.PublicKey = identity.Recipient().String()
	if created {
		result.Created = append(result.Created, keyPath)
		log.Infof("generated age identity at %s", keyPath)
	} else {
		log.Infof("reusing age identity at %s", keyPath)
	}

	vaultPath := filepath.Join(dir, ".enc.env")
	if _, err := os.Stat(vaultPath); os.IsNotExist(err) || opts.Force {
		ciphertext, err := encryptExampleVault(identity.Recipient())
		if err != nil {
			return nil, err
		}
		if err := os.WriteFile(vaultPath, ciphertext, 0644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", vaultPath, err)
		}
		result.Created = append(result.Created, vaultPath)
	}
	result.VaultPath = vaultPath

	sopsPath := filepath.Join(dir, ".sops.yaml")
	if _, err := os.Stat(sopsPath); os.IsNotExist(err) || opts.Force {
		sopsConfig := fmt.Sprintf("creation_rules:\n  - path_regex: \\.enc\\.env$\n    age: %s\n", result.PublicKey)
		if err := os.WriteFile(sopsPath, []byte(sopsConfig), 0644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", sopsPath, err)
		}
		result.Created = append(result.Created, sopsPath)
	}

	targetPath := filepath.Join(dir, ".env")
	if _, err := os.Stat(targetPath); os.IsNotExist(err) {
		if err := os.WriteFile(targetPath, []byte(exampleTarget), 0644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", targetPath, err)
		}
		result.Created = append(result.Created, targetPath)
	}

	projectConfig := fmt.Sprintf(`vault:
  source: .enc.env
  engine: age
  age_key_path: %s
targets:
  - name: env
    path: .env
    placeholders: ["$API_KEY"]
`, keyPath)
	if err := os.WriteFile(configPath, []byte(projectConfig), 0644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", configPath, err)
	}
	result.Created = append(result.Created, configPath)

	if _, err := configs.EnsureUserConfig(); err != nil {
		log.Warnf("could not initialize user config: %v", err)
	}

	entry := audit.NewEntry("init")
	entry.ConfigPath = configPath
	audit.Log(entry)

	return result, nil
}

// ensureAgeIdentity loads the user's age identity, generating one on
// first use. Returns whether a new key was created.
func ensureAgeIdentity() (*age.X25519Identity, string, bool, error) {
	keyPath := filepath.Join(configs.UserShadowSettings.UserConfigsPath, "age", "key.txt")

	if data, err := os.ReadFile(keyPath); err == nil {
		identities, err := age.ParseIdentities(bytes.NewReader(data))
		if err != nil {
			return nil, "", false, fmt.Errorf("existing key file %s is unusable: %w", keyPath, err)
		}
		for _, id := range identities {
			if x, ok := id.(*age.X25519Identity); ok {
				return x, keyPath, false, nil
			}
		}
		return nil, "", false, fmt.Errorf("no X25519 identity in %s", keyPath)
	}

	identity, err := age.GenerateX25519Identity()
	if err != nil {
		return nil, "", false, fmt.Errorf("failed to generate age identity: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(keyPath), 0700); err != nil {
		return nil, "", false, err
	}
	content := fmt.Sprintf("# created: %s\n# public key: %s\n%s\n",
		time.Now().UTC().Format(time.RFC3339), identity.Recipient(), identity)
	if err := os.WriteFile(keyPath, []byte(content), 0600); err != nil {
		return nil, "", false, fmt.Errorf("failed to write key file: %w", err)
	}

	return identity, keyPath, true, nil
}

func encryptExampleVault(recipient age.Recipient) ([]byte, error) {
	var buf bytes.Buffer
	armorWriter := armor.NewWriter(&buf)
	encWriter, err := age.Encrypt(armorWriter, recipient)
	if err != nil {
		return nil, fmt.Errorf("failed to start encryption: %w", err)
	}
	if _, err := encWriter.Write([]byte(exampleVaultPlaintext)); err != nil {
		return nil, err
	}
	if err := encWriter.Close(); err != nil {
		return nil, err
	}
	if err := armorWriter.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
