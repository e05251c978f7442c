// Package configs owns both halves of shadow-secret configuration: the
// per-project shadow-secret.yaml that declares the vault and its targets,
// and the per-user config.toml under the OS config directory that holds
// identity and cleaner preferences.
//
// Project config is discovered by walking up from the working directory,
// with a global fallback in the user config directory. Parsing is strict:
// unknown fields are an error, so typos fail loudly instead of silently
// disabling a target.
package configs
