// Package utils provides shared utility functions for shadow-secret.
//
// This package contains general-purpose helpers used across multiple packages.
// Functions are organized into logical groups:
//
// # Filesystem Utilities
//
// Functions for working with the filesystem and project structure:
//   - FindProjectRoot: walks up directories to find shadow-secret.yaml
//   - ExpandHome: expands a leading ~ to the user's home directory
//   - FormatPaths: formats file paths for human-readable output
//
// # System Utilities
//
// Functions for interacting with the operating system:
//   - GetUsername: returns the current system username
//   - GetHostname: returns the system hostname
//
// # Terminal Utilities
//
// Functions for terminal interaction:
//   - ReadPassphrase: hidden passphrase input
//   - ReadStdin: reads piped data from standard input
//   - Confirm: y/N confirmation prompts
package utils
