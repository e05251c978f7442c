// Package workflows contains the business logic for shadow-secret
// commands, decoupled from the CLI layer. Each workflow takes an Options
// struct and returns a Result struct, so commands stay thin and the
// logic stays testable.
package workflows
