// Package cleaner tracks injected files and restores them when a session
// ends, whether it ends normally, by signal, or by panic.
//
// A Ledger records one snapshot per target path. Registering a path twice
// keeps the most recent snapshot. CleanupAndRestore drains the ledger,
// stops processes that may hold the targets open, and writes every
// pre-image back, continuing past individual failures so one bad file
// never blocks the rest.
package cleaner
