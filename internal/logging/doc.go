// Package logger provides leveled logging for shadow-secret CLI commands.
//
// The logger supports multiple verbosity levels controlled by command-line
// flags. Output is formatted with semantic prefixes and colors.
//
// # Verbosity Levels
//
// Logging behavior is controlled by two flags:
//
//   - --verbose: Shows info and warning messages
//   - --debug: Shows all messages including debug details
//
// Without flags, only warnings and errors are shown.
//
// # Usage
//
// Create a logger with the desired verbosity:
//
//	log := Logger{Verbose: verbose, Debug: debug}
//	log.Infof("Injecting %d target(s)", count)
//
// Commands create a logger in their PersistentPreRun and pass it to
// workflow functions. Secret values must never be passed to the logger;
// log key names and counts only.
package logger
