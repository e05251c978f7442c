package cleaner

import (
	"os"
	"os/signal"
	"syscall"

	logger "github.com/Pamacea/shadow-secret/internal/logging"
)

// NotifyTermination returns a channel that receives SIGINT and SIGTERM.
func NotifyTermination() chan os.Signal {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	return sigs
}

// RestoreOnPanic restores registered files when the calling goroutine
// panics, then re-panics so the crash still surfaces. Use with defer.
func RestoreOnPanic(log logger.Logger, ledger *Ledger, processNames []string) {
	if r := recover(); r != nil {
		log.Errorf("panic during session, restoring injected files")
		CleanupAndRestore(log, ledger, processNames)
		panic(r)
	}
}
