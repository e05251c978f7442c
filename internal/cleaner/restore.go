package cleaner

import (
	"strings"

	"github.com/shirou/gopsutil/v4/process"

	logger "github.com/Pamacea/shadow-secret/internal/logging"
)

// DefaultKillList names the processes stopped before restoration. Dev
// servers watch config files and rewrite them on change, which would
// clobber a restore in flight.
var DefaultKillList = []string{"node", "openclaw"}

// RestoreFailure records one file that could not be restored.
type RestoreFailure struct {
	Path string
	Err  error
}

// RestoreResult summarizes a restoration pass.
type RestoreResult struct {
	Attempted int
	Restored  int
	Failures  []RestoreFailure
}

// CleanupAndRestore stops blocking processes, drains the ledger, and
// writes every snapshot back to disk. Failures on individual files are
// collected rather than aborting the pass. Calling it on an empty ledger
// is a no-op.
func CleanupAndRestore(log logger.Logger, ledger *Ledger, processNames []string) RestoreResult {
	if ledger.IsEmpty() {
		log.Debugf("no injected files registered, nothing to restore")
		return RestoreResult{}
	}

	killProcesses(log, processNames)

	snapshots := ledger.Drain()
	result := RestoreResult{Attempted: len(snapshots)}

	for _, snapshot := range snapshots {
		if err := snapshot.Restore(); err != nil {
			log.Errorf("failed to restore %s: %v", snapshot.Path(), err)
			result.Failures = append(result.Failures, RestoreFailure{Path: snapshot.Path(), Err: err})
			continue
		}
		log.Infof("restored %s", snapshot.Path())
		result.Restored++
	}

	return result
}

// killProcesses terminates every running process whose name matches an
// entry in names. Match is by base executable name, case-insensitive,
// with a Windows .exe suffix trimmed.
func killProcesses(log logger.Logger, names []string) {
	if len(names) == 0 {
		return
	}

	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[strings.ToLower(name)] = true
	}

	procs, err := process.Processes()
	if err != nil {
		log.Warnf("could not enumerate processes: %v", err)
		return
	}

	for _, proc := range procs {
		name, err := proc.Name()
		if err != nil {
			continue
		}
		name = strings.ToLower(strings.TrimSuffix(name, ".exe"))
		if !wanted[name] {
			continue
		}
		if err := proc.Kill(); err != nil {
			log.Warnf("could not kill %s (pid %d): %v", name, proc.Pid, err)
			continue
		}
		log.Infof("killed %s (pid %d)", name, proc.Pid)
	}
}
