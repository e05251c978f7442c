package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"

	"github.com/Pamacea/shadow-secret/internal/cleaner"
	"github.com/Pamacea/shadow-secret/internal/ui"
	"github.com/Pamacea/shadow-secret/internal/utils"
	"github.com/Pamacea/shadow-secret/internal/workflows"
)

var (
	unlockConfigPath string
	unlockIdentity   string
	unlockOnce       bool
)

func init() {
	unlockCmd.Flags().StringVarP(&unlockConfigPath, "config", "c", "", "path to shadow-secret.yaml (default: discover)")
	unlockCmd.Flags().StringVarP(&unlockIdentity, "identity", "i", "", "age identity file, or - for stdin")
	unlockCmd.Flags().BoolVar(&unlockOnce, "once", false, "inject, restore immediately, and exit (for scripting)")
}

func resetUnlockCommandState() {
	unlockConfigPath = ""
	unlockIdentity = ""
	unlockOnce = false
}

var unlockCmd = &cobra.Command{
	Use:   "unlock",
	Short: "Inject secrets into the configured files for a session",
	Long: `Decrypts the vault and substitutes configured placeholders in every
target file. The command then waits; pressing Ctrl+C (or sending SIGTERM)
restores every file to its original content and exits.

If any target fails, files already injected are rolled back and nothing
is left modified.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Triggers are armed before any file is touched. A signal or
		// panic landing mid-injection restores whatever the ledger
		// holds at that point.
		ledger := cleaner.NewLedger()
		defer cleaner.RestoreOnPanic(Logger, ledger, cleaner.DefaultKillList)

		sigs := cleaner.NotifyTermination()
		injecting := make(chan struct{})
		go func() {
			select {
			case <-injecting:
			case sig := <-sigs:
				fmt.Println()
				Logger.Infof("received %s during unlock", sig)
				cleaner.CleanupAndRestore(Logger, ledger, cleaner.DefaultKillList)
				os.Exit(1)
			}
		}()

		spinner, cleanup := startSpinner("Unlocking secrets...", verbose)

		result, err := workflows.Unlock(context.Background(), workflows.UnlockOptions{
			ConfigPath:   unlockConfigPath,
			IdentityFile: unlockIdentity,
			Ledger:       ledger,
			Logger:       Logger,
		})
		close(injecting)
		if err != nil {
			spinner.FinalMSG = ui.Error.Sprint("✗") + " Failed to unlock: " + err.Error()
			cleanup()
			return err
		}

		var paths []string
		for _, target := range result.Targets {
			paths = append(paths, target.Path)
		}
		spinner.FinalMSG = ui.Success.Sprint("✓") +
			fmt.Sprintf(" Injected %d secret(s) into %d file(s):%s", result.SecretCount, len(paths), utils.FormatPaths(paths))
		cleanup()

		if unlockOnce {
			restoreAndReport(result, "ok")
			return nil
		}

		fmt.Println()
		figure.NewColorFigure("unlocked", "alligator2", "green", true).Print()
		fmt.Println()
		fmt.Printf("%s Session %s\n", ui.Info.Sprint("→"), ui.Highlight.Sprint(result.SessionID))
		fmt.Printf("%s Press %s to restore and exit\n", ui.Info.Sprint("→"), ui.Code.Sprint("Ctrl+C"))

		sig := <-sigs
		fmt.Println()
		Logger.Infof("received %s", sig)

		restoreAndReport(result, "signal")
		return nil
	},
}

func restoreAndReport(result *workflows.UnlockResult, outcome string) {
	restoreResult := workflows.Restore(Logger, result, outcome)
	if len(restoreResult.Failures) > 0 {
		for _, failure := range restoreResult.Failures {
			printError("Failed to restore "+failure.Path, failure.Err)
		}
		fmt.Printf("%s Restored %d of %d file(s)\n", ui.Warning.Sprint("⚠"), restoreResult.Restored, restoreResult.Attempted)
		return
	}
	fmt.Printf("%s Restored %d file(s)\n", ui.Success.Sprint("✓"), restoreResult.Restored)
}
