package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Pamacea/shadow-secret/internal/ui"
	"github.com/Pamacea/shadow-secret/internal/utils"
	"github.com/Pamacea/shadow-secret/internal/workflows"
)

var (
	pushCloudConfigPath string
	pushCloudProjectID  string
	pushCloudToken      string
	pushCloudDryRun     bool
	pushCloudYes        bool
)

func init() {
	pushCloudCmd.Flags().StringVarP(&pushCloudConfigPath, "config", "c", "", "path to shadow-secret.yaml (default: discover)")
	pushCloudCmd.Flags().StringVar(&pushCloudProjectID, "project", "", "Vercel project ID (default: read .vercel/project.json)")
	pushCloudCmd.Flags().StringVar(&pushCloudToken, "token", "", "Vercel API token (default: VERCEL_TOKEN)")
	pushCloudCmd.Flags().BoolVar(&pushCloudDryRun, "dry-run", false, "list what would be pushed without pushing")
	pushCloudCmd.Flags().BoolVarP(&pushCloudYes, "yes", "y", false, "skip the confirmation prompt")
}

func resetPushCloudCommandState() {
	pushCloudConfigPath = ""
	pushCloudProjectID = ""
	pushCloudToken = ""
	pushCloudDryRun = false
	pushCloudYes = false
}

var pushCloudCmd = &cobra.Command{
	Use:   "push-cloud",
	Short: "Push vault secrets to the linked Vercel project",
	Long: `Decrypts the vault and uploads each secret to Vercel as an encrypted
environment variable, creating or updating as needed.

Secrets whose key starts with LOCAL_ONLY_ are never pushed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var confirm func(string) bool
		if !pushCloudYes && !pushCloudDryRun {
			confirm = func(prompt string) bool {
				return utils.Confirm(os.Stdin, os.Stdout, prompt)
			}
		}

		spinner, cleanup := startSpinner("Pushing secrets to Vercel...", verbose)
		defer cleanup()

		// The confirmation prompt needs the terminal to itself.
		if confirm != nil {
			spinner.Stop()
		}

		result, err := workflows.PushCloud(context.Background(), workflows.PushCloudOptions{
			ConfigPath: pushCloudConfigPath,
			ProjectID:  pushCloudProjectID,
			Token:      pushCloudToken,
			DryRun:     pushCloudDryRun,
			Confirm:    confirm,
			Logger:     Logger,
		})
		if err != nil {
			spinner.FinalMSG = ui.Error.Sprint("✗") + " Failed to push secrets: " + err.Error()
			return err
		}

		switch {
		case result.Aborted:
			spinner.FinalMSG = ui.Warning.Sprint("⚠") + " Push aborted"
		case result.DryRun:
			spinner.FinalMSG = ui.Info.Sprint("→") +
				fmt.Sprintf(" Would push %d secret(s) to %s: %s",
					len(result.Pushed), result.ProjectID, strings.Join(result.Pushed, ", ")) +
				skippedSummary(result.Skipped)
		default:
			spinner.FinalMSG = ui.Success.Sprint("✓") +
				fmt.Sprintf(" Pushed %d secret(s) to %s", len(result.Pushed), result.ProjectID) +
				skippedSummary(result.Skipped)
		}
		return nil
	},
}

func skippedSummary(skipped []string) string {
	if len(skipped) == 0 {
		return ""
	}
	return "\n" + ui.Muted.Sprintf("%d local-only secret(s) skipped", len(skipped))
}
