package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Pamacea/shadow-secret/internal/ui"
	"github.com/Pamacea/shadow-secret/internal/utils"
	"github.com/Pamacea/shadow-secret/internal/workflows"
)

var initProjectForce bool

func init() {
	initProjectCmd.Flags().BoolVarP(&initProjectForce, "force", "f", false, "overwrite an existing shadow-secret.yaml")
}

func resetInitProjectCommandState() {
	initProjectForce = false
}

var initProjectCmd = &cobra.Command{
	Use:   "init-project [dir]",
	Short: "Scaffold a new shadow-secret project",
	Long: `Creates everything a new project needs: an age identity (generated
once per user and reused), an encrypted example vault, a .sops.yaml so
the sops CLI can edit the vault with the same key, an example target
file, and the shadow-secret.yaml tying them together.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := ""
		if len(args) == 1 {
			dir = args[0]
		}

		spinner, cleanup := startSpinner("Scaffolding project...", verbose)
		defer cleanup()

		result, err := workflows.InitProject(context.Background(), workflows.InitProjectOptions{
			Dir:    dir,
			Force:  initProjectForce,
			Logger: Logger,
		})
		if err != nil {
			spinner.FinalMSG = ui.Error.Sprint("✗") + " Failed to scaffold project: " + err.Error()
			return err
		}

		spinner.FinalMSG = ui.Success.Sprint("✓") + " Project scaffolded:" + utils.FormatPaths(result.Created) +
			ui.Info.Sprint("→") + " Public key: " + ui.Highlight.Sprint(result.PublicKey) + "\n" +
			ui.Info.Sprint("→") + " Edit the vault with " + ui.Code.Sprint(fmt.Sprintf("sops %s", result.VaultPath)) + "\n" +
			ui.Info.Sprint("→") + " Then run " + ui.Code.Sprint("shadow-secret unlock")
		return nil
	},
}
