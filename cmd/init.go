package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/SDFIdk/SDE-CRA/internal/config"
	"github.com/SDFIdk/SDE-CRA/internal/templates"
	"github.com/SDFIdk/SDE-CRA/internal/utils"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init [workspace-name]",
	Args:  cobra.MaximumNArgs(1),
	Short: "Scaffold a new maintenance workspace",
	Long: `Initialize a new sdecra workspace by scaffolding the required structure:
  - A starter sdecra.yml configuration file
  - A .sdecra/ directory for logs

This command can be used non-interactively with an optional [workspace-name],
or it will launch an interactive prompt to collect the admin and data-owner
connection file paths and the workspace name.`,
	Run: func(cmd *cobra.Command, args []string) {
		var adminConn, ownerConn, workspaceName string
		var canceled bool

		if len(args) > 0 {
			adminConn, ownerConn, workspaceName, canceled = RunInitTUI(args[0])
		} else {
			adminConn, ownerConn, workspaceName, canceled = RunInitTUI("")
		}

		if canceled {
			fmt.Println("✖ sdecra init canceled.")
			return
		}

		targetDir := workspaceName
		displayName := workspaceName

		// If current directory (default) selected, name after cwd
		if displayName == "." {
			cwd, _ := os.Getwd()
			displayName = filepath.Base(cwd)
		}

		// If we are making a new subdirectory, ensure it doesn't already exist
		if targetDir != "." {
			utils.MustNotExist(targetDir)
			err := os.MkdirAll(targetDir, 0755)
			cobra.CheckErr(err)
		}

		fmt.Printf("↪ scaffolding new workspace %q ...\n", displayName)

		utils.MustNotExist(filepath.Join(targetDir, ".sdecra"))

		utils.MkDir(targetDir, ".sdecra")
		utils.MkDir(targetDir, ".sdecra", "logs")

		data := map[string]string{
			"WorkspaceName": displayName,
			"Toolbox":       config.DefaultToolbox,
			"AdminConn":     adminConn,
			"OwnerConn":     ownerConn,
		}

		outPath := filepath.Join(targetDir, "sdecra.yml")
		utils.MustNotExist(outPath)
		err := templates.WriteTpl("files/sdecra.yml.tmpl", outPath, data)
		cobra.CheckErr(err)

		fmt.Printf("✓ workspace %q initialized!\n", displayName)
	},
}
