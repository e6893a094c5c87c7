package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rtzll/ytrag/internal"
)

// initCmd writes the default config and document template
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default config.toml and document.tmpl",
	Example: `  # Create the default files in the config directory
  ytrag init`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		wrote, err := internal.EnsureDefaultConfig(config.ConfigDir)
		if err != nil {
			return err
		}
		printInitResult("Config", filepath.Join(config.ConfigDir, "config.toml"), wrote)

		wrote, err = internal.EnsureDefaultTemplate(config.ConfigDir)
		if err != nil {
			return err
		}
		printInitResult("Template", filepath.Join(config.ConfigDir, internal.DocumentTemplateFilename), wrote)

		return nil
	},
}

func printInitResult(what, path string, wrote bool) {
	if wrote {
		fmt.Printf("%s written: %s\n", what, path)
		return
	}
	fmt.Printf("%s already exists: %s\n", what, path)
}

func init() {
	rootCmd.AddCommand(initCmd)
}
