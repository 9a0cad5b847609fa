package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/f3rmion/typekana/internal/config"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default settings file",
	Long: `Write settings.yaml with the default settings to your config directory.

The file selects:
  - font_family  (Noto Sans JP, Hina Mincho or random)
  - groups       (kana groups to practice)
  - fonts        (optional font files per family)
  - storage      (where the session of each terminal tab is kept)`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().Bool("force", false, "overwrite existing settings")
}

func runInit(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	path := filepath.Join(getConfigDir(), config.SettingsFile)

	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("settings file already exists: %s\nUse --force to overwrite", path)
	}

	if err := config.Save(path, config.Default()); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created %s\n\n", path)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, "  1. Edit the file to pick your kana groups and font")
	fmt.Fprintln(out, "  2. Run 'typekana' to start practicing")

	return nil
}
