// Package cmd contains all CLI commands for typekana.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/f3rmion/typekana/internal/config"
	"github.com/f3rmion/typekana/internal/tui"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// DebugLogFile is written to the config directory when --debug is set.
const DebugLogFile = "typekana-debug.log"

var (
	cfgDir  string
	logFile io.Closer
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "typekana",
	Short: "Kana typing drills in the terminal",
	Long: `typekana shows one kana at a time and you type its romaji reading.

A round is 20 kana drawn from the groups chosen in settings, never the same
kana twice in a row. Kana you miss come back a few items later. The round is
kept per terminal tab, so closing typekana and starting it again in the same
tab picks up where you left off.

Running 'typekana' without arguments launches the interactive TUI.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logFile != nil {
			logFile.Close()
		}
	},
	RunE: runTUI,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgDir, "config", "", "config directory (default is $XDG_CONFIG_HOME/typekana)")
	pf.Bool("debug", false, "write a debug log to the config directory")
	pf.String("session", "", "session scope (default is the current terminal tab)")
	pf.String("storage", "", "session storage: sqlite, redis or memory (default from settings)")

	viper.BindPFlag("debug", pf.Lookup("debug"))
	viper.BindPFlag("session", pf.Lookup("session"))
	viper.BindPFlag("storage", pf.Lookup("storage"))

	rootCmd.Flags().String("kana", "", "comma-separated kana to practice instead of the configured groups")
}

// initConfig reads .env and ENV variables.
func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "Warning: reading .env:", err)
	}

	if cfgDir != "" {
		viper.Set("config_dir", cfgDir)
	} else {
		dir, err := config.GetConfigDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error finding config directory:", err)
			os.Exit(1)
		}
		viper.Set("config_dir", dir)
	}

	viper.SetEnvPrefix("TYPEKANA")
	viper.AutomaticEnv()
}

// getConfigDir returns the configuration directory path.
func getConfigDir() string {
	return viper.GetString("config_dir")
}

// setupLogging sends the log package to the debug file when --debug is set.
func setupLogging(cmd *cobra.Command, args []string) error {
	if !viper.GetBool("debug") {
		return nil
	}

	dir := getConfigDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	f, err := tea.LogToFile(filepath.Join(dir, DebugLogFile), "typekana")
	if err != nil {
		return fmt.Errorf("opening debug log: %w", err)
	}
	logFile = f
	return nil
}

// runTUI launches the TUI application.
func runTUI(cmd *cobra.Command, args []string) error {
	if !viper.GetBool("debug") {
		// Keep the alt screen clean.
		log.SetOutput(io.Discard)
	}

	ctx := cmd.Context()
	a, err := openApp(ctx, getConfigDir())
	if err != nil {
		return err
	}
	defer a.Close()

	if list, _ := cmd.Flags().GetString("kana"); list != "" {
		if err := a.store.ResetWithKanas(ctx, splitKana(list)); err != nil {
			return fmt.Errorf("starting with --kana: %w", err)
		}
	}

	model := tui.NewApp(ctx, tui.Deps{
		Store:    a.store,
		Settings: a.settings,
		Dict:     a.dict,
		Renderer: a.renderer(),
		Storage:  a.storage,
	})
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}

	return nil
}

// splitKana parses a --kana list. Commas and whitespace both separate.
func splitKana(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '、' || r == ' ' || r == '\t'
	})
}
