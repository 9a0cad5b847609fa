package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/f3rmion/typekana/internal/quiz"
	"github.com/f3rmion/typekana/internal/storage"
	"github.com/f3rmion/typekana/internal/tui/views"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Inspect or drop the stored session of this terminal",
	Long: `Inspect or drop the quiz session stored for the current terminal scope.

The scope is taken from --session, TYPEKANA_SESSION or the terminal's own
tab or pane id.`,
}

var sessionShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the stored session",
	Args:  cobra.NoArgs,
	RunE:  runSessionShow,
}

var sessionClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the stored session so the next start draws a new round",
	Args:  cobra.NoArgs,
	RunE:  runSessionClear,
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionShowCmd)
	sessionCmd.AddCommand(sessionClearCmd)
	sessionShowCmd.Flags().Bool("json", false, "print the raw stored JSON")
}

func runSessionShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openBackendOnly(ctx, getConfigDir())
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()

	data, err := a.backend.Get(ctx, a.key)
	if errors.Is(err, storage.ErrNotFound) {
		fmt.Fprintf(out, "No stored session for %s\n", a.key)
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading session: %w", err)
	}

	if raw, _ := cmd.Flags().GetBool("json"); raw {
		_, err := out.Write(append(data, '\n'))
		return err
	}

	var s quiz.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("decoding session: %w", err)
	}

	printSession(out, a.key, a.storage, s)
	return nil
}

func printSession(w io.Writer, key, where string, s quiz.Session) {
	done, total := s.Progress()
	fmt.Fprintf(w, "Key:      %s\n", key)
	fmt.Fprintf(w, "Storage:  %s\n", where)
	fmt.Fprintf(w, "Progress: %d/%d\n", done, total)

	if len(s.Unquizzed) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Up next:")
		for _, it := range s.Unquizzed {
			fmt.Fprintf(w, "  %s  %s\n", runewidth.FillRight(it.Kana, 4), it.AssignedFont)
		}
	}

	if len(s.Quizzed) > 0 {
		fmt.Fprintln(w)
		fmt.Fprint(w, indent(views.Summary(s), "  "))
	}
}

func indent(text, prefix string) string {
	lines := strings.SplitAfter(text, "\n")
	var b strings.Builder
	for _, l := range lines {
		if l == "" {
			continue
		}
		b.WriteString(prefix + l)
	}
	return b.String()
}

func runSessionClear(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx, getConfigDir())
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.store.Clear(ctx); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Cleared %s\n", a.store.Key())
	return nil
}
