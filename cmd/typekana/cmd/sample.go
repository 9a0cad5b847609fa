package cmd

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/f3rmion/typekana/internal/quiz"
	"github.com/spf13/cobra"
)

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Print one generated quiz sequence",
	Long: `Print a quiz sequence the way a new round would draw it, with the
font each kana would be shown in.

Without --groups the groups from settings are used.`,
	Args: cobra.NoArgs,
	RunE: runSample,
}

func init() {
	rootCmd.AddCommand(sampleCmd)
	sampleCmd.Flags().StringSlice("groups", nil, "kana groups to draw from")
	sampleCmd.Flags().Int64("seed", 0, "random seed (default is the current time)")
	sampleCmd.Flags().Int("size", quiz.SessionSize, "sequence length")
	sampleCmd.Flags().Bool("romaji", false, "print readings next to each kana")
}

func runSample(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings(getConfigDir())
	if err != nil {
		return err
	}
	s := settings.Current()

	dict, err := loadDictionary(s)
	if err != nil {
		return err
	}

	groups, _ := cmd.Flags().GetStringSlice("groups")
	if len(groups) == 0 {
		groups = s.Groups
	}
	kanas, err := dict.Kana(groups)
	if err != nil {
		return err
	}

	seed, _ := cmd.Flags().GetInt64("seed")
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	size, _ := cmd.Flags().GetInt("size")
	seq, err := quiz.Sequence(kanas, size, rng)
	if err != nil {
		return fmt.Errorf("groups %s: %w", strings.Join(groups, ","), err)
	}

	withRomaji, _ := cmd.Flags().GetBool("romaji")
	pref := settings.Font()
	out := cmd.OutOrStdout()
	for i, k := range seq {
		line := fmt.Sprintf("%2d  %s  %s", i+1, k, quiz.AssignFont(pref, rng))
		if withRomaji {
			line += "  " + strings.Join(dict.Romaji(k), "/")
		}
		fmt.Fprintln(out, line)
	}

	return nil
}
