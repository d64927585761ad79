package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/solatis/spellcore/internal/lookup"
	"github.com/solatis/spellcore/internal/types"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [words...]",
	Short: "Check words against a rule set",
	Long: `Check each word (or each line of stdin when no words are given) and print
its analysis. Exits non-zero when any word is misspelled.`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	addRuleSetFlags(checkCmd)
	checkCmd.Flags().StringSlice("forbid", nil, "additional forbidden flags")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	rs, err := ruleSetFromFlags(cmd, cfg)
	if err != nil {
		return err
	}

	forbid, _ := cmd.Flags().GetStringSlice("forbid")
	forbidden := cfg.Lookup.Forbidden()
	for _, f := range forbid {
		forbidden[types.Flag(f)] = struct{}{}
	}
	checker := lookup.NewChecker(rs, rs.Dictionary, forbidden)

	words := args
	if len(words) == 0 {
		scanner := bufio.NewScanner(cmd.InOrStdin())
		for scanner.Scan() {
			if w := strings.TrimSpace(scanner.Text()); w != "" {
				words = append(words, w)
			}
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("failed to read words: %w", err)
		}
	}

	out := cmd.OutOrStdout()
	misspelled := 0
	for _, w := range words {
		analysis, ok, err := checker.CheckContext(cmd.Context(), w)
		if err != nil {
			return err
		}
		if !ok {
			misspelled++
			fmt.Fprintf(out, "%s\tMISS\n", w)
			continue
		}
		forms := make([]string, len(analysis.Forms))
		for i, f := range analysis.Forms {
			forms[i] = f.String()
		}
		fmt.Fprintf(out, "%s\tOK\t%s\n", w, strings.Join(forms, " | "))
	}

	if misspelled > 0 {
		return fmt.Errorf("%d of %d words misspelled", misspelled, len(words))
	}
	return nil
}
