package cmd

import (
	"fmt"
	"iter"
	"strings"

	"github.com/solatis/spellcore/internal/lookup"
	"github.com/solatis/spellcore/internal/types"
	"github.com/spf13/cobra"
)

var decomposeCmd = &cobra.Command{
	Use:   "decompose <word>",
	Short: "List suffix and prefix decompositions of a word",
	Args:  cobra.ExactArgs(1),
	RunE:  runDecompose,
}

var breakCmd = &cobra.Command{
	Use:   "break <text>",
	Short: "List the partitions of text under the rule set's break patterns",
	Args:  cobra.ExactArgs(1),
	RunE:  runBreak,
}

func init() {
	rootCmd.AddCommand(decomposeCmd, breakCmd)
	addRuleSetFlags(decomposeCmd)
	addRuleSetFlags(breakCmd)
	decomposeCmd.Flags().String("side", "both", "suffix, prefix or both")
	decomposeCmd.Flags().StringSlice("require", nil, "required flags (default: every flag of the rule set)")
	decomposeCmd.Flags().StringSlice("forbid", nil, "forbidden flags")
	decomposeCmd.Flags().Bool("nested", false, "strip a single level only")
	decomposeCmd.Flags().Bool("crossproduct", false, "admit suffixes not marked crossproduct")
}

func runDecompose(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	rs, err := ruleSetFromFlags(cmd, cfg)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	side, _ := flags.GetString("side")
	require, _ := flags.GetStringSlice("require")
	forbid, _ := flags.GetStringSlice("forbid")
	nested, _ := flags.GetBool("nested")
	crossproduct, _ := flags.GetBool("crossproduct")

	opts := lookup.Options{
		Required:     rs.Flags,
		Forbidden:    cfg.Lookup.Forbidden().Union(toFlagSet(forbid)),
		Nested:       nested,
		Crossproduct: crossproduct,
	}
	if flags.Changed("require") {
		opts.Required = toFlagSet(require)
	}

	word := args[0]
	var seqs []iter.Seq[lookup.AffixForm]
	switch side {
	case "suffix":
		seqs = append(seqs, lookup.Desuffix(rs, word, opts))
	case "prefix":
		seqs = append(seqs, lookup.Deprefix(rs, word, opts))
	case "both":
		seqs = append(seqs, lookup.Desuffix(rs, word, opts), lookup.Deprefix(rs, word, opts))
	default:
		return fmt.Errorf("--side must be suffix, prefix or both, got %q", side)
	}

	out := cmd.OutOrStdout()
	for _, seq := range seqs {
		for form := range seq {
			affixes := make([]string, 0, 4)
			for _, a := range form.Affixes() {
				affixes = append(affixes, a.String())
			}
			fmt.Fprintf(out, "%s\t%s\n", form, strings.Join(affixes, "; "))
		}
	}
	return nil
}

func runBreak(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	rs, err := ruleSetFromFlags(cmd, cfg)
	if err != nil {
		return err
	}

	for parts := range lookup.BreakWord(rs, args[0]) {
		fmt.Fprintf(cmd.OutOrStdout(), "%q\n", parts)
	}
	return nil
}

func toFlagSet(names []string) types.FlagSet {
	set := make(types.FlagSet, len(names))
	for _, n := range names {
		set[types.Flag(n)] = struct{}{}
	}
	return set
}
