package cmd

import (
	"fmt"

	"github.com/solatis/spellcore/internal/core/db"
	"github.com/solatis/spellcore/internal/rulefile"
	"github.com/solatis/spellcore/internal/types"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Validate a YAML rule file and store it",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored rule sets",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(importCmd, listCmd)
	importCmd.Flags().Bool("replace", false, "replace a stored rule set with the same name")
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	def, err := rulefile.Load(args[0])
	if err != nil {
		return err
	}

	database, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	store, err := db.NewStore(database)
	if err != nil {
		return err
	}

	var id types.RuleSetID
	if replace, _ := cmd.Flags().GetBool("replace"); replace {
		id, err = store.ReplaceRuleSet(ctx, def)
	} else {
		id, err = store.SaveRuleSet(ctx, def)
	}
	if err != nil {
		return err
	}

	logger.Info("rule set imported",
		zap.String("rule_set", def.Name),
		zap.String("rule_set_id", string(id)),
		zap.Int("affixes", len(def.Affixes)),
		zap.Int("dictionary", len(def.Dictionary)),
	)
	fmt.Fprintln(cmd.OutOrStdout(), id)
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	database, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	store, err := db.NewStore(database)
	if err != nil {
		return err
	}
	summaries, err := store.ListRuleSets(ctx)
	if err != nil {
		return err
	}
	for _, s := range summaries {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\taffixes=%d\twords=%d\tcomplex_prefixes=%t\n",
			s.ID, s.Name, s.Affixes, s.Words, s.ComplexPrefixes)
	}
	return nil
}
