package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/solatis/spellcore/internal/core/config"
	"github.com/solatis/spellcore/internal/core/db"
	"github.com/solatis/spellcore/internal/core/logging"
	"github.com/solatis/spellcore/internal/rulefile"
	"github.com/solatis/spellcore/internal/rules"
	"github.com/solatis/spellcore/internal/types"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const Version = "0.1.0"

var (
	configFile string
	dbURL      string
	logLevel   string
	logFormat  string
)

var rootCmd = &cobra.Command{
	Use:           "spellcore",
	Short:         "Affix-based morphological lookup",
	Long:          `spellcore decomposes words into stems and affixes using Hunspell-style rule sets and serves lookups over gRPC.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&dbURL, "db-url", "", "database connection URL (sqlite://path or postgres://...)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "json", "log format (json, text)")
}

func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads file and environment configuration and applies the
// persistent flags the user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("db-url") {
		cfg.Database.URL = dbURL
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = logFormat
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, nil
}

// openDatabase opens the configured database. The caller closes it.
func openDatabase(ctx context.Context, cfg *config.Config) (*sqlx.DB, error) {
	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("--db-url (or SC_DATABASE_URL) required")
	}
	database, err := db.Open(ctx, cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return database, nil
}

// findStoredRuleSet resolves ref as a rule set name, then as an ID.
func findStoredRuleSet(ctx context.Context, store *db.Store, ref string) (*types.RuleSetDef, error) {
	id, err := store.FindRuleSetID(ctx, ref)
	if errors.Is(err, types.ErrRuleSetNotFound) {
		id = types.RuleSetID(ref)
	} else if err != nil {
		return nil, err
	}
	return store.LoadRuleSet(ctx, id)
}

// loadRuleSet compiles the rule set named by ref, read from rulesFile when
// set and from the database otherwise. An empty ref falls back to
// lookup.rule_set.
func loadRuleSet(ctx context.Context, cfg *config.Config, rulesFile, ref string) (*rules.RuleSet, error) {
	var def *types.RuleSetDef
	if rulesFile != "" {
		d, err := rulefile.Load(rulesFile)
		if err != nil {
			return nil, err
		}
		def = d
	} else {
		if ref == "" {
			ref = cfg.Lookup.RuleSet
		}
		if ref == "" {
			return nil, fmt.Errorf("--rule-set (or SC_LOOKUP_RULE_SET) required without --rules-file")
		}

		database, err := openDatabase(ctx, cfg)
		if err != nil {
			return nil, err
		}
		defer database.Close()

		store, err := db.NewStore(database)
		if err != nil {
			return nil, err
		}
		def, err = findStoredRuleSet(ctx, store, ref)
		if err != nil {
			return nil, err
		}
	}

	rs, err := rules.CompileRuleSet(def)
	if err != nil {
		return nil, fmt.Errorf("failed to compile rule set %q: %w", def.Name, err)
	}
	return rs, nil
}

// addRuleSetFlags registers the rule set source flags shared by the lookup
// commands.
func addRuleSetFlags(cmd *cobra.Command) {
	cmd.Flags().String("rules-file", "", "YAML rule file (bypasses the database)")
	cmd.Flags().String("rule-set", "", "stored rule set name or ID")
}

func ruleSetFromFlags(cmd *cobra.Command, cfg *config.Config) (*rules.RuleSet, error) {
	rulesFile, _ := cmd.Flags().GetString("rules-file")
	ref, _ := cmd.Flags().GetString("rule-set")
	return loadRuleSet(cmd.Context(), cfg, rulesFile, ref)
}
