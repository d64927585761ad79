package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/solatis/spellcore/internal/core/api"
	"github.com/solatis/spellcore/internal/core/config"
	"github.com/solatis/spellcore/internal/core/db"
	"github.com/solatis/spellcore/internal/core/server"
	"github.com/solatis/spellcore/internal/rulefile"
	"github.com/solatis/spellcore/internal/rules"
	"github.com/solatis/spellcore/internal/types"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the gRPC lookup service",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("host", "0.0.0.0", "gRPC server host")
	serveCmd.Flags().Int("port", 50061, "gRPC server port")
	serveCmd.Flags().StringSlice("rules-file", nil, "YAML rule files to serve in addition to stored rule sets")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("host") {
		cfg.Server.Host, _ = cmd.Flags().GetString("host")
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port, _ = cmd.Flags().GetInt("port")
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	engine := rules.NewEngine()
	if cfg.Database.URL != "" {
		if err := registerStored(ctx, cfg, engine, logger); err != nil {
			return err
		}
	}
	files, _ := cmd.Flags().GetStringSlice("rules-file")
	for _, path := range files {
		def, err := rulefile.Load(path)
		if err != nil {
			return err
		}
		if err := register(engine, def, logger); err != nil {
			return err
		}
	}
	if len(engine.Names()) == 0 {
		return fmt.Errorf("no rule sets to serve (import one or pass --rules-file)")
	}

	service, err := api.NewLookupService(engine, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	grpcServer, err := server.NewGRPCServer(&cfg.Server, service, logger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	logger.Info("starting spellcore lookup service",
		zap.String("version", Version),
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
		zap.Strings("rule_sets", engine.Names()),
	)
	errChan := make(chan error, 1)
	go func() {
		errChan <- grpcServer.Start(ctx)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case <-sigChan:
		logger.Info("shutting down gracefully")
		return grpcServer.Shutdown(ctx)
	}
}

// registerStored compiles every stored rule set into engine.
func registerStored(ctx context.Context, cfg *config.Config, engine *rules.Engine, logger *zap.Logger) error {
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
		return fmt.Errorf("failed to list rule sets (run 'spellcore migrate' first?): %w", err)
	}
	for _, s := range summaries {
		def, err := store.LoadRuleSet(ctx, s.ID)
		if err != nil {
			return err
		}
		if err := register(engine, def, logger); err != nil {
			return err
		}
	}
	return nil
}

// register compiles def into engine. Rule files carry no ID, so one is
// generated for the lifetime of the process.
func register(engine *rules.Engine, def *types.RuleSetDef, logger *zap.Logger) error {
	if def.ID == "" {
		def.ID = types.NewRuleSetID()
	}
	rs, err := rules.CompileRuleSet(def)
	if err != nil {
		return fmt.Errorf("failed to compile rule set %q: %w", def.Name, err)
	}
	if err := engine.Register(rs); err != nil {
		return err
	}
	logger.Info("rule set loaded",
		zap.String("rule_set", rs.Name),
		zap.String("rule_set_id", string(rs.ID)),
		zap.Int("dictionary", len(rs.Dictionary)),
	)
	return nil
}
