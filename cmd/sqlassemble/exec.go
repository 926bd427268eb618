package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/biyonik/query-assembler/internal/recipe"
	"github.com/biyonik/query-assembler/pkg/database"
	"github.com/biyonik/query-assembler/pkg/journal"
)

var (
	execTimeout time.Duration
	execTx      bool
)

var execCmd = &cobra.Command{
	Use:   "exec <recipe.yaml>...",
	Short: "Render recipes and execute them against MySQL",
	Long: `Render one or more recipes and execute them in order against the database
configured by DB_DSN. Every statement is recorded in the configured journal.`,
	Example: `  # Run a single recipe
  sqlassemble exec users.yaml

  # Run several recipes inside one transaction
  sqlassemble exec --tx lock.yaml debit.yaml credit.yaml`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		recipes := make([]*recipe.Recipe, len(args))
		for i, path := range args {
			r, err := recipe.Load(path)
			if err != nil {
				return err
			}
			recipes[i] = r
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), execTimeout)
		defer cancel()

		db, err := database.Connect(database.ConnectionConfig{
			DSN:             cfg.DB.DSN,
			MaxOpenConns:    cfg.DB.MaxOpenConns,
			MaxIdleConns:    cfg.DB.MaxIdleConns,
			ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
		}, logger)
		if err != nil {
			return err
		}
		defer db.Close()

		j, closeJournal, err := openJournal()
		if err != nil {
			return err
		}
		defer closeJournal()

		opts := executorOptions(j)
		if !execTx {
			return runRecipes(ctx, cmd, database.NewExecutor(db, opts...), recipes, args)
		}

		return database.WithTransaction(ctx, db, logger, func(tx *database.Transaction) error {
			return runRecipes(ctx, cmd, tx.Executor(opts...), recipes, args)
		})
	},
}

func init() {
	f := execCmd.Flags()
	f.DurationVar(&execTimeout, "timeout", 30*time.Second, "overall execution timeout")
	f.BoolVar(&execTx, "tx", false, "run all recipes inside a single transaction")
}

func executorOptions(j journal.Journal) []database.ExecutorOption {
	opts := []database.ExecutorOption{
		database.WithLogger(logger),
		database.WithJournal(j),
		database.WithVerbose(verbose),
	}
	if cfg.RateLimit.Enabled {
		opts = append(opts, database.WithRateLimit(cfg.RateLimit.PerSecond, cfg.RateLimit.Burst))
	}
	return opts
}

func runRecipes(ctx context.Context, cmd *cobra.Command, exec *database.Executor, recipes []*recipe.Recipe, names []string) error {
	qb := newBuilder()
	out := cmd.OutOrStdout()

	for i, r := range recipes {
		stmt, err := r.Build(qb)
		if err != nil {
			return fmt.Errorf("building %s: %w", names[i], err)
		}

		if isRead(r.Verb) {
			rows, err := exec.Query(ctx, stmt)
			if err != nil {
				return fmt.Errorf("executing %s: %w", names[i], err)
			}
			fmt.Fprintf(out, "%s: %d row(s)\n", names[i], len(rows))
			for _, row := range rows {
				fmt.Fprintf(out, "  %v\n", row)
			}
			continue
		}

		res, err := exec.Exec(ctx, stmt)
		if err != nil {
			return fmt.Errorf("executing %s: %w", names[i], err)
		}
		fmt.Fprintf(out, "%s: %d row(s) affected, last insert id %d\n", names[i], res.RowsAffected, res.LastInsertID)
	}
	return nil
}

func isRead(verb string) bool {
	switch strings.ToLower(strings.TrimSpace(verb)) {
	case "", "select", "get", "getone":
		return true
	}
	return false
}
