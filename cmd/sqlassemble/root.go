package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/biyonik/query-assembler/internal/config"
	"github.com/biyonik/query-assembler/pkg/database"
)

var (
	// Global state set during PersistentPreRunE
	cfg    *config.Config
	logger *log.Logger

	// Persistent flags
	envFile string
	prefix  string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "sqlassemble",
	Short: "Assemble parameterized MySQL statements from recipes",
	Long: `sqlassemble - parameterized MySQL statement assembler

sqlassemble turns YAML statement recipes into placeholder SQL text with an
ordered bind sequence and type signature, and can execute the result.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		logger = log.New(cmd.ErrOrStderr(), "", log.LstdFlags)
		if !verbose {
			// Config uyarıları sadece -v ile gösterilir.
			log.SetOutput(io.Discard)
		}

		if envFile != "" {
			cfg = config.Load(envFile)
		} else {
			cfg = config.Load()
		}
		log.SetOutput(os.Stderr)

		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}
		if prefix != "" {
			cfg.DB.TablePrefix = prefix
		}
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "env file to load (default: .env)")
	rootCmd.PersistentFlags().StringVar(&prefix, "prefix", "", "table prefix (overrides DB_TABLE_PREFIX)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log configuration warnings and executed statements")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(execCmd)
	rootCmd.AddCommand(journalCmd)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

// newBuilder, config'teki önek ile yeni bir builder oluşturur.
func newBuilder() *database.QueryBuilder {
	return database.NewBuilder(database.Config{Prefix: cfg.DB.TablePrefix})
}
