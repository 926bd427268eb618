package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/biyonik/query-assembler/internal/recipe"
	"github.com/biyonik/query-assembler/pkg/database"
)

var buildFormat string

var buildCmd = &cobra.Command{
	Use:   "build <recipe.yaml>",
	Short: "Render a recipe into SQL and bind values",
	Long:  `Render a recipe into placeholder SQL, the ordered bind values and the type signature without touching a database.`,
	Example: `  # Render a recipe
  sqlassemble build users.yaml

  # Render with a table prefix as JSON
  sqlassemble build users.yaml --prefix app_ --format json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := recipe.Load(args[0])
		if err != nil {
			return err
		}

		stmt, err := r.Build(newBuilder())
		if err != nil {
			return fmt.Errorf("building %s: %w", args[0], err)
		}
		if stmt == nil {
			return fmt.Errorf("building %s: %w", args[0], database.ErrEmptyStatement)
		}

		return writeStatement(cmd.OutOrStdout(), stmt, buildFormat)
	},
}

func init() {
	buildCmd.Flags().StringVar(&buildFormat, "format", "text", "output format: text, json or yaml")
}

// renderedStatement, Statement'ın dışa aktarılan gösterimidir.
type renderedStatement struct {
	SQL      string   `json:"sql" yaml:"sql"`
	Args     []any    `json:"args" yaml:"args"`
	Types    string   `json:"types" yaml:"types"`
	Options  []string `json:"options,omitempty" yaml:"options,omitempty"`
	NestJoin bool     `json:"nest_join,omitempty" yaml:"nest_join,omitempty"`
	Debug    string   `json:"debug" yaml:"debug"`
}

func writeStatement(w io.Writer, stmt *database.Statement, format string) error {
	out := renderedStatement{
		SQL:      stmt.SQL,
		Args:     stmt.Args,
		Types:    stmt.Types,
		Options:  stmt.Options,
		NestJoin: stmt.NestJoin,
		Debug:    stmt.Debug(),
	}

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(out)
	case "text", "":
		fmt.Fprintf(w, "SQL:   %s\n", out.SQL)
		fmt.Fprintf(w, "Args:  %v\n", out.Args)
		fmt.Fprintf(w, "Types: %s\n", out.Types)
		fmt.Fprintf(w, "Debug: %s\n", out.Debug)
		return nil
	}
	return fmt.Errorf("unknown format %q", format)
}
