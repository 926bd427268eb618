package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/biyonik/query-assembler/pkg/journal"
)

var journalLimit int

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Show recently executed statements",
	Long: `Show recently executed statements from the journal.

Only the redis driver is shared between processes; the memory journal lives
only as long as a single exec invocation.`,
	Example: `  JOURNAL_DRIVER=redis sqlassemble journal --limit 20`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Journal.Driver != "redis" {
			return fmt.Errorf("journal command requires JOURNAL_DRIVER=redis (got %q)", cfg.Journal.Driver)
		}

		j, closeJournal, err := openJournal()
		if err != nil {
			return err
		}
		defer closeJournal()

		entries, err := j.Recent(cmd.Context(), journalLimit)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, e := range entries {
			status := "✅"
			if e.Error != "" {
				status = "❌"
			}
			fmt.Fprintf(out, "%s %s [%s] %s (%s)\n", status, e.ExecutedAt.Format(time.RFC3339), e.Types, e.Debug, e.Duration)
			if e.Error != "" {
				fmt.Fprintf(out, "    %s\n", e.Error)
			}
		}
		return nil
	},
}

func init() {
	journalCmd.Flags().IntVar(&journalLimit, "limit", 20, "number of entries to show")
}

// openJournal, JOURNAL_DRIVER ayarına göre journal oluşturur.
func openJournal() (journal.Journal, func(), error) {
	switch cfg.Journal.Driver {
	case "redis":
		rc := journal.DefaultRedisConfig()
		rc.Host = cfg.Redis.Host
		rc.Port = cfg.Redis.Port
		rc.Password = cfg.Redis.Password
		rc.DB = cfg.Redis.DB

		client, err := journal.NewRedisClient(rc, logger)
		if err != nil {
			return nil, nil, err
		}
		return journal.NewRedisJournal(client, logger, cfg.Journal.Key, cfg.Journal.Size), func() { _ = client.Close() }, nil
	case "none":
		return journal.Nop{}, func() {}, nil
	}
	return journal.NewMemoryJournal(cfg.Journal.Size), func() {}, nil
}
