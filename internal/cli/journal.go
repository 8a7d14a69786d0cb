package cli

import (
	"github.com/spf13/cobra"

	"github.com/decentpay/escrowkit/internal/journal"
	ekerr "github.com/decentpay/escrowkit/pkg/errors"
)

// journalCmd groups submission journal diagnostics.
var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Inspect the local submission journal",
}

var journalPendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List submissions whose outcome is still ambiguous",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		j, err := openJournal()
		if err != nil {
			return err
		}
		defer func() { _ = j.Close() }()

		entries, err := j.Unresolved()
		if err != nil {
			return err
		}

		if formatter.IsJSON() {
			if entries == nil {
				entries = []journal.Entry{}
			}
			return formatter.Print(entries)
		}
		if len(entries) == 0 {
			return formatter.Println("No unresolved submissions.")
		}
		rows := make([][]string, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, []string{
				e.Hash, string(e.Status), e.Method, e.SubmittedAt.Format("2006-01-02 15:04:05"),
			})
		}
		return formatter.Table(rows)
	},
}

var journalGetCmd = &cobra.Command{
	Use:   "get <hash>",
	Short: "Show the journal entry for a transaction hash",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		j, err := openJournal()
		if err != nil {
			return err
		}
		defer func() { _ = j.Close() }()

		entry, err := j.Get(args[0])
		if err != nil {
			return err
		}
		logger.Submission(entry.Hash, string(entry.Status), entry.Attempts)

		if formatter.IsJSON() {
			return formatter.Print(entry)
		}
		_ = formatter.Printf("%s  %s\n", entry.Hash, entry.Status)
		_ = formatter.Printf("  Method:    %s\n", entry.Method)
		_ = formatter.Printf("  Source:    %s\n", entry.Source)
		_ = formatter.Printf("  Attempts:  %d\n", entry.Attempts)
		_ = formatter.Printf("  Submitted: %s\n", entry.SubmittedAt.Format("2006-01-02 15:04:05"))
		if entry.Error != "" {
			_ = formatter.Printf("  Error:     %s\n", entry.Error)
		}
		return nil
	},
}

func openJournal() (*journal.Journal, error) {
	if cfg == nil || cfg.Journal.Path == "" {
		return nil, ekerr.WithSuggestion(
			ekerr.Wrap(ekerr.ErrConfigInvalid, "no journal path configured"),
			"Set journal.path in the configuration file to enable the submission journal.")
	}
	return journal.Open(cfg.Journal.Path)
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	journalCmd.AddCommand(journalPendingCmd)
	journalCmd.AddCommand(journalGetCmd)
	rootCmd.AddCommand(journalCmd)
}
