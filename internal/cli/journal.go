package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/critterkeep/internal/store"
)

// JournalOptions holds flags for the journal command.
type JournalOptions struct {
	*RootOptions
	Caller string
	After  int64
	Limit  int
}

type journalTable []store.JournalEntry

func (t journalTable) String() string {
	if len(t) == 0 {
		return "No journal entries."
	}
	var buf strings.Builder
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEQ\tAT\tCALLER\tOP\tARGS")
	for _, e := range t {
		at := time.Unix(e.At, 0).UTC().Format(time.RFC3339)
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", e.Seq, at, e.Caller, e.Op, e.Args)
	}
	w.Flush()
	return strings.TrimRight(buf.String(), "\n")
}

// NewJournalCommand creates the journal command.
func NewJournalCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &JournalOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Show the operation journal",
		Long: `Show journaled operations in sequence order.

Examples:
  critterkeep journal
  critterkeep journal --caller alice --limit 10
  critterkeep journal --after 100 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJournal(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Caller, "caller", "", "only this account's operations")
	cmd.Flags().Int64Var(&opts.After, "after", 0, "only entries after this sequence number")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum number of entries (0 for all)")

	return cmd
}

func runJournal(opts *JournalOptions, cmd *cobra.Command) error {
	if opts.Limit < 0 {
		return NewExitError(ExitCommandError, "--limit must be non-negative")
	}

	ctx := cmd.Context()
	_, st, err := opts.openEngine(ctx)
	if err != nil {
		return err
	}
	defer closeStore(st, opts.logger())

	entries, err := st.Journal(ctx, store.JournalQuery{
		After:  opts.After,
		Caller: opts.Caller,
		Limit:  opts.Limit,
	})
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read journal", err)
	}
	if entries == nil {
		entries = []store.JournalEntry{}
	}
	return opts.formatter(cmd).Success(journalTable(entries))
}
