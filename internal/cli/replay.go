package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/critterkeep/internal/engine"
)

type replaySummary struct {
	*engine.ReplayReport
}

func (r replaySummary) String() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Replayed %d entries: %d matched", r.Entries, r.Matched)
	for _, m := range r.Mismatches {
		fmt.Fprintf(&buf, "\n  seq %d (%s): %s", m.Seq, m.Op, m.Reason)
	}
	if r.OK() {
		buf.WriteString("\nJournal is deterministic.")
	}
	return buf.String()
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "replay",
		Short: "Replay the journal and verify determinism",
		Long: `Re-execute every journaled operation against a fresh in-memory game with
the database's seed and the configured rules and catalog, and compare each
entry with the recorded one.

Exit codes:
  0 - Every entry reproduced
  1 - At least one entry was rejected or diverged
  2 - Command error (database not found, etc.)

Examples:
  critterkeep replay --db ./critterkeep.db
  critterkeep replay --db ./critterkeep.db --rules ./tuned.cue --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, st, err := rootOpts.openEngine(ctx)
			if err != nil {
				return err
			}
			defer closeStore(st, rootOpts.logger())

			report, err := e.Verify(ctx)
			if err != nil {
				return WrapExitError(ExitCommandError, "replay failed", err)
			}
			if err := rootOpts.formatter(cmd).Success(replaySummary{report}); err != nil {
				return err
			}
			if !report.OK() {
				return NewExitError(ExitFailure, fmt.Sprintf("%d journal entries did not reproduce", len(report.Mismatches)))
			}
			return nil
		},
	}
}
