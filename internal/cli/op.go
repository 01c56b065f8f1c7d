package cli

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/critterkeep/internal/domain"
	"github.com/roach88/critterkeep/internal/engine"
)

// OpOptions holds flags for the op command.
type OpOptions struct {
	*RootOptions
	Caller string
	At     string
	Args   string
}

// NewOpCommand creates the op command.
func NewOpCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &OpOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "op <operation>",
		Short: "Invoke a game operation",
		Long: fmt.Sprintf(`Invoke a mutating game operation as an account.

Arguments are a JSON object using the journal's field names. The operation
runs at --at (RFC 3339), or now.

Operations:
  %s

Exit codes:
  0 - Operation accepted
  1 - Operation rejected by a game rule
  2 - Command error (bad flags, database errors, etc.)

Examples:
  critterkeep op createPet --caller alice --args '{"name":"Ember","type":"fire"}'
  critterkeep op feedPet --caller alice --args '{"food":"basic_food"}'
  critterkeep op submitBattleMove --caller bob --args '{"move":"defend"}' --format json`,
			strings.Join(engine.Ops(), "\n  ")),
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOp(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Caller, "caller", "", "account invoking the operation (required)")
	_ = cmd.MarkFlagRequired("caller")
	cmd.Flags().StringVar(&opts.At, "at", "", "operation time in RFC 3339 (default now)")
	cmd.Flags().StringVar(&opts.Args, "args", "{}", "operation arguments as a JSON object")

	return cmd
}

func runOp(opts *OpOptions, op string, cmd *cobra.Command) error {
	if !slices.Contains(engine.Ops(), op) {
		return NewExitError(ExitCommandError, fmt.Sprintf("unknown operation %q", op))
	}
	if !json.Valid([]byte(opts.Args)) {
		return NewExitError(ExitCommandError, "invalid --args JSON")
	}
	now, err := opts.at(opts.At)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	e, st, err := opts.openEngine(ctx)
	if err != nil {
		return err
	}
	defer closeStore(st, opts.logger())

	out := opts.formatter(cmd)
	out.VerboseLog("invoking %s as %s at %s", op, opts.Caller, now.UTC().Format(time.RFC3339))

	result, err := e.Invoke(ctx, op, domain.AccountID(opts.Caller), now, json.RawMessage(opts.Args))
	if err != nil {
		return out.Rejection(err)
	}
	return out.Success(result)
}
