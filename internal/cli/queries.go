package cli

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/critterkeep/internal/domain"
	"github.com/roach88/critterkeep/internal/engine"
)

// AccountView is everything the stats command reports for one account.
type AccountView struct {
	Account   *domain.Account       `json:"account"`
	Pet       *engine.PetStats      `json:"pet,omitempty"`
	Inventory *domain.Inventory     `json:"inventory"`
	Equipment *domain.Equipment     `json:"equipment"`
	Effects   []domain.ActiveEffect `json:"effects"`
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "stats <account>",
		Short: "Show an account's pet, inventory and equipment",
		Long: `Show an account's pet as of now (or --at), with its inventory, equipment,
active effects and battle record. Reads never change stored state.

Examples:
  critterkeep stats alice
  critterkeep stats alice --at 2024-01-02T00:00:00Z --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			now, err := rootOpts.at(at)
			if err != nil {
				return err
			}
			return runStats(rootOpts, domain.AccountID(args[0]), now, cmd)
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "read time in RFC 3339 (default now)")
	return cmd
}

func runStats(opts *RootOptions, account domain.AccountID, now time.Time, cmd *cobra.Command) error {
	ctx := cmd.Context()
	e, st, err := opts.openEngine(ctx)
	if err != nil {
		return err
	}
	defer closeStore(st, opts.logger())
	out := opts.formatter(cmd)

	view := AccountView{}
	if view.Account, err = e.Account(ctx, account); err != nil {
		return out.Rejection(err)
	}
	if view.Pet, err = e.PetStats(ctx, account, now); err != nil && !domain.IsRejection(err) {
		return out.Rejection(err)
	}
	if view.Inventory, err = e.Inventory(ctx, account); err != nil {
		return out.Rejection(err)
	}
	if view.Equipment, err = e.EquippedItems(ctx, account); err != nil {
		return out.Rejection(err)
	}
	if view.Effects, err = e.ActiveEffects(ctx, account, now); err != nil {
		return out.Rejection(err)
	}
	return out.Success(view)
}

// NewBattleCommand creates the battle command.
func NewBattleCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "battle <id>",
		Short:         "Show a battle",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid battle id", err)
			}
			ctx := cmd.Context()
			e, st, err := rootOpts.openEngine(ctx)
			if err != nil {
				return err
			}
			defer closeStore(st, rootOpts.logger())

			out := rootOpts.formatter(cmd)
			b, err := e.Battle(ctx, id)
			if err != nil {
				return out.Rejection(err)
			}
			return out.Success(b)
		},
	}
}

// NewListingsCommand creates the listings command.
func NewListingsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "listings",
		Short:         "Show active marketplace listings",
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

			out := rootOpts.formatter(cmd)
			listings, err := e.ActiveListings(ctx)
			if err != nil {
				return out.Rejection(err)
			}
			if listings == nil {
				listings = []domain.Listing{}
			}
			return out.Success(listings)
		},
	}
}
