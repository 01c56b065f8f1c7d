package cli

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/critterkeep/internal/catalog"
	"github.com/roach88/critterkeep/internal/clock"
	"github.com/roach88/critterkeep/internal/config"
	"github.com/roach88/critterkeep/internal/engine"
	"github.com/roach88/critterkeep/internal/random"
	"github.com/roach88/critterkeep/internal/rules"
	"github.com/roach88/critterkeep/internal/store"
)

// RootOptions holds global flags for all commands. Unset flags fall back
// to the CRITTERKEEP_* environment.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	DB      string
	Seed    int64
	Rules   string
	Catalog string

	// Logger is built by the root command before any subcommand runs.
	Logger *slog.Logger

	// Clock supplies operation and read times when --at is not given.
	Clock clock.Clock
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the critterkeep CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{Clock: clock.Real{}})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "critterkeep",
		Short: "critterkeep - virtual pet game engine",
		Long: `Raise, equip and battle virtual pets, and trade items on a shared marketplace.

State lives in a SQLite database. Every accepted operation is journaled and
can be replayed to verify the database.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			cfg, err := config.Load()
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid environment", err)
			}
			opts.applyConfig(cmd, cfg)

			level := cfg.LogLevel
			if opts.Verbose {
				level = slog.LevelDebug
			}
			opts.Logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	flags.StringVar(&opts.Format, "format", "text", "output format (json|text)")
	flags.StringVar(&opts.DB, "db", "", "path to SQLite database (env CRITTERKEEP_DB)")
	flags.Int64Var(&opts.Seed, "seed", 0, "random seed for a new database (env CRITTERKEEP_SEED)")
	flags.StringVar(&opts.Rules, "rules", "", "CUE file overriding balance rules (env CRITTERKEEP_RULES)")
	flags.StringVar(&opts.Catalog, "catalog", "", "YAML item catalog (env CRITTERKEEP_CATALOG)")

	cmd.AddCommand(NewOpCommand(opts))
	cmd.AddCommand(NewStatsCommand(opts))
	cmd.AddCommand(NewBattleCommand(opts))
	cmd.AddCommand(NewListingsCommand(opts))
	cmd.AddCommand(NewCatalogCommand(opts))
	cmd.AddCommand(NewJournalCommand(opts))
	cmd.AddCommand(NewReplayCommand(opts))
	cmd.AddCommand(NewScenarioCommand(opts))

	return cmd
}

// applyConfig fills options whose flags were not given.
func (o *RootOptions) applyConfig(cmd *cobra.Command, cfg config.Config) {
	flags := cmd.Flags()
	if !flags.Changed("db") {
		o.DB = cfg.DB
	}
	if !flags.Changed("seed") {
		o.Seed = cfg.Seed
	}
	if !flags.Changed("rules") {
		o.Rules = cfg.Rules
	}
	if !flags.Changed("catalog") {
		o.Catalog = cfg.Catalog
	}
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// at parses an RFC 3339 --at value, or reads the clock when it is empty.
func (o *RootOptions) at(value string) (time.Time, error) {
	if value == "" {
		return o.Clock.Now(), nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, WrapExitError(ExitCommandError, "invalid --at time", err)
	}
	return t, nil
}

func (o *RootOptions) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

// loadBalance returns the configured rules and catalog.
func (o *RootOptions) loadBalance() (*rules.Rules, *catalog.Catalog, error) {
	r := rules.Default()
	if o.Rules != "" {
		var err error
		if r, err = rules.LoadFile(o.Rules); err != nil {
			return nil, nil, WrapExitError(ExitCommandError, "failed to load rules", err)
		}
	}
	c := catalog.Default()
	if o.Catalog != "" {
		var err error
		if c, err = catalog.LoadFile(o.Catalog); err != nil {
			return nil, nil, WrapExitError(ExitCommandError, "failed to load catalog", err)
		}
	}
	return r, c, nil
}

// openEngine opens the database and builds an engine over it. The caller
// must close the returned store.
func (o *RootOptions) openEngine(ctx context.Context) (*engine.Engine, *store.SQLite, error) {
	r, c, err := o.loadBalance()
	if err != nil {
		return nil, nil, err
	}

	log := o.logger()
	log.Debug("opening database", "path", o.DB)
	st, err := store.Open(o.DB)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}

	seed, err := engine.SeedFrom(ctx, st, func() (int64, error) {
		if o.Seed != 0 {
			return o.Seed, nil
		}
		return random.NewSeed()
	})
	if err != nil {
		closeStore(st, log)
		return nil, nil, WrapExitError(ExitCommandError, "failed to load seed", err)
	}
	if o.Seed != 0 && o.Seed != seed {
		log.Warn("database keeps its original seed", "requested", o.Seed, "seed", seed)
	}

	e, err := engine.New(st,
		engine.WithRules(r),
		engine.WithCatalog(c),
		engine.WithRandom(random.NewSeeded(seed)),
		engine.WithLogger(log),
	)
	if err != nil {
		closeStore(st, log)
		return nil, nil, WrapExitError(ExitCommandError, "failed to create engine", err)
	}
	log.Debug("database ready", "seed", seed)
	return e, st, nil
}

func closeStore(st store.Store, log *slog.Logger) {
	if err := st.Close(); err != nil {
		log.Error("error closing database", "error", err)
	}
}
