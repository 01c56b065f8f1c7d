package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/critterkeep/internal/engine"
	"github.com/roach88/critterkeep/internal/harness"
)

// ScenarioResult holds the result of a single scenario file.
type ScenarioResult struct {
	Name   string   `json:"name"`
	Path   string   `json:"path"`
	Pass   bool     `json:"pass"`
	Errors []string `json:"errors,omitempty"`
}

// ScenarioSummary holds the overall result of the scenario command.
type ScenarioSummary struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

func (s ScenarioSummary) String() string {
	var buf strings.Builder
	for _, r := range s.Scenarios {
		mark := "\u2713"
		if !r.Pass {
			mark = "\u2717"
		}
		fmt.Fprintf(&buf, "%s %s\n", mark, r.Name)
		for _, e := range r.Errors {
			fmt.Fprintf(&buf, "  %s\n", strings.ReplaceAll(strings.TrimRight(e, "\n"), "\n", "\n  "))
		}
	}
	fmt.Fprintf(&buf, "\n%d passed, %d failed, %d total", s.Passed, s.Failed, s.Total)
	return buf.String()
}

// NewScenarioCommand creates the scenario command.
func NewScenarioCommand(rootOpts *RootOptions) *cobra.Command {
	var trace bool

	cmd := &cobra.Command{
		Use:   "scenario <file-or-dir>...",
		Short: "Run scripted game scenarios",
		Long: `Run YAML scenarios against fresh in-memory games. Each scenario sets its
own seed; the configured rules and catalog apply. The database is not
touched.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (missing files, etc.)

Examples:
  critterkeep scenario ./scenarios
  critterkeep scenario battle.yaml market.yaml --format json
  critterkeep scenario ./scenarios --trace`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarios(rootOpts, args, trace, cmd)
		},
	}
	cmd.Flags().BoolVar(&trace, "trace", false, "print each scenario's step trace as JSON lines")
	return cmd
}

func runScenarios(opts *RootOptions, args []string, trace bool, cmd *cobra.Command) error {
	var paths []string
	for _, arg := range args {
		found, err := harness.Discover(arg)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to find scenarios", err)
		}
		paths = append(paths, found...)
	}

	r, c, err := opts.loadBalance()
	if err != nil {
		return err
	}
	h := harness.New(
		harness.WithLogger(opts.logger()),
		harness.WithEngineOptions(engine.WithRules(r), engine.WithCatalog(c)),
	)

	out := opts.formatter(cmd)
	summary := ScenarioSummary{Scenarios: []ScenarioResult{}, Total: len(paths)}
	for _, fr := range h.RunFiles(cmd.Context(), paths) {
		res := ScenarioResult{Name: filepath.Base(fr.Path), Path: fr.Path}
		switch {
		case fr.Err != nil:
			res.Errors = []string{fr.Err.Error()}
		default:
			res.Name = fr.Scenario.Name
			res.Pass = fr.Result.Pass
			res.Errors = fr.Result.Errors
			if trace {
				lines, err := harness.TraceLines(fr.Result.Trace)
				if err != nil {
					return WrapExitError(ExitCommandError, "failed to render trace", err)
				}
				out.VerboseLog("# %s", res.Name)
				fmt.Fprint(cmd.ErrOrStderr(), string(lines))
			}
		}
		if res.Pass {
			summary.Passed++
		} else {
			summary.Failed++
		}
		summary.Scenarios = append(summary.Scenarios, res)
	}

	if err := out.Success(summary); err != nil {
		return err
	}
	if summary.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d scenarios failed", summary.Failed, summary.Total))
	}
	return nil
}
