package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/hay-kot/sooner/internal/core/styles"
	"github.com/hay-kot/sooner/internal/scenario"
)

// ErrChecksFailed is returned by replay --check when any expectation failed.
var ErrChecksFailed = errors.New("replay checks failed")

type ReplayCmd struct {
	flags *Flags

	check bool
	raw   bool
	watch bool
	width int
}

// NewReplayCmd creates a new replay command
func NewReplayCmd(flags *Flags) *ReplayCmd {
	return &ReplayCmd{flags: flags}
}

// Register adds the replay command to the application
func (cmd *ReplayCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "replay",
		Usage:     "Replay notification scenarios on a virtual clock",
		UsageText: "sooner replay [options] [pattern...]",
		Description: `Replays scripted notification scenarios against a hub running on a fake clock
and prints a timeline of every transition along with the result of each expectation.

Patterns are doublestar globs (scenarios/**/*.yaml). Without arguments the
patterns from scenarios.paths in the config file are used.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "check",
				Usage:       "exit non-zero when any expectation fails",
				Destination: &cmd.check,
			},
			&cli.BoolFlag{
				Name:        "raw",
				Usage:       "print the markdown report without rendering it",
				Destination: &cmd.raw,
			},
			&cli.BoolFlag{
				Name:        "watch",
				Aliases:     []string{"w"},
				Usage:       "replay again whenever a scenario file changes",
				Destination: &cmd.watch,
			},
			&cli.IntFlag{
				Name:        "width",
				Usage:       "word wrap width for the rendered report",
				Value:       100,
				Destination: &cmd.width,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ReplayCmd) run(ctx context.Context, c *cli.Command) error {
	cfg, err := cmd.flags.LoadConfig()
	if err != nil {
		return err
	}

	patterns := c.Args().Slice()
	if len(patterns) == 0 {
		patterns = cfg.Scenarios.Paths
	}

	runner := scenario.NewRunner(cfg.HubOptions()...)
	out := c.Root().Writer

	if cmd.watch {
		return cmd.watchAndReplay(ctx, out, runner, patterns)
	}
	return cmd.replay(ctx, out, runner, patterns)
}

func (cmd *ReplayCmd) replay(ctx context.Context, out io.Writer, runner *scenario.Runner, patterns []string) error {
	scenarios, err := scenario.LoadAll(patterns...)
	if err != nil {
		return err
	}

	results := make([]*scenario.Result, 0, len(scenarios))
	failed := 0
	for _, sc := range scenarios {
		res, err := runner.Run(ctx, sc)
		if err != nil {
			return fmt.Errorf("replay %s: %w", sc.Name, err)
		}
		failed += res.Failed()
		results = append(results, res)
	}

	log.Debug().
		Int("scenarios", len(results)).
		Int("failed", failed).
		Msg("replay complete")

	report := scenario.Markdown(results)
	if !cmd.raw && isTerminal(out) {
		rendered, err := renderMarkdown(report, cmd.width)
		if err != nil {
			log.Warn().Err(err).Msg("failed to render report, printing raw markdown")
		} else {
			report = rendered
		}
	}

	if _, err := fmt.Fprint(out, report); err != nil {
		return err
	}

	if cmd.check && failed > 0 {
		return fmt.Errorf("%w: %d failed", ErrChecksFailed, failed)
	}
	return nil
}

// watchAndReplay replays once, then again whenever a matched scenario file
// changes, until ctx is cancelled. Failed checks do not stop the loop.
func (cmd *ReplayCmd) watchAndReplay(ctx context.Context, out io.Writer, runner *scenario.Runner, patterns []string) error {
	paths, err := scenario.Find(patterns...)
	if err != nil {
		return err
	}

	w, err := scenario.NewWatcher(paths)
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	if err := cmd.replay(ctx, out, runner, patterns); err != nil && !errors.Is(err, ErrChecksFailed) {
		return err
	}

	log.Info().Strs("dirs", w.Dirs()).Msg("watching scenarios")

	return w.Run(ctx, func() {
		if err := cmd.replay(ctx, out, runner, patterns); err != nil && !errors.Is(err, ErrChecksFailed) {
			log.Error().Err(err).Msg("replay failed")
			_, _ = fmt.Fprintln(out, styles.FailStyle.Render(err.Error()))
		}
	})
}

func renderMarkdown(md string, width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(styles.GlamourStyle()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	return r.Render(md)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
