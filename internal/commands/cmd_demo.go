package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/sooner/internal/core/logging"
	"github.com/hay-kot/sooner/internal/core/notify"
	"github.com/hay-kot/sooner/internal/tui"
	"github.com/hay-kot/sooner/pkg/profiler"
)

type DemoCmd struct {
	flags        *Flags
	profilerPort int
}

// NewDemoCmd creates a new demo command
func NewDemoCmd(flags *Flags) *DemoCmd {
	return &DemoCmd{flags: flags}
}

// Flags returns the demo flags. They are registered on the demo command and
// on the root command, where the demo is the default action.
func (cmd *DemoCmd) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "profiler-port",
			Usage:       "enable pprof HTTP endpoint on specified port (e.g., 6060)",
			Sources:     cli.EnvVars("SOONER_PROFILER_PORT"),
			Destination: &cmd.profilerPort,
		},
	}
}

// Register adds the demo command to the application
func (cmd *DemoCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "demo",
		Usage:       "Open the interactive toast demo",
		UsageText:   "sooner demo [--profiler-port PORT]",
		Description: "Raise every kind of notification from the keyboard and watch the hub expire, replace, and clean them up.",
		Flags:       cmd.Flags(),
		Action:      cmd.Run,
	})

	return app
}

// Run executes the demo. Exported for use as default command.
func (cmd *DemoCmd) Run(ctx context.Context, _ *cli.Command) error {
	return cmd.run(ctx, nil)
}

// run starts the demo on a fresh hub. When initial is set it is raised
// through the mounted hub before the first frame.
func (cmd *DemoCmd) run(ctx context.Context, initial *notify.Options) error {
	cfg, err := cmd.flags.LoadConfig()
	if err != nil {
		return err
	}

	if cmd.profilerPort > 0 {
		profServer := profiler.New(cmd.profilerPort, logging.Component("profiler"))
		if err := profServer.Start(ctx); err != nil {
			return fmt.Errorf("failed to start profiler: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := profServer.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("failed to shutdown profiler server")
			}
		}()
		log.Info().
			Str("url", fmt.Sprintf("http://%s/debug/pprof/", profServer.Addr())).
			Msg("profiler endpoint available")
	}

	hub := notify.NewHub(cfg.HubOptions()...)
	defer hub.Close()

	unmount := notify.Mount(hub)
	defer unmount()

	m := tui.New(tui.Deps{Hub: hub}, tui.Opts{Width: cfg.TUI.Width})
	defer m.Close()

	if initial != nil {
		notify.Toast(*initial)
	}

	log.Debug().
		Int("capacity", hub.Capacity()).
		Stringer("default_duration", hub.DefaultDuration()).
		Msg("starting demo")

	p := tea.NewProgram(m, tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run tui: %w", err)
	}

	return nil
}
