package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/sooner/internal/core/notify"
)

type SendCmd struct {
	flags *Flags
	demo  *DemoCmd

	title       string
	description string
	variant     string
	duration    string
}

// NewSendCmd creates a new send command
func NewSendCmd(flags *Flags, demo *DemoCmd) *SendCmd {
	return &SendCmd{flags: flags, demo: demo}
}

// Register adds the send command to the application
func (cmd *SendCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "send",
		Usage:     "Open the demo with a notification already raised",
		UsageText: "sooner send [--title TITLE] [--variant VARIANT] [--duration DURATION]",
		Description: `Raises a single notification and opens the demo so its lifecycle can be watched.

Without --title an interactive form asks for the fields.

Durations accept Go syntax (3s, 1500ms), bare milliseconds, or "infinite".`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "title",
				Aliases:     []string{"t"},
				Usage:       "notification title",
				Destination: &cmd.title,
			},
			&cli.StringFlag{
				Name:        "description",
				Aliases:     []string{"d"},
				Usage:       "secondary text",
				Destination: &cmd.description,
			},
			&cli.StringFlag{
				Name:        "variant",
				Usage:       "one of " + strings.Join(variantNames(), ", "),
				Value:       string(notify.VariantDefault),
				Destination: &cmd.variant,
			},
			&cli.StringFlag{
				Name:        "duration",
				Usage:       "visible duration (defaults to the configured duration)",
				Destination: &cmd.duration,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *SendCmd) run(ctx context.Context, _ *cli.Command) error {
	if cmd.title == "" {
		if err := cmd.runForm(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return fmt.Errorf("form: %w", err)
		}
	}

	opts, err := cmd.options()
	if err != nil {
		return err
	}

	return cmd.demo.run(ctx, &opts)
}

func (cmd *SendCmd) options() (notify.Options, error) {
	variant, err := notify.ParseVariant(cmd.variant)
	if err != nil {
		return notify.Options{}, err
	}

	var d notify.Duration
	if cmd.duration != "" {
		d, err = notify.ParseDuration(cmd.duration)
		if err != nil {
			return notify.Options{}, err
		}
	}

	return notify.Options{
		Title:       cmd.title,
		Description: cmd.description,
		Variant:     variant,
		Duration:    d,
	}, nil
}

func (cmd *SendCmd) runForm() error {
	variants := make([]huh.Option[string], 0, len(notify.Variants()))
	for _, v := range notify.Variants() {
		variants = append(variants, huh.NewOption(string(v), string(v)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Validate(validateTitle).
				Value(&cmd.title),
			huh.NewText().
				Title("Description").
				Description("Optional secondary text").
				Value(&cmd.description),
			huh.NewSelect[string]().
				Title("Variant").
				Options(variants...).
				Value(&cmd.variant),
			huh.NewInput().
				Title("Duration").
				Description(`Leave empty for the default, or use 3s, 1500ms, "infinite"`).
				Validate(validateDuration).
				Value(&cmd.duration),
		),
	).Run()
}

func validateTitle(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("title is required")
	}
	return nil
}

func validateDuration(s string) error {
	if s == "" {
		return nil
	}
	_, err := notify.ParseDuration(s)
	return err
}

func variantNames() []string {
	vs := notify.Variants()
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = string(v)
	}
	return out
}
