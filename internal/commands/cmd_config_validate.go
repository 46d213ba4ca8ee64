package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/sooner/internal/core/config"
	"github.com/hay-kot/sooner/internal/core/styles"
)

// ErrInvalidConfig is returned by config validate when the file has problems.
var ErrInvalidConfig = errors.New("configuration is invalid")

type ConfigValidateCmd struct {
	flags  *Flags
	format string
}

// NewConfigValidateCmd creates a new config validate command.
func NewConfigValidateCmd(flags *Flags) *ConfigValidateCmd {
	return &ConfigValidateCmd{flags: flags}
}

// Register adds the config validate command to the application.
func (cmd *ConfigValidateCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Commands: []*cli.Command{
			{
				Name:        "validate",
				Usage:       "Validate configuration file",
				UsageText:   "sooner config validate [options]",
				Description: "Loads the configuration file with .env and SOONER_* overrides applied and reports every invalid field.",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "format",
						Usage:       "output format (text, json)",
						Value:       "text",
						Destination: &cmd.format,
					},
				},
				Action: cmd.run,
			},
		},
	})

	return app
}

type validationIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type validationResult struct {
	Path   string            `json:"path"`
	Valid  bool              `json:"valid"`
	Errors []validationIssue `json:"errors,omitempty"`
}

func (cmd *ConfigValidateCmd) run(_ context.Context, c *cli.Command) error {
	result, err := validateConfig(cmd.flags.ConfigPath)
	if err != nil {
		return err
	}

	out := c.Root().Writer
	if cmd.format == "json" {
		if err := outputJSON(out, result); err != nil {
			return err
		}
	} else {
		outputText(out, result)
	}

	if !result.Valid {
		return fmt.Errorf("%w: %d error(s) found", ErrInvalidConfig, len(result.Errors))
	}
	return nil
}

// validateConfig loads path and converts field errors into a result. Errors
// that are not about individual fields, such as unreadable YAML, are returned
// as a single issue against the file itself.
func validateConfig(path string) (validationResult, error) {
	result := validationResult{Path: path, Valid: true}

	_, err := config.Load(path)
	if err == nil {
		return result, nil
	}

	result.Valid = false

	var fieldErrs criterio.FieldErrors
	if !errors.As(err, &fieldErrs) {
		result.Errors = append(result.Errors, validationIssue{Field: "file", Message: err.Error()})
		return result, nil
	}

	for _, fe := range fieldErrs {
		result.Errors = append(result.Errors, validationIssue{Field: fe.Field, Message: fe.Err.Error()})
	}
	return result, nil
}

func outputJSON(w io.Writer, result validationResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func outputText(w io.Writer, result validationResult) {
	_, _ = fmt.Fprintln(w, styles.CommandHeaderStyle.Render(result.Path))

	for _, issue := range result.Errors {
		_, _ = fmt.Fprintf(w, "%s %s: %s\n", styles.FailStyle.Render("✗"), issue.Field, issue.Message)
	}

	_, _ = fmt.Fprintln(w)
	if result.Valid {
		_, _ = fmt.Fprintln(w, styles.PassStyle.Render("✓ Configuration is valid"))
		return
	}
	_, _ = fmt.Fprintln(w, styles.FailStyle.Render(fmt.Sprintf("%d error(s) found", len(result.Errors))))
}
