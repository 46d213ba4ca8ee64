package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/sooner/internal/core/notify"
)

func newTestApp(t *testing.T, configBody string) (*cli.Command, *Flags, *bytes.Buffer) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if configBody != "" {
		require.NoError(t, os.WriteFile(path, []byte(configBody), 0o644))
	}

	flags := &Flags{ConfigPath: path}
	out := &bytes.Buffer{}
	app := &cli.Command{Name: "sooner", Writer: out, ErrWriter: out}
	app = NewReplayCmd(flags).Register(app)
	app = NewConfigValidateCmd(flags).Register(app)
	return app, flags, out
}

func TestReplayCmd_ReportsPassingScenarios(t *testing.T) {
	app, _, out := newTestApp(t, "")

	err := app.Run(context.Background(), []string{"sooner", "replay", "--check", "../scenario/testdata/*.yaml"})
	require.NoError(t, err)

	report := out.String()
	assert.Contains(t, report, "# Replay report")
	assert.Contains(t, report, "5 scenario(s)")
	assert.Contains(t, report, "0 failed")
	assert.NotContains(t, report, "## FAIL")
}

func TestReplayCmd_CheckFailsOnFailedExpectations(t *testing.T) {
	app, _, out := newTestApp(t, "")

	err := app.Run(context.Background(), []string{"sooner", "replay", "--check", "../scenario/testdata/broken/*.yaml"})
	require.ErrorIs(t, err, ErrChecksFailed)
	assert.Contains(t, out.String(), "**FAIL**")
}

func TestReplayCmd_WithoutCheckSucceedsOnFailures(t *testing.T) {
	app, _, out := newTestApp(t, "")

	err := app.Run(context.Background(), []string{"sooner", "replay", "../scenario/testdata/broken/*.yaml"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "## FAIL")
}

func TestReplayCmd_UsesConfigPaths(t *testing.T) {
	abs, err := filepath.Abs("../scenario/testdata/auto_dismiss.yaml")
	require.NoError(t, err)

	app, flags, out := newTestApp(t, "scenarios:\n  paths:\n    - "+abs+"\n")

	require.NoError(t, app.Run(context.Background(), []string{"sooner", "replay"}))
	assert.Contains(t, out.String(), "1 scenario(s)")
	assert.NotNil(t, flags.Config)
}

func TestReplayCmd_NoMatches(t *testing.T) {
	app, _, _ := newTestApp(t, "")

	err := app.Run(context.Background(), []string{"sooner", "replay", filepath.Join(t.TempDir(), "*.yaml")})
	require.Error(t, err)
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestReplayCmd_WatchReplaysOnChange(t *testing.T) {
	data, err := os.ReadFile("../scenario/testdata/auto_dismiss.yaml")
	require.NoError(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "auto_dismiss.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	app, _, _ := newTestApp(t, "")
	out := &syncBuffer{}
	app.Writer = out

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- app.Run(ctx, []string{"sooner", "replay", "--watch", filepath.Join(dir, "*.yaml")})
	}()

	reports := func() int { return strings.Count(out.String(), "# Replay report") }

	require.Eventually(t, func() bool { return reports() == 1 }, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(path, data, 0o644))
	require.Eventually(t, func() bool { return reports() >= 2 }, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestConfigValidateCmd_Valid(t *testing.T) {
	app, _, out := newTestApp(t, "toasts:\n  capacity: 3\n")

	require.NoError(t, app.Run(context.Background(), []string{"sooner", "config", "validate"}))
	assert.Contains(t, out.String(), "Configuration is valid")
}

func TestConfigValidateCmd_ReportsFieldsAsJSON(t *testing.T) {
	app, _, out := newTestApp(t, "toasts:\n  capacity: -1\ntui:\n  theme: nope\n")

	err := app.Run(context.Background(), []string{"sooner", "config", "validate", "--format", "json"})
	require.ErrorIs(t, err, ErrInvalidConfig)

	var got validationResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.False(t, got.Valid)

	fields := make([]string, 0, len(got.Errors))
	for _, issue := range got.Errors {
		fields = append(fields, issue.Field)
	}
	assert.ElementsMatch(t, []string{"toasts.capacity", "tui.theme"}, fields)
}

func TestConfigValidateCmd_UnparsableFile(t *testing.T) {
	app, _, out := newTestApp(t, "toasts: [\n")

	err := app.Run(context.Background(), []string{"sooner", "config", "validate"})
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, out.String(), "file:")
}

func TestSendCmd_Options(t *testing.T) {
	tests := []struct {
		name    string
		cmd     SendCmd
		want    notify.Options
		wantErr bool
	}{
		{
			name: "defaults",
			cmd:  SendCmd{title: "hi", variant: "default"},
			want: notify.Options{Title: "hi", Variant: notify.VariantDefault},
		},
		{
			name: "full",
			cmd:  SendCmd{title: "hi", description: "there", variant: "success", duration: "1500ms"},
			want: notify.Options{
				Title:       "hi",
				Description: "there",
				Variant:     notify.VariantSuccess,
				Duration:    notify.Milliseconds(1500),
			},
		},
		{
			name: "infinite",
			cmd:  SendCmd{title: "hi", variant: "loading", duration: "infinite"},
			want: notify.Options{Title: "hi", Variant: notify.VariantLoading, Duration: notify.Infinite},
		},
		{
			name:    "bad variant",
			cmd:     SendCmd{title: "hi", variant: "loud"},
			wantErr: true,
		},
		{
			name:    "bad duration",
			cmd:     SendCmd{title: "hi", variant: "default", duration: "soon"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cmd.options()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateDuration(t *testing.T) {
	assert.NoError(t, validateDuration(""))
	assert.NoError(t, validateDuration("3s"))
	assert.Error(t, validateDuration("later"))
	assert.Error(t, validateTitle("  "))
}
