package scenario

import (
	"testing"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/sooner/internal/core/notify"
)

func TestParse(t *testing.T) {
	sc, err := Parse([]byte(`
name: demo
capacity: 2
default_duration: 4s
steps:
  - at: 100ms
    expect: {ref: a, open: true}
  - at: 0
    notify: {ref: a, title: Hi, variant: success, action: Undo}
  - at: 200ms
    update: {ref: a, duration: infinite}
`))
	require.NoError(t, err)

	assert.Equal(t, "demo", sc.Name)
	assert.Equal(t, 2, sc.Capacity)
	assert.Equal(t, notify.Milliseconds(4000), sc.DefaultDuration)
	require.Len(t, sc.Steps, 3)
	assert.Equal(t, "expect", sc.Steps[0].Kind())
	assert.Equal(t, "notify", sc.Steps[1].Kind())
	assert.Equal(t, "Undo", sc.Steps[1].Notify.Action)
	require.NotNil(t, sc.Steps[2].Update.Duration)
	assert.True(t, sc.Steps[2].Update.Duration.IsInfinite())

	// Steps run in offset order.
	assert.Equal(t, []int{1, 0, 2}, sc.order())
}

func TestParse_OrderIsStable(t *testing.T) {
	sc := &Scenario{Steps: []Step{
		{At: notify.Milliseconds(10)},
		{At: 0},
		{At: notify.Milliseconds(10)},
		{At: 0},
	}}
	assert.Equal(t, []int{1, 3, 0, 2}, sc.order())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		field string
	}{
		{
			name:  "missing name",
			doc:   "steps:\n  - notify: {ref: a}\n",
			field: "name",
		},
		{
			name:  "no steps",
			doc:   "name: x\n",
			field: "steps",
		},
		{
			name:  "two operations",
			doc:   "name: x\nsteps:\n  - notify: {ref: a}\n    dismiss: {ref: a}\n",
			field: "steps[0]",
		},
		{
			name:  "no operation",
			doc:   "name: x\nsteps:\n  - at: 5ms\n",
			field: "steps[0]",
		},
		{
			name:  "unbound ref",
			doc:   "name: x\nsteps:\n  - dismiss: {ref: ghost}\n",
			field: "steps[0].dismiss.ref",
		},
		{
			name:  "ref bound later",
			doc:   "name: x\nsteps:\n  - at: 0ms\n    update: {ref: a, title: t}\n  - at: 5ms\n    notify: {ref: a}\n",
			field: "steps[0].update.ref",
		},
		{
			name:  "bad variant",
			doc:   "name: x\nsteps:\n  - notify: {ref: a, variant: warning}\n",
			field: "steps[0].notify.variant",
		},
		{
			name:  "empty expect",
			doc:   "name: x\nsteps:\n  - notify: {ref: a}\n  - expect: {ref: a}\n",
			field: "steps[1].expect",
		},
		{
			name:  "ref and all",
			doc:   "name: x\nsteps:\n  - notify: {ref: a}\n  - remove: {ref: a, all: true}\n",
			field: "steps[1].remove",
		},
		{
			name:  "infinite offset",
			doc:   "name: x\nsteps:\n  - at: infinite\n    notify: {ref: a}\n",
			field: "steps[0].at",
		},
		{
			name:  "infinite cleanup",
			doc:   "name: x\ncleanup_delay: infinite\nsteps:\n  - notify: {ref: a}\n",
			field: "cleanup_delay",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)

			var fieldErrs criterio.FieldErrors
			require.ErrorAs(t, err, &fieldErrs)

			fields := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				fields = append(fields, fe.Field)
			}
			assert.Contains(t, fields, tt.field)
		})
	}
}

func TestParse_RejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("name: x\nsteps:\n  - notify: {ref: a, colour: red}\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse scenario")
}

func TestParse_Empty(t *testing.T) {
	_, err := Parse(nil)
	require.Error(t, err)
}

func TestFind(t *testing.T) {
	files, err := Find("testdata/*.yaml", "testdata/auto_dismiss.yaml")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"testdata/auto_dismiss.yaml",
		"testdata/cleanup.yaml",
		"testdata/infinite.yaml",
		"testdata/loading_success.yaml",
		"testdata/preemption.yaml",
	}, files)

	all, err := Find("testdata/**/*.yaml")
	require.NoError(t, err)
	assert.Contains(t, all, "testdata/broken/failing.yaml")
}

func TestFind_Errors(t *testing.T) {
	_, err := Find("testdata/[a-")
	require.Error(t, err)

	_, err = Find("testdata/*.json")
	require.ErrorIs(t, err, ErrNoMatches)
}

func TestLoadAll(t *testing.T) {
	scenarios, err := LoadAll("testdata/*.yaml")
	require.NoError(t, err)
	require.Len(t, scenarios, 5)

	for _, sc := range scenarios {
		assert.NotEmpty(t, sc.Name)
		assert.NotEmpty(t, sc.Path)
	}
}
