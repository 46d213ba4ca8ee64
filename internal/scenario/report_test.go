package scenario

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMarkdown(t *testing.T) {
	results := []*Result{
		{
			Scenario: &Scenario{Name: "ok", Path: "testdata/ok.yaml"},
			Refs:     map[string]string{"1": "a"},
			Timeline: []Entry{
				{At: 0, Source: SourceStep, ID: "1", Text: "notify a"},
				{At: 3 * time.Second, Source: SourceHub, ID: "1", Text: `closed "x|y"`},
			},
			Checks: []Check{{At: time.Second, Want: "a open=true"}},
		},
		{
			Scenario: &Scenario{Name: "bad"},
			Checks:   []Check{{At: 2 * time.Millisecond, Want: "count=2", Failures: []string{"count: want 2, got 1"}}},
		},
	}

	md := Markdown(results)

	assert.Contains(t, md, "2 scenario(s), 2 check(s), 1 failed")
	assert.Contains(t, md, "## PASS ok")
	assert.Contains(t, md, "`testdata/ok.yaml`")
	assert.Contains(t, md, "| 0ms | step | a | notify a |")
	assert.Contains(t, md, `| 3000ms | hub | a | closed "x\|y" |`)
	assert.Contains(t, md, "- PASS `1000ms` a open=true")
	assert.Contains(t, md, "## FAIL bad")
	assert.Contains(t, md, "- **FAIL** `2ms` count=2: count: want 2, got 1")
}
