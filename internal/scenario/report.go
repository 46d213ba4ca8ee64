package scenario

import (
	"fmt"
	"strings"
	"time"
)

// Markdown renders replay results as a markdown report: a summary line, then
// a timeline table and check list per scenario.
func Markdown(results []*Result) string {
	var (
		b      strings.Builder
		checks int
		failed int
	)
	for _, r := range results {
		checks += len(r.Checks)
		failed += r.Failed()
	}

	b.WriteString("# Replay report\n\n")
	fmt.Fprintf(&b, "%d scenario(s), %d check(s), %d failed\n", len(results), checks, failed)

	for _, r := range results {
		b.WriteString("\n")
		writeResult(&b, r)
	}
	return b.String()
}

func writeResult(b *strings.Builder, r *Result) {
	status := "PASS"
	if !r.Passed() {
		status = "FAIL"
	}
	fmt.Fprintf(b, "## %s %s\n\n", status, r.Scenario.Name)
	if r.Scenario.Path != "" {
		fmt.Fprintf(b, "`%s`\n\n", r.Scenario.Path)
	}

	b.WriteString("| at | source | ref | event |\n")
	b.WriteString("|---:|---|---|---|\n")
	for _, e := range r.Timeline {
		fmt.Fprintf(b, "| %s | %s | %s | %s |\n",
			formatOffset(e.At), e.Source, escapeCell(r.Refs[e.ID]), escapeCell(e.Text))
	}

	if len(r.Checks) == 0 {
		return
	}

	fmt.Fprintf(b, "\n**Checks:** %d passed, %d failed\n\n", len(r.Checks)-r.Failed(), r.Failed())
	for _, c := range r.Checks {
		if c.Passed() {
			fmt.Fprintf(b, "- PASS `%s` %s\n", formatOffset(c.At), c.Want)
			continue
		}
		fmt.Fprintf(b, "- **FAIL** `%s` %s: %s\n", formatOffset(c.At), c.Want, strings.Join(c.Failures, "; "))
	}
}

func formatOffset(d time.Duration) string {
	return fmt.Sprintf("%dms", d.Milliseconds())
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
