package logging

import "context"

type contextKey string

const (
	scenarioKey contextKey = "scenario"
	stepKey     contextKey = "step"
)

// WithScenario adds a scenario name to the context.
func WithScenario(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, scenarioKey, name)
}

// WithStep adds a scenario step index to the context.
func WithStep(ctx context.Context, step int) context.Context {
	return context.WithValue(ctx, stepKey, step)
}

// GetScenario retrieves the scenario name from the context.
// Returns empty string if not present.
func GetScenario(ctx context.Context) string {
	if name, ok := ctx.Value(scenarioKey).(string); ok {
		return name
	}
	return ""
}

// GetStep retrieves the scenario step index from the context.
// Returns -1 if not present.
func GetStep(ctx context.Context) int {
	if step, ok := ctx.Value(stepKey).(int); ok {
		return step
	}
	return -1
}
