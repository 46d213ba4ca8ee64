package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithScenario(t *testing.T) {
	ctx := WithScenario(context.Background(), "loading-to-success")
	assert.Equal(t, "loading-to-success", GetScenario(ctx))
}

func TestWithStep(t *testing.T) {
	ctx := WithStep(context.Background(), 3)
	assert.Equal(t, 3, GetStep(ctx))
}

func TestGetters_EmptyContext(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetScenario(ctx))
	assert.Equal(t, -1, GetStep(ctx))
}
