package rules

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ironstock/internal/core/apperror"
)

func TestEngineEvaluate(t *testing.T) {
	engine, err := NewEngine()
	require.NoError(t, err)
	require.NoError(t, engine.AddRule("max_total", "doc.totalAmount <= 10000.0", "receipt total exceeds the allowed maximum"))
	require.NoError(t, engine.AddRule("min_items", "doc.itemCount >= 1", "receipt must have at least one item"))
	assert.Equal(t, 2, engine.Len())

	ctx := context.Background()

	t.Run("passes", func(t *testing.T) {
		err := engine.Evaluate(ctx, map[string]any{"totalAmount": 259.0, "itemCount": 2})
		assert.NoError(t, err)
	})

	t.Run("first violation wins", func(t *testing.T) {
		err := engine.Evaluate(ctx, map[string]any{"totalAmount": 50000.0, "itemCount": 0})
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeValidation, appErr.Code)
		assert.Equal(t, "max_total", appErr.Details["rule"])
		assert.Equal(t, "receipt total exceeds the allowed maximum", appErr.Message)
	})
}

func TestEngineAddRule_CompileError(t *testing.T) {
	engine, err := NewEngine()
	require.NoError(t, err)

	assert.Error(t, engine.AddRule("broken", "doc.totalAmount <=", "nope"))
	assert.Error(t, engine.AddRule("not_bool", "doc.totalAmount + 1.0", "nope"))
	assert.Equal(t, 0, engine.Len())
}

func TestEngineEvaluate_NoRules(t *testing.T) {
	engine, err := NewEngine()
	require.NoError(t, err)
	assert.NoError(t, engine.Evaluate(context.Background(), map[string]any{}))
}
