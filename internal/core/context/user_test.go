package appcontext

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"ironstock/internal/core/id"
)

func TestUserAccessors(t *testing.T) {
	userID := id.New()
	ctx := WithUser(context.Background(), userID, "clerk", []string{"clerk", "manager"})

	assert.Equal(t, userID, UserID(ctx))
	assert.Equal(t, "clerk", Username(ctx))
	assert.Equal(t, []string{"clerk", "manager"}, Roles(ctx))
	assert.True(t, HasRole(ctx, "manager"))
	assert.False(t, HasRole(ctx, "admin"))
}

func TestUserAccessors_EmptyContext(t *testing.T) {
	ctx := context.Background()

	assert.True(t, id.IsNil(UserID(ctx)))
	assert.Equal(t, "", Username(ctx))
	assert.Nil(t, Roles(ctx))
	assert.False(t, HasRole(ctx, "clerk"))
}

func TestRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-123")
	assert.Equal(t, "req-123", RequestID(ctx))
	assert.Equal(t, "", RequestID(context.Background()))
}
