package store

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/Apportion/internal/ahp"
	"github.com/MikeSquared-Agency/Apportion/internal/budget"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	sess := &Session{State: budget.DefaultState()}
	require.NoError(t, m.CreateSession(ctx, sess))
	assert.NotEqual(t, uuid.Nil, sess.ID)
	assert.False(t, sess.CreatedAt.IsZero())

	got, err := m.GetSession(ctx, sess.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, sess.State, got.State)
}

func TestMemoryStoreMissing(t *testing.T) {
	got, err := NewMemoryStore().GetSession(context.Background(), uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStoreCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	sess := &Session{State: budget.DefaultState()}
	require.NoError(t, m.CreateSession(ctx, sess))

	sess.State.Categories[0].Rank = 5
	got, err := m.GetSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.State.Categories[0].Rank)

	got.State.Categories[0].Name = "Rent"
	again, err := m.GetSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "Housing", again.State.Categories[0].Name)
}

func TestMemoryStoreUpdate(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	sess := &Session{State: budget.DefaultState()}
	require.NoError(t, m.CreateSession(ctx, sess))

	next, err := budget.Reduce(sess.State, budget.CalculateWeights{Matrix: ahp.DefaultMatrix(), Rescale: true})
	require.NoError(t, err)
	sess.State = next
	require.NoError(t, m.UpdateSession(ctx, sess))

	got, err := m.GetSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.True(t, got.State.Weighted())
	assert.False(t, got.UpdatedAt.Before(got.CreatedAt))
}

func TestMemoryStoreUpdateMissing(t *testing.T) {
	err := NewMemoryStore().UpdateSession(context.Background(), &Session{ID: uuid.New()})
	assert.Error(t, err)
}

func TestMemoryStoreDuplicateCreate(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	id := uuid.New()
	require.NoError(t, m.CreateSession(ctx, &Session{ID: id}))
	assert.Error(t, m.CreateSession(ctx, &Session{ID: id}))
}
