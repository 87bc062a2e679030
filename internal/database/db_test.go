package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rasaroots/internal/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestFeedback_CreateAndList(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first := &models.Feedback{UserID: "u1", DishID: 1, Liked: true}
	require.NoError(t, s.CreateFeedback(ctx, first))
	assert.NotZero(t, first.ID)
	assert.WithinDuration(t, time.Now(), first.DateAdded, 5*time.Second)

	require.NoError(t, s.CreateFeedback(ctx, &models.Feedback{UserID: "u2", DishID: 2}))
	require.NoError(t, s.CreateFeedback(ctx, &models.Feedback{UserID: "u1", DishID: 3}))

	got, err := s.ListFeedback(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].DishID)
	assert.True(t, got[0].Liked)
	assert.Equal(t, 3, got[1].DishID)
	assert.Less(t, got[0].ID, got[1].ID)
}

func TestFeedback_ServerAssignsID(t *testing.T) {
	s := openTestStore(t)

	f := &models.Feedback{ID: 999, UserID: "u1", DishID: 1}
	require.NoError(t, s.CreateFeedback(context.Background(), f))
	assert.NotEqual(t, uint(999), f.ID)
}

func TestFeedback_ListUnknownUser(t *testing.T) {
	s := openTestStore(t)

	got, err := s.ListFeedback(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFeedback_CancelledContext(t *testing.T) {
	s := openTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, s.CreateFeedback(ctx, &models.Feedback{UserID: "u1"}), context.Canceled)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open("nosuchdriver", "x")
	assert.Error(t, err)
}
