package services

import (
	"context"
	"testing"
	"time"

	"gaddiyalibe/internal/models"
	"gaddiyalibe/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUserService(st *faultyStore) *UserService {
	svc := NewUserService(st, newTestWatchService(st, 0), nil)
	svc.now = stepClock(baseTime)
	return svc
}

func TestSyncProfileCreatesThenUpdates(t *testing.T) {
	st := newFaultyStore()
	svc := newTestUserService(st)
	ctx := context.Background()

	profile, created, err := svc.SyncProfile(ctx, testIdentity())
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Amina", profile.DisplayName)
	assert.Equal(t, []string{}, profile.WatchLater)
	createdAt := profile.CreatedAt

	renamed := testIdentity()
	renamed.DisplayName = "Amina K."
	profile, created, err = svc.SyncProfile(ctx, renamed)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "Amina K.", profile.DisplayName)
	assert.True(t, createdAt.Equal(profile.CreatedAt))
	assert.True(t, profile.LastSeen.After(createdAt))

	stored, err := svc.GetProfile(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "Amina K.", stored.DisplayName)
	assert.Equal(t, testIdentity().PhotoURL, stored.PhotoURL)
}

func TestSyncProfileRequiresIdentity(t *testing.T) {
	_, _, err := newTestUserService(newFaultyStore()).SyncProfile(context.Background(), &models.Identity{})
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestWatchLater(t *testing.T) {
	st := newFaultyStore()
	putEpisode(st, "ep-1", 1, 1, "")
	putEpisode(st, "ep-2", 1, 2, "")
	svc := newTestUserService(st)
	ctx := context.Background()
	identity := testIdentity()

	episodes, err := svc.WatchLater(ctx, identity.UID)
	require.NoError(t, err)
	assert.Empty(t, episodes)

	_, err = svc.AddToWatchLater(ctx, identity, "ep-2")
	require.NoError(t, err)
	profile, err := svc.AddToWatchLater(ctx, identity, "ep-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"ep-2", "ep-1"}, profile.WatchLater)

	profile, err = svc.AddToWatchLater(ctx, identity, "ep-2")
	require.NoError(t, err)
	assert.Equal(t, []string{"ep-2", "ep-1"}, profile.WatchLater)

	_, err = svc.AddToWatchLater(ctx, identity, "missing")
	assert.ErrorIs(t, err, ErrEpisodeNotFound)

	episodes, err = svc.WatchLater(ctx, identity.UID)
	require.NoError(t, err)
	assert.Equal(t, []string{"ep-2", "ep-1"}, episodeIDs(episodes))

	profile, err = svc.RemoveFromWatchLater(ctx, identity, "ep-2")
	require.NoError(t, err)
	assert.Equal(t, []string{"ep-1"}, profile.WatchLater)

	stored, err := svc.GetProfile(ctx, identity.UID)
	require.NoError(t, err)
	assert.Equal(t, []string{"ep-1"}, stored.WatchLater)
}

func TestWatchLaterSkipsDeletedEpisodes(t *testing.T) {
	st := newFaultyStore()
	st.Put(store.CollectionUsers, "u-1", map[string]interface{}{
		"displayName": "Amina",
		"watchLater":  []string{"gone", "ep-1"},
		"createdAt":   time.Now(),
	})
	putEpisode(st, "ep-1", 1, 1, "")

	episodes, err := newTestUserService(st).WatchLater(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"ep-1"}, episodeIDs(episodes))
}

func TestRemoveFromWatchLaterWithoutProfile(t *testing.T) {
	_, err := newTestUserService(newFaultyStore()).RemoveFromWatchLater(context.Background(), testIdentity(), "ep-1")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
