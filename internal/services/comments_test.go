package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"gaddiyalibe/internal/models"
	"gaddiyalibe/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestCommentService(st store.Store) *CommentService {
	svc := NewCommentService(st, nil)
	svc.now = stepClock(baseTime)
	return svc
}

func TestAppendPrependsNewestFirst(t *testing.T) {
	st := newFaultyStore()
	svc := newTestCommentService(st)
	episode := &models.Episode{ID: "ep-1"}
	thread := NewCommentThread(episode.ID, nil)
	ctx := context.Background()

	first, err := svc.Append(ctx, thread, episode, testIdentity(), "first")
	require.NoError(t, err)
	second, err := svc.Append(ctx, thread, episode, testIdentity(), "second")
	require.NoError(t, err)

	assert.Equal(t, []string{"second", "first"}, commentContents(thread.Comments()))
	for _, c := range thread.Comments() {
		assert.Equal(t, models.CommentSaved, c.Status)
	}

	// Thread ids are the ids the store assigned.
	assert.Equal(t, second.ID, thread.Comments()[0].ID)
	assert.Equal(t, first.ID, thread.Comments()[1].ID)
	doc, err := st.GetOne(ctx, store.CollectionComments, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "first", doc.Fields["content"])
	assert.Equal(t, "ep-1", doc.Fields["episodeId"])
	assert.Equal(t, "Amina", doc.Fields["userDisplayName"])
}

func TestAppendAsyncShowsCommentBeforeWrite(t *testing.T) {
	st := newFaultyStore()
	svc := newTestCommentService(st)
	episode := &models.Episode{ID: "ep-1"}
	thread := NewCommentThread(episode.ID, nil)

	pending, done, err := svc.AppendAsync(context.Background(), thread, episode, testIdentity(), "  hello  ")
	require.NoError(t, err)
	assert.Equal(t, models.CommentPending, pending.Status)
	assert.Equal(t, "  hello  ", pending.Content)
	assert.Equal(t, 1, thread.Len())

	saved := <-done
	assert.Equal(t, models.CommentSaved, saved.Status)
	assert.NotEqual(t, pending.ID, saved.ID)
	doc, err := st.GetOne(context.Background(), store.CollectionComments, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "  hello  ", doc.Fields["content"])

	got, ok := thread.Find(saved.ID)
	require.True(t, ok)
	assert.Equal(t, models.CommentSaved, got.Status)
	_, ok = thread.Find(pending.ID)
	assert.False(t, ok)
}

func TestAppendRequiresIdentity(t *testing.T) {
	st := newFaultyStore()
	svc := newTestCommentService(st)
	episode := &models.Episode{ID: "ep-1"}
	thread := NewCommentThread(episode.ID, nil)

	for _, identity := range []*models.Identity{nil, {}} {
		_, err := svc.Append(context.Background(), thread, episode, identity, "hi")
		assert.ErrorIs(t, err, ErrNotAuthenticated)
	}
	assert.Zero(t, thread.Len())
	assert.Zero(t, st.createCalls())
}

func TestAppendRequiresLoadedEpisode(t *testing.T) {
	st := newFaultyStore()
	svc := newTestCommentService(st)

	_, err := svc.Append(context.Background(), NewCommentThread("ep-1", nil), nil, testIdentity(), "hi")
	assert.ErrorIs(t, err, ErrEpisodeNotLoaded)
	assert.Zero(t, st.createCalls())
}

func TestAppendRejectsInvalidContent(t *testing.T) {
	st := newFaultyStore()
	svc := newTestCommentService(st)
	episode := &models.Episode{ID: "ep-1"}
	thread := NewCommentThread(episode.ID, nil)

	for _, content := range []string{"", "   \n", strings.Repeat("a", models.MaxCommentLength+1)} {
		_, err := svc.Append(context.Background(), thread, episode, testIdentity(), content)
		assert.ErrorIs(t, err, ErrInvalidComment)
	}
	assert.Zero(t, thread.Len())
	assert.Zero(t, st.createCalls())

	_, err := svc.Append(context.Background(), thread, episode, testIdentity(), strings.Repeat("é", models.MaxCommentLength))
	assert.NoError(t, err)
}

func TestAppendFallsBackToGeneratedAvatar(t *testing.T) {
	st := newFaultyStore()
	svc := newTestCommentService(st)
	episode := &models.Episode{ID: "ep-1"}
	thread := NewCommentThread(episode.ID, nil)
	identity := &models.Identity{UID: "u-2", DisplayName: "Juma Ali"}

	saved, err := svc.Append(context.Background(), thread, episode, identity, "karibu")
	require.NoError(t, err)
	assert.Equal(t, "https://ui-avatars.com/api/?name=Juma+Ali", saved.UserPhotoURL)

	saved, err = svc.Append(context.Background(), thread, episode, testIdentity(), "asante")
	require.NoError(t, err)
	assert.Equal(t, testIdentity().PhotoURL, saved.UserPhotoURL)
}

func TestAppendWriteFailureIsFlaggedAndRetryable(t *testing.T) {
	st := newFaultyStore()
	st.setCreateError(errStoreDown)
	svc := newTestCommentService(st)
	episode := &models.Episode{ID: "ep-1"}
	thread := NewCommentThread(episode.ID, nil)
	ctx := context.Background()

	failed, err := svc.Append(ctx, thread, episode, testIdentity(), "lost?")
	require.NoError(t, err)
	assert.Equal(t, models.CommentFailed, failed.Status)
	assert.Contains(t, failed.Error, errStoreDown.Error())

	require.Equal(t, 1, thread.Len())
	entry := thread.Comments()[0]
	assert.Equal(t, models.CommentFailed, entry.Status)
	assert.Equal(t, "lost?", entry.Content)

	// Still failing: the entry stays flagged.
	again, err := svc.Retry(ctx, thread, failed.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CommentFailed, again.Status)

	st.setCreateError(nil)
	saved, err := svc.Retry(ctx, thread, failed.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CommentSaved, saved.Status)
	assert.Equal(t, 1, thread.Len())
	assert.Equal(t, saved.ID, thread.Comments()[0].ID)
	assert.Empty(t, thread.Comments()[0].Error)

	_, err = svc.Retry(ctx, thread, saved.ID)
	assert.ErrorIs(t, err, ErrCommentNotFailed)
	_, err = svc.Retry(ctx, thread, "missing")
	assert.ErrorIs(t, err, ErrCommentNotFound)
}

func TestListSortsNewestFirstForEpisode(t *testing.T) {
	st := newFaultyStore()
	putComment(st, "c1", "ep-1", "old", baseTime)
	putComment(st, "c2", "ep-2", "other episode", baseTime.Add(time.Hour))
	putComment(st, "c3", "ep-1", "new", baseTime.Add(2*time.Hour))
	putComment(st, "c4", "ep-1", "tie", baseTime)

	comments, err := newTestCommentService(st).List(context.Background(), "ep-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"new", "tie", "old"}, commentContents(comments))
	for _, c := range comments {
		assert.Equal(t, "ep-1", c.EpisodeID)
		assert.Equal(t, models.CommentSaved, c.Status)
	}
}

func TestListFailureReturnsEmptySlice(t *testing.T) {
	st := newFaultyStore()
	st.failQuery[store.CollectionComments] = errStoreDown

	comments, err := newTestCommentService(st).List(context.Background(), "ep-1")
	require.ErrorIs(t, err, errStoreDown)
	assert.NotNil(t, comments)
	assert.Empty(t, comments)
}

func TestCreateChecksEpisode(t *testing.T) {
	st := newFaultyStore()
	putEpisode(st, "ep-1", 1, 1, "")
	svc := newTestCommentService(st)
	ctx := context.Background()

	_, err := svc.Create(ctx, testIdentity(), "missing", "hello")
	assert.ErrorIs(t, err, ErrEpisodeNotFound)

	_, err = svc.Create(ctx, nil, "ep-1", "hello")
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	comment, err := svc.Create(ctx, testIdentity(), "ep-1", "hello")
	require.NoError(t, err)
	assert.Equal(t, models.CommentSaved, comment.Status)

	comments, err := svc.List(ctx, "ep-1")
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, comment.ID, comments[0].ID)
	assert.True(t, comment.CreatedAt.Equal(comments[0].CreatedAt))
}

func TestThreadResetKeepsUnsyncedLocalComments(t *testing.T) {
	thread := NewCommentThread("ep-1", nil)
	thread.prepend(models.Comment{ID: "local", EpisodeID: "ep-1", Content: "mine", Status: models.CommentPending})

	thread.Reset([]models.Comment{
		{ID: "s2", EpisodeID: "ep-1", Content: "b"},
		{ID: "s1", EpisodeID: "ep-1", Content: "a"},
		{ID: "x", EpisodeID: "ep-9", Content: "stray"},
	})
	assert.Equal(t, []string{"mine", "b", "a"}, commentContents(thread.Comments()))

	// Once the store returns the comment it is not duplicated.
	thread.reconcile("local", "s3")
	thread.Reset([]models.Comment{
		{ID: "s3", EpisodeID: "ep-1", Content: "mine"},
		{ID: "s2", EpisodeID: "ep-1", Content: "b"},
	})
	assert.Equal(t, []string{"mine", "b"}, commentContents(thread.Comments()))
}
