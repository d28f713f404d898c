// ===============================
// internal/services/comments.go - Comment threads with optimistic append
// ===============================

package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"gaddiyalibe/internal/models"
	"gaddiyalibe/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CommentService struct {
	store  store.Store
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

func NewCommentService(st store.Store, logger *zap.Logger) *CommentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommentService{
		store:  st,
		logger: logger.Named("comments"),
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
	}
}

// List returns the comments of an episode, newest first.
func (s *CommentService) List(ctx context.Context, episodeID string) ([]models.Comment, error) {
	docs, err := s.store.Query(ctx, store.CollectionComments, store.Where("episodeId", episodeID), 0)
	if err != nil {
		return []models.Comment{}, fmt.Errorf("list comments for %s: %w", episodeID, err)
	}

	comments := make([]models.Comment, 0, len(docs))
	for _, doc := range docs {
		comment := commentFromDocument(doc)
		if comment.EpisodeID != episodeID {
			continue
		}
		comments = append(comments, comment)
	}
	SortComments(comments)
	return comments, nil
}

// SortComments orders by creation time descending, then id descending.
func SortComments(comments []models.Comment) {
	sort.SliceStable(comments, func(i, j int) bool {
		a, b := comments[i], comments[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
}

// Create writes a comment directly, without a local thread. The episode must exist.
func (s *CommentService) Create(ctx context.Context, identity *models.Identity, episodeID, content string) (*models.Comment, error) {
	if identity.IsZero() {
		return nil, ErrNotAuthenticated
	}

	if _, err := s.store.GetOne(ctx, store.CollectionEpisodes, episodeID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrEpisodeNotFound
		}
		return nil, fmt.Errorf("get episode %s: %w", episodeID, err)
	}

	comment, err := s.build(identity, episodeID, content)
	if err != nil {
		return nil, err
	}

	id, err := s.store.CreateOne(ctx, store.CollectionComments, comment.Fields())
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	comment.ID = id
	comment.Status = models.CommentSaved
	return &comment, nil
}

func (s *CommentService) build(identity *models.Identity, episodeID, content string) (models.Comment, error) {
	comment := models.Comment{
		ID:              s.newID(),
		EpisodeID:       episodeID,
		UserID:          identity.UID,
		UserDisplayName: identity.DisplayName,
		UserPhotoURL:    identity.AvatarURL(),
		Content:         content,
		CreatedAt:       s.now(),
		Status:          models.CommentPending,
	}
	if problems := comment.ValidateForCreation(); len(problems) > 0 {
		return models.Comment{}, fmt.Errorf("%w: %s", ErrInvalidComment, strings.Join(problems, ", "))
	}
	return comment, nil
}

// AppendAsync puts the comment at the front of the thread right away and
// writes it in the background. The channel receives the comment once the
// write settles: saved with the store id, or failed.
func (s *CommentService) AppendAsync(ctx context.Context, thread *CommentThread, episode *models.Episode, identity *models.Identity, content string) (models.Comment, <-chan models.Comment, error) {
	if identity.IsZero() {
		return models.Comment{}, nil, ErrNotAuthenticated
	}
	if episode == nil || thread == nil {
		return models.Comment{}, nil, ErrEpisodeNotLoaded
	}

	comment, err := s.build(identity, episode.ID, content)
	if err != nil {
		return models.Comment{}, nil, err
	}

	thread.prepend(comment)

	done := make(chan models.Comment, 1)
	go func() {
		done <- s.persist(ctx, thread, comment)
		close(done)
	}()
	return comment, done, nil
}

// Append is AppendAsync followed by waiting for the write.
func (s *CommentService) Append(ctx context.Context, thread *CommentThread, episode *models.Episode, identity *models.Identity, content string) (models.Comment, error) {
	_, done, err := s.AppendAsync(ctx, thread, episode, identity, content)
	if err != nil {
		return models.Comment{}, err
	}
	return <-done, nil
}

// Retry re-issues the write of a failed comment.
func (s *CommentService) Retry(ctx context.Context, thread *CommentThread, commentID string) (models.Comment, error) {
	comment, ok := thread.Find(commentID)
	if !ok {
		return models.Comment{}, ErrCommentNotFound
	}
	if comment.Status != models.CommentFailed {
		return models.Comment{}, ErrCommentNotFailed
	}

	thread.markPending(commentID)
	comment.Status = models.CommentPending
	comment.Error = ""
	return s.persist(ctx, thread, comment), nil
}

func (s *CommentService) persist(ctx context.Context, thread *CommentThread, comment models.Comment) models.Comment {
	storeID, err := s.store.CreateOne(ctx, store.CollectionComments, comment.Fields())
	if err != nil {
		s.logger.Error("failed to save comment",
			zap.String("episodeId", comment.EpisodeID),
			zap.String("commentId", comment.ID),
			zap.Error(err))
		thread.markFailed(comment.ID, err)
		comment.Status = models.CommentFailed
		comment.Error = err.Error()
		return comment
	}

	thread.reconcile(comment.ID, storeID)
	comment.ID = storeID
	comment.Status = models.CommentSaved
	return comment
}

// ===============================
// COMMENT THREAD
// ===============================

// CommentThread is the in-memory comment list of one episode.
type CommentThread struct {
	mu        sync.Mutex
	episodeID string
	comments  []models.Comment
	local     map[string]bool
}

func NewCommentThread(episodeID string, comments []models.Comment) *CommentThread {
	t := &CommentThread{episodeID: episodeID, local: make(map[string]bool)}
	t.Reset(comments)
	return t
}

func (t *CommentThread) EpisodeID() string {
	return t.episodeID
}

// Comments returns a copy, newest first.
func (t *CommentThread) Comments() []models.Comment {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]models.Comment{}, t.comments...)
}

func (t *CommentThread) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.comments)
}

func (t *CommentThread) Find(id string) (models.Comment, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if i := t.indexLocked(id); i >= 0 {
		return t.comments[i], true
	}
	return models.Comment{}, false
}

// Reset replaces the thread with fetched comments. Locally appended entries
// that the fetch does not contain stay at the front.
func (t *CommentThread) Reset(fetched []models.Comment) {
	t.mu.Lock()
	defer t.mu.Unlock()

	present := make(map[string]bool, len(fetched))
	for _, c := range fetched {
		present[c.ID] = true
	}

	merged := make([]models.Comment, 0, len(fetched)+len(t.local))
	for _, c := range t.comments {
		if t.local[c.ID] && !present[c.ID] {
			merged = append(merged, c)
		}
	}
	for _, c := range fetched {
		if c.EpisodeID != "" && c.EpisodeID != t.episodeID {
			continue
		}
		merged = append(merged, c)
	}
	t.comments = merged
}

func (t *CommentThread) prepend(comment models.Comment) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.comments = append([]models.Comment{comment}, t.comments...)
	t.local[comment.ID] = true
}

func (t *CommentThread) reconcile(clientID, storeID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	i := t.indexLocked(clientID)
	if i < 0 {
		return
	}
	t.comments[i].ID = storeID
	t.comments[i].Status = models.CommentSaved
	t.comments[i].Error = ""
	delete(t.local, clientID)
	t.local[storeID] = true
}

func (t *CommentThread) markFailed(id string, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if i := t.indexLocked(id); i >= 0 {
		t.comments[i].Status = models.CommentFailed
		t.comments[i].Error = err.Error()
	}
}

func (t *CommentThread) markPending(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if i := t.indexLocked(id); i >= 0 {
		t.comments[i].Status = models.CommentPending
		t.comments[i].Error = ""
	}
}

func (t *CommentThread) indexLocked(id string) int {
	for i := range t.comments {
		if t.comments[i].ID == id {
			return i
		}
	}
	return -1
}
