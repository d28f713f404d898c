// ===============================
// internal/services/watch.go - Watch screen assembly
// ===============================

package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"gaddiyalibe/internal/models"
	"gaddiyalibe/internal/store"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const DefaultRelatedLimit = 6

// PartResult is one resolved read of the watch screen.
type PartResult struct {
	Part     models.WatchPart
	Episode  *models.Episode
	Comments []models.Comment
	Related  []models.Episode
	NotFound bool
	Err      error
}

type WatchService struct {
	store        store.Store
	comments     *CommentService
	logger       *zap.Logger
	relatedLimit int
}

func NewWatchService(st store.Store, comments *CommentService, logger *zap.Logger, relatedLimit int) *WatchService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if relatedLimit <= 0 {
		relatedLimit = DefaultRelatedLimit
	}
	return &WatchService{
		store:        st,
		comments:     comments,
		logger:       logger.Named("watch"),
		relatedLimit: relatedLimit,
	}
}

// GetEpisode reads a single episode. Absent episodes return ErrEpisodeNotFound.
func (s *WatchService) GetEpisode(ctx context.Context, episodeID string) (*models.Episode, error) {
	doc, err := s.store.GetOne(ctx, store.CollectionEpisodes, episodeID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrEpisodeNotFound
		}
		return nil, fmt.Errorf("get episode %s: %w", episodeID, err)
	}
	episode, valid := episodeFromDocument(*doc)
	if !valid {
		s.logger.Warn("episode has non-numeric season or episode number", zap.String("episodeId", episodeID))
	}
	return &episode, nil
}

// Stream issues the episode, comments, and related reads concurrently and
// hands each result to deliver as soon as it resolves. deliver calls are
// serialized. Stream returns once all three have resolved.
func (s *WatchService) Stream(ctx context.Context, episodeID string, deliver func(PartResult)) {
	var mu sync.Mutex
	emit := func(result PartResult) error {
		mu.Lock()
		defer mu.Unlock()
		deliver(result)
		return result.Err
	}

	var g errgroup.Group
	g.Go(func() error { return emit(s.fetchEpisode(ctx, episodeID)) })
	g.Go(func() error { return emit(s.fetchComments(ctx, episodeID)) })
	g.Go(func() error { return emit(s.fetchRelated(ctx, episodeID)) })
	if err := g.Wait(); err != nil {
		s.logger.Error("watch read failed", zap.String("episodeId", episodeID), zap.Error(err))
	}
}

// Assemble waits for all three reads and returns the combined view.
func (s *WatchService) Assemble(ctx context.Context, episodeID string) *models.WatchView {
	view := models.NewWatchView(episodeID)
	s.Stream(ctx, episodeID, func(result PartResult) {
		applyPart(view, result)
	})
	return view
}

func (s *WatchService) fetchEpisode(ctx context.Context, episodeID string) PartResult {
	result := PartResult{Part: models.PartEpisode}
	episode, err := s.GetEpisode(ctx, episodeID)
	switch {
	case errors.Is(err, ErrEpisodeNotFound):
		result.NotFound = true
	case err != nil:
		result.Err = err
	default:
		result.Episode = episode
	}
	return result
}

func (s *WatchService) fetchComments(ctx context.Context, episodeID string) PartResult {
	comments, err := s.comments.List(ctx, episodeID)
	if comments == nil {
		comments = []models.Comment{}
	}
	return PartResult{Part: models.PartComments, Comments: comments, Err: err}
}

// fetchRelated takes the first documents in store order, one extra so the
// focused episode can be dropped without coming up short.
func (s *WatchService) fetchRelated(ctx context.Context, episodeID string) PartResult {
	result := PartResult{Part: models.PartRelated, Related: []models.Episode{}}

	docs, err := s.store.Query(ctx, store.CollectionEpisodes, nil, s.relatedLimit+1)
	if err != nil {
		result.Err = fmt.Errorf("list related episodes: %w", err)
		return result
	}

	for _, doc := range docs {
		if doc.ID == episodeID {
			continue
		}
		if len(result.Related) == s.relatedLimit {
			break
		}
		episode, _ := episodeFromDocument(doc)
		result.Related = append(result.Related, episode)
	}
	return result
}

func applyPart(view *models.WatchView, result PartResult) {
	view.Resolved[result.Part] = true
	view.SetError(result.Part, result.Err)

	switch result.Part {
	case models.PartEpisode:
		view.Episode = result.Episode
		view.NotFound = result.NotFound
	case models.PartComments:
		view.Comments = result.Comments
	case models.PartRelated:
		view.Related = result.Related
	}
}

// ===============================
// WATCH SESSION
// ===============================

// WatchSession is the per-viewer watch screen state. Every Open starts a new
// generation; results from an older generation are discarded when they land.
type WatchSession struct {
	watch    *WatchService
	comments *CommentService

	// OnPart, when set, is called for each part applied to the active view.
	OnPart func(episodeID string, result PartResult)

	mu         sync.Mutex
	generation uint64
	view       *models.WatchView
	thread     *CommentThread
}

func (s *WatchService) NewSession() *WatchSession {
	return &WatchSession{
		watch:    s,
		comments: s.comments,
	}
}

// Open switches the session to episodeID and blocks until its three reads
// resolve. It returns ErrSuperseded if another Open started in the meantime.
func (ws *WatchSession) Open(ctx context.Context, episodeID string) (models.WatchView, error) {
	ws.mu.Lock()
	ws.generation++
	generation := ws.generation
	ws.view = models.NewWatchView(episodeID)
	ws.thread = NewCommentThread(episodeID, nil)
	ws.mu.Unlock()

	ws.watch.Stream(ctx, episodeID, func(result PartResult) {
		ws.apply(generation, episodeID, result)
	})

	ws.mu.Lock()
	defer ws.mu.Unlock()
	if ws.generation != generation {
		return models.WatchView{}, ErrSuperseded
	}
	return ws.snapshotLocked(), nil
}

func (ws *WatchSession) apply(generation uint64, episodeID string, result PartResult) {
	ws.mu.Lock()
	if ws.generation != generation {
		ws.mu.Unlock()
		ws.watch.logger.Debug("discarding stale watch result",
			zap.String("episodeId", episodeID),
			zap.String("part", string(result.Part)))
		return
	}
	applyPart(ws.view, result)
	if result.Part == models.PartComments {
		ws.thread.Reset(result.Comments)
	}
	onPart := ws.OnPart
	ws.mu.Unlock()

	if onPart != nil {
		onPart(episodeID, result)
	}
}

// ActiveEpisodeID is the episode of the latest Open.
func (ws *WatchSession) ActiveEpisodeID() string {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	if ws.view == nil {
		return ""
	}
	return ws.view.EpisodeID
}

// View returns a copy of the current state.
func (ws *WatchSession) View() models.WatchView {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return ws.snapshotLocked()
}

func (ws *WatchSession) snapshotLocked() models.WatchView {
	if ws.view == nil {
		return *models.NewWatchView("")
	}
	view := *ws.view
	view.Comments = ws.thread.Comments()
	view.Related = append([]models.Episode(nil), ws.view.Related...)
	view.Resolved = make(map[models.WatchPart]bool, len(ws.view.Resolved))
	for k, v := range ws.view.Resolved {
		view.Resolved[k] = v
	}
	if ws.view.Errors != nil {
		view.Errors = make(map[models.WatchPart]string, len(ws.view.Errors))
		for k, v := range ws.view.Errors {
			view.Errors[k] = v
		}
	}
	return view
}

// AddComment optimistically appends to the active thread and waits for the
// durable write. The returned comment reflects the write outcome.
func (ws *WatchSession) AddComment(ctx context.Context, identity *models.Identity, content string) (models.Comment, error) {
	thread, episode, err := ws.commentTarget(identity)
	if err != nil {
		return models.Comment{}, err
	}
	return ws.comments.Append(ctx, thread, episode, identity, content)
}

// AddCommentAsync appends optimistically and returns at once; the reconciled
// comment is sent on the returned channel.
func (ws *WatchSession) AddCommentAsync(ctx context.Context, identity *models.Identity, content string) (models.Comment, <-chan models.Comment, error) {
	thread, episode, err := ws.commentTarget(identity)
	if err != nil {
		return models.Comment{}, nil, err
	}
	return ws.comments.AppendAsync(ctx, thread, episode, identity, content)
}

// RetryComment re-issues a failed durable write.
func (ws *WatchSession) RetryComment(ctx context.Context, commentID string) (models.Comment, error) {
	ws.mu.Lock()
	thread := ws.thread
	ws.mu.Unlock()
	if thread == nil {
		return models.Comment{}, ErrEpisodeNotLoaded
	}
	return ws.comments.Retry(ctx, thread, commentID)
}

func (ws *WatchSession) commentTarget(identity *models.Identity) (*CommentThread, *models.Episode, error) {
	if identity.IsZero() {
		return nil, nil, ErrNotAuthenticated
	}

	ws.mu.Lock()
	defer ws.mu.Unlock()
	if ws.view == nil || ws.view.Episode == nil {
		return nil, nil, ErrEpisodeNotLoaded
	}
	episode := *ws.view.Episode
	return ws.thread, &episode, nil
}
