package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"gaddiyalibe/internal/models"
	"gaddiyalibe/internal/store"

	"github.com/stretchr/testify/require"
)

var errStoreDown = errors.New("store unavailable")

// faultyStore wraps a MemoryStore with switchable failures and call counts.
type faultyStore struct {
	*store.MemoryStore

	mu         sync.Mutex
	failList   error
	failGet    error
	failQuery  map[string]error
	failCreate error
	creates    int

	// gates blocks GetOne for an id until the channel is closed; entered is
	// signalled when such a call starts.
	gates   map[string]chan struct{}
	entered chan string

	// listGate, when set, blocks the next ListAll until closed.
	listGate    chan struct{}
	listEntered chan struct{}
}

func newFaultyStore() *faultyStore {
	return &faultyStore{
		MemoryStore: store.NewMemoryStore(),
		failQuery:   make(map[string]error),
		gates:       make(map[string]chan struct{}),
		entered:     make(chan string, 8),
		listEntered: make(chan struct{}, 8),
	}
}

func (f *faultyStore) ListAll(ctx context.Context, collection string) ([]store.Document, error) {
	f.mu.Lock()
	err := f.failList
	gate := f.listGate
	f.listGate = nil
	f.mu.Unlock()

	if gate != nil {
		f.listEntered <- struct{}{}
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return f.MemoryStore.ListAll(ctx, collection)
}

func (f *faultyStore) GetOne(ctx context.Context, collection, id string) (*store.Document, error) {
	f.mu.Lock()
	err := f.failGet
	gate := f.gates[id]
	f.mu.Unlock()

	if gate != nil {
		f.entered <- id
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return f.MemoryStore.GetOne(ctx, collection, id)
}

func (f *faultyStore) Query(ctx context.Context, collection string, filter *store.Filter, limit int) ([]store.Document, error) {
	f.mu.Lock()
	err := f.failQuery[collection]
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return f.MemoryStore.Query(ctx, collection, filter, limit)
}

func (f *faultyStore) CreateOne(ctx context.Context, collection string, fields map[string]interface{}) (string, error) {
	f.mu.Lock()
	f.creates++
	err := f.failCreate
	f.mu.Unlock()
	if err != nil {
		return "", err
	}
	return f.MemoryStore.CreateOne(ctx, collection, fields)
}

func (f *faultyStore) setCreateError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failCreate = err
}

func (f *faultyStore) createCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.creates
}

func (f *faultyStore) gate(id string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.gates[id] = ch
	return ch
}

func (f *faultyStore) holdList() chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.listGate = ch
	return ch
}

func putEpisode(st *faultyStore, id string, season, number interface{}, category string) {
	st.Put(store.CollectionEpisodes, id, map[string]interface{}{
		"title":         "Episode " + id,
		"seasonNumber":  season,
		"episodeNumber": number,
		"category":      category,
		"videoUrl":      "https://cdn.example.com/" + id + ".mp4",
	})
}

func putComment(st *faultyStore, id, episodeID, content string, createdAt time.Time) {
	st.Put(store.CollectionComments, id, map[string]interface{}{
		"episodeId":       episodeID,
		"userId":          "u-1",
		"userDisplayName": "Amina",
		"content":         content,
		"createdAt":       createdAt,
	})
}

// stepClock returns increasing timestamps one second apart.
func stepClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	next := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := next
		next = next.Add(time.Second)
		return t
	}
}

func testIdentity() *models.Identity {
	return &models.Identity{UID: "u-1", DisplayName: "Amina", PhotoURL: "https://img.example.com/u-1.png"}
}

func episodeIDs(episodes []models.Episode) []string {
	ids := make([]string, 0, len(episodes))
	for _, e := range episodes {
		ids = append(ids, e.ID)
	}
	return ids
}

func commentContents(comments []models.Comment) []string {
	out := make([]string, 0, len(comments))
	for _, c := range comments {
		out = append(out, c.Content)
	}
	return out
}

func intPtr(v int) *int {
	return &v
}

func requireEventually(t *testing.T, cond func() bool) {
	t.Helper()
	require.Eventually(t, cond, 2*time.Second, 5*time.Millisecond)
}
