package store

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore reads and writes documents through the Firebase Admin
// Firestore client.
type FirestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

func (s *FirestoreStore) ListAll(ctx context.Context, collection string) ([]Document, error) {
	return s.collect(s.client.Collection(collection).Documents(ctx), collection)
}

func (s *FirestoreStore) GetOne(ctx context.Context, collection, id string) (*Document, error) {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	if !snap.Exists() {
		return nil, ErrNotFound
	}
	return &Document{ID: snap.Ref.ID, Fields: snap.Data()}, nil
}

func (s *FirestoreStore) Query(ctx context.Context, collection string, filter *Filter, limit int) ([]Document, error) {
	query := s.client.Collection(collection).Query
	if filter != nil {
		query = query.Where(filter.Field, "==", filter.Value)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	return s.collect(query.Documents(ctx), collection)
}

func (s *FirestoreStore) CreateOne(ctx context.Context, collection string, fields map[string]interface{}) (string, error) {
	ref, _, err := s.client.Collection(collection).Add(ctx, fields)
	if err != nil {
		return "", fmt.Errorf("create %s document: %w", collection, err)
	}
	return ref.ID, nil
}

func (s *FirestoreStore) SetOne(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	if _, err := s.client.Collection(collection).Doc(id).Set(ctx, fields, firestore.MergeAll); err != nil {
		return fmt.Errorf("set %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *FirestoreStore) Close() error {
	return s.client.Close()
}

func (s *FirestoreStore) collect(iter *firestore.DocumentIterator, collection string) ([]Document, error) {
	defer iter.Stop()

	docs := []Document{}
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", collection, err)
		}
		docs = append(docs, Document{ID: snap.Ref.ID, Fields: snap.Data()})
	}
	return docs, nil
}
