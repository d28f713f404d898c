// Package store is the document store client: collection-scoped reads and
// writes of episode, comment, and user documents.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Collections used by the application.
const (
	CollectionEpisodes = "episodes"
	CollectionComments = "comments"
	CollectionUsers    = "users"
)

// ErrNotFound is returned by GetOne when the document does not exist.
var ErrNotFound = errors.New("document not found")

// Document is a stored record: its key and raw fields as the backend returned them.
// Field values are not normalized; numbers may arrive as strings.
type Document struct {
	ID     string
	Fields map[string]interface{}
}

// Filter is an equality predicate on a top-level field.
type Filter struct {
	Field string
	Value interface{}
}

func Where(field string, value interface{}) *Filter {
	return &Filter{Field: field, Value: value}
}

// Store is implemented by the Firestore, SQL, and in-memory backends.
type Store interface {
	ListAll(ctx context.Context, collection string) ([]Document, error)
	GetOne(ctx context.Context, collection, id string) (*Document, error)
	// Query returns documents matching filter (nil matches all) in the store's
	// default order. A limit of zero or less means no limit.
	Query(ctx context.Context, collection string, filter *Filter, limit int) ([]Document, error)
	CreateOne(ctx context.Context, collection string, fields map[string]interface{}) (string, error)
	SetOne(ctx context.Context, collection, id string, fields map[string]interface{}) error
	Close() error
}

// normalizeValue converts values into the JSON-friendly shapes the SQL and
// memory backends persist, so every backend hands back comparable data.
func normalizeValue(v interface{}) interface{} {
	switch t := v.(type) {
	case time.Time:
		return t.UTC().Format(time.RFC3339Nano)
	case *time.Time:
		if t == nil {
			return nil
		}
		return t.UTC().Format(time.RFC3339Nano)
	case []string:
		out := make([]interface{}, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out
	default:
		return v
	}
}

func matches(fields map[string]interface{}, filter *Filter) bool {
	if filter == nil {
		return true
	}
	got, ok := fields[filter.Field]
	if !ok {
		return false
	}
	return fmt.Sprint(got) == fmt.Sprint(normalizeValue(filter.Value))
}

func copyFields(fields map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		out[k] = normalizeValue(v)
	}
	return out
}
