package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// SQLStore keeps documents as JSON in a single table. PostgreSQL (JSONB) and
// SQLite (JSON text) are supported; see internal/database for the schema.
type SQLStore struct {
	db *sqlx.DB
}

func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db}
}

type documentRow struct {
	ID     string `db:"id"`
	Fields []byte `db:"fields"`
}

func (r documentRow) toDocument() (Document, error) {
	fields := make(map[string]interface{})
	if len(r.Fields) > 0 {
		if err := json.Unmarshal(r.Fields, &fields); err != nil {
			return Document{}, fmt.Errorf("decode document %s: %w", r.ID, err)
		}
	}
	return Document{ID: r.ID, Fields: fields}, nil
}

func (s *SQLStore) isPostgres() bool {
	return s.db.DriverName() == "postgres"
}

func (s *SQLStore) ListAll(ctx context.Context, collection string) ([]Document, error) {
	return s.Query(ctx, collection, nil, 0)
}

func (s *SQLStore) GetOne(ctx context.Context, collection, id string) (*Document, error) {
	query := s.db.Rebind(`SELECT id, fields FROM documents WHERE collection = ? AND id = ?`)

	var row documentRow
	if err := s.db.GetContext(ctx, &row, query, collection, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}

	doc, err := row.toDocument()
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *SQLStore) Query(ctx context.Context, collection string, filter *Filter, limit int) ([]Document, error) {
	query := `SELECT id, fields FROM documents WHERE collection = ?`
	args := []interface{}{collection}

	if filter != nil {
		if s.isPostgres() {
			query += ` AND fields->>? = ?`
		} else {
			query += ` AND CAST(json_extract(fields, '$.' || ?) AS TEXT) = ?`
		}
		args = append(args, filter.Field, fmt.Sprint(normalizeValue(filter.Value)))
	}

	query += ` ORDER BY seq`
	if limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, limit)
	}

	var rows []documentRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("query %s: %w", collection, err)
	}

	docs := make([]Document, 0, len(rows))
	for _, row := range rows {
		doc, err := row.toDocument()
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (s *SQLStore) CreateOne(ctx context.Context, collection string, fields map[string]interface{}) (string, error) {
	payload, err := json.Marshal(copyFields(fields))
	if err != nil {
		return "", fmt.Errorf("encode %s document: %w", collection, err)
	}

	id := uuid.New().String()
	query := s.db.Rebind(`INSERT INTO documents (collection, id, fields) VALUES (?, ?, ?)`)
	if _, err := s.db.ExecContext(ctx, query, collection, id, string(payload)); err != nil {
		return "", fmt.Errorf("create %s document: %w", collection, err)
	}
	return id, nil
}

func (s *SQLStore) SetOne(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	payload, err := json.Marshal(copyFields(fields))
	if err != nil {
		return fmt.Errorf("encode %s document: %w", collection, err)
	}

	var query string
	if s.isPostgres() {
		query = `
			INSERT INTO documents (collection, id, fields) VALUES (?, ?, ?::jsonb)
			ON CONFLICT (collection, id) DO UPDATE
			SET fields = documents.fields || EXCLUDED.fields, updated_at = CURRENT_TIMESTAMP`
	} else {
		query = `
			INSERT INTO documents (collection, id, fields) VALUES (?, ?, ?)
			ON CONFLICT (collection, id) DO UPDATE
			SET fields = json_patch(documents.fields, excluded.fields), updated_at = CURRENT_TIMESTAMP`
	}

	if _, err := s.db.ExecContext(ctx, s.db.Rebind(query), collection, id, string(payload)); err != nil {
		return fmt.Errorf("set %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
