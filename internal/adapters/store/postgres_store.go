package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/mishkan-app/backend/internal/domain/repositories"
	"github.com/mishkan-app/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/mishkan-app/backend/pkg/errors"
)

// PostgresStore implements the DocumentStore interface on PostgreSQL for
// deployments that want durable preference documents. One row per
// device+name pair in the documents table.
type PostgresStore struct {
	client *postgres.Client
	db     *goqu.Database
}

// Ensure PostgresStore implements DocumentStore
var _ repositories.DocumentStore = (*PostgresStore)(nil)

// NewPostgresStore creates a new PostgreSQL document store
func NewPostgresStore(client *postgres.Client) *PostgresStore {
	return &PostgresStore{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Get returns the raw document, or ErrDocumentNotFound
func (s *PostgresStore) Get(ctx context.Context, deviceID, name string) ([]byte, error) {
	query, args, err := s.db.From("documents").
		Select("body").
		Where(goqu.Ex{"device_id": deviceID, "name": name}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build document select query", err)
	}

	var body []byte
	row := s.client.DB().QueryRowContext(ctx, query, args...)
	if err := row.Scan(&body); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repositories.ErrDocumentNotFound
		}
		return nil, apperrors.NewInternalError("failed to read document", err)
	}
	return body, nil
}

// Set overwrites the whole document
func (s *PostgresStore) Set(ctx context.Context, deviceID, name string, data []byte) error {
	record := goqu.Record{
		"device_id":  deviceID,
		"name":       name,
		"body":       data,
		"updated_at": time.Now(),
	}

	query, args, err := s.db.Insert("documents").
		Rows(record).
		OnConflict(goqu.DoUpdate("device_id, name", goqu.Record{
			"body":       data,
			"updated_at": time.Now(),
		})).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build document upsert query", err)
	}

	if _, err := s.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to write document", err)
	}
	return nil
}

// Delete removes the document; deleting an absent document is a no-op
func (s *PostgresStore) Delete(ctx context.Context, deviceID, name string) error {
	query, args, err := s.db.Delete("documents").
		Where(goqu.Ex{"device_id": deviceID, "name": name}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build document delete query", err)
	}

	if _, err := s.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to delete document", err)
	}
	return nil
}
