// Package repository provides the PostgreSQL-backed document store and
// status sink. The statement table is owned by the upload collaborator;
// this core only reads metadata and writes the status columns.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/FACorreiaa/statement-extractor/internal/domain/statement"
)

// PostgresStatementRepository implements statement.DocumentStore and
// statement.StatusSink over a pgx pool.
type PostgresStatementRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresStatementRepository creates a new PostgreSQL statement repository.
func NewPostgresStatementRepository(pool *pgxpool.Pool) *PostgresStatementRepository {
	return &PostgresStatementRepository{pool: pool}
}

// GetByID retrieves a statement document by ID.
func (r *PostgresStatementRepository) GetByID(ctx context.Context, id uuid.UUID) (*statement.Document, error) {
	query := `
		SELECT id, filename, file_path, original_filename, account_id,
		       institution, account_number_last4, statement_date, uploaded_at,
		       processing_status, processing_error
		FROM pdf_statements
		WHERE id = $1`

	doc := &statement.Document{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&doc.ID,
		&doc.FileName,
		&doc.FilePath,
		&doc.OriginalFileName,
		&doc.AccountID,
		&doc.Institution,
		&doc.AccountNumberLast4,
		&doc.StatementDate,
		&doc.UploadedAt,
		&doc.Status,
		&doc.ProcessingError,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, statement.ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get statement document: %w", err)
	}
	return doc, nil
}

// SetStatus records a processing state transition, clearing the stored error
// text when processingError is nil.
func (r *PostgresStatementRepository) SetStatus(ctx context.Context, documentID uuid.UUID, status statement.ProcessingStatus, processingError *string) error {
	query := `
		UPDATE pdf_statements
		SET processing_status = $2, processing_error = $3, updated_at = now()
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, documentID, status, processingError)
	if err != nil {
		return fmt.Errorf("failed to update processing status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return statement.ErrDocumentNotFound
	}
	return nil
}
