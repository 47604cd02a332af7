// Package statement defines the core model for uploaded bank statement
// documents and the transactions extracted from them, plus the contracts
// the extraction service consumes (document store, status sink).
package statement

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrDocumentNotFound indicates the referenced statement document does not exist.
var ErrDocumentNotFound = errors.New("statement document not found")

// ProcessingStatus tracks where a document is in its extraction lifecycle.
// Transitions are monotonic within one attempt (pending/failed -> processing
// -> completed/failed); terminal states are re-entrant on the next attempt.
type ProcessingStatus string

const (
	StatusPending    ProcessingStatus = "pending"
	StatusProcessing ProcessingStatus = "processing"
	StatusCompleted  ProcessingStatus = "completed"
	StatusFailed     ProcessingStatus = "failed"
)

// Valid reports whether s is one of the known statuses.
func (s ProcessingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// Terminal reports whether s ends a processing attempt.
func (s ProcessingStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Document is an uploaded statement and its upload metadata. The record is
// owned by the external statement store; this core reads the metadata and
// mutates only Status and ProcessingError (through a StatusSink).
type Document struct {
	ID                 uuid.UUID
	FileName           string
	FilePath           string
	OriginalFileName   string
	AccountID          uuid.UUID // opaque, passed through unvalidated
	Institution        *string   // optional caller hint, free text
	AccountNumberLast4 *string
	StatementDate      *time.Time // pass-through metadata, unused by extraction
	UploadedAt         time.Time
	Status             ProcessingStatus
	ProcessingError    *string
}

// InstitutionHint returns the caller-supplied institution hint, if any.
func (d *Document) InstitutionHint() string {
	if d.Institution == nil {
		return ""
	}
	return *d.Institution
}

// PlaceholderDescription is used when a table row has no usable description cell.
const PlaceholderDescription = "Unknown transaction"

// ExtractedTransaction is one normalized transaction candidate. Values are
// transient: they are rebuilt on every processing attempt and never persisted
// by this core. Positive amounts are inflows, negative are outflows.
type ExtractedTransaction struct {
	Date        time.Time // calendar date, midnight UTC
	Description string
	Amount      decimal.Decimal
}

// StatusSink records processing state transitions for a document. It is
// called at least twice per attempt: entering processing, and the terminal
// state (with the error message when the attempt failed).
type StatusSink interface {
	SetStatus(ctx context.Context, documentID uuid.UUID, status ProcessingStatus, processingError *string) error
}

// DocumentStore resolves stored statement documents by ID.
type DocumentStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Document, error)
}
