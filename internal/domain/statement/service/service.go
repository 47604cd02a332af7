// Package service orchestrates statement extraction: institution detection,
// the structured table pass, the unstructured text fallback, and the
// document's processing-status lifecycle.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/FACorreiaa/statement-extractor/internal/domain/statement"
	"github.com/FACorreiaa/statement-extractor/internal/domain/statement/parser"
	"github.com/FACorreiaa/statement-extractor/internal/domain/statement/profile"
	"github.com/FACorreiaa/statement-extractor/internal/domain/statement/sniffer"
)

// fallbackThreshold is the structured-pass result count below which the
// unstructured text pass also runs.
const fallbackThreshold = 5

// Result is the outcome of one processing attempt.
type Result struct {
	Transactions []statement.ExtractedTransaction
	Status       statement.ProcessingStatus
}

// statementFile is the document access the service needs, released on every
// exit path.
type statementFile interface {
	parser.Document
	Close() error
}

// Service drives extraction for stored statement documents. Extractors are
// stateless; the service owns accumulation and the status state machine.
type Service struct {
	store    statement.DocumentStore
	sink     statement.StatusSink
	registry *profile.Registry
	logger   *slog.Logger

	// seams for tests; default to the PDF-backed parser
	open         func(path string) (statementFile, error)
	structured   func(parser.Document) ([]statement.ExtractedTransaction, parser.PassStats, error)
	unstructured func(parser.Document, profile.BankProfile) ([]statement.ExtractedTransaction, parser.PassStats, error)

	flight singleflight.Group
}

// New creates an extraction service backed by the given document store and
// status sink.
func New(store statement.DocumentStore, sink statement.StatusSink, logger *slog.Logger) *Service {
	return &Service{
		store:    store,
		sink:     sink,
		registry: profile.Default(),
		logger:   logger,
		open: func(path string) (statementFile, error) {
			return parser.Open(path)
		},
		structured:   parser.ExtractTables,
		unstructured: parser.ExtractText,
	}
}

// WithRegistry overrides the bank profile registry.
func (s *Service) WithRegistry(reg *profile.Registry) *Service {
	s.registry = reg
	return s
}

// Process loads a stored document by ID and runs one extraction attempt.
func (s *Service) Process(ctx context.Context, documentID uuid.UUID) (*Result, error) {
	doc, err := s.store.GetByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("load document %s: %w", documentID, err)
	}
	return s.ProcessDocument(ctx, doc)
}

// ProcessDocument runs one extraction attempt for the given document.
// Concurrent calls for the same document ID coalesce into a single in-flight
// attempt; both callers receive its result. The call is synchronous: when it
// returns, the document is in a terminal state, never left processing.
func (s *Service) ProcessDocument(ctx context.Context, doc *statement.Document) (*Result, error) {
	v, err, _ := s.flight.Do(doc.ID.String(), func() (any, error) {
		return s.processAttempt(ctx, doc)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Result), nil
}

func (s *Service) processAttempt(ctx context.Context, doc *statement.Document) (*Result, error) {
	logger := s.logger.With("documentID", doc.ID)

	// The processing marker is recorded before extraction begins so a crash
	// mid-attempt leaves a durable processing state, not a silent pending.
	if err := s.sink.SetStatus(ctx, doc.ID, statement.StatusProcessing, nil); err != nil {
		return nil, fmt.Errorf("mark document processing: %w", err)
	}
	doc.Status = statement.StatusProcessing
	doc.ProcessingError = nil

	txs, err := s.extract(ctx, doc, logger)
	if err != nil {
		s.setTerminal(ctx, doc, statement.StatusFailed, err, logger)
		return nil, err
	}

	s.setTerminal(ctx, doc, statement.StatusCompleted, nil, logger)
	return &Result{Transactions: txs, Status: statement.StatusCompleted}, nil
}

func (s *Service) extract(ctx context.Context, doc *statement.Document, logger *slog.Logger) ([]statement.ExtractedTransaction, error) {
	file, err := s.open(doc.FilePath)
	if err != nil {
		return nil, fmt.Errorf("open statement file: %w", err)
	}
	defer file.Close()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	institution := s.detectInstitution(file, doc, logger)

	structured, structStats, structErr := s.structured(file)
	if structErr != nil {
		logger.Warn("structured extraction failed", "error", structErr)
	}
	logger.Debug("structured pass done", "rows", structStats.Rows, "skipped", structStats.Skipped)
	txs := structured

	var textErr error
	if len(structured) < fallbackThreshold {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var fallback []statement.ExtractedTransaction
		var textStats parser.PassStats
		fallback, textStats, textErr = s.unstructured(file, s.profileFor(institution))
		if textErr != nil {
			logger.Warn("text extraction failed", "error", textErr)
		}
		logger.Debug("text pass done", "matches", textStats.Rows, "skipped", textStats.Skipped)
		// No dedup between passes: fallback rows are concatenated.
		txs = append(txs, fallback...)
	}

	if len(txs) == 0 && structErr != nil && textErr != nil {
		return nil, fmt.Errorf("statement extraction failed: structured: %v; text: %v", structErr, textErr)
	}

	logger.Info("statement processed",
		"institution", institution,
		"structuredRows", len(structured),
		"totalRows", len(txs),
	)
	return txs, nil
}

// detectInstitution is best-effort: an unreadable first page means no
// textual match, and the caller hint (if any) stands in.
func (s *Service) detectInstitution(file statementFile, doc *statement.Document, logger *slog.Logger) string {
	firstPage := ""
	if file.PageCount() > 0 {
		text, err := file.PageText(1)
		if err != nil {
			logger.Debug("first page text unavailable", "error", err)
		} else {
			firstPage = text
		}
	}

	name, ok := sniffer.DetectInstitution(s.registry, firstPage, doc.InstitutionHint())
	if !ok {
		return ""
	}
	return name
}

func (s *Service) profileFor(institution string) profile.BankProfile {
	if prof, ok := s.registry.Lookup(institution); ok {
		return prof
	}
	return profile.Generic()
}

// setTerminal records the terminal state. Sink failures here are logged, not
// propagated: the attempt outcome already stands.
func (s *Service) setTerminal(ctx context.Context, doc *statement.Document, status statement.ProcessingStatus, attemptErr error, logger *slog.Logger) {
	var msg *string
	if attemptErr != nil {
		m := attemptErr.Error()
		msg = &m
	}
	doc.Status = status
	doc.ProcessingError = msg

	if err := s.sink.SetStatus(ctx, doc.ID, status, msg); err != nil {
		logger.Warn("failed to record terminal status", "status", status, "error", err)
	}
}
