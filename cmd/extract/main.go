// Command extract processes one uploaded bank statement and prints the
// normalized transactions it recovers.
//
// Two modes:
//
//	extract -file statement.pdf [-institution "Chase"] [-account <uuid>]
//	extract -id <document-uuid>   (loads the document from Postgres)
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/FACorreiaa/statement-extractor/internal/domain/statement"
	"github.com/FACorreiaa/statement-extractor/internal/domain/statement/repository"
	"github.com/FACorreiaa/statement-extractor/internal/domain/statement/service"
	"github.com/FACorreiaa/statement-extractor/pkg/config"
	"github.com/FACorreiaa/statement-extractor/pkg/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		filePath    = flag.String("file", "", "path to a statement PDF to process directly")
		documentID  = flag.String("id", "", "ID of a stored statement document (Postgres mode)")
		institution = flag.String("institution", "", "optional institution hint, e.g. \"Chase\"")
		accountID   = flag.String("account", "", "optional account ID to attach to the document")
		store       = flag.Bool("store", false, "archive the statement into local storage before processing")
	)
	flag.Parse()

	if (*filePath == "") == (*documentID == "") {
		return fmt.Errorf("exactly one of -file or -id is required")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := newLogger(cfg.Log)

	ctx := context.Background()

	var result *service.Result
	if *documentID != "" {
		result, err = processStored(ctx, cfg, logger, *documentID)
	} else {
		result, err = processFile(ctx, cfg, logger, *filePath, *institution, *accountID, *store)
	}
	if err != nil {
		return err
	}

	fmt.Printf("status: %s\n", result.Status)
	for _, tx := range result.Transactions {
		fmt.Printf("%s\t%12s\t%s\n", tx.Date.Format("2006-01-02"), tx.Amount.StringFixed(2), tx.Description)
	}
	return nil
}

func processStored(ctx context.Context, cfg *config.Config, logger *slog.Logger, rawID string) (*service.Result, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("invalid document ID %q: %w", rawID, err)
	}

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	repo := repository.NewPostgresStatementRepository(pool)
	svc := service.New(repo, repo, logger)
	return svc.Process(ctx, id)
}

func processFile(ctx context.Context, cfg *config.Config, logger *slog.Logger, path, institution, account string, store bool) (*service.Result, error) {
	doc := &statement.Document{
		ID:               uuid.New(),
		FileName:         filepath.Base(path),
		FilePath:         path,
		OriginalFileName: filepath.Base(path),
		UploadedAt:       time.Now(),
		Status:           statement.StatusPending,
	}

	if store {
		info, storedPath, err := archiveStatement(ctx, cfg.Storage.LocalPath, path)
		if err != nil {
			return nil, err
		}
		doc.ID = info.ID
		doc.FileName = info.Path
		doc.FilePath = storedPath
		logger.Info("statement archived", "documentID", info.ID, "path", storedPath)
	}
	if institution != "" {
		doc.Institution = &institution
	}
	if account != "" {
		id, err := uuid.Parse(account)
		if err != nil {
			return nil, fmt.Errorf("invalid account ID %q: %w", account, err)
		}
		doc.AccountID = id
	}

	sink := &logSink{logger: logger}
	svc := service.New(nil, sink, logger)
	return svc.ProcessDocument(ctx, doc)
}

// archiveStatement copies the statement into the local storage archive and
// resolves the stored copy's on-disk path.
func archiveStatement(ctx context.Context, basePath, path string) (*storage.FileInfo, string, error) {
	blobs, err := storage.NewLocalStorage(basePath)
	if err != nil {
		return nil, "", fmt.Errorf("open storage: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("open statement file: %w", err)
	}
	defer f.Close()

	info, err := blobs.Save(ctx, filepath.Base(path), "application/pdf", f)
	if err != nil {
		return nil, "", fmt.Errorf("archive statement: %w", err)
	}

	storedPath, err := blobs.Path(ctx, info.ID)
	if err != nil {
		return nil, "", fmt.Errorf("resolve stored statement: %w", err)
	}
	return info, storedPath, nil
}

// logSink records status transitions to the logger; file mode has no
// database to write them to.
type logSink struct {
	logger *slog.Logger
}

func (s *logSink) SetStatus(_ context.Context, documentID uuid.UUID, status statement.ProcessingStatus, processingError *string) error {
	if processingError != nil {
		s.logger.Info("status transition", "documentID", documentID, "status", status, "error", *processingError)
		return nil
	}
	s.logger.Info("status transition", "documentID", documentID, "status", status)
	return nil
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}
