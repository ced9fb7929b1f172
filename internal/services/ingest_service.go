package services

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/sakayph/fares-api/internal/ingest"
	"github.com/sakayph/fares-api/internal/logger"
	"github.com/sakayph/fares-api/internal/models"
	"github.com/sakayph/fares-api/internal/repository"
)

// TxRunner executes a function inside one database transaction.
// *database.Database satisfies it; tests substitute a fake that calls
// the function directly.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}

// UploadInput is a direct fare upload: a category, the place scoping it
// when the category is LGU, and the raw rows as submitted.
type UploadInput struct {
	Category models.FareCategory
	Place    string
	Rows     []ingest.RawRow
}

// TerminalUploadInput bundles a new terminal with an optional LGU fare
// batch the terminal will own.
type TerminalUploadInput struct {
	Terminal models.Terminal
	Place    string
	Rows     []ingest.RawRow
}

// UploadResult reports what one ingestion persisted.
type UploadResult struct {
	Category   models.FareCategory `json:"category"`
	Scope      string              `json:"scope"`
	Inserted   int64               `json:"inserted"`
	Deleted    int64               `json:"deleted"`
	Skipped    int                 `json:"skipped"`
	TerminalID *int64              `json:"terminalId,omitempty"`
}

// IngestService defines the fare ingestion operations. Both operations
// run their persistence steps inside a single transaction.
type IngestService interface {
	// UploadFares normalizes a direct upload and replaces the rows in
	// its scope: the entire jeepney table for LTFRB, exactly one
	// place's tricycle rows for LGU.
	// Returns ingest.ErrPlaceRequired for an LGU upload without a
	// place and ingest.ErrUnknownCategory for anything but the two
	// known regimes, both before any persistence begins.
	UploadFares(ctx context.Context, input UploadInput) (*UploadResult, error)

	// CreateTerminalWithFares creates the terminal and appends its
	// normalized fare rows in one transaction. This path never deletes
	// pre-existing rows for the place: replacement is reserved for
	// direct uploads.
	CreateTerminalWithFares(ctx context.Context, input TerminalUploadInput) (*UploadResult, error)
}

type ingestService struct {
	txr       TxRunner
	fares     repository.FareRepository
	terminals repository.TerminalRepository
	log       *logger.Logger
}

// NewIngestService creates a new instance of IngestService.
func NewIngestService(txr TxRunner, fares repository.FareRepository, terminals repository.TerminalRepository, log *logger.Logger) IngestService {
	return &ingestService{
		txr:       txr,
		fares:     fares,
		terminals: terminals,
		log:       log,
	}
}

func (s *ingestService) UploadFares(ctx context.Context, input UploadInput) (*UploadResult, error) {
	batch, err := ingest.BuildBatch(input.Category, input.Place, input.Rows)
	if err != nil {
		s.log.Warn("Rejected fare upload", map[string]interface{}{
			"category": string(input.Category),
			"place":    input.Place,
			"error":    err.Error(),
		})
		return nil, err
	}

	if batch.Skipped > 0 {
		s.log.Warn("Upload rows skipped during normalization", map[string]interface{}{
			"category": string(batch.Category),
			"scope":    batch.Scope.String(),
			"skipped":  batch.Skipped,
			"kept":     batch.Len(),
		})
	}
	if batch.Len() == 0 && len(input.Rows) > 0 {
		// Every row was unresolvable. Not a failure: the scope is still
		// replaced, leaving it empty, which the caller can detect from
		// the inserted count.
		s.log.Warn("Upload produced an empty batch", map[string]interface{}{
			"category": string(batch.Category),
			"scope":    batch.Scope.String(),
			"rows":     len(input.Rows),
		})
	}

	result := &UploadResult{
		Category: batch.Category,
		Scope:    batch.Scope.String(),
		Skipped:  batch.Skipped,
	}

	err = s.txr.WithTx(ctx, func(tx pgx.Tx) error {
		deleted, err := s.deleteScope(ctx, tx, batch.Scope)
		if err != nil {
			return err
		}
		result.Deleted = deleted

		inserted, err := s.insertBatch(ctx, tx, batch)
		if err != nil {
			return err
		}
		result.Inserted = inserted
		return nil
	})
	if err != nil {
		s.log.Error("Fare ingestion failed", err, map[string]interface{}{
			"category": string(batch.Category),
			"scope":    batch.Scope.String(),
		})
		return nil, fmt.Errorf("failed to ingest fare upload: %w", err)
	}

	s.log.Info("Fare upload ingested", map[string]interface{}{
		"category": string(batch.Category),
		"scope":    batch.Scope.String(),
		"inserted": result.Inserted,
		"deleted":  result.Deleted,
		"skipped":  result.Skipped,
	})

	return result, nil
}

func (s *ingestService) CreateTerminalWithFares(ctx context.Context, input TerminalUploadInput) (*UploadResult, error) {
	result := &UploadResult{
		Category: models.CategoryLGU,
	}

	var batch ingest.Batch
	if len(input.Rows) > 0 {
		var err error
		batch, err = ingest.BuildBatch(models.CategoryLGU, input.Place, input.Rows)
		if err != nil {
			s.log.Warn("Rejected terminal fare upload", map[string]interface{}{
				"terminal": input.Terminal.Name,
				"place":    input.Place,
				"error":    err.Error(),
			})
			return nil, err
		}
		result.Scope = batch.Scope.String()
		result.Skipped = batch.Skipped
	}

	terminal := input.Terminal
	err := s.txr.WithTx(ctx, func(tx pgx.Tx) error {
		terminalID, err := s.terminals.Create(ctx, tx, &terminal)
		if err != nil {
			return err
		}
		result.TerminalID = &terminalID

		if batch.Len() == 0 {
			return nil
		}

		// The terminal owns every row it was uploaded with; no delete
		// step here, so rows already stored for the place survive.
		for i := range batch.Tricycle {
			batch.Tricycle[i].TerminalID = &terminalID
		}

		inserted, err := s.fares.InsertTricycleFares(ctx, tx, batch.Tricycle)
		if err != nil {
			return err
		}
		result.Inserted = inserted
		return nil
	})
	if err != nil {
		s.log.Error("Terminal ingestion failed", err, map[string]interface{}{
			"terminal": input.Terminal.Name,
			"place":    input.Place,
		})
		return nil, fmt.Errorf("failed to create terminal with fares: %w", err)
	}

	s.log.Info("Terminal created", map[string]interface{}{
		"terminal_id": *result.TerminalID,
		"name":        terminal.Name,
		"inserted":    result.Inserted,
		"skipped":     result.Skipped,
	})

	return result, nil
}

// deleteScope removes the rows the batch supersedes. The scope value
// decides which table and which rows; the category is never consulted
// here, so a place-scoped upload cannot reach the global wipe.
func (s *ingestService) deleteScope(ctx context.Context, tx pgx.Tx, scope ingest.Scope) (int64, error) {
	if scope.Global() {
		return s.fares.DeleteAllJeepneyFares(ctx, tx)
	}
	return s.fares.DeleteTricycleFaresByPlace(ctx, tx, scope.Place())
}

func (s *ingestService) insertBatch(ctx context.Context, tx pgx.Tx, batch ingest.Batch) (int64, error) {
	if batch.Category == models.CategoryLTFRB {
		return s.fares.InsertJeepneyFares(ctx, tx, batch.Jeepney)
	}
	return s.fares.InsertTricycleFares(ctx, tx, batch.Tricycle)
}
