package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/sakayph/fares-api/internal/logger"
	"github.com/sakayph/fares-api/internal/models"
	"github.com/sakayph/fares-api/internal/repository"
)

// ErrTerminalNotFound is returned when an operation targets a terminal
// that does not exist.
var ErrTerminalNotFound = errors.New("terminal not found")

// TerminalService defines terminal lifecycle operations outside the
// ingestion path.
type TerminalService interface {
	// GetTerminal returns ErrTerminalNotFound when the id is unknown.
	GetTerminal(ctx context.Context, id int64) (*models.Terminal, error)

	// DeleteTerminal removes the terminal and, through the cascade, the
	// tricycle fare rows it owns. Rows for other terminals and the
	// jeepney table are untouched. Returns ErrTerminalNotFound when the
	// id is unknown.
	DeleteTerminal(ctx context.Context, id int64) error
}

type terminalService struct {
	txr  TxRunner
	repo repository.TerminalRepository
	log  *logger.Logger
}

// NewTerminalService creates a new instance of TerminalService.
func NewTerminalService(txr TxRunner, repo repository.TerminalRepository, log *logger.Logger) TerminalService {
	return &terminalService{
		txr:  txr,
		repo: repo,
		log:  log,
	}
}

func (s *terminalService) GetTerminal(ctx context.Context, id int64) (*models.Terminal, error) {
	terminal, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to query terminal", err, map[string]interface{}{
			"terminal_id": id,
		})
		return nil, fmt.Errorf("failed to query terminal: %w", err)
	}
	if terminal == nil {
		return nil, ErrTerminalNotFound
	}

	return terminal, nil
}

func (s *terminalService) DeleteTerminal(ctx context.Context, id int64) error {
	var found bool
	err := s.txr.WithTx(ctx, func(tx pgx.Tx) error {
		var err error
		found, err = s.repo.Delete(ctx, tx, id)
		return err
	})
	if err != nil {
		s.log.Error("Failed to delete terminal", err, map[string]interface{}{
			"terminal_id": id,
		})
		return fmt.Errorf("failed to delete terminal: %w", err)
	}
	if !found {
		return ErrTerminalNotFound
	}

	s.log.Info("Terminal deleted", map[string]interface{}{
		"terminal_id": id,
	})

	return nil
}
