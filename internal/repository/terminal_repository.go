package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/sakayph/fares-api/internal/database"
	"github.com/sakayph/fares-api/internal/models"
)

// TerminalRepository defines data access for terminals. Create and
// Delete take an explicit pgx.Tx: terminal creation runs inside the
// ingestion transaction so the terminal and its fare rows persist
// together or not at all.
type TerminalRepository interface {
	// Create inserts the terminal and returns its generated id.
	Create(ctx context.Context, tx pgx.Tx, terminal *models.Terminal) (int64, error)

	// GetByID returns nil, nil when no terminal exists with the id.
	GetByID(ctx context.Context, id int64) (*models.Terminal, error)

	// Delete removes the terminal. Owned tricycle fare rows go with it
	// through the ON DELETE CASCADE foreign key; the jeepney table is
	// never touched. Returns false when the terminal does not exist.
	Delete(ctx context.Context, tx pgx.Tx, id int64) (bool, error)
}

type terminalRepository struct {
	db *database.Database
}

// NewTerminalRepository creates a new instance of TerminalRepository.
func NewTerminalRepository(db *database.Database) TerminalRepository {
	return &terminalRepository{
		db: db,
	}
}

func (r *terminalRepository) Create(ctx context.Context, tx pgx.Tx, terminal *models.Terminal) (int64, error) {
	query := `
		INSERT INTO terminals (
			name, association_name, barangay, municipality,
			latitude, longitude, transport_type_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := tx.QueryRow(ctx, query,
		terminal.Name,
		terminal.AssociationName,
		terminal.Barangay,
		terminal.Municipality,
		terminal.Latitude,
		terminal.Longitude,
		terminal.TransportTypeID,
	).Scan(&terminal.ID, &terminal.CreatedAt, &terminal.UpdatedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to insert terminal %q: %w", terminal.Name, err)
	}

	return terminal.ID, nil
}

func (r *terminalRepository) GetByID(ctx context.Context, id int64) (*models.Terminal, error) {
	query := `
		SELECT id, name, association_name, barangay, municipality,
			latitude, longitude, transport_type_id, created_at, updated_at
		FROM terminals
		WHERE id = $1
	`

	var t models.Terminal
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&t.ID,
		&t.Name,
		&t.AssociationName,
		&t.Barangay,
		&t.Municipality,
		&t.Latitude,
		&t.Longitude,
		&t.TransportTypeID,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query terminal %d: %w", id, err)
	}

	return &t, nil
}

func (r *terminalRepository) Delete(ctx context.Context, tx pgx.Tx, id int64) (bool, error) {
	tag, err := tx.Exec(ctx, `DELETE FROM terminals WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete terminal %d: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}
