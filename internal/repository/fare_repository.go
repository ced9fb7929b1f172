package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/sakayph/fares-api/internal/database"
	"github.com/sakayph/fares-api/internal/models"
)

// FareRepository defines data access for both fare tables.
//
// Read methods go straight to the pool. Write methods take an explicit
// pgx.Tx because they only ever run as steps of an ingestion
// transaction: the scoped delete and the bulk insert must commit or
// roll back together.
type FareRepository interface {
	// ListJeepneyFares returns the whole jeepney table, shortest
	// distance first. Empty slice when the table is empty.
	ListJeepneyFares(ctx context.Context) ([]models.JeepneyFare, error)

	// ListTricycleFares returns one place's rows in insertion order.
	// Empty slice when the place has no rows (not an error).
	ListTricycleFares(ctx context.Context, place string) ([]models.TricycleFare, error)

	// ListPlaces returns the distinct places that currently have
	// tricycle fare rows, sorted alphabetically.
	ListPlaces(ctx context.Context) ([]string, error)

	// DeleteAllJeepneyFares wipes the jeepney table. Returns the number
	// of rows removed.
	DeleteAllJeepneyFares(ctx context.Context, tx pgx.Tx) (int64, error)

	// DeleteTricycleFaresByPlace removes exactly the rows matching
	// place. Rows for other places are untouched.
	DeleteTricycleFaresByPlace(ctx context.Context, tx pgx.Tx, place string) (int64, error)

	// InsertJeepneyFares bulk-inserts a normalized jeepney batch.
	InsertJeepneyFares(ctx context.Context, tx pgx.Tx, rows []models.JeepneyFare) (int64, error)

	// InsertTricycleFares bulk-inserts a normalized tricycle batch.
	InsertTricycleFares(ctx context.Context, tx pgx.Tx, rows []models.TricycleFare) (int64, error)
}

type fareRepository struct {
	db *database.Database
}

// NewFareRepository creates a new instance of FareRepository.
func NewFareRepository(db *database.Database) FareRepository {
	return &fareRepository{
		db: db,
	}
}

func (r *fareRepository) ListJeepneyFares(ctx context.Context) ([]models.JeepneyFare, error) {
	query := `
		SELECT id, distance_km, regular_fare, discounted_fare, created_at, updated_at
		FROM jeepney_fares
		ORDER BY distance_km
	`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query jeepney fares: %w", err)
	}
	defer rows.Close()

	fares := []models.JeepneyFare{}
	for rows.Next() {
		var f models.JeepneyFare
		if err := rows.Scan(&f.ID, &f.DistanceKM, &f.RegularFare, &f.DiscountedFare, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan jeepney fare row: %w", err)
		}
		fares = append(fares, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating jeepney fare rows: %w", err)
	}

	return fares, nil
}

func (r *fareRepository) ListTricycleFares(ctx context.Context, place string) ([]models.TricycleFare, error) {
	query := `
		SELECT id, place, location, fare, terminal_id, created_at, updated_at
		FROM tricycle_fares
		WHERE place = $1
		ORDER BY id
	`

	rows, err := r.db.Pool.Query(ctx, query, place)
	if err != nil {
		return nil, fmt.Errorf("failed to query tricycle fares for place %q: %w", place, err)
	}
	defer rows.Close()

	fares := []models.TricycleFare{}
	for rows.Next() {
		var f models.TricycleFare
		if err := rows.Scan(&f.ID, &f.Place, &f.Location, &f.Fare, &f.TerminalID, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tricycle fare row: %w", err)
		}
		fares = append(fares, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tricycle fare rows: %w", err)
	}

	return fares, nil
}

func (r *fareRepository) ListPlaces(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT place FROM tricycle_fares ORDER BY place`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query places: %w", err)
	}
	defer rows.Close()

	places := []string{}
	for rows.Next() {
		var place string
		if err := rows.Scan(&place); err != nil {
			return nil, fmt.Errorf("failed to scan place: %w", err)
		}
		places = append(places, place)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating places: %w", err)
	}

	return places, nil
}

func (r *fareRepository) DeleteAllJeepneyFares(ctx context.Context, tx pgx.Tx) (int64, error) {
	tag, err := tx.Exec(ctx, `DELETE FROM jeepney_fares`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete jeepney fares: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *fareRepository) DeleteTricycleFaresByPlace(ctx context.Context, tx pgx.Tx, place string) (int64, error) {
	tag, err := tx.Exec(ctx, `DELETE FROM tricycle_fares WHERE place = $1`, place)
	if err != nil {
		return 0, fmt.Errorf("failed to delete tricycle fares for place %q: %w", place, err)
	}
	return tag.RowsAffected(), nil
}

// InsertJeepneyFares streams the batch through the CopyFrom protocol,
// which is substantially faster than row-at-a-time inserts for the
// matrix-sized batches LTFRB uploads carry.
func (r *fareRepository) InsertJeepneyFares(ctx context.Context, tx pgx.Tx, rows []models.JeepneyFare) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	columns := []string{"distance_km", "regular_fare", "discounted_fare"}
	count, err := tx.CopyFrom(ctx,
		pgx.Identifier{"jeepney_fares"},
		columns,
		pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
			return []any{
				rows[i].DistanceKM,
				rows[i].RegularFare.String(),
				rows[i].DiscountedFare.String(),
			}, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to bulk insert jeepney fares: %w", err)
	}

	return count, nil
}

func (r *fareRepository) InsertTricycleFares(ctx context.Context, tx pgx.Tx, rows []models.TricycleFare) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	columns := []string{"place", "location", "fare", "terminal_id"}
	count, err := tx.CopyFrom(ctx,
		pgx.Identifier{"tricycle_fares"},
		columns,
		pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
			return []any{
				rows[i].Place,
				rows[i].Location,
				rows[i].Fare.String(),
				rows[i].TerminalID,
			}, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to bulk insert tricycle fares: %w", err)
	}

	return count, nil
}
