package ingest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sakayph/fares-api/internal/models"
)

// Dispatcher-level errors surfaced before any persistence begins.
var (
	ErrPlaceRequired   = errors.New("place is required for LGU uploads")
	ErrUnknownCategory = errors.New("unknown fare category")
)

// Scope is the unit of replacement for a delete-then-insert ingestion:
// either the entire jeepney table or a single place's tricycle rows.
// It is an explicit value rather than something inferred from the
// category inside the transaction, so an LGU upload can never
// accidentally trigger a global wipe.
type Scope struct {
	place  string
	global bool
}

// GlobalScope replaces the whole jeepney fare table.
func GlobalScope() Scope {
	return Scope{global: true}
}

// PlaceScope replaces exactly one place's tricycle rows.
func PlaceScope(place string) Scope {
	return Scope{place: place}
}

// Global reports whether the scope covers the entire table.
func (s Scope) Global() bool {
	return s.global
}

// Place returns the locality the scope is limited to; empty for the
// global scope.
func (s Scope) Place() string {
	return s.place
}

func (s Scope) String() string {
	if s.global {
		return "global"
	}
	return fmt.Sprintf("place:%s", s.place)
}

// Batch is a normalized upload ready for the ingestion transaction.
// Exactly one of Jeepney or Tricycle is populated, matching Category.
// Skipped counts rows excluded by the normalizer; it is a soft signal
// for logging, not a failure.
type Batch struct {
	Category models.FareCategory
	Scope    Scope
	Jeepney  []models.JeepneyFare
	Tricycle []models.TricycleFare
	Skipped  int
}

// Len returns the number of normalized rows in the batch.
func (b Batch) Len() int {
	if b.Category == models.CategoryLTFRB {
		return len(b.Jeepney)
	}
	return len(b.Tricycle)
}

// BuildBatch normalizes an upload's raw rows under the schema and
// replacement scope of its category.
//
// LTFRB uploads use the jeepney schema and the global scope. LGU
// uploads require a non-empty place, which becomes both the scope and
// the Place column of every row; an empty place is a hard validation
// error, rejected before any persistence step begins.
func BuildBatch(category models.FareCategory, place string, rows []RawRow) (Batch, error) {
	switch category {
	case models.CategoryLTFRB:
		return buildJeepneyBatch(rows), nil
	case models.CategoryLGU:
		place = strings.TrimSpace(place)
		if place == "" {
			return Batch{}, ErrPlaceRequired
		}
		return buildTricycleBatch(place, rows), nil
	default:
		return Batch{}, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
}

func buildJeepneyBatch(rows []RawRow) Batch {
	batch := Batch{
		Category: models.CategoryLTFRB,
		Scope:    GlobalScope(),
		Jeepney:  make([]models.JeepneyFare, 0, len(rows)),
	}

	schema := JeepneySchema()
	for _, row := range rows {
		fields, ok := Resolve(row, schema)
		if !ok {
			batch.Skipped++
			continue
		}
		batch.Jeepney = append(batch.Jeepney, models.JeepneyFare{
			DistanceKM:     fields[FieldDistanceKM].Int,
			RegularFare:    fields[FieldRegularFare].Amount,
			DiscountedFare: fields[FieldDiscountedFare].Amount,
		})
	}

	return batch
}

func buildTricycleBatch(place string, rows []RawRow) Batch {
	batch := Batch{
		Category: models.CategoryLGU,
		Scope:    PlaceScope(place),
		Tricycle: make([]models.TricycleFare, 0, len(rows)),
	}

	schema := TricycleSchema()
	for _, row := range rows {
		fields, ok := Resolve(row, schema)
		if !ok {
			batch.Skipped++
			continue
		}
		batch.Tricycle = append(batch.Tricycle, models.TricycleFare{
			Place:    place,
			Location: fields[FieldLocation].Str,
			Fare:     fields[FieldFare].Amount,
		})
	}

	return batch
}
