package ingest

// CoercionKind selects how a resolved raw value is converted into its
// typed form.
type CoercionKind int

const (
	// KindString keeps the value as free text.
	KindString CoercionKind = iota
	// KindInteger coerces to a whole number.
	KindInteger
	// KindCurrency coerces to a two-decimal amount, stripping currency
	// symbols, commas, and other non-numeric characters first.
	KindCurrency
)

// MissingPolicy decides what happens when a schema field cannot be
// resolved from a row. The two policies are deliberately asymmetric:
// amount-like fields degrade to zero while anchor fields drop the whole
// row. Keeping the choice on the field makes the asymmetry visible and
// testable instead of burying it in resolution code.
type MissingPolicy int

const (
	// MissingZero coerces an unresolvable field to its zero value and
	// keeps the row.
	MissingZero MissingPolicy = iota
	// MissingSkipsRow drops the whole row when the field cannot be
	// resolved; string fields under this policy also drop the row when
	// the resolved value is empty.
	MissingSkipsRow
)

// Field is one rule in a schema's resolution table: the canonical name
// the output uses, the input column names it matches (checked in
// order, case-sensitive), how its value is coerced, and what happens
// when it cannot be resolved.
type Field struct {
	Name       string
	Candidates []string
	Kind       CoercionKind
	OnMissing  MissingPolicy
}

// Schema is the ordered resolution table for one fare regime. Field
// order doubles as the positional-fallback order: the i-th field with
// no name match resolves to the row's i-th column. New column-name
// variants are added to Candidates, never as new conditionals.
type Schema struct {
	Name string
	// PageContent enables the alternate row shape carried by PDF
	// extractions: a row with a content column maps to a single
	// descriptive location and a zero fare.
	PageContent bool
	Fields      []Field
}

// Canonical field names shared by schemas and their consumers.
const (
	FieldDistanceKM     = "distance_km"
	FieldRegularFare    = "regular_fare"
	FieldDiscountedFare = "discounted_fare"
	FieldLocation       = "location"
	FieldFare           = "fare"
)

// JeepneySchema is the resolution table for LTFRB matrix rows. Distance
// anchors the row; the two fare columns degrade to zero when absent or
// unparseable.
func JeepneySchema() Schema {
	return Schema{
		Name: "jeepney",
		Fields: []Field{
			{
				Name:       FieldDistanceKM,
				Candidates: []string{"Distance (kms.)", "distance_km", "Distance"},
				Kind:       KindInteger,
				OnMissing:  MissingSkipsRow,
			},
			{
				Name:       FieldRegularFare,
				Candidates: []string{"Regular", "regular_fare", "Regular Fare"},
				Kind:       KindCurrency,
				OnMissing:  MissingZero,
			},
			{
				Name:       FieldDiscountedFare,
				Candidates: []string{"Student / Elderly / Disabled", "discounted_fare", "Discounted"},
				Kind:       KindCurrency,
				OnMissing:  MissingZero,
			},
		},
	}
}

// TricycleSchema is the resolution table for LGU rows. Location anchors
// the row; a row whose location cannot be resolved, or resolves empty,
// is excluded from the batch. Fare degrades to zero.
func TricycleSchema() Schema {
	return Schema{
		Name:        "tricycle",
		PageContent: true,
		Fields: []Field{
			{
				Name:       FieldLocation,
				Candidates: []string{"Location", "location", "Destination"},
				Kind:       KindString,
				OnMissing:  MissingSkipsRow,
			},
			{
				Name:       FieldFare,
				Candidates: []string{"Fare", "fare", "Rate"},
				Kind:       KindCurrency,
				OnMissing:  MissingZero,
			},
		},
	}
}
