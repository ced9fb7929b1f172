package ingest

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Page/content marker columns carried by rows extracted from PDF pages.
var (
	contentCandidates = []string{"Content", "content"}
	pageCandidates    = []string{"Page", "page"}
)

// Content longer than this is truncated when folded into a location.
const maxContentRunes = 250

// FieldValue is one resolved, coerced schema field. Only the member
// matching the field's CoercionKind is meaningful. Lossy marks values
// that did not convert cleanly and were defaulted.
type FieldValue struct {
	Str    string
	Amount decimal.Decimal
	Int    int
	Lossy  bool
}

// Resolve maps one raw row onto a schema, returning coerced values
// keyed by canonical field name. It is a pure function over the row.
//
// Resolution runs two passes per field: an exact match against the
// field's candidate names (case-sensitive, declared order), then a
// positional fallback where the i-th schema field takes the row's i-th
// column. ok=false means the row is skipped: a MissingSkipsRow field
// had no resolvable column, or a string field under that policy
// resolved to an empty value. Skipping is a soft signal for callers to
// count, never an error.
//
// Rows carrying a page/content marker bypass field resolution entirely
// and map to the alternate shape: a descriptive location built from the
// page number and content text, with a zero fare.
func Resolve(row RawRow, schema Schema) (map[string]FieldValue, bool) {
	if schema.PageContent {
		if fields, ok := resolvePageContent(row); ok {
			return fields, true
		}
	}

	fields := make(map[string]FieldValue, len(schema.Fields))

	for i, field := range schema.Fields {
		raw, found := matchCandidate(row, field.Candidates)
		if !found {
			// Positional fallback: field order mirrors column order.
			_, raw, found = row.At(i)
		}

		if !found {
			if field.OnMissing == MissingSkipsRow {
				return nil, false
			}
			fields[field.Name] = zeroValue(field.Kind)
			continue
		}

		value := coerceField(raw, field.Kind)
		if field.Kind == KindString && field.OnMissing == MissingSkipsRow && value.Str == "" {
			return nil, false
		}
		fields[field.Name] = value
	}

	return fields, true
}

// resolvePageContent maps a page/content row to the alternate LGU
// shape. ok=false means the row carries no content marker.
func resolvePageContent(row RawRow) (map[string]FieldValue, bool) {
	raw, found := matchCandidate(row, contentCandidates)
	if !found {
		return nil, false
	}

	page := "N/A"
	if rawPage, ok := matchCandidate(row, pageCandidates); ok {
		if s := strings.TrimSpace(stringify(rawPage)); s != "" {
			page = s
		}
	}

	return map[string]FieldValue{
		FieldLocation: {Str: fmt.Sprintf("Page %s: %s", page, truncateRunes(stringify(raw), maxContentRunes))},
		FieldFare:     {Amount: decimal.Zero},
	}, true
}

// matchCandidate returns the row value of the first candidate name
// present in the row.
func matchCandidate(row RawRow, candidates []string) (any, bool) {
	for _, name := range candidates {
		if v, ok := row.Get(name); ok {
			return v, true
		}
	}
	return nil, false
}

func coerceField(raw any, kind CoercionKind) FieldValue {
	switch kind {
	case KindInteger:
		n, lossy := CoerceInt(raw)
		return FieldValue{Int: n, Lossy: lossy}
	case KindCurrency:
		amount, lossy := CoerceAmount(raw)
		return FieldValue{Amount: amount, Lossy: lossy}
	default:
		return FieldValue{Str: strings.TrimSpace(stringify(raw))}
	}
}

func zeroValue(kind CoercionKind) FieldValue {
	switch kind {
	case KindCurrency:
		return FieldValue{Amount: decimal.Zero, Lossy: true}
	case KindInteger:
		return FieldValue{Lossy: true}
	default:
		return FieldValue{Lossy: true}
	}
}

func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
