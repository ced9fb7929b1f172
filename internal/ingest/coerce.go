package ingest

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Fare amounts are stored at centavo precision.
const amountPlaces = 2

// SanitizeNumeric strips every character that is not a digit or a
// decimal point. This is what turns "₱25.50", "1,250.00", or " 12 "
// into a parseable number.
func SanitizeNumeric(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CoerceAmount converts any scalar into a non-negative two-decimal
// amount. It never fails: values with no parseable numeric substring
// come back as 0.00 with lossy=true, so a zero amount can mean "could
// not parse" rather than "free" and callers must treat it that way.
func CoerceAmount(v any) (amount decimal.Decimal, lossy bool) {
	d, lossy := coerceDecimal(v)
	return d.Round(amountPlaces), lossy
}

// CoerceInt converts any scalar into a non-negative whole number,
// following the same total best-effort policy as CoerceAmount. Values
// too large for the 32-bit integer columns degrade to 0 with
// lossy=true; IntPart alone would wrap them into negatives.
func CoerceInt(v any) (n int, lossy bool) {
	d, lossy := coerceDecimal(v)
	rounded := d.Round(0)
	if !rounded.BigInt().IsInt64() {
		return 0, true
	}
	whole := rounded.IntPart()
	if whole > math.MaxInt32 {
		return 0, true
	}
	return int(whole), lossy
}

// coerceDecimal is the shared best-effort conversion. Numeric inputs
// pass through; everything else goes through the sanitize-then-parse
// path. Negative inputs clamp to zero and are flagged lossy, keeping
// the output non-negative for any input.
func coerceDecimal(v any) (decimal.Decimal, bool) {
	switch val := v.(type) {
	case nil:
		return decimal.Zero, true
	case decimal.Decimal:
		return passthrough(val)
	case json.Number:
		d, err := decimal.NewFromString(val.String())
		if err != nil {
			return parseSanitized(val.String())
		}
		return passthrough(d)
	case float64:
		return passthrough(decimal.NewFromFloat(val))
	case float32:
		return passthrough(decimal.NewFromFloat32(val))
	case int:
		return passthrough(decimal.NewFromInt(int64(val)))
	case int64:
		return passthrough(decimal.NewFromInt(val))
	case string:
		return parseSanitized(val)
	default:
		// Booleans, objects, and anything else unexpected: stringify
		// and try the sanitize path, which degrades to zero.
		return parseSanitized(fmt.Sprintf("%v", val))
	}
}

func passthrough(d decimal.Decimal) (decimal.Decimal, bool) {
	if d.IsNegative() {
		return decimal.Zero, true
	}
	return d, false
}

func parseSanitized(s string) (decimal.Decimal, bool) {
	cleaned := SanitizeNumeric(s)
	if cleaned == "" {
		return decimal.Zero, true
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		// Stripping can leave garbage like "1.2.3".
		return decimal.Zero, true
	}
	return d, cleaned != strings.TrimSpace(s)
}
