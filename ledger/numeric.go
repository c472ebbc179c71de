/*
numeric.go - Boundary coercion of untyped values

PURPOSE:
  Every inbound value (spreadsheet cell, form field, database row) is
  untyped at the boundary. All downstream arithmetic depends on coercion
  never producing NaN, Infinity, or a panic: anything that does not parse
  to a finite number becomes zero.

CLEANING RULE:
  String input is filtered to digits, '.', and '-' before parsing, so
  "$1,234.50" and "1234.50" coerce to the same decimal.

GUARANTEES:
  - Never panics, never returns a non-finite value
  - Idempotent: ToDecimal(ToDecimal(x)) == ToDecimal(x)
  - Unparseable input (nil, "", "n/a", maps, ...) -> zero

SEE ALSO:
  - importer: runs every spreadsheet cell through these
  - api: runs request money/quantity fields through these
*/
package ledger

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ToDecimal coerces an arbitrary value into a finite decimal.
// Unparseable input yields decimal.Zero.
func ToDecimal(v any) decimal.Decimal {
	switch x := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return x
	case int:
		return decimal.NewFromInt(int64(x))
	case int32:
		return decimal.NewFromInt(int64(x))
	case int64:
		return decimal.NewFromInt(x)
	case float32:
		return fromFloat(float64(x))
	case float64:
		return fromFloat(x)
	case json.Number:
		return parseNumericString(x.String())
	case string:
		return parseNumericString(x)
	default:
		return decimal.Zero
	}
}

// ToInt coerces like ToDecimal and truncates toward zero.
func ToInt(v any) int {
	return int(ToDecimal(v).IntPart())
}

func fromFloat(f float64) decimal.Decimal {
	// NewFromFloat panics on NaN/Inf; treat both as unparseable.
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

// parseNumericString strips currency symbols, commas, and any other noise,
// keeping only digits, '.', and '-', then parses what is left.
func parseNumericString(s string) decimal.Decimal {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return d
}
