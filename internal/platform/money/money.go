// Package money holds the fixed-point helpers shared by every monetary field.
// Amounts are shopspring decimals end to end; rounding happens only where a
// value is persisted or shown.
package money

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts go over the wire as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Scale is the number of fraction digits kept for amounts.
const Scale = 2

var (
	hundred = decimal.NewFromInt(100)

	// MinorUnit is the smallest representable amount (0.01).
	MinorUnit = decimal.New(1, -Scale)
)

// Round rounds to two places, half away from zero. For the non-negative
// amounts handled here that is round-half-up.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Scale)
}

// Percent returns base * pct / 100 without rounding.
func Percent(base, pct decimal.Decimal) decimal.Decimal {
	return base.Mul(pct).Div(hundred)
}

// Within reports whether a and b agree to within one minor unit once both are
// rounded. Client-side totals are computed in binary floating point, so exact
// equality is not expected.
func Within(a, b decimal.Decimal) bool {
	return Round(a).Sub(Round(b)).Abs().LessThanOrEqual(MinorUnit)
}

// ParseJSON decodes a JSON number or numeric string. present is false for an
// absent field or JSON null.
func ParseJSON(raw json.RawMessage) (value decimal.Decimal, present bool, err error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return decimal.Zero, false, nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(raw, &str); err != nil {
			return decimal.Zero, true, err
		}
		s = strings.TrimSpace(str)
	}
	value, err = decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, true, fmt.Errorf("not a number: %q", s)
	}
	return value, true, nil
}
