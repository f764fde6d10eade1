package types

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
)

// Money is a fixed-point decimal amount with exactly two fractional digits,
// stored as integer cents so arithmetic never drifts. It marshals to/from
// JSON as a decimal string ("299.00") to match the wire format the existing
// dashboards already read.
type Money int64

func NewMoney(dollars float64) Money {
	return Money(int64(dollars*100 + sign(dollars)*0.5))
}

func sign(f float64) float64 {
	if f < 0 {
		return -1
	}
	return 1
}

func (m Money) Float64() float64 {
	return float64(m) / 100
}

func (m Money) String() string {
	neg := m < 0
	v := int64(m)
	if neg {
		v = -v
	}
	whole := v / 100
	frac := v % 100
	s := fmt.Sprintf("%d.%02d", whole, frac)
	if neg {
		s = "-" + s
	}
	return s
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*m = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("money: invalid amount %q: %w", s, err)
	}
	*m = NewMoney(f)
	return nil
}

// Value implements driver.Valuer so Money writes to a numeric(12,2)
// column as a plain decimal string.
func (m Money) Value() (driver.Value, error) {
	return m.String(), nil
}

// Scan implements sql.Scanner for the numeric(12,2) column pgx hands
// back as either a string or a float64 depending on the driver path.
func (m *Money) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*m = 0
		return nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("money: scan %q: %w", v, err)
		}
		*m = NewMoney(f)
		return nil
	case []byte:
		return m.Scan(string(v))
	case float64:
		*m = NewMoney(v)
		return nil
	case int64:
		*m = Money(v * 100)
		return nil
	default:
		return fmt.Errorf("money: unsupported scan source %T", src)
	}
}

// ValidCurrency validates ISO-4217-ish 3-letter currency codes the platform
// accepts. Anything else is a ValidationError at the call site.
func ValidCurrency(code string) bool {
	switch strings.ToUpper(code) {
	case "USD", "EUR", "GBP", "CAD", "AUD":
		return true
	}
	return false
}

// CurrencySymbol mirrors the symbol table used when rendering notification
// bodies (formatAmount in the teacher's dunning engine).
func CurrencySymbol(currency string) string {
	switch strings.ToUpper(currency) {
	case "USD":
		return "$"
	case "EUR":
		return "€"
	case "GBP":
		return "£"
	default:
		return strings.ToUpper(currency) + " "
	}
}

func FormatAmount(amount Money, currency string) string {
	return fmt.Sprintf("%s%s", CurrencySymbol(currency), amount.String())
}
