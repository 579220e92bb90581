package ledger

import (
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Amount represents an immutable monetary value as an integer count of a
// currency's minor unit (e.g. cents). Keeping the count integral avoids the
// rounding drift a float representation accumulates when splitting or
// summing amounts.
type Amount struct {
	value int64 // minor units
	cur   string
}

// A builds an Amount from a major-unit value, rounding half-up to the
// currency's exponent.
func A[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64](value T, currency string) Amount {
	return NewAmount(newDecimal(value), currency)
}

// NewAmount builds an Amount from a major-unit decimal, rounding half-up to
// the currency's exponent.
func NewAmount(value decimal.Decimal, currency string) Amount {
	exp := currencyOf(currency).Fraction
	return Amount{value: value.Shift(int32(exp)).Round(0).IntPart(), cur: currency}
}

// Cents builds an Amount directly from a minor-unit count.
func Cents(minor int64, currency string) Amount {
	return Amount{value: minor, cur: currency}
}

func newDecimal[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case float32:
		return decimal.NewFromFloat32(v)
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int32:
		return decimal.NewFromInt32(v)
	case int64:
		return decimal.NewFromInt(v)
	case uint:
		return decimal.NewFromUint64(uint64(v))
	case uint32:
		return decimal.NewFromUint64(uint64(v))
	case uint64:
		return decimal.NewFromUint64(v)
	}
	panic("unreachable")
}

// currencyOf resolves a currency code in the go-money registry.
func currencyOf(code string) money.Currency {
	// to get a never nil currency I need to call the Money constructor
	return *money.New(0, code).Currency()
}

// ValidateCurrency returns an error if the code is not a known ISO currency.
func ValidateCurrency(code string) error {
	if money.GetCurrency(code) == nil {
		return fmt.Errorf("unknown currency code %q", code)
	}
	return nil
}

// Currency returns the amount's currency code.
func (a Amount) Currency() string { return a.cur }

// Decimal returns the amount as a major-unit decimal.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(a.value, -int32(currencyOf(a.cur).Fraction))
}

// MinorUnits returns the raw minor-unit count.
func (a Amount) MinorUnits() int64 { return a.value }

// String returns the amount formatted for its currency.
func (a Amount) String() string {
	cur := currencyOf(a.cur)
	return cur.Formatter().Format(a.value)
}

// An Amount is zero independently of its currency.
func (a Amount) IsZero() bool     { return a.value == 0 }
func (a Amount) IsPositive() bool { return a.value > 0 }
func (a Amount) IsNegative() bool { return a.value < 0 }

func (a Amount) Equal(b Amount) bool { return a.value == b.value && a.cur == b.cur }
func (a Amount) Neg() Amount         { return Amount{value: -a.value, cur: a.cur} }

// binary operators.
func (a Amount) Add(b Amount) Amount { return Amount{value: a.value + b.value, cur: cur(a, b)} }
func (a Amount) Sub(b Amount) Amount { return Amount{value: a.value - b.value, cur: cur(a, b)} }

// makes the "" currency totally weak.
func cur(a, b Amount) string {
	if a.cur == "" {
		return b.cur
	}
	if b.cur == "" {
		return a.cur
	}
	if a.cur != b.cur {
		panic("currency mismatch " + a.cur + "!=" + b.cur)
	}
	return a.cur
}

// SignedString returns the string representation of the amount with a sign.
// 0 is represented as "-".
func (a Amount) SignedString() string {
	if a.value == 0 {
		return "-"
	}
	if a.value > 0 {
		return "+" + a.String()
	}
	return a.String()
}

// MarshalJSON writes the decimal value under "amount" and, unless the
// currency is weak, the code under "currency". Split and budget records
// embed this shape in the ledger file.
func (a Amount) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("amount", a.Decimal())
	w.Optional("currency", a.cur)
	return w.MarshalJSON()
}
