package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
)

// currencyFractionDigits lists currencies whose minor unit is not cents.
var currencyFractionDigits = map[string]int32{
	"JPY": 0,
	"KRW": 0,
	"BHD": 3,
	"KWD": 3,
}

// Money is an immutable amount in a single currency.
type Money struct {
	Number       decimal.Decimal `json:"number" swaggertype:"string" example:"10.00"`
	CurrencyCode string          `json:"currency_code" example:"USD"`
}

// NewMoney builds an amount from a decimal string.
func NewMoney(number, currencyCode string) (Money, error) {
	if len(currencyCode) != 3 {
		return Money{}, fmt.Errorf("%w: currency code %q", ErrInvalidArgument, currencyCode)
	}
	n, err := decimal.NewFromString(number)
	if err != nil {
		return Money{}, fmt.Errorf("%w: amount %q: %v", ErrInvalidArgument, number, err)
	}
	return Money{Number: n, CurrencyCode: strings.ToUpper(currencyCode)}, nil
}

// MustMoney is NewMoney for literals known to be valid.
func MustMoney(number, currencyCode string) Money {
	m, err := NewMoney(number, currencyCode)
	if err != nil {
		panic(err)
	}
	return m
}

// ZeroMoney returns a zero amount in currencyCode.
func ZeroMoney(currencyCode string) Money {
	return Money{Number: decimal.Zero, CurrencyCode: currencyCode}
}

// Add returns the sum. Amounts in different currencies are never coerced.
func (m Money) Add(other Money) (Money, error) {
	if m.CurrencyCode != other.CurrencyCode {
		return Money{}, fmt.Errorf("%w: %s and %s", ErrCurrencyMismatch, m.CurrencyCode, other.CurrencyCode)
	}
	return Money{Number: m.Number.Add(other.Number), CurrencyCode: m.CurrencyCode}, nil
}

// Multiply scales the amount by factor.
func (m Money) Multiply(factor decimal.Decimal) Money {
	return Money{Number: m.Number.Mul(factor), CurrencyCode: m.CurrencyCode}
}

// Divide scales the amount down by divisor. divisor must be non-zero.
func (m Money) Divide(divisor decimal.Decimal) Money {
	return Money{Number: m.Number.Div(divisor), CurrencyCode: m.CurrencyCode}
}

// Round rounds half away from zero to the currency's minor unit.
func (m Money) Round() Money {
	digits, ok := currencyFractionDigits[m.CurrencyCode]
	if !ok {
		digits = 2
	}
	return Money{Number: m.Number.Round(digits), CurrencyCode: m.CurrencyCode}
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool {
	return m.Number.IsZero()
}

// Equal reports whether both amounts share currency and value.
func (m Money) Equal(other Money) bool {
	return m.CurrencyCode == other.CurrencyCode && m.Number.Equal(other.Number)
}

// String implements fmt.Stringer.
func (m Money) String() string {
	return m.Number.String() + " " + m.CurrencyCode
}

type moneyDocument struct {
	Number       string `bson:"number"`
	CurrencyCode string `bson:"currency_code"`
}

// MarshalBSON implements bson.Marshaler.
func (m Money) MarshalBSON() ([]byte, error) {
	return bson.Marshal(moneyDocument{Number: m.Number.String(), CurrencyCode: m.CurrencyCode})
}

// UnmarshalBSON implements bson.Unmarshaler.
func (m *Money) UnmarshalBSON(data []byte) error {
	var doc moneyDocument
	if err := bson.Unmarshal(data, &doc); err != nil {
		return err
	}
	n, err := decimal.NewFromString(doc.Number)
	if err != nil {
		return err
	}
	m.Number = n
	m.CurrencyCode = doc.CurrencyCode
	return nil
}
