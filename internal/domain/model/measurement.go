package model

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
)

// WeightUnit identifies a unit of mass.
type WeightUnit string

// Supported weight units.
const (
	Gram     WeightUnit = "g"
	Kilogram WeightUnit = "kg"
	Ounce    WeightUnit = "oz"
	Pound    WeightUnit = "lb"
)

// weightPrecision is the number of fractional digits kept after scaling.
const weightPrecision = 6

// gramsPerUnit is the conversion table. Every supported unit converts to every
// other unit through grams.
var gramsPerUnit = map[WeightUnit]decimal.Decimal{
	Gram:     decimal.NewFromInt(1),
	Kilogram: decimal.NewFromInt(1000),
	Ounce:    decimal.RequireFromString("28.349523125"),
	Pound:    decimal.RequireFromString("453.59237"),
}

// ParseWeightUnit validates a unit string.
func ParseWeightUnit(s string) (WeightUnit, error) {
	u := WeightUnit(s)
	if _, ok := gramsPerUnit[u]; !ok {
		return "", fmt.Errorf("%w: unknown weight unit %q", ErrInvalidArgument, s)
	}
	return u, nil
}

// Weight is an immutable mass measurement.
type Weight struct {
	Number decimal.Decimal `json:"number" swaggertype:"string" example:"1.5"`
	Unit   WeightUnit      `json:"unit" example:"kg"`
}

// NewWeight builds a weight from a decimal string such as "2.5".
func NewWeight(number string, unit WeightUnit) (Weight, error) {
	if _, ok := gramsPerUnit[unit]; !ok {
		return Weight{}, fmt.Errorf("%w: unknown weight unit %q", ErrInvalidArgument, unit)
	}
	n, err := decimal.NewFromString(number)
	if err != nil {
		return Weight{}, fmt.Errorf("%w: weight %q: %v", ErrInvalidArgument, number, err)
	}
	return Weight{Number: n, Unit: unit}, nil
}

// MustWeight is NewWeight for literals known to be valid.
func MustWeight(number string, unit WeightUnit) Weight {
	w, err := NewWeight(number, unit)
	if err != nil {
		panic(err)
	}
	return w
}

// ZeroWeight returns a zero weight in the given unit.
func ZeroWeight(unit WeightUnit) Weight {
	return Weight{Number: decimal.Zero, Unit: unit}
}

// ConvertTo returns the weight expressed in unit.
func (w Weight) ConvertTo(unit WeightUnit) (Weight, error) {
	if w.Unit == unit {
		return w, nil
	}
	from, ok := gramsPerUnit[w.Unit]
	if !ok {
		return Weight{}, fmt.Errorf("%w: unknown weight unit %q", ErrInvalidArgument, w.Unit)
	}
	to, ok := gramsPerUnit[unit]
	if !ok {
		return Weight{}, fmt.Errorf("%w: unknown weight unit %q", ErrInvalidArgument, unit)
	}
	return Weight{Number: w.Number.Mul(from).Div(to), Unit: unit}, nil
}

// Add converts other into w's unit and returns the sum.
func (w Weight) Add(other Weight) (Weight, error) {
	converted, err := other.ConvertTo(w.Unit)
	if err != nil {
		return Weight{}, err
	}
	return Weight{Number: w.Number.Add(converted.Number), Unit: w.Unit}, nil
}

// Multiply scales the weight by factor.
func (w Weight) Multiply(factor decimal.Decimal) Weight {
	return Weight{Number: w.Number.Mul(factor), Unit: w.Unit}
}

// Divide scales the weight down by divisor. divisor must be non-zero.
func (w Weight) Divide(divisor decimal.Decimal) Weight {
	return Weight{Number: w.Number.Div(divisor), Unit: w.Unit}
}

// Round rounds to the fixed weight precision.
func (w Weight) Round() Weight {
	return Weight{Number: w.Number.Round(weightPrecision), Unit: w.Unit}
}

// IsZero reports whether the weight is zero.
func (w Weight) IsZero() bool {
	return w.Number.IsZero()
}

// Equal compares two weights after converting other into w's unit.
func (w Weight) Equal(other Weight) bool {
	converted, err := other.ConvertTo(w.Unit)
	if err != nil {
		return false
	}
	return w.Number.Round(weightPrecision).Equal(converted.Number.Round(weightPrecision))
}

// String implements fmt.Stringer.
func (w Weight) String() string {
	return w.Number.String() + " " + string(w.Unit)
}

type weightDocument struct {
	Number string     `bson:"number"`
	Unit   WeightUnit `bson:"unit"`
}

// MarshalBSON stores the number as a decimal string to avoid float rounding.
func (w Weight) MarshalBSON() ([]byte, error) {
	return bson.Marshal(weightDocument{Number: w.Number.String(), Unit: w.Unit})
}

// UnmarshalBSON implements bson.Unmarshaler.
func (w *Weight) UnmarshalBSON(data []byte) error {
	var doc weightDocument
	if err := bson.Unmarshal(data, &doc); err != nil {
		return err
	}
	n, err := decimal.NewFromString(doc.Number)
	if err != nil {
		return err
	}
	w.Number = n
	w.Unit = doc.Unit
	return nil
}
