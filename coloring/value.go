package coloring

import (
	"fmt"
	"math"
)

// ColorValue is an amount of a single color. Values are immutable; every
// operation returns a new instance.
type ColorValue struct {
	def   ColorDefinition
	value int64
	label string
}

// NewColorValue returns value units of the color def.
func NewColorValue(def ColorDefinition, value int64) *ColorValue {
	return &ColorValue{def: def, value: value}
}

// NewLabeledColorValue returns a value carrying a display label.
func NewLabeledColorValue(def ColorDefinition, value int64, label string) *ColorValue {
	return &ColorValue{def: def, value: value, label: label}
}

// NewColorValueFromFloat converts an externally supplied amount, rejecting
// anything that is not an integer.
func NewColorValueFromFloat(def ColorDefinition, value float64) (*ColorValue, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) || value != math.Trunc(value) ||
		value >= math.MaxInt64 || value < math.MinInt64 {
		return nil, fmt.Errorf("%w: %v is not an integer", ErrInvalidValue, value)
	}
	return NewColorValue(def, int64(value)), nil
}

func (v *ColorValue) ColorDef() ColorDefinition {
	return v.def
}

func (v *ColorValue) ColorID() int64 {
	return v.def.colorID
}

func (v *ColorValue) Value() int64 {
	return v.value
}

func (v *ColorValue) Label() string {
	return v.label
}

func (v *ColorValue) IsZero() bool {
	return v.value == 0
}

// IsUncolored reports whether v is plain bitcoin value.
func (v *ColorValue) IsUncolored() bool {
	return v.def.colorID == UncoloredColorID
}

func (v *ColorValue) String() string {
	if v.label != "" {
		return fmt.Sprintf("%d %s", v.value, v.label)
	}
	return fmt.Sprintf("%d of %s", v.value, v.def)
}

// IsCompatible reports whether v and o have the same color.
func (v *ColorValue) IsCompatible(o *ColorValue) bool {
	return o != nil && v.def.colorID == o.def.colorID
}

func (v *ColorValue) check(o *ColorValue) error {
	if o == nil {
		return fmt.Errorf("%w: nil operand", ErrIncompatibleColor)
	}
	if !v.IsCompatible(o) {
		return fmt.Errorf("%w: %s and %s", ErrIncompatibleColor, v.def, o.def)
	}
	return nil
}

func (v *ColorValue) with(value int64) *ColorValue {
	return &ColorValue{def: v.def, value: value, label: v.label}
}

// Add returns v + o.
func (v *ColorValue) Add(o *ColorValue) (*ColorValue, error) {
	if err := v.check(o); err != nil {
		return nil, err
	}
	return v.with(v.value + o.value), nil
}

// AddInt adds a bare integer. Only 0 is accepted: it is the neutral element
// that lets sums start from an integer.
func (v *ColorValue) AddInt(n int64) (*ColorValue, error) {
	if n != 0 {
		return nil, fmt.Errorf("%w: cannot add bare integer %d to %s", ErrIncompatibleColor, n, v.def)
	}
	return v, nil
}

// Sub returns v - o.
func (v *ColorValue) Sub(o *ColorValue) (*ColorValue, error) {
	if err := v.check(o); err != nil {
		return nil, err
	}
	return v.with(v.value - o.value), nil
}

// Neg returns -v.
func (v *ColorValue) Neg() *ColorValue {
	return v.with(-v.value)
}

// Cmp compares v and o and returns -1, 0 or +1.
func (v *ColorValue) Cmp(o *ColorValue) (int, error) {
	if err := v.check(o); err != nil {
		return 0, err
	}
	switch {
	case v.value < o.value:
		return -1, nil
	case v.value > o.value:
		return 1, nil
	}
	return 0, nil
}

func (v *ColorValue) Less(o *ColorValue) (bool, error) {
	c, err := v.Cmp(o)
	return c < 0, err
}

func (v *ColorValue) LessEq(o *ColorValue) (bool, error) {
	c, err := v.Cmp(o)
	return c <= 0, err
}

func (v *ColorValue) Greater(o *ColorValue) (bool, error) {
	c, err := v.Cmp(o)
	return c > 0, err
}

func (v *ColorValue) GreaterEq(o *ColorValue) (bool, error) {
	c, err := v.Cmp(o)
	return c >= 0, err
}

func (v *ColorValue) Equal(o *ColorValue) (bool, error) {
	c, err := v.Cmp(o)
	return c == 0, err
}

// SumColorValues adds up a non-empty list of values of one color.
func SumColorValues(values []*ColorValue) (*ColorValue, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: empty sum", ErrInvalidValue)
	}
	sum := values[0]
	if sum == nil {
		return nil, fmt.Errorf("%w: nil value in sum", ErrInvalidValue)
	}
	for _, v := range values[1:] {
		var err error
		if sum, err = sum.Add(v); err != nil {
			return nil, err
		}
	}
	return sum, nil
}
