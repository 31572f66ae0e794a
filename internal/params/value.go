package params

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// Num wraps a float64 as a cty number value.
func Num(v float64) cty.Value {
	return cty.NumberFloatVal(v)
}

// NumInt wraps an integer code (IMF type, dust law index, polynomial
// order) as a cty number value.
func NumInt(v int64) cty.Value {
	return cty.NumberIntVal(v)
}

// Bool wraps a boolean flag as a cty value.
func Bool(v bool) cty.Value {
	return cty.BoolVal(v)
}

// Str wraps a string as a cty value.
func Str(v string) cty.Value {
	return cty.StringVal(v)
}

// NumList wraps a float slice as a cty list of numbers.
func NumList(vs ...float64) cty.Value {
	if len(vs) == 0 {
		return cty.ListValEmpty(cty.Number)
	}
	elems := make([]cty.Value, len(vs))
	for i, v := range vs {
		elems[i] = cty.NumberFloatVal(v)
	}
	return cty.ListVal(elems)
}

// Zeros returns a cty list of n zero numbers.
func Zeros(n int) cty.Value {
	return NumList(make([]float64, n)...)
}

// Strings wraps a string slice as a cty list of strings.
func Strings(vs ...string) cty.Value {
	if len(vs) == 0 {
		return cty.ListValEmpty(cty.String)
	}
	elems := make([]cty.Value, len(vs))
	for i, v := range vs {
		elems[i] = cty.StringVal(v)
	}
	return cty.ListVal(elems)
}

// Pairs wraps rows of [lo, hi] pairs (the time-bin edges) as a cty list
// of two-element number lists.
func Pairs(rows [][2]float64) cty.Value {
	if len(rows) == 0 {
		return cty.ListValEmpty(cty.List(cty.Number))
	}
	elems := make([]cty.Value, len(rows))
	for i, r := range rows {
		elems[i] = cty.ListVal([]cty.Value{cty.NumberFloatVal(r[0]), cty.NumberFloatVal(r[1])})
	}
	return cty.ListVal(elems)
}

// Floats extracts a float slice from a cty value. Scalars yield a single
// element; lists and tuples are flattened recursively in row-major order,
// so bin-edge pairs come out as [lo0, hi0, lo1, hi1, ...].
func Floats(v cty.Value) ([]float64, error) {
	if v == cty.NilVal || v.IsNull() {
		return nil, fmt.Errorf("no value present")
	}
	if v.Type() == cty.Number {
		f, _ := v.AsBigFloat().Float64()
		return []float64{f}, nil
	}
	if v.Type().IsListType() || v.Type().IsTupleType() || v.Type().IsSetType() {
		var out []float64
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			fs, err := Floats(ev)
			if err != nil {
				return nil, err
			}
			out = append(out, fs...)
		}
		return out, nil
	}
	return nil, fmt.Errorf("value of type %s is not numeric", v.Type().FriendlyName())
}

// Float extracts a single float64 from a scalar cty number.
func Float(v cty.Value) (float64, error) {
	fs, err := Floats(v)
	if err != nil {
		return 0, err
	}
	if len(fs) != 1 {
		return 0, fmt.Errorf("expected a scalar, got %d elements", len(fs))
	}
	return fs[0], nil
}
