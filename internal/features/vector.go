package features

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

const (
	// FullLength is the size of vectors produced by Full.
	FullLength = 841
	// MinimalLength is the size of vectors produced by Minimal.
	MinimalLength = 10
)

// Vector is a fixed-length feature sequence. It may hold NaN (see the
// package documentation); JSON carries non-finite entries as null.
type Vector []float64

// Fit returns raw zero-padded or truncated at the tail to exactly target
// entries. raw is not modified.
func Fit(raw []float64, target int) Vector {
	if target < 0 {
		target = 0
	}
	out := make(Vector, target)
	copy(out, raw)
	return out
}

// MarshalJSON writes NaN and infinities as null, which encoding/json would
// otherwise reject.
func (v Vector) MarshalJSON() ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}
	var b bytes.Buffer
	b.WriteByte('[')
	for i, f := range v {
		if i > 0 {
			b.WriteByte(',')
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			b.WriteString("null")
			continue
		}
		b.Write(strconv.AppendFloat(nil, f, 'g', -1, 64))
	}
	b.WriteByte(']')
	return b.Bytes(), nil
}

// UnmarshalJSON reads null entries back as NaN.
func (v *Vector) UnmarshalJSON(data []byte) error {
	var raw []*float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*v = nil
		return nil
	}
	out := make(Vector, len(raw))
	for i, p := range raw {
		if p == nil {
			out[i] = math.NaN()
			continue
		}
		out[i] = *p
	}
	*v = out
	return nil
}

// HasNaN reports whether any entry is NaN.
func (v Vector) HasNaN() bool {
	for _, f := range v {
		if math.IsNaN(f) {
			return true
		}
	}
	return false
}
