package validation

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Number is a loosely typed numeric input. Clients of the legacy API send
// numerics both as JSON numbers and as strings, so decoding never rejects a
// scalar; coercion happens centrally in the validators.
type Number string

// UnmarshalJSON accepts numbers, numeric strings and null.
func (n *Number) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		*n = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*n = Number(strings.TrimSpace(s))
		return nil
	}
	*n = Number(raw)
	return nil
}

// Empty reports whether no value was supplied.
func (n Number) Empty() bool {
	return strings.TrimSpace(string(n)) == ""
}

// PositiveInt coerces the value to a positive integer.
func (n Number) PositiveInt() (int64, bool) {
	v, err := strconv.ParseInt(strings.TrimSpace(string(n)), 10, 64)
	if err != nil || v < 1 {
		return 0, false
	}
	return v, true
}

// FiniteFloat coerces the value to a finite float.
func (n Number) FiniteFloat() (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(string(n)), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
