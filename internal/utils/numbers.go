package utils

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

func RoundFloat(val float64, precision uint) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}

// LenientFloat accepts a JSON number, a numeric string, or null.
// Valid is false for null, empty strings and anything that does not parse to a finite number.
type LenientFloat struct {
	Value float64
	Valid bool
}

func (f *LenientFloat) UnmarshalJSON(b []byte) error {
	*f = LenientFloat{}
	s := strings.TrimSpace(string(b))
	if s == "null" || s == "" {
		return nil
	}
	if s[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return nil
		}
		s = strings.TrimSpace(str)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	f.Value, f.Valid = v, true
	return nil
}

func (f LenientFloat) Ptr() *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Value
	return &v
}

// FullName joins the non-empty parts with a single space.
func FullName(parts ...string) string {
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}
