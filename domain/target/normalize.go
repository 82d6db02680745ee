package target

import (
	"strconv"
	"strings"
)

// ParseValue parses heterogeneous cell text into a comparable number.
// Blank cells and the "-" placeholder are absent values, not parse failures;
// informational columns legitimately hold non-numeric text. ParseValue never
// errors: anything unparsable is simply not evaluable.
func ParseValue(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return 0, false
	}
	s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
