package record

import (
	"math"
	"strconv"
	"strings"
)

// UnknownTitle is used for papers whose title is missing.
const UnknownTitle = "Unknown"

// maxExactFloatInt is 2^53, the first integer float64 cannot tell apart from
// its successor.
const maxExactFloatInt = 1 << 53

// CanonicalID normalizes an identifier to its canonical string form.
// Surrounding whitespace is removed and integral float text ("12.0") is
// reduced to its integer form so ids written by numeric-typed tools compare
// equal to the same ids written as strings. Values outside the range where
// float64 holds every integer exactly are returned as written.
func CanonicalID(raw string) string {
	id := strings.TrimSpace(raw)
	if !strings.Contains(id, ".") {
		return id
	}
	f, err := strconv.ParseFloat(id, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) >= maxExactFloatInt {
		return id
	}
	return strconv.FormatInt(int64(f), 10)
}

// ParseYear parses a publication year. Missing or non-numeric values
// degrade to 0; ok reports whether the input was usable.
func ParseYear(raw string) (year int, ok bool) {
	return parseNonNegative(raw)
}

// ParseCount parses a citation count. Missing, non-numeric, or negative
// values degrade to 0; ok reports whether the input was usable.
func ParseCount(raw string) (count int, ok bool) {
	return parseNonNegative(raw)
}

// parseNonNegative accepts integer text and float text ("2021.0"), truncating
// the fractional part. Blank input is treated as missing, not malformed.
func parseNonNegative(raw string) (int, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, true
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return 0, false
		}
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

// TitleOrUnknown returns the title, or UnknownTitle if it is blank.
func TitleOrUnknown(title string) string {
	if strings.TrimSpace(title) == "" {
		return UnknownTitle
	}
	return title
}
