package movie

import (
	"math"
	"strconv"
	"strings"
)

// Criteria holds the optional filters of one search. An empty Genre or
// Country and a nil MinAverageVote mean the filter was not supplied.
// A supplied but malformed vote is NaN, which no record satisfies.
type Criteria struct {
	Genre          string
	Country        string
	MinAverageVote *float64
}

func (c Criteria) IsZero() bool {
	return c.Genre == "" && c.Country == "" && c.MinAverageVote == nil
}

// Filter returns the records matching every supplied criterion, in their
// original order. The result is always a new slice; movies is not modified.
func Filter(movies []Movie, c Criteria) []Movie {
	genre := strings.ToLower(c.Genre)
	country := strings.ToLower(c.Country)

	out := make([]Movie, 0, len(movies))
	for _, m := range movies {
		if genre != "" && !strings.Contains(strings.ToLower(m.Genre), genre) {
			continue
		}
		if country != "" && !strings.Contains(strings.ToLower(m.Country), country) {
			continue
		}
		// comparisons against NaN are false
		if c.MinAverageVote != nil && !(m.AvgVote >= *c.MinAverageVote) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// ParseAverage converts a raw average query value to a number. It never
// fails: anything that is not a number becomes NaN. Blank input is 0,
// and hexadecimal, binary and octal integers with a 0x, 0b or 0o prefix
// are accepted, which is how clients written against the old service
// behaved.
func ParseAverage(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}

	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}

	if len(s) > 2 && s[0] == '0' {
		if base := radix(s[1]); base != 0 {
			n, err := strconv.ParseUint(s[2:], base, 64)
			if err != nil {
				return math.NaN()
			}
			return float64(n)
		}
	}

	// ParseFloat also accepts "inf", "nan" and hex floats; reject them
	if strings.IndexFunc(s, func(r rune) bool {
		return !strings.ContainsRune("0123456789.eE+-", r)
	}) >= 0 {
		return math.NaN()
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return v
		}
		return math.NaN()
	}
	return v
}

func radix(b byte) int {
	switch b {
	case 'x', 'X':
		return 16
	case 'o', 'O':
		return 8
	case 'b', 'B':
		return 2
	}
	return 0
}
