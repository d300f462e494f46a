package grading

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNotANumber is returned by ParseAnswer for input that is not a finite
// number.
var ErrNotANumber = errors.New("answer is not a finite number")

// ParseAnswer converts typed learner input into a number.
//
// Accepted forms:
// - decimals and integers, surrounding whitespace ignored ("0.75", " 5 ")
// - simple fractions, converted to decimals ("4/7", "-3/4")
func ParseAnswer(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty input", ErrNotANumber)
	}

	if strings.Contains(s, "/") {
		num, den, err := parseFraction(s)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrNotANumber, err)
		}
		if den == 0 {
			return 0, fmt.Errorf("%w: zero denominator", ErrNotANumber)
		}
		return float64(num) / float64(den), nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNotANumber, s)
	}
	if !IsFinite(f) {
		return 0, fmt.Errorf("%w: %q", ErrNotANumber, s)
	}
	return f, nil
}

// parseFraction parses "a/b" into numerator and denominator.
func parseFraction(s string) (int64, int64, error) {
	parts := strings.SplitN(s, "/", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid fraction format: %q", s)
	}
	num, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid numerator: %w", err)
	}
	den, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid denominator: %w", err)
	}
	return num, den, nil
}

// FormatAnswer renders a number without trailing zeros, e.g. 5 → "5",
// 0.571428 → "0.571428".
func FormatAnswer(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
