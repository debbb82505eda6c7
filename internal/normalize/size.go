package normalize

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

var (
	// ErrUnsupportedUnit is returned by ParseSize for unit letters other
	// than B, K, M and G.
	ErrUnsupportedUnit = errors.New("unsupported size unit")
	// ErrInvalidSize is returned by ParseSize when no number can be read.
	ErrInvalidSize = errors.New("invalid size")
)

var sizeSuffixes = []string{"B", "K", "M", "G", "T", "P"}

// FormatSize renders a byte count with 1024-based units, at most two
// decimals and no trailing zeros: 1572864 -> "1.5M".
func FormatSize(bytes int64) string {
	size := float64(bytes)
	i := 0
	for size >= 1024 && i < len(sizeSuffixes)-1 {
		size /= 1024
		i++
	}
	formatted := strconv.FormatFloat(size, 'f', 2, 64)
	formatted = strings.TrimRight(formatted, "0")
	formatted = strings.TrimSuffix(formatted, ".")
	return formatted + sizeSuffixes[i]
}

// ParseSize reads a human-readable size such as "1.5M", "700 KiB" or "42".
// The number is made of every digit and "." in s; the unit is the first
// letter, case-insensitive. Without a unit letter the value is in bytes.
func ParseSize(s string) (int64, error) {
	var digits strings.Builder
	var unit rune
	for _, r := range s {
		switch {
		case (r >= '0' && r <= '9') || r == '.':
			digits.WriteRune(r)
		case unit == 0 && unicode.IsLetter(r):
			unit = unicode.ToUpper(r)
		}
	}
	if digits.Len() == 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}
	value, err := strconv.ParseFloat(digits.String(), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidSize, s, err)
	}

	var multiplier float64
	switch unit {
	case 0, 'B':
		multiplier = 1
	case 'K':
		multiplier = 1 << 10
	case 'M':
		multiplier = 1 << 20
	case 'G':
		multiplier = 1 << 30
	default:
		return 0, fmt.Errorf("%w: %q in %q", ErrUnsupportedUnit, unit, s)
	}
	return int64(value * multiplier), nil
}
