package registration

import (
	"math"
	"strconv"
	"strings"
)

// NormalizePrice reduces a catalog price such as "₦15,000" to 15000 by keeping
// only digits and dots.
func NormalizePrice(raw string) (float64, error) {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, raw)
	if cleaned == "" {
		return 0, ErrPriceCorrupted
	}

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, ErrPriceCorrupted
	}
	return v, nil
}
