package oddsmath

import (
	"fmt"
	"math"
)

// AmericanToDecimal converts American odds to decimal odds.
// +150 -> 2.50, -150 -> 1.667. Zero is not a valid American price.
func AmericanToDecimal(american int) (float64, error) {
	if american == 0 {
		return 0, fmt.Errorf("invalid American odds: cannot be 0")
	}
	if american > 0 {
		return float64(american)/100.0 + 1.0, nil
	}
	return 100.0/float64(-american) + 1.0, nil
}

// DecimalToAmerican converts decimal odds back to the nearest American price.
func DecimalToAmerican(decimal float64) (int, error) {
	if decimal <= 1.0 {
		return 0, fmt.Errorf("invalid decimal odds: must be > 1.0")
	}
	if decimal >= 2.0 {
		return int(math.Round((decimal - 1.0) * 100.0)), nil
	}
	return int(math.Round(-100.0 / (decimal - 1.0))), nil
}

// DecimalToImplied converts decimal odds to the probability the price implies.
func DecimalToImplied(decimal float64) (float64, error) {
	if decimal <= 0 {
		return 0, fmt.Errorf("invalid decimal odds: must be > 0")
	}
	return 1.0 / decimal, nil
}

// ProbabilityToAmerican converts a win probability to the American price a
// fair book would quote.
func ProbabilityToAmerican(p float64) (int, error) {
	if p <= 0 || p >= 1 {
		return 0, fmt.Errorf("invalid probability: must be in (0, 1)")
	}
	return DecimalToAmerican(1.0 / p)
}

// AmericanToImplied converts American odds directly to implied probability.
func AmericanToImplied(american int) (float64, error) {
	decimal, err := AmericanToDecimal(american)
	if err != nil {
		return 0, err
	}
	return DecimalToImplied(decimal)
}
