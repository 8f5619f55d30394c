package oddsmath

import "math"

// NormalCDF is the standard normal cumulative distribution function.
func NormalCDF(z float64) float64 {
	return 0.5 * math.Erfc(-z/math.Sqrt2)
}

// OverProbability is the probability a Normal(projection, stdDev) outcome
// exceeds the line. A degenerate stdDev collapses to a step function.
func OverProbability(projection, line, stdDev float64) float64 {
	if stdDev <= 0 {
		if projection > line {
			return 1.0
		}
		return 0.0
	}
	return NormalCDF((projection - line) / stdDev)
}

// Edge is the model's relative advantage over the market, in percent.
// Positive means the model's probability beats the price-implied one.
func Edge(modelProb, impliedProb float64) float64 {
	if impliedProb <= 0 {
		return 0
	}
	return (modelProb - impliedProb) / impliedProb * 100.0
}
