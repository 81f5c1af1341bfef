package services

import "math"

// round2 rounds a monetary amount to two decimal places.
func round2(amount float64) float64 {
	return math.Round(amount*100) / 100
}
