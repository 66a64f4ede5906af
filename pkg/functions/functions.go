package functions

import "math"

// Turns a distance into a score in (0, score], sigma controls
// how fast the score decays with distance
func Gaussian(score float64, distance float64, sigma float64) float64 {
	return score * math.Exp(-math.Pow(distance*2, 2)/2/math.Pow(sigma, 2))
}
