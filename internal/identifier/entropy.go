package identifier

import "math"

// EntropyBits returns the size in bits of the identifier space.
func EntropyBits(alphabetSize int, length int) float64 {
	return float64(length) * math.Log2(float64(alphabetSize))
}

// CollisionProbability approximates, with the birthday bound, the
// probability of at least one collision among n identifiers.
func CollisionProbability(alphabetSize int, length int, n float64) float64 {
	space := math.Pow(2, EntropyBits(alphabetSize, length))
	return -math.Expm1(-(n * (n - 1)) / (2 * space))
}
