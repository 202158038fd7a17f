package common

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Basic numeric helpers shared by the extractors. Reductions go through gonum.

// Mean calculates the arithmetic mean of a slice, 0 for empty input
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return stat.Mean(data, nil)
}

// Sum returns the sum of data, 0 for empty input
func Sum(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return floats.Sum(data)
}

// Max returns the largest value, 0 for empty input
func Max(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return floats.Max(data)
}

// ArgMax returns the index of the first maximum, -1 for empty input
func ArgMax(data []float64) int {
	if len(data) == 0 {
		return -1
	}
	return floats.MaxIdx(data)
}

// PopMeanStdDev returns the mean and population standard deviation
func PopMeanStdDev(data []float64) (mean, std float64) {
	if len(data) == 0 {
		return 0, 0
	}
	return stat.PopMeanStdDev(data, nil)
}

// PopVariance returns the population variance (divisor N)
func PopVariance(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return stat.PopVariance(data, nil)
}

// RMS calculates root mean square
func RMS(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}

	sumSquares := 0.0
	for _, val := range data {
		sumSquares += val * val
	}

	return math.Sqrt(sumSquares / float64(len(data)))
}

// Clamp constrains a value to a range
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// Clamp01 constrains a value to [0, 1]
func Clamp01(value float64) float64 {
	return Clamp(value, 0, 1)
}

// RoundTo rounds to the given number of decimals, ties to even on the scaled
// value (numpy.round semantics).
func RoundTo(value float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.RoundToEven(value*scale) / scale
}

// L2Norm returns the Euclidean norm, 0 for empty input
func L2Norm(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return floats.Norm(data, 2)
}

// L2Normalize divides every element by the vector's Euclidean norm in place.
// An all-zero vector is left untouched. Returns the norm.
func L2Normalize(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	norm := L2Norm(data)
	if norm > 0 {
		for i := range data {
			data[i] /= norm
		}
	}
	return norm
}

// IsSilent reports whether every element is exactly zero (true for empty input)
func IsSilent(data []float64) bool {
	for _, v := range data {
		if v != 0 {
			return false
		}
	}
	return true
}
