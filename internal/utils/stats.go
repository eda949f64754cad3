package utils

import (
	"math"
)

// RoundFloat rounds val to the given number of decimal places, half away from zero.
func RoundFloat(val float64, precision uint) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}

// Stats summarises a series of measurements.
type Stats struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// CalculateStats returns the mean and sample standard deviation of data,
// rounded to 4 decimal places. An empty series yields the zero Stats.
func CalculateStats(data []float64) Stats {
	n := len(data)
	if n == 0 {
		return Stats{}
	}

	sum := 0.0
	minVal, maxVal := data[0], data[0]
	for _, val := range data {
		sum += val
		minVal = math.Min(minVal, val)
		maxVal = math.Max(maxVal, val)
	}
	average := sum / float64(n)

	stats := Stats{
		Count: n,
		Mean:  RoundFloat(average, 4),
		Min:   minVal,
		Max:   maxVal,
	}
	if n < 2 { // sample standard deviation needs at least two points
		return stats
	}

	varianceSum := 0.0
	for _, val := range data {
		varianceSum += math.Pow(val-average, 2)
	}
	stats.StdDev = RoundFloat(math.Sqrt(varianceSum/float64(n-1)), 4)

	return stats
}
