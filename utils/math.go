package utils

import "math"

// RoundFloat rounds a float64 to the specified number of decimal places
func RoundFloat(val float64, precision int) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}

// Percentage returns part/total as a 0-100 percentage, 0 when total is 0.
func Percentage(part, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return RoundFloat(float64(part)/float64(total)*100, 2)
}
