// Package kernel implements the Gaussian similarity kernel and the exact
// distance primitives shared by the approximate and exact KDE engines.
package kernel

import (
	"math"

	"github.com/viterin/vek"

	"github.com/hupe1980/kdego/dataset"
)

// Gaussian returns exp(-a * sqDist) for bandwidth a and squared distance
// sqDist. Callers validate a > 0; it is not re-checked here.
func Gaussian(a, sqDist float64) float64 {
	return math.Exp(-a * sqDist)
}

// GaussianBetween evaluates the Gaussian kernel between two points.
func GaussianBetween(a float64, u, v dataset.Point) float64 {
	return Gaussian(a, SquaredDistance(u, v))
}

// SquaredDistance returns the exact squared L2 distance between two points.
// Both points must have the same dimension.
func SquaredDistance(u, v dataset.Point) float64 {
	d := vek.Distance(u.Coords, v.Coords)
	return d * d
}
