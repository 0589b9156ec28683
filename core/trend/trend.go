// Package trend fits candidate models to the interval MPI series and
// forecasts future values. Every "not enough data" or "fit failed"
// condition is a reported result, never a panic: the pipeline runs
// unattended against incomplete data and partial output beats a crash.
package trend

import (
	"errors"
	"math"
)

// Model kinds.
const (
	ModelLinear      = "linear"
	ModelExponential = "exponential"
)

// Sentinel fit failures. Callers branch on these to render
// "insufficient data" instead of a bogus number.
var (
	ErrInsufficientData = errors.New("insufficient data")
	ErrNoConvergence    = errors.New("fit did not converge")
	ErrNoFit            = errors.New("no model fits")
)

// RateBound caps the exponential per-day rate to avoid runaway fits on
// sparse series.
const RateBound = 0.1

// Point is one observation: days since service start and the MPI of
// the interval ending there.
type Point struct {
	T   float64
	MPI float64
}

// Fit is a successfully fitted trend model.
type Fit struct {
	Kind string

	// Linear: mpi = Intercept + Slope*t.
	Slope     float64
	Intercept float64

	// Exponential: mpi = Amplitude * e^(Rate*t).
	Amplitude float64
	Rate      float64

	// RSquared is NaN when the series has zero variance and the
	// statistic is undefined.
	RSquared float64

	// Exactly one of these is set for an exponential fit with a
	// non-zero rate: time for the fitted MPI to double (improving) or
	// halve (worsening).
	DoublingTimeDays float64
	HalvingTimeDays  float64
}

// Predict evaluates the fitted model at t, in days since service start.
func (f Fit) Predict(t float64) float64 {
	switch f.Kind {
	case ModelExponential:
		return f.Amplitude * math.Exp(f.Rate*t)
	default:
		return f.Intercept + f.Slope*t
	}
}

// Improving reports whether the model trends toward a higher MPI.
func (f Fit) Improving() bool {
	if f.Kind == ModelExponential {
		return f.Rate > 0
	}
	return f.Slope > 0
}

// validR2 treats an undefined R² as worse than any defined one.
func validR2(r float64) float64 {
	if math.IsNaN(r) {
		return -1
	}
	return r
}
