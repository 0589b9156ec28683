package trend

import (
	"math"

	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"
)

// FitLinear runs ordinary least squares of mpi = intercept + slope*t.
// Fewer than two points is ErrInsufficientData.
func FitLinear(pts []Point) (Fit, error) {
	if len(pts) < 2 {
		return Fit{}, ErrInsufficientData
	}
	ts, ys := split(pts)
	intercept, slope := stat.LinearRegression(ts, ys, nil, false)
	r := stat.Correlation(ts, ys, nil)
	return Fit{
		Kind:      ModelLinear,
		Slope:     slope,
		Intercept: intercept,
		RSquared:  r * r,
	}, nil
}

// FitExponential fits mpi = a*e^(b*t) with a >= 0 and |b| <= RateBound
// by minimizing the sum of squared residuals. The search starts from a
// log-space linear fit and refines with Nelder-Mead. Fewer than three
// points is ErrInsufficientData; an optimizer failure is
// ErrNoConvergence.
func FitExponential(pts []Point) (Fit, error) {
	if len(pts) < 3 {
		return Fit{}, ErrInsufficientData
	}
	ts, ys := split(pts)
	a0, b0 := exponentialSeed(ts, ys)

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			a, b := x[0], x[1]
			penalty := 0.0
			if a < 0 {
				penalty += a * a * 1e9
				a = 0
			}
			if b > RateBound {
				penalty += (b - RateBound) * (b - RateBound) * 1e9
				b = RateBound
			} else if b < -RateBound {
				penalty += (b + RateBound) * (b + RateBound) * 1e9
				b = -RateBound
			}
			ssr := 0.0
			for i, t := range ts {
				d := ys[i] - a*math.Exp(b*t)
				ssr += d * d
			}
			return ssr + penalty
		},
	}
	result, err := optimize.Minimize(problem, []float64{a0, b0}, nil, &optimize.NelderMead{})
	if err != nil {
		return Fit{}, ErrNoConvergence
	}
	a, b := clampParams(result.X[0], result.X[1])

	fit := Fit{
		Kind:      ModelExponential,
		Amplitude: a,
		Rate:      b,
		RSquared:  rSquared(ts, ys, func(t float64) float64 { return a * math.Exp(b*t) }),
	}
	switch {
	case b > 0:
		fit.DoublingTimeDays = math.Ln2 / b
	case b < 0:
		fit.HalvingTimeDays = math.Ln2 / -b
	}
	return fit, nil
}

// exponentialSeed estimates starting parameters from a linear fit in
// log space over the strictly positive observations.
func exponentialSeed(ts, ys []float64) (a, b float64) {
	var pt, py []float64
	for i, y := range ys {
		if y > 0 {
			pt = append(pt, ts[i])
			py = append(py, math.Log(y))
		}
	}
	if len(pt) < 2 {
		return math.Max(stat.Mean(ys, nil), 1), 0
	}
	logA, slope := stat.LinearRegression(pt, py, nil, false)
	a, b = clampParams(math.Exp(logA), slope)
	return a, b
}

func clampParams(a, b float64) (float64, float64) {
	if a < 0 {
		a = 0
	}
	if b > RateBound {
		b = RateBound
	} else if b < -RateBound {
		b = -RateBound
	}
	return a, b
}

// rSquared is 1 - SSres/SStot, NaN when the series has no variance.
func rSquared(ts, ys []float64, predict func(float64) float64) float64 {
	mean := stat.Mean(ys, nil)
	ssRes, ssTot := 0.0, 0.0
	for i, t := range ts {
		r := ys[i] - predict(t)
		ssRes += r * r
		d := ys[i] - mean
		ssTot += d * d
	}
	if ssTot == 0 {
		return math.NaN()
	}
	return 1 - ssRes/ssTot
}

func split(pts []Point) (ts, ys []float64) {
	ts = make([]float64, len(pts))
	ys = make([]float64, len(pts))
	for i, p := range pts {
		ts[i] = p.T
		ys[i] = p.MPI
	}
	return ts, ys
}
