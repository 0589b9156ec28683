package trend

import (
	"errors"
	"math"
	"testing"
)

func TestFitLinearExact(t *testing.T) {
	// mpi = 100 + 50*t, noiseless.
	pts := []Point{{0, 100}, {10, 600}, {20, 1100}, {30, 1600}}
	fit, err := FitLinear(pts)
	if err != nil {
		t.Fatalf("fit error: %v", err)
	}
	if math.Abs(fit.Slope-50) > 1e-9 || math.Abs(fit.Intercept-100) > 1e-9 {
		t.Fatalf("fit = %.3f + %.3f*t, want 100 + 50*t", fit.Intercept, fit.Slope)
	}
	if math.Abs(fit.RSquared-1) > 1e-9 {
		t.Fatalf("r² = %f, want 1 on noiseless data", fit.RSquared)
	}
	if !fit.Improving() {
		t.Fatal("positive slope must report improving")
	}
	if got := fit.Predict(40); math.Abs(got-2100) > 1e-9 {
		t.Fatalf("predict(40) = %.3f, want 2100", got)
	}
}

func TestFitLinearInsufficientData(t *testing.T) {
	if _, err := FitLinear([]Point{{0, 100}}); !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("one point: err = %v, want ErrInsufficientData", err)
	}
}

func TestFitExponentialRecovers(t *testing.T) {
	// mpi = 200 * e^(0.02*t), noiseless, well inside the rate bound.
	a, b := 200.0, 0.02
	var pts []Point
	for _, tt := range []float64{0, 15, 30, 45, 60, 90} {
		pts = append(pts, Point{tt, a * math.Exp(b*tt)})
	}
	fit, err := FitExponential(pts)
	if err != nil {
		t.Fatalf("fit error: %v", err)
	}
	if math.Abs(fit.Amplitude-a)/a > 0.05 {
		t.Fatalf("amplitude = %.2f, want ~%.0f", fit.Amplitude, a)
	}
	if math.Abs(fit.Rate-b) > 0.005 {
		t.Fatalf("rate = %.4f, want ~%.2f", fit.Rate, b)
	}
	if fit.RSquared < 0.99 {
		t.Fatalf("r² = %f, want near 1", fit.RSquared)
	}
	if fit.DoublingTimeDays == 0 || fit.HalvingTimeDays != 0 {
		t.Fatalf("growing fit: doubling = %.1f halving = %.1f", fit.DoublingTimeDays, fit.HalvingTimeDays)
	}
	want := math.Ln2 / fit.Rate
	if math.Abs(fit.DoublingTimeDays-want) > 1e-9 {
		t.Fatalf("doubling time = %.3f, want ln2/rate = %.3f", fit.DoublingTimeDays, want)
	}
}

func TestFitExponentialInsufficientData(t *testing.T) {
	pts := []Point{{0, 100}, {10, 200}}
	if _, err := FitExponential(pts); !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("two points: err = %v, want ErrInsufficientData", err)
	}
}

func TestFitExponentialRespectsBounds(t *testing.T) {
	// Steeper than the bound allows: the fitted rate must be clamped.
	var pts []Point
	for _, tt := range []float64{0, 5, 10, 15} {
		pts = append(pts, Point{tt, 10 * math.Exp(0.5*tt)})
	}
	fit, err := FitExponential(pts)
	if err != nil {
		t.Fatalf("fit error: %v", err)
	}
	if fit.Rate > RateBound+1e-9 || fit.Rate < -RateBound-1e-9 {
		t.Fatalf("rate = %f escaped [-%.1f, %.1f]", fit.Rate, RateBound, RateBound)
	}
	if fit.Amplitude < 0 {
		t.Fatalf("amplitude = %f, must be non-negative", fit.Amplitude)
	}
}

func TestRSquaredUndefinedOnFlatSeries(t *testing.T) {
	pts := []Point{{0, 500}, {10, 500}, {20, 500}}
	fit, err := FitExponential(pts)
	if err != nil {
		t.Fatalf("fit error: %v", err)
	}
	if !math.IsNaN(fit.RSquared) {
		t.Fatalf("zero-variance series: r² = %f, want NaN", fit.RSquared)
	}
	if validR2(fit.RSquared) != -1 {
		t.Fatalf("validR2(NaN) = %f, want -1", validR2(fit.RSquared))
	}
}
