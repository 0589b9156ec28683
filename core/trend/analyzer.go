package trend

// Result collects the outcome of every candidate model plus the
// selected best fit. A nil Fit with a non-nil Err records why that
// model produced nothing.
type Result struct {
	Linear         *Fit
	LinearErr      error
	Exponential    *Fit
	ExponentialErr error

	// Best is nil when no model fit; its reason is ErrNoFit.
	Best *Fit

	lastT   float64
	lastMPI float64
	n       int
}

// Forecast is a predicted MPI at a horizon past the last observation.
type Forecast struct {
	HorizonDays  float64
	PredictedMPI float64
	// Direction is "improving" when the forecast exceeds the last
	// observed interval MPI, "worsening" otherwise.
	Direction string
}

// Analyze fits all candidate models to the series and selects the one
// with the highest R². Fit failures are recorded per model, never
// raised.
func Analyze(pts []Point) Result {
	res := Result{n: len(pts)}
	if len(pts) > 0 {
		res.lastT = pts[len(pts)-1].T
		res.lastMPI = pts[len(pts)-1].MPI
	}

	if fit, err := FitLinear(pts); err != nil {
		res.LinearErr = err
	} else {
		res.Linear = &fit
	}
	if fit, err := FitExponential(pts); err != nil {
		res.ExponentialErr = err
	} else {
		res.Exponential = &fit
	}

	switch {
	case res.Linear != nil && res.Exponential != nil:
		if validR2(res.Exponential.RSquared) > validR2(res.Linear.RSquared) {
			res.Best = res.Exponential
		} else {
			res.Best = res.Linear
		}
	case res.Linear != nil:
		res.Best = res.Linear
	case res.Exponential != nil:
		res.Best = res.Exponential
	}
	return res
}

// Forecast evaluates the selected model at lastT + horizonDays. It
// fails with ErrNoFit when no model fit, rather than extrapolating
// nonsense.
func (r Result) Forecast(horizonDays float64) (Forecast, error) {
	if r.Best == nil {
		return Forecast{}, ErrNoFit
	}
	predicted := r.Best.Predict(r.lastT + horizonDays)
	direction := "worsening"
	if predicted > r.lastMPI {
		direction = "improving"
	}
	return Forecast{
		HorizonDays:  horizonDays,
		PredictedMPI: predicted,
		Direction:    direction,
	}, nil
}
