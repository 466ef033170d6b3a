package trend

// Direction classifies the long-term linear trend of a monthly series.
type Direction string

const (
	DirectionIncreasing Direction = "increasing"
	DirectionDecreasing Direction = "decreasing"
	DirectionStable     Direction = "stable"
)

// Momentum classifies the short-term signal from the 3-month rolling mean.
type Momentum string

const (
	MomentumPositive Momentum = "positive"
	MomentumSlowing  Momentum = "slowing"
	MomentumNeutral  Momentum = "neutral"
)

// Result is the outcome of analyzing one monthly metric series.
//
// When the input has fewer than 3 usable observations, or zero variance,
// only Narrative is populated and Usable is false; callers must check
// Usable before reading the optional fields. That is a normal low-data
// outcome, not an error.
type Result struct {
	Narrative string

	Usable    bool
	Direction Direction
	Momentum  Momentum

	// TrendLine holds the fitted OLS values, index-aligned with the input
	// series. Present only when Usable.
	TrendLine []float64

	// MovingAverage is the 3-month rolling mean (minimum period 1),
	// index-aligned with the input. Present only with >=4 observations.
	MovingAverage []float64

	// PValue is the two-sided significance of the regression slope.
	// Meaningful only when Usable.
	PValue float64

	Slope     float64
	Intercept float64

	// YoYChange is the fractional change of the latest month against the
	// month 12 before it. Nil when fewer than 13 observations or the prior
	// value is not positive.
	YoYChange *float64

	// Extrema, as series indexes. Ties resolve to the first occurrence.
	MaxIndex int
	MinIndex int
}

// TrendScore maps the direction to its health-score contribution.
func (r Result) TrendScore() int {
	if !r.Usable {
		return 0
	}
	switch r.Direction {
	case DirectionIncreasing:
		return 2
	case DirectionDecreasing:
		return -2
	}
	return 0
}

// MomentumScore maps the momentum to its health-score contribution.
func (r Result) MomentumScore() int {
	if !r.Usable {
		return 0
	}
	switch r.Momentum {
	case MomentumPositive:
		return 1
	case MomentumSlowing:
		return -1
	}
	return 0
}
