package payroll

import (
	"math"
	"time"
)

type Pay struct {
	Hours  float64 `json:"hours"`
	Amount float64 `json:"amount"`
}

// Compute returns the hours worked between in and out and what they pay at
// rate. The amount is taken from the unrounded hours; both values are then
// rounded to cents. A missing side pays nothing.
func Compute(in, out *time.Time, rate float64) Pay {
	if in == nil || out == nil {
		return Pay{}
	}

	hours := math.Max(0, out.Sub(*in).Seconds()/3600)

	return Pay{
		Hours:  Round2(hours),
		Amount: Round2(hours * rate),
	}
}

// Round2 rounds half away from zero to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
