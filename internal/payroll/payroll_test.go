package payroll

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCompute(t *testing.T) {
	base := time.Date(2024, 6, 10, 22, 0, 0, 0, time.UTC)
	at := func(d time.Duration) *time.Time {
		v := base.Add(d)
		return &v
	}

	tests := []struct {
		name     string
		in       *time.Time
		out      *time.Time
		rate     float64
		expected Pay
	}{
		{
			name:     "Full shift",
			in:       at(0),
			out:      at(8 * time.Hour),
			rate:     25.5,
			expected: Pay{Hours: 8, Amount: 204},
		},
		{
			name:     "Missing in",
			in:       nil,
			out:      at(8 * time.Hour),
			rate:     25.5,
			expected: Pay{},
		},
		{
			name:     "Missing out",
			in:       at(0),
			out:      nil,
			rate:     25.5,
			expected: Pay{},
		},
		{
			name:     "Out before in",
			in:       at(time.Hour),
			out:      at(0),
			rate:     30,
			expected: Pay{},
		},
		{
			name:     "Amount from unrounded hours",
			in:       at(0),
			out:      at(20 * time.Minute), // 0.3333h
			rate:     28.75,
			expected: Pay{Hours: 0.33, Amount: 9.58},
		},
		{
			name:     "Zero rate",
			in:       at(0),
			out:      at(90 * time.Minute),
			rate:     0,
			expected: Pay{Hours: 1.5, Amount: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Compute(tt.in, tt.out, tt.rate))
		})
	}
}

func TestComputeFractionalHours(t *testing.T) {
	in := time.Date(2024, 6, 10, 22, 0, 0, 0, time.UTC)
	out := in.Add(7*time.Hour + 18*time.Second) // 7.005h

	pay := Compute(&in, &out, 20)

	assert.Equal(t, 140.1, pay.Amount)
	assert.Equal(t, Round2(7.005), pay.Hours)
	assert.InDelta(t, 7.005, pay.Hours, 0.0051)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.24, Round2(1.235000001))
	assert.Equal(t, 140.1, Round2(140.1))
	assert.Equal(t, 0.0, Round2(0.004))
	assert.Equal(t, 2.0, Round2(1.995000001))
}
