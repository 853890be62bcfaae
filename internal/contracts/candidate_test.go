package contracts

import (
	"math"
	"testing"
	"time"
)

func TestTradeCandidate_RequiredCollateral(t *testing.T) {
	tests := []struct {
		name      string
		candidate TradeCandidate
		want      float64
	}{
		{
			name: "cash secured put reserves strike minus credit",
			candidate: TradeCandidate{
				Strategy:    StrategyCSP,
				ShortStrike: 92,
				Credit:      1.20,
			},
			want: 9080,
		},
		{
			name: "put credit spread reserves max loss",
			candidate: TradeCandidate{
				Strategy: StrategyPCS,
				MaxLoss:  4.00,
			},
			want: 400,
		},
		{
			name: "call credit spread reserves max loss",
			candidate: TradeCandidate{
				Strategy: StrategyCCS,
				MaxLoss:  3.50,
			},
			want: 350,
		},
		{
			name: "covered call needs no incremental cash",
			candidate: TradeCandidate{
				Strategy:    StrategyCC,
				ShortStrike: 110,
				Credit:      2.00,
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.candidate.RequiredCollateral(); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("RequiredCollateral() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCalendarSnapshot_EarningsWithin(t *testing.T) {
	tests := []struct {
		name           string
		daysToEarnings int
		window         int
		want           bool
	}{
		{"inside window", 10, 45, true},
		{"on boundary", 45, 45, true},
		{"beyond window", 70, 45, false},
		{"unknown", -1, 45, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := CalendarSnapshot{DaysToEarnings: tt.daysToEarnings}
			if got := c.EarningsWithin(tt.window); got != tt.want {
				t.Errorf("EarningsWithin(%d) = %v, want %v", tt.window, got, tt.want)
			}
		})
	}
}

func TestCalendarSnapshot_MacroEventWithin(t *testing.T) {
	asOf := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		events []MacroEvent
		window int
		want   bool
	}{
		{
			name:   "FOMC inside window",
			events: []MacroEvent{{Type: MacroFOMC, Date: asOf.AddDate(0, 0, 5)}},
			window: 10,
			want:   true,
		},
		{
			name:   "CPI beyond window",
			events: []MacroEvent{{Type: MacroCPI, Date: asOf.AddDate(0, 0, 20)}},
			window: 10,
			want:   false,
		},
		{
			name:   "past event ignored",
			events: []MacroEvent{{Type: MacroCPI, Date: asOf.AddDate(0, 0, -2)}},
			window: 10,
			want:   false,
		},
		{
			name:   "no events",
			events: nil,
			window: 10,
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := CalendarSnapshot{AsOf: asOf, MacroEvents: tt.events}
			if got := c.MacroEventWithin(tt.window); got != tt.want {
				t.Errorf("MacroEventWithin(%d) = %v, want %v", tt.window, got, tt.want)
			}
		})
	}
}
