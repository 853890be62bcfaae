package scoring

import (
	"github.com/sellside/underwriter/internal/contracts"
)

// EventRiskConfig holds the calendar proximity penalties.
type EventRiskConfig struct {
	MacroHorizonDays int     `yaml:"macro_horizon_days"`
	EarningsPenalty  float64 `yaml:"earnings_penalty"`
	MacroPenalty     float64 `yaml:"macro_penalty"`
}

// DefaultEventRiskConfig returns the documented defaults.
func DefaultEventRiskConfig() EventRiskConfig {
	return EventRiskConfig{
		MacroHorizonDays: 14,
		EarningsPenalty:  0.4,
		MacroPenalty:     0.15,
	}
}

// EventRiskAssessment is the calendar risk multiplier plus flags.
type EventRiskAssessment struct {
	Multiplier float64              `json:"multiplier"`
	Flags      []contracts.RiskFlag `json:"flags,omitempty"`
}

// AssessEventRisk penalizes earnings landing inside the trade's DTE
// window and macro events inside the horizon. The multiplier floors at
// zero.
func AssessEventRisk(calendar *contracts.CalendarSnapshot, dte int, cfg EventRiskConfig) EventRiskAssessment {
	assessment := EventRiskAssessment{Multiplier: 1.0}

	if calendar == nil {
		return assessment
	}

	if calendar.EarningsWithin(dte) {
		assessment.Flags = append(assessment.Flags, contracts.RiskEarningsWithinTrade)
		assessment.Multiplier -= cfg.EarningsPenalty
	}

	if calendar.MacroEventWithin(cfg.MacroHorizonDays) {
		assessment.Flags = append(assessment.Flags, contracts.RiskMacroEvent)
		assessment.Multiplier -= cfg.MacroPenalty
	}

	if assessment.Multiplier < 0 {
		assessment.Multiplier = 0
	}
	return assessment
}
