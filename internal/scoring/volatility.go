package scoring

import (
	"github.com/sellside/underwriter/internal/contracts"
)

// VolatilityConfig holds the IV quality thresholds and multipliers.
type VolatilityConfig struct {
	MinIV              float64 `yaml:"min_iv"`               // IV floor, default 0.30
	PenalizeLowIV      bool    `yaml:"penalize_low_iv"`
	LowIVMultiplier    float64 `yaml:"low_iv_multiplier"`    // applied when penalizing
	SoftLowIVMultiplier float64 `yaml:"soft_low_iv_multiplier"`
	ExpandingThreshold float64 `yaml:"expanding_threshold"`  // IV change rate, default +0.20
	CrushedThreshold   float64 `yaml:"crushed_threshold"`    // IV change rate, default -0.15
	ExpandingMultiplier float64 `yaml:"expanding_multiplier"`
	CrushedMultiplier  float64 `yaml:"crushed_multiplier"`
}

// DefaultVolatilityConfig returns the documented defaults.
func DefaultVolatilityConfig() VolatilityConfig {
	return VolatilityConfig{
		MinIV:               0.30,
		PenalizeLowIV:       true,
		LowIVMultiplier:     0.4,
		SoftLowIVMultiplier: 0.7,
		ExpandingThreshold:  0.20,
		CrushedThreshold:    -0.15,
		ExpandingMultiplier: 0.7,
		CrushedMultiplier:   0.6,
	}
}

// VolatilityAssessment is the volatility quality multiplier plus its
// classified regime and flags.
type VolatilityAssessment struct {
	Multiplier float64              `json:"multiplier"`
	Regime     contracts.IVRegime   `json:"regime"`
	Flags      []contracts.RiskFlag `json:"flags,omitempty"`
}

// AssessVolatility derives the quality multiplier from IV level and the
// IV change rate. Multipliers compound multiplicatively.
//
// ivChangeRate is nil whenever the orchestrator has no historical IV to
// diff against; the regime then stays UNKNOWN and only the level check
// applies. The orchestrator currently never populates it.
func AssessVolatility(iv float64, ivChangeRate *float64, cfg VolatilityConfig) VolatilityAssessment {
	assessment := VolatilityAssessment{
		Multiplier: 1.0,
		Regime:     contracts.IVUnknown,
	}

	if iv < cfg.MinIV {
		if cfg.PenalizeLowIV {
			assessment.Multiplier *= cfg.LowIVMultiplier
		} else {
			assessment.Multiplier *= cfg.SoftLowIVMultiplier
		}
	}

	if ivChangeRate != nil {
		switch {
		case *ivChangeRate >= cfg.ExpandingThreshold:
			assessment.Regime = contracts.IVExpanding
			assessment.Flags = append(assessment.Flags, contracts.RiskIVSpike)
			assessment.Multiplier *= cfg.ExpandingMultiplier
		case *ivChangeRate <= cfg.CrushedThreshold:
			assessment.Regime = contracts.IVCrushed
			assessment.Multiplier *= cfg.CrushedMultiplier
		default:
			assessment.Regime = contracts.IVStable
		}
	}

	if assessment.Multiplier < 0 {
		assessment.Multiplier = 0
	}
	if assessment.Multiplier > 1 {
		assessment.Multiplier = 1
	}
	return assessment
}
