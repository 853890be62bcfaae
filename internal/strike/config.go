package strike

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sellside/underwriter/internal/contracts"
)

// Profile holds the tunable selection sub-range for one strategy.
// CSP and PCS are deliberately separate entries even though both trade
// puts.
type Profile struct {
	OTMMin      float64 `yaml:"otm_min"`
	OTMMax      float64 `yaml:"otm_max"`
	TargetDelta float64 `yaml:"target_delta"`
	DeltaMin    float64 `yaml:"delta_min"`
	DeltaMax    float64 `yaml:"delta_max"`
}

// ContractLiquidity is the per-contract liquidity floor applied during
// short-strike selection.
type ContractLiquidity struct {
	MinBid       float64 `yaml:"min_bid"`
	MaxSpreadPct float64 `yaml:"max_spread_pct"`
	MinOI        int64   `yaml:"min_oi"`
	MinVolume    int64   `yaml:"min_volume"`
}

// Config is the single strategy-keyed lookup table replacing scattered
// per-strategy branching.
type Config struct {
	Profiles  map[contracts.Strategy]Profile `yaml:"profiles"`
	Liquidity ContractLiquidity              `yaml:"liquidity"`

	// Spread geometry
	WidthMin float64 `yaml:"width_min"`
	WidthMax float64 `yaml:"width_max"`

	// Post-construction guardrails
	MinCredit        float64 `yaml:"min_credit"`          // absolute credit floor
	MinCreditToWidth float64 `yaml:"min_credit_to_width"` // spreads only

	AllowATM bool `yaml:"allow_atm"`
}

// DefaultConfig returns the documented per-strategy defaults.
func DefaultConfig() Config {
	return Config{
		Profiles: map[contracts.Strategy]Profile{
			contracts.StrategyCSP: {OTMMin: 0.05, OTMMax: 0.12, TargetDelta: 0.25, DeltaMin: 0.15, DeltaMax: 0.30},
			contracts.StrategyPCS: {OTMMin: 0.04, OTMMax: 0.10, TargetDelta: 0.20, DeltaMin: 0.18, DeltaMax: 0.25},
			contracts.StrategyCCS: {OTMMin: 0.05, OTMMax: 0.12, TargetDelta: 0.20, DeltaMin: 0.15, DeltaMax: 0.25},
			contracts.StrategyCC:  {OTMMin: 0.03, OTMMax: 0.08, TargetDelta: 0.30, DeltaMin: 0.20, DeltaMax: 0.35},
		},
		Liquidity: ContractLiquidity{
			MinBid:       0.10,
			MaxSpreadPct: 0.15,
			MinOI:        100,
			MinVolume:    10,
		},
		WidthMin:         2.5,
		WidthMax:         10,
		MinCredit:        0.15,
		MinCreditToWidth: 0.20,
		AllowATM:         false,
	}
}

// LoadConfig overlays YAML overrides from path onto the defaults. An
// empty path returns the defaults unchanged.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read strategy config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse strategy config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks band sanity for every strategy profile.
func (c Config) Validate() error {
	for _, s := range []contracts.Strategy{contracts.StrategyCSP, contracts.StrategyPCS, contracts.StrategyCCS, contracts.StrategyCC} {
		p, ok := c.Profiles[s]
		if !ok {
			return fmt.Errorf("missing strike profile for %s", s)
		}
		if p.OTMMin > p.OTMMax {
			return fmt.Errorf("%s: otm_min %.3f exceeds otm_max %.3f", s, p.OTMMin, p.OTMMax)
		}
		if p.DeltaMin > p.DeltaMax {
			return fmt.Errorf("%s: delta_min %.3f exceeds delta_max %.3f", s, p.DeltaMin, p.DeltaMax)
		}
		if p.TargetDelta < p.DeltaMin || p.TargetDelta > p.DeltaMax {
			return fmt.Errorf("%s: target_delta %.3f outside [%.3f, %.3f]", s, p.TargetDelta, p.DeltaMin, p.DeltaMax)
		}
	}
	if c.WidthMin > c.WidthMax {
		return fmt.Errorf("width_min %.2f exceeds width_max %.2f", c.WidthMin, c.WidthMax)
	}
	return nil
}
