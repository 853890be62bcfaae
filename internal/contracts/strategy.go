package contracts

// Strategy enumerates the supported option-selling strategies.
type Strategy string

const (
	StrategyCSP Strategy = "CSP" // cash-secured put
	StrategyPCS Strategy = "PCS" // put credit spread
	StrategyCCS Strategy = "CCS" // call credit spread
	StrategyCC  Strategy = "CC"  // covered call
)

// Side returns the option side the strategy sells.
func (s Strategy) Side() OptionSide {
	switch s {
	case StrategyCSP, StrategyPCS:
		return SidePut
	default:
		return SideCall
	}
}

// IsSpread reports whether the strategy carries a long hedge leg.
func (s Strategy) IsSpread() bool {
	return s == StrategyPCS || s == StrategyCCS
}

// AssignmentStyle reports whether the strategy can end in assignment of
// the underlying.
func (s Strategy) AssignmentStyle() bool {
	return s == StrategyCSP || s == StrategyCC
}

// StrategySelection is the eligible strategy set plus the regimes that
// produced it. Never a single forced strategy.
type StrategySelection struct {
	Strategies         []Strategy `json:"strategies"`
	MarketRegime       Regime     `json:"market_regime"`
	StockRegime        Regime     `json:"stock_regime"`
	AssignmentEligible bool       `json:"assignment_eligible"`
}

// Contains reports whether the strategy is in the eligible set.
func (s *StrategySelection) Contains(strategy Strategy) bool {
	for _, st := range s.Strategies {
		if st == strategy {
			return true
		}
	}
	return false
}
