package contracts

// TickerMeta carries listing metadata resolved for a ticker.
type TickerMeta struct {
	CompanyName    string  `json:"company_name,omitempty"`
	Country        string  `json:"country,omitempty"`
	Exchange       string  `json:"exchange,omitempty"`
	Currency       string  `json:"currency,omitempty"`
	AvgDailyVolume int64   `json:"avg_daily_volume,omitempty"`
	OptionOI       int64   `json:"option_open_interest,omitempty"`
	OptionVolume   int64   `json:"option_volume,omitempty"`
	Price          float64 `json:"price,omitempty"`
}

// TickerDecision is the immutable per-ticker outcome of universe
// filtering. Produced once per qualify run and never mutated after
// creation.
type TickerDecision struct {
	Ticker  string     `json:"ticker"`
	Reasons []Reason   `json:"reasons,omitempty"`
	Meta    TickerMeta `json:"meta"`
}

// Excluded reports whether the ticker carries any EXCLUDE reason.
func (d *TickerDecision) Excluded() bool {
	return HasExclusion(d.Reasons)
}

// ReasonMessages returns the human-readable messages in order.
func (d *TickerDecision) ReasonMessages() []string {
	out := make([]string, 0, len(d.Reasons))
	for _, r := range d.Reasons {
		out = append(out, r.Message)
	}
	return out
}

// UniverseResult is the included/excluded split returned by the
// universe builder.
type UniverseResult struct {
	Included []TickerDecision `json:"included"`
	Excluded []TickerDecision `json:"excluded"`
}

// IncludedTickers returns the included ticker symbols in order.
func (u *UniverseResult) IncludedTickers() []string {
	out := make([]string, 0, len(u.Included))
	for _, d := range u.Included {
		out = append(out, d.Ticker)
	}
	return out
}
