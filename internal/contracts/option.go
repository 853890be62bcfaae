package contracts

import "time"

// OptionSide distinguishes puts from calls.
type OptionSide string

const (
	SidePut  OptionSide = "put"
	SideCall OptionSide = "call"
)

// OptionContract is one listed contract, treated as read-only facts for
// a single evaluation pass.
type OptionContract struct {
	Symbol       string     `json:"symbol"`
	Underlying   string     `json:"underlying"`
	Side         OptionSide `json:"side"`
	Expiration   time.Time  `json:"expiration"`
	Strike       float64    `json:"strike"`
	Bid          float64    `json:"bid"`
	Ask          float64    `json:"ask"`
	Last         float64    `json:"last"`
	OpenInterest int64      `json:"open_interest"`
	Volume       int64      `json:"volume"`
	ImpliedVol   float64    `json:"implied_vol"`
	Delta        float64    `json:"delta"`
	Theta        float64    `json:"theta"`
}

// Mid returns the bid/ask midpoint, or 0 when both sides are empty.
func (c *OptionContract) Mid() float64 {
	if c.Bid <= 0 && c.Ask <= 0 {
		return 0
	}
	return (c.Bid + c.Ask) / 2
}

// SpreadPct returns (ask-bid)/mid, or 1 (100%) when the mid is zero so
// an unquotable contract reads as maximally wide.
func (c *OptionContract) SpreadPct() float64 {
	mid := c.Mid()
	if mid <= 0 {
		return 1
	}
	return (c.Ask - c.Bid) / mid
}

// OTMPct returns the out-of-the-money distance of the strike from the
// underlying price, positive when the contract is OTM. Zero or negative
// means at- or in-the-money.
func (c *OptionContract) OTMPct(underlyingPrice float64) float64 {
	if underlyingPrice <= 0 {
		return 0
	}
	if c.Side == SidePut {
		return (underlyingPrice - c.Strike) / underlyingPrice
	}
	return (c.Strike - underlyingPrice) / underlyingPrice
}

// OptionChainSnapshot is the ordered contract set for one underlying
// across all expirations, as returned by the chain provider.
type OptionChainSnapshot struct {
	Underlying string           `json:"underlying"`
	AsOf       time.Time        `json:"as_of"`
	Contracts  []OptionContract `json:"contracts"`
}

// Expirations returns the distinct expirations present, in ascending
// order of first appearance.
func (s *OptionChainSnapshot) Expirations() []time.Time {
	seen := make(map[time.Time]struct{})
	out := make([]time.Time, 0)
	for _, c := range s.Contracts {
		if _, ok := seen[c.Expiration]; ok {
			continue
		}
		seen[c.Expiration] = struct{}{}
		out = append(out, c.Expiration)
	}
	return out
}

// ForExpiration returns the contracts belonging to one expiration.
func (s *OptionChainSnapshot) ForExpiration(exp time.Time) []OptionContract {
	out := make([]OptionContract, 0)
	for _, c := range s.Contracts {
		if c.Expiration.Equal(exp) {
			out = append(out, c)
		}
	}
	return out
}

// TotalOpenInterest sums open interest across the snapshot.
func (s *OptionChainSnapshot) TotalOpenInterest() int64 {
	var total int64
	for _, c := range s.Contracts {
		total += c.OpenInterest
	}
	return total
}

// TotalVolume sums contract volume across the snapshot.
func (s *OptionChainSnapshot) TotalVolume() int64 {
	var total int64
	for _, c := range s.Contracts {
		total += c.Volume
	}
	return total
}
