package contracts

import "sort"

// RiskFlag is an enumerated risk tag attached to candidates and
// portfolio checks.
type RiskFlag string

const (
	RiskEarningsWithinTrade RiskFlag = "RISK_EARNINGS_WITHIN_TRADE"
	RiskMacroEvent          RiskFlag = "RISK_MACRO_EVENT"
	RiskWideSpreads         RiskFlag = "RISK_WIDE_SPREADS"
	RiskLowOpenInterest     RiskFlag = "RISK_LOW_OPEN_INTEREST"
	RiskIVSpike             RiskFlag = "RISK_IV_SPIKE"
	RiskTrendConflict       RiskFlag = "RISK_TREND_CONFLICT"
	RiskCorrelatedExposure  RiskFlag = "RISK_CORRELATED_EXPOSURE"
	RiskSectorConcentration RiskFlag = "RISK_SECTOR_CONCENTRATION"
)

// FlagSet is a de-duplicated, order-stable set of risk flags.
type FlagSet struct {
	flags map[RiskFlag]struct{}
	order []RiskFlag
}

// NewFlagSet creates a flag set seeded with the given flags.
func NewFlagSet(flags ...RiskFlag) *FlagSet {
	fs := &FlagSet{flags: make(map[RiskFlag]struct{})}
	for _, f := range flags {
		fs.Add(f)
	}
	return fs
}

// Add inserts a flag, ignoring duplicates. Insertion order is preserved.
func (fs *FlagSet) Add(flag RiskFlag) {
	if _, ok := fs.flags[flag]; ok {
		return
	}
	fs.flags[flag] = struct{}{}
	fs.order = append(fs.order, flag)
}

// AddAll inserts every flag from a slice.
func (fs *FlagSet) AddAll(flags []RiskFlag) {
	for _, f := range flags {
		fs.Add(f)
	}
}

// Has reports whether the flag is present.
func (fs *FlagSet) Has(flag RiskFlag) bool {
	_, ok := fs.flags[flag]
	return ok
}

// Len returns the number of distinct flags.
func (fs *FlagSet) Len() int {
	return len(fs.order)
}

// Slice returns the flags in insertion order.
func (fs *FlagSet) Slice() []RiskFlag {
	out := make([]RiskFlag, len(fs.order))
	copy(out, fs.order)
	return out
}

// Sorted returns the flags sorted lexically, for stable output.
func (fs *FlagSet) Sorted() []RiskFlag {
	out := fs.Slice()
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// DedupeFlags collapses a slice of flags into a de-duplicated slice,
// preserving first-seen order.
func DedupeFlags(flags []RiskFlag) []RiskFlag {
	fs := NewFlagSet(flags...)
	return fs.Slice()
}
