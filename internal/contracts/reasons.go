package contracts

// ReasonCode identifies a structured disqualification or rejection.
// Every code is paired with a human-readable message wherever it is
// surfaced; explainability is a product requirement.
type ReasonCode string

// Universe exclusion codes.
const (
	ExcludeInvalidSymbol      ReasonCode = "EXCLUDED_INVALID_SYMBOL"
	ExcludeMemeTicker         ReasonCode = "EXCLUDED_MEME_TICKER"
	ExcludeUnknownProfile     ReasonCode = "EXCLUDED_UNKNOWN_PROFILE"
	ExcludeNonUSListing       ReasonCode = "EXCLUDED_NON_US_LISTING"
	ExcludeADR                ReasonCode = "EXCLUDED_ADR_OR_INTERNATIONAL"
	ExcludeLowVolume          ReasonCode = "EXCLUDED_LOW_AVG_VOLUME"
	ExcludeOptionsIlliquidity ReasonCode = "EXCLUDED_OPTIONS_ILLIQUIDITY"
)

// Liquidity gate codes.
const (
	DisqualifiedLowStockLiquidity ReasonCode = "DISQUALIFIED_LOW_STOCK_LIQUIDITY"
	DisqualifiedWideOptionsSpread ReasonCode = "DISQUALIFIED_WIDE_OPTIONS_SPREAD"
	DisqualifiedLowOpenInterest   ReasonCode = "DISQUALIFIED_LOW_OPEN_INTEREST"
)

// Strike search codes.
const (
	NoTrade             ReasonCode = "NO_TRADE"
	NoValidShortStrike  ReasonCode = "NO_VALID_SHORT_STRIKE"
	NoValidLongStrike   ReasonCode = "NO_VALID_LONG_STRIKE"
	InsufficientCredit  ReasonCode = "INSUFFICIENT_CREDIT"
	PoorCreditToWidth   ReasonCode = "POOR_CREDIT_TO_WIDTH"
)

// Severity grades a reason.
type Severity string

const (
	SeverityExclude Severity = "EXCLUDE" // hard exclusion from the universe
	SeverityWarn    Severity = "WARN"    // informational, never excluding
)

// Reason is a structured, explainable disqualification entry.
type Reason struct {
	Code     ReasonCode `json:"code"`
	Message  string     `json:"message"`
	Severity Severity   `json:"severity"`
}

// Exclude builds an EXCLUDE-severity reason.
func Exclude(code ReasonCode, message string) Reason {
	return Reason{Code: code, Message: message, Severity: SeverityExclude}
}

// Warn builds a WARN-severity reason.
func Warn(code ReasonCode, message string) Reason {
	return Reason{Code: code, Message: message, Severity: SeverityWarn}
}

// HasExclusion reports whether any reason carries EXCLUDE severity.
func HasExclusion(reasons []Reason) bool {
	for _, r := range reasons {
		if r.Severity == SeverityExclude {
			return true
		}
	}
	return false
}
