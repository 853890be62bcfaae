package sizing

import (
	"fmt"

	"github.com/sellside/underwriter/internal/contracts"
)

// DefaultMaxAllocationPct is the per-trade allocation ceiling.
const DefaultMaxAllocationPct = 0.05

// Input is one advisory sizing check.
type Input struct {
	AccountSize        float64
	RequiredCollateral float64
	MaxAllocationPct   float64 // 0 means the default
}

// Check computes the allocation percentage and flags a violation with a
// warning naming both percentages. Sizing never blocks candidate
// generation; it is surfaced to the caller.
func Check(input Input) contracts.SizingResult {
	maxPct := input.MaxAllocationPct
	if maxPct <= 0 {
		maxPct = DefaultMaxAllocationPct
	}

	result := contracts.SizingResult{
		RequiredCollateral: input.RequiredCollateral,
		MaxAllocationPct:   maxPct,
	}

	if input.AccountSize <= 0 {
		result.AllocationPct = 0
		result.WithinLimit = true
		return result
	}

	result.AllocationPct = input.RequiredCollateral / input.AccountSize
	result.WithinLimit = result.AllocationPct <= maxPct

	if !result.WithinLimit {
		result.Warning = fmt.Sprintf(
			"position would use %.0f%% of the account, above the %.0f%% per-trade limit",
			result.AllocationPct*100, maxPct*100,
		)
	}

	return result
}
