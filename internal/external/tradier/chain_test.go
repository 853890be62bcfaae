package tradier

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/sellside/underwriter/internal/contracts"
)

func TestOptionRow_ToContract(t *testing.T) {
	raw := `{
		"symbol": "AAPL261016P00095000",
		"underlying": "AAPL",
		"option_type": "put",
		"expiration_date": "2026-10-16",
		"strike": 95,
		"bid": 1.50,
		"ask": 1.60,
		"last": 1.55,
		"open_interest": 1500,
		"volume": 80,
		"greeks": {"delta": -0.20, "theta": -0.05, "mid_iv": 0.35, "smv_vol": 0.33}
	}`

	var row optionRow
	if err := json.Unmarshal([]byte(raw), &row); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	contract := row.toContract("AAPL")

	if contract.Side != contracts.SidePut {
		t.Errorf("Side = %q, want put", contract.Side)
	}
	want := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)
	if !contract.Expiration.Equal(want) {
		t.Errorf("Expiration = %v, want %v", contract.Expiration, want)
	}
	if contract.Strike != 95 || contract.Bid != 1.50 || contract.Ask != 1.60 {
		t.Errorf("quote fields = %v/%v/%v", contract.Strike, contract.Bid, contract.Ask)
	}
	if contract.OpenInterest != 1500 || contract.Volume != 80 {
		t.Errorf("liquidity fields = %d/%d", contract.OpenInterest, contract.Volume)
	}
	if contract.Delta != -0.20 || contract.Theta != -0.05 || contract.ImpliedVol != 0.35 {
		t.Errorf("greeks = %v/%v/%v", contract.Delta, contract.Theta, contract.ImpliedVol)
	}
}

func TestOptionRow_ToContract_SmvVolFallback(t *testing.T) {
	raw := `{
		"option_type": "call",
		"expiration_date": "2026-10-16",
		"strike": 110,
		"greeks": {"delta": 0.25, "theta": -0.04, "mid_iv": 0, "smv_vol": 0.31}
	}`

	var row optionRow
	if err := json.Unmarshal([]byte(raw), &row); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	contract := row.toContract("AAPL")

	if contract.Side != contracts.SideCall {
		t.Errorf("Side = %q, want call", contract.Side)
	}
	if contract.ImpliedVol != 0.31 {
		t.Errorf("ImpliedVol = %v, want smv_vol fallback 0.31", contract.ImpliedVol)
	}
}

func TestOptionRow_ToContract_NoGreeks(t *testing.T) {
	raw := `{"option_type": "put", "expiration_date": "2026-10-16", "strike": 95}`

	var row optionRow
	if err := json.Unmarshal([]byte(raw), &row); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	contract := row.toContract("AAPL")
	if contract.Delta != 0 || contract.ImpliedVol != 0 {
		t.Errorf("expected zero greeks, got delta=%v iv=%v", contract.Delta, contract.ImpliedVol)
	}
}
