package tradier

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/sellside/underwriter/internal/contracts"
	"github.com/sellside/underwriter/pkg/redis"
)

// expirationsResponse mirrors Tradier /markets/options/expirations.
type expirationsResponse struct {
	Expirations struct {
		Date []string `json:"date"`
	} `json:"expirations"`
}

// chainResponse mirrors Tradier /markets/options/chains with greeks.
type chainResponse struct {
	Options struct {
		Option []optionRow `json:"option"`
	} `json:"options"`
}

type optionRow struct {
	Symbol         string  `json:"symbol"`
	Underlying     string  `json:"underlying"`
	OptionType     string  `json:"option_type"`
	ExpirationDate string  `json:"expiration_date"`
	Strike         float64 `json:"strike"`
	Bid            float64 `json:"bid"`
	Ask            float64 `json:"ask"`
	Last           float64 `json:"last"`
	OpenInterest   int64   `json:"open_interest"`
	Volume         int64   `json:"volume"`
	Greeks         *struct {
		Delta  float64 `json:"delta"`
		Theta  float64 `json:"theta"`
		MidIV  float64 `json:"mid_iv"`
		SmvVol float64 `json:"smv_vol"`
	} `json:"greeks"`
}

// maxChainExpirations caps how many expirations one snapshot fetches.
// Expirations past the selling window add no candidates.
const maxChainExpirations = 8

// Chain fetches the option chain snapshot for one underlying across its
// near expirations, cached on a minutes scale.
func (c *Client) Chain(ctx context.Context, ticker string) (*contracts.OptionChainSnapshot, error) {
	var snapshot contracts.OptionChainSnapshot
	err := c.cache.GetOrSet(ctx, redis.ChainKey(ticker), &snapshot, redis.TTLChain, func() (interface{}, error) {
		return c.fetchChain(ctx, ticker)
	})
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (c *Client) fetchChain(ctx context.Context, ticker string) (*contracts.OptionChainSnapshot, error) {
	symbol := strings.ToUpper(ticker)

	expirations, err := c.fetchExpirations(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if len(expirations) > maxChainExpirations {
		expirations = expirations[:maxChainExpirations]
	}

	snapshot := &contracts.OptionChainSnapshot{
		Underlying: symbol,
		AsOf:       time.Now(),
	}

	for _, exp := range expirations {
		rows, err := c.fetchExpirationChain(ctx, symbol, exp)
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			snapshot.Contracts = append(snapshot.Contracts, row.toContract(symbol))
		}
	}

	return snapshot, nil
}

func (c *Client) fetchExpirations(ctx context.Context, symbol string) ([]string, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("includeAllRoots", "true")

	var resp expirationsResponse
	if err := c.getJSON(ctx, "/markets/options/expirations", params, &resp); err != nil {
		return nil, err
	}
	return resp.Expirations.Date, nil
}

func (c *Client) fetchExpirationChain(ctx context.Context, symbol, expiration string) ([]optionRow, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("expiration", expiration)
	params.Set("greeks", "true")

	var resp chainResponse
	if err := c.getJSON(ctx, "/markets/options/chains", params, &resp); err != nil {
		return nil, err
	}
	return resp.Options.Option, nil
}

func (r *optionRow) toContract(underlying string) contracts.OptionContract {
	side := contracts.SideCall
	if strings.EqualFold(r.OptionType, "put") {
		side = contracts.SidePut
	}

	expiration, _ := time.Parse("2006-01-02", r.ExpirationDate)

	contract := contracts.OptionContract{
		Symbol:       r.Symbol,
		Underlying:   underlying,
		Side:         side,
		Expiration:   expiration,
		Strike:       r.Strike,
		Bid:          r.Bid,
		Ask:          r.Ask,
		Last:         r.Last,
		OpenInterest: r.OpenInterest,
		Volume:       r.Volume,
	}
	if r.Greeks != nil {
		contract.Delta = r.Greeks.Delta
		contract.Theta = r.Greeks.Theta
		contract.ImpliedVol = r.Greeks.MidIV
		if contract.ImpliedVol <= 0 {
			contract.ImpliedVol = r.Greeks.SmvVol
		}
	}
	return contract
}
