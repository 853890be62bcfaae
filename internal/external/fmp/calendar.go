package fmp

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/sellside/underwriter/internal/contracts"
	"github.com/sellside/underwriter/pkg/redis"
)

const calendarHorizonDays = 90

// earningsResponse mirrors one FMP /earning_calendar row.
type earningsResponse struct {
	Symbol string `json:"symbol"`
	Date   string `json:"date"`
}

// economicResponse mirrors one FMP /economic_calendar row.
type economicResponse struct {
	Event   string `json:"event"`
	Date    string `json:"date"`
	Country string `json:"country"`
}

// Calendar resolves earnings and macro event proximity, cached on an
// hours scale.
func (c *Client) Calendar(ctx context.Context, ticker string) (*contracts.CalendarSnapshot, error) {
	var snapshot contracts.CalendarSnapshot
	err := c.cache.GetOrSet(ctx, redis.CalendarKey(ticker), &snapshot, redis.TTLCalendar, func() (interface{}, error) {
		return c.fetchCalendar(ctx, ticker)
	})
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (c *Client) fetchCalendar(ctx context.Context, ticker string) (*contracts.CalendarSnapshot, error) {
	now := time.Now()
	from := now.Format("2006-01-02")
	to := now.AddDate(0, 0, calendarHorizonDays).Format("2006-01-02")

	snapshot := &contracts.CalendarSnapshot{
		Ticker:         strings.ToUpper(ticker),
		DaysToEarnings: -1,
		AsOf:           now,
	}

	params := url.Values{}
	params.Set("from", from)
	params.Set("to", to)
	params.Set("symbol", snapshot.Ticker)

	var earnings []earningsResponse
	if err := c.getJSON(ctx, "/earning_calendar", params, &earnings); err != nil {
		return nil, err
	}

	for _, e := range earnings {
		if !strings.EqualFold(e.Symbol, ticker) {
			continue
		}
		date, err := time.Parse("2006-01-02", e.Date)
		if err != nil || date.Before(now) {
			continue
		}
		if snapshot.NextEarnings == nil || date.Before(*snapshot.NextEarnings) {
			d := date
			snapshot.NextEarnings = &d
		}
	}
	if snapshot.NextEarnings != nil {
		snapshot.DaysToEarnings = int(snapshot.NextEarnings.Sub(now).Hours() / 24)
	}

	macroParams := url.Values{}
	macroParams.Set("from", from)
	macroParams.Set("to", to)

	var economic []economicResponse
	if err := c.getJSON(ctx, "/economic_calendar", macroParams, &economic); err != nil {
		// Macro data is enrichment; earnings proximity alone is
		// still a usable snapshot.
		c.logger.WithError(err).Warn("Economic calendar lookup failed")
		return snapshot, nil
	}

	for _, e := range economic {
		if e.Country != "" && e.Country != "US" {
			continue
		}
		eventType, ok := classifyMacroEvent(e.Event)
		if !ok {
			continue
		}
		date, err := time.Parse("2006-01-02 15:04:05", e.Date)
		if err != nil {
			date, err = time.Parse("2006-01-02", e.Date)
			if err != nil {
				continue
			}
		}
		snapshot.MacroEvents = append(snapshot.MacroEvents, contracts.MacroEvent{
			Type: eventType,
			Date: date,
		})
	}

	return snapshot, nil
}

// classifyMacroEvent keeps only the macro events the risk model tracks.
func classifyMacroEvent(event string) (contracts.MacroEventType, bool) {
	upper := strings.ToUpper(event)
	switch {
	case strings.Contains(upper, "CPI") || strings.Contains(upper, "CONSUMER PRICE"):
		return contracts.MacroCPI, true
	case strings.Contains(upper, "FOMC") || strings.Contains(upper, "FED INTEREST RATE"):
		return contracts.MacroFOMC, true
	default:
		return "", false
	}
}
