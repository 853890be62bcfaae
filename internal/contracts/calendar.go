package contracts

import "time"

// MacroEventType enumerates the macro events tracked on the calendar.
type MacroEventType string

const (
	MacroCPI  MacroEventType = "CPI"
	MacroFOMC MacroEventType = "FOMC"
)

// MacroEvent is one upcoming macro calendar entry.
type MacroEvent struct {
	Type MacroEventType `json:"type"`
	Date time.Time      `json:"date"`
}

// CalendarSnapshot carries earnings and macro event proximity for one
// evaluation pass.
type CalendarSnapshot struct {
	Ticker           string       `json:"ticker"`
	NextEarnings     *time.Time   `json:"next_earnings,omitempty"`
	DaysToEarnings   int          `json:"days_to_earnings"` // -1 when unknown
	MacroEvents      []MacroEvent `json:"macro_events,omitempty"`
	AsOf             time.Time    `json:"as_of"`
}

// EarningsWithin reports whether earnings land inside the next n days.
func (c *CalendarSnapshot) EarningsWithin(days int) bool {
	return c.DaysToEarnings >= 0 && c.DaysToEarnings <= days
}

// MacroEventWithin reports whether any macro event lands inside the next
// n days of AsOf.
func (c *CalendarSnapshot) MacroEventWithin(days int) bool {
	horizon := c.AsOf.AddDate(0, 0, days)
	for _, e := range c.MacroEvents {
		if !e.Date.Before(c.AsOf) && !e.Date.After(horizon) {
			return true
		}
	}
	return false
}
