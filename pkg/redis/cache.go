package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Cache provides typed TTL caching in front of expensive provider calls.
// It is injected into provider constructors; correctness never depends on
// single-writer semantics, two concurrent misses simply recompute and
// overwrite.
type Cache struct {
	client *Client
	prefix string
}

// NewCache creates a new cache helper.
func NewCache(client *Client, prefix string) *Cache {
	return &Cache{
		client: client,
		prefix: prefix,
	}
}

// Get retrieves a cached value.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !c.client.Enabled() {
		return false, nil
	}

	fullKey := fmt.Sprintf("%s:cache:%s", c.prefix, key)
	data, err := c.client.Redis().Get(ctx, fullKey).Bytes()
	if err != nil {
		// Key not found is not an error
		return false, nil
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("cache unmarshal failed: %w", err)
	}

	return true, nil
}

// Set stores a value in cache with TTL.
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !c.client.Enabled() {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal failed: %w", err)
	}

	fullKey := fmt.Sprintf("%s:cache:%s", c.prefix, key)
	return c.client.Redis().Set(ctx, fullKey, data, ttl).Err()
}

// Delete removes a cached value.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if !c.client.Enabled() {
		return nil
	}

	fullKey := fmt.Sprintf("%s:cache:%s", c.prefix, key)
	return c.client.Redis().Del(ctx, fullKey).Err()
}

// GetOrSet retrieves from cache or calls fn to populate it.
func (c *Cache) GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration, fn func() (interface{}, error)) error {
	found, err := c.Get(ctx, key, dest)
	if err != nil {
		return err
	}
	if found {
		return nil
	}

	value, err := fn()
	if err != nil {
		return err
	}

	if err := c.Set(ctx, key, value, ttl); err != nil {
		// Cache write failures are not fatal; the value is still usable.
		return nil
	}

	data, _ := json.Marshal(value)
	return json.Unmarshal(data, dest)
}

// Predefined TTLs per data class.
const (
	TTLQuote        = 1 * time.Minute   // live quotes
	TTLTrend        = 1 * time.Hour     // moving-average metrics
	TTLChain        = 5 * time.Minute   // option chain snapshots
	TTLFundamentals = 4 * time.Hour     // slowly-changing fundamentals
	TTLCalendar     = 4 * time.Hour     // earnings/macro calendar
	TTLConstituents = 24 * time.Hour    // index constituents
	TTLProfile      = 24 * time.Hour    // company profiles
)

// Common cache key generators.
func ProfileKey(ticker string) string {
	return fmt.Sprintf("profile:%s", ticker)
}

func QuoteKey(ticker string) string {
	return fmt.Sprintf("quote:%s", ticker)
}

func FundamentalsKey(ticker string) string {
	return fmt.Sprintf("fundamentals:%s", ticker)
}

func ChainKey(ticker string) string {
	return fmt.Sprintf("chain:%s", ticker)
}

func CalendarKey(ticker string) string {
	return fmt.Sprintf("calendar:%s", ticker)
}

func TrendKey(ticker string) string {
	return fmt.Sprintf("trend:%s", ticker)
}

func ConstituentsKey(index string) string {
	return fmt.Sprintf("constituents:%s", index)
}
