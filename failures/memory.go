package failures

import (
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/offgate/offgate/config"
)

var normalizer = transform.Chain(norm.NFC, cases.Lower(language.Und))

func normalizeUsername(username string) string {
	normalized, _, err := transform.String(normalizer, username)
	if err != nil {
		log.Panic().Err(err).Str("username", username).Msg("could not normalize username for failure tracking")
	}
	return normalized
}

// MemoryCounter holds counts in a TTL cache so stale entries age out of
// memory after the lookback window instead of accumulating forever.
type MemoryCounter struct {
	lock  sync.Mutex
	cache *ttlcache.Cache[string, int]
}

var _ Counter = (*MemoryCounter)(nil)

// NewMemoryCounter reads the lookback window from config.
func NewMemoryCounter() *MemoryCounter {
	lookback := viper.GetDuration(config.KeyLookbackTime)

	// we do it this way so we don't mistakenly pollute the config file with our values
	if lookback == 0 {
		lookback = config.DefaultLookbackTime
	}

	log.Info().Dur("lookback_time", lookback).Msg("initializing failed login counter")

	return NewMemoryCounterWithLookback(lookback)
}

func NewMemoryCounterWithLookback(lookback time.Duration) *MemoryCounter {
	cache := ttlcache.New[string, int](
		ttlcache.WithTTL[string, int](lookback),
		ttlcache.WithDisableTouchOnHit[string, int](),
	)

	go cache.Start()

	return &MemoryCounter{cache: cache}
}

func (c *MemoryCounter) Increment(username string) int {
	username = normalizeUsername(username)

	c.lock.Lock()
	defer c.lock.Unlock()

	count := 1
	if item := c.cache.Get(username); item != nil {
		count = item.Value() + 1
	}
	c.cache.Set(username, count, ttlcache.DefaultTTL)

	return count
}

func (c *MemoryCounter) Clear(username string) {
	username = normalizeUsername(username)

	c.lock.Lock()
	defer c.lock.Unlock()

	c.cache.Delete(username)
}

// Stop halts the cache's expiration loop.
func (c *MemoryCounter) Stop() {
	c.cache.Stop()
}
