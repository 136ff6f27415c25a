package llm

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/Veraticus/spendsmart/internal/model"
)

// cacheEntry represents a cached prediction.
type cacheEntry struct {
	expiry     time.Time
	prediction model.Prediction
}

// predictionCache is a TTL cache of category predictions.
type predictionCache struct {
	entries map[string]cacheEntry
	stopCh  chan struct{}
	now     func() time.Time
	ttl     time.Duration
	mu      sync.RWMutex
	once    sync.Once
}

// newPredictionCache creates a cache. A negative ttl disables caching.
func newPredictionCache(ttl time.Duration) *predictionCache {
	if ttl == 0 {
		ttl = 24 * time.Hour
	}

	cache := &predictionCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
		stopCh:  make(chan struct{}),
	}

	if ttl > 0 {
		go cache.cleanup(cleanupInterval(ttl))
	}

	return cache
}

func cleanupInterval(ttl time.Duration) time.Duration {
	if ttl < 5*time.Minute {
		return ttl
	}
	return 5 * time.Minute
}

// predictionKey identifies a request. Hints are part of the key so a new
// correction is never answered from a stale entry.
func predictionKey(description string, hints []model.TrainingExample) string {
	h := sha256.New()
	h.Write([]byte(model.TrainingKey(description)))
	for _, hint := range hints {
		h.Write([]byte{0})
		h.Write([]byte(model.TrainingKey(hint.Description)))
		h.Write([]byte{1})
		h.Write([]byte(hint.CorrectCategory))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// get retrieves a prediction if it exists and hasn't expired.
func (c *predictionCache) get(key string) (model.Prediction, bool) {
	if c.ttl < 0 {
		return model.Prediction{}, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.entries[key]
	if !exists || c.now().After(entry.expiry) {
		return model.Prediction{}, false
	}

	return entry.prediction, true
}

// set stores a prediction.
func (c *predictionCache) set(key string, prediction model.Prediction) {
	if c.ttl < 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{
		prediction: prediction,
		expiry:     c.now().Add(c.ttl),
	}
}

// cleanup periodically removes expired entries.
func (c *predictionCache) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.evictExpired()
		}
	}
}

func (c *predictionCache) evictExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, entry := range c.entries {
		if now.After(entry.expiry) {
			delete(c.entries, key)
		}
	}
}

// size returns the number of entries in the cache.
func (c *predictionCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close stops the cleanup goroutine.
func (c *predictionCache) Close() {
	c.once.Do(func() { close(c.stopCh) })
}
