package practices

import (
	"log"
	"time"

	"aigenio/pkg/config"

	gocache "github.com/patrickmn/go-cache"
)

// diskCache is the cache file: remote answers keyed by Query.Key.
type diskCache struct {
	Entries map[string]cacheEntry `json:"entries"`
}

type cacheEntry struct {
	Response Response `json:"response"`
	// ExpiresAt is in Unix nanoseconds, as go-cache keeps it. Zero never expires.
	ExpiresAt int64 `json:"expires_at"`
}

func (e cacheEntry) expired(now int64) bool {
	return e.ExpiresAt > 0 && e.ExpiresAt <= now
}

// loadCacheItems reads the unexpired entries of a cache file. A missing or
// unreadable file is an empty cache.
func loadCacheItems(path string) map[string]gocache.Item {
	items := map[string]gocache.Item{}

	var dc diskCache
	if _, err := config.ReadJSONFile(path, &dc); err != nil {
		log.Printf("best practices cache: %v", err)
		return items
	}

	now := time.Now().UnixNano()
	for key, e := range dc.Entries {
		if e.expired(now) {
			continue
		}
		items[key] = gocache.Item{Object: e.Response, Expiration: e.ExpiresAt}
	}
	return items
}

// persist merges the live entries into the cache file, keeping entries other
// runs wrote and dropping expired ones.
func (s *Service) persist() error {
	if s.cachePath == "" {
		return nil
	}

	var dc diskCache
	return config.UpdateJSONFile(s.cachePath, &dc, config.PermConfigFile, func() error {
		if dc.Entries == nil {
			dc.Entries = map[string]cacheEntry{}
		}
		now := time.Now().UnixNano()
		for key, e := range dc.Entries {
			if e.expired(now) {
				delete(dc.Entries, key)
			}
		}
		for key, item := range s.cache.Items() {
			if resp, ok := item.Object.(Response); ok {
				dc.Entries[key] = cacheEntry{Response: resp, ExpiresAt: item.Expiration}
			}
		}
		return nil
	})
}
