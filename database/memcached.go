package database

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/davidnwogucodes/sadaora/model"
)

// Cache keeps rendered feed pages for a short time
// via Memcached
type Cache struct {
	mem        *memcache.Client
	expiration int32
}

// NewCache connects to the memcached servers listed in url
func NewCache(url string, ttl time.Duration) *Cache {
	return &Cache{
		mem:        memcache.New(url),
		expiration: int32(ttl / time.Second),
	}
}

// FeedKey builds the cache key of a feed page. The filter is hashed
// since memcached keys cannot contain spaces
func FeedKey(viewer, filter string, page int) string {
	sum := sha1.Sum([]byte(filter))
	return "feed:" + viewer + ":" + hex.EncodeToString(sum[:8]) + ":" + strconv.Itoa(page)
}

// GetFeed returns a cached page. Any memcached error counts as a miss
func (c *Cache) GetFeed(key string) (model.FeedPage, bool) {
	item, err := c.mem.Get(key)
	if err != nil {
		return model.FeedPage{}, false
	}

	var page model.FeedPage
	if err := json.Unmarshal(item.Value, &page); err != nil {
		return model.FeedPage{}, false
	}

	return page, true
}

// SetFeed permits to set a temporary value, on the cache
func (c *Cache) SetFeed(key string, page model.FeedPage) {
	if c.expiration <= 0 {
		return
	}

	value, err := json.Marshal(page)
	if err != nil {
		return
	}

	c.mem.Set(&memcache.Item{
		Key:        key,
		Value:      value,
		Expiration: c.expiration,
	})
}
