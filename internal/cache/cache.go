// Package cache provides an in-memory TTL cache with LRU eviction.
// Entries carry their own TTL so stream lists can be cached for longer or
// shorter periods depending on their readiness.
package cache

import (
	"container/list"
	"context"
	"strings"
	"sync"
	"time"
)

type Cache interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{})
	SetWithTTL(key string, value interface{}, ttl time.Duration)
	Delete(key string)
	DeletePrefix(prefix string) int
	Clear()
}

type Item struct {
	Key        string
	Value      interface{}
	Expiration time.Time
}

type TTLCache struct {
	capacity   int
	defaultTTL time.Duration
	items      map[string]*list.Element
	evictList  *list.List
	mu         sync.Mutex
}

func New(capacity int, defaultTTL time.Duration) *TTLCache {
	return &TTLCache{
		capacity:   capacity,
		defaultTTL: defaultTTL,
		items:      make(map[string]*list.Element),
		evictList:  list.New(),
	}
}

// Get returns the live value for key. Expired entries are removed on read.
func (c *TTLCache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return nil, false
	}

	item := elem.Value.(*Item)
	if time.Now().After(item.Expiration) {
		c.removeElement(elem)
		return nil, false
	}

	c.evictList.MoveToFront(elem)
	return item.Value, true
}

func (c *TTLCache) Set(key string, value interface{}) {
	c.SetWithTTL(key, value, c.defaultTTL)
}

func (c *TTLCache) SetWithTTL(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiration := time.Now().Add(ttl)

	if elem, ok := c.items[key]; ok {
		item := elem.Value.(*Item)
		item.Value = value
		item.Expiration = expiration
		c.evictList.MoveToFront(elem)
		return
	}

	elem := c.evictList.PushFront(&Item{Key: key, Value: value, Expiration: expiration})
	c.items[key] = elem

	if c.evictList.Len() > c.capacity {
		c.removeOldest()
	}
}

func (c *TTLCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.removeElement(elem)
	}
}

// DeletePrefix removes every entry whose key starts with prefix and returns
// the number of entries removed. Used for catalog-change invalidation, where
// per-episode keys share the content id prefix.
func (c *TTLCache) DeletePrefix(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	var toRemove []*list.Element
	for key, elem := range c.items {
		if strings.HasPrefix(key, prefix) {
			toRemove = append(toRemove, elem)
		}
	}
	for _, elem := range toRemove {
		c.removeElement(elem)
	}
	return len(toRemove)
}

func (c *TTLCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*list.Element)
	c.evictList.Init()
}

func (c *TTLCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.evictList.Len()
}

func (c *TTLCache) removeOldest() {
	if elem := c.evictList.Back(); elem != nil {
		c.removeElement(elem)
	}
}

func (c *TTLCache) removeElement(elem *list.Element) {
	c.evictList.Remove(elem)
	delete(c.items, elem.Value.(*Item).Key)
}

// CleanExpired removes every expired entry. Expiry is otherwise lazy, so the
// periodic sweep keeps rarely read keys from accumulating.
func (c *TTLCache) CleanExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	var toRemove []*list.Element
	for elem := c.evictList.Back(); elem != nil; elem = elem.Prev() {
		if now.After(elem.Value.(*Item).Expiration) {
			toRemove = append(toRemove, elem)
		}
	}
	for _, elem := range toRemove {
		c.removeElement(elem)
	}
}

// StartCleanup runs the periodic sweep until ctx is cancelled.
func (c *TTLCache) StartCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.CleanExpired()
			case <-ctx.Done():
				return
			}
		}
	}()
}
