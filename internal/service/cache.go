package service

import "sync"

// KeywordCache remembers the last extracted keyword set per user, bounded
// to a fixed number of users. When full, the least recently written entry
// is evicted.
type KeywordCache struct {
	mu       sync.Mutex
	capacity int
	entries  map[int64][]string
	order    []int64
}

func NewKeywordCache(capacity int) *KeywordCache {
	return &KeywordCache{
		capacity: capacity,
		entries:  make(map[int64][]string, capacity),
	}
}

func (c *KeywordCache) Put(userID int64, keywords []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[userID]; ok {
		c.entries[userID] = keywords
		c.touch(userID)
		return
	}

	if len(c.entries) >= c.capacity && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}

	c.entries[userID] = keywords
	c.order = append(c.order, userID)
}

func (c *KeywordCache) Get(userID int64) ([]string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	keywords, ok := c.entries[userID]
	return keywords, ok
}

func (c *KeywordCache) touch(userID int64) {
	for i, id := range c.order {
		if id == userID {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	c.order = append(c.order, userID)
}
