package translate

// Cache answers "has this exact text been translated to this language
// before". Implementations must be safe for single-threaded use only; the
// dispatcher is the sole caller.
type Cache interface {
	Get(targetLang, text string) (string, bool)
	Put(targetLang, text, translated string)
}

// MemoryCache is the first cache tier: a capped in-memory map with FIFO
// eviction.
type MemoryCache struct {
	entries map[string]string
	order   []string
	max     int
}

// NewMemoryCache creates a cache holding at most max entries.
func NewMemoryCache(max int) *MemoryCache {
	if max <= 0 {
		max = 10_000
	}
	return &MemoryCache{
		entries: make(map[string]string),
		max:     max,
	}
}

// Get returns the cached translation for (targetLang, text).
func (c *MemoryCache) Get(targetLang, text string) (string, bool) {
	translated, ok := c.entries[cacheKey(targetLang, text)]
	return translated, ok
}

// Put stores a translation, evicting the oldest entry at capacity.
func (c *MemoryCache) Put(targetLang, text, translated string) {
	key := cacheKey(targetLang, text)
	if _, ok := c.entries[key]; ok {
		c.entries[key] = translated
		return
	}
	if len(c.entries) >= c.max {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[key] = translated
	c.order = append(c.order, key)
}

func cacheKey(targetLang, text string) string {
	return targetLang + "\x00" + text
}

// TieredCache consults a fast tier before a slow one and back-fills the fast
// tier on slow-tier hits.
type TieredCache struct {
	fast Cache
	slow Cache
}

// NewTieredCache composes two tiers; either may be nil.
func NewTieredCache(fast, slow Cache) *TieredCache {
	return &TieredCache{fast: fast, slow: slow}
}

// Get checks the fast tier, then the slow tier.
func (c *TieredCache) Get(targetLang, text string) (string, bool) {
	if c.fast != nil {
		if translated, ok := c.fast.Get(targetLang, text); ok {
			return translated, true
		}
	}
	if c.slow != nil {
		if translated, ok := c.slow.Get(targetLang, text); ok {
			if c.fast != nil {
				c.fast.Put(targetLang, text, translated)
			}
			return translated, true
		}
	}
	return "", false
}

// Put writes through both tiers.
func (c *TieredCache) Put(targetLang, text, translated string) {
	if c.fast != nil {
		c.fast.Put(targetLang, text, translated)
	}
	if c.slow != nil {
		c.slow.Put(targetLang, text, translated)
	}
}
