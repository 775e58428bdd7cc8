package resource

// Cache memoizes per-object lookups such as uniform locations. Entries are
// keyed by handle, so a released object never shares entries with a new
// object that reuses its name.
type Cache[V any] struct {
	entries map[*Handle]map[string]V
}

// NewCache creates an empty cache
func NewCache[V any]() *Cache[V] {
	return &Cache[V]{entries: make(map[*Handle]map[string]V)}
}

// Get returns the cached value for key on h, calling load with the object
// name on a miss. Released handles are never cached.
func (c *Cache[V]) Get(h *Handle, key string, load func(id uint32) V) V {
	if h.ID() == 0 {
		return load(0)
	}
	byKey, ok := c.entries[h]
	if !ok {
		byKey = make(map[string]V)
		c.entries[h] = byKey
	}
	v, ok := byKey[key]
	if !ok {
		v = load(h.id)
		byKey[key] = v
	}
	return v
}

// Prune drops the entries of released handles and returns how many were dropped
func (c *Cache[V]) Prune() int {
	n := 0
	for h := range c.entries {
		if h.Released() {
			delete(c.entries, h)
			n++
		}
	}
	return n
}

// Clear drops every entry
func (c *Cache[V]) Clear() {
	clear(c.entries)
}

// Len returns the number of handles with cached entries
func (c *Cache[V]) Len() int {
	return len(c.entries)
}
