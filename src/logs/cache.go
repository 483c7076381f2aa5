package logs

import (
	"strconv"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// contextCache memoizes serialized contexts by fault site.
type contextCache struct {
	mu      sync.Mutex
	entries map[uint64]map[string]string
}

func newContextCache() *contextCache {
	return &contextCache{entries: make(map[uint64]map[string]string)}
}

func cacheKey(level Level, message, file string, line int) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(level.String())
	_, _ = d.Write([]byte{0})
	_, _ = d.WriteString(message)
	_, _ = d.Write([]byte{0})
	_, _ = d.WriteString(file)
	_, _ = d.Write([]byte{0})
	_, _ = d.WriteString(strconv.Itoa(line))
	return d.Sum64()
}

func (c *contextCache) get(key uint64) (map[string]string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok
}

// put stores v unless another goroutine got there first, and returns the
// stored value.
func (c *contextCache) put(key uint64, v map[string]string) map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.entries[key]; ok {
		return existing
	}
	c.entries[key] = v
	return v
}

func (c *contextCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
