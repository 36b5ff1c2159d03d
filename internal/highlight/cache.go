package highlight

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"lukechampine.com/blake3"
)

// Cached memoizes another Highlighter. The same function source is usually
// shown many times in one session, and lexing is the expensive part.
type Cached struct {
	next  Highlighter
	cache *lru.Cache[[32]byte, string]
}

func NewCached(next Highlighter, size int) (*Cached, error) {
	if size <= 0 {
		size = 512
	}
	cache, err := lru.New[[32]byte, string](size)
	if err != nil {
		return nil, fmt.Errorf("create highlight cache: %w", err)
	}
	return &Cached{next: next, cache: cache}, nil
}

func (c *Cached) Highlight(src string) string {
	key := blake3.Sum256([]byte(src))
	if out, ok := c.cache.Get(key); ok {
		return out
	}
	out := c.next.Highlight(src)
	c.cache.Add(key, out)
	return out
}

// Len reports the number of cached entries.
func (c *Cached) Len() int { return c.cache.Len() }
