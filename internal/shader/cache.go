// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shader

import "sync"

// spirvCache holds the SPIR-V of each embedded program so renderers created
// later in the process skip naga. Failed compiles are not cached.
//
// spirvCache is safe for concurrent use.
type spirvCache struct {
	mu     sync.Mutex
	words  map[Program][]uint32
	hits   uint64
	misses uint64
}

// CacheStats reports how often compiled programs were reused.
type CacheStats struct {
	Len    int
	Hits   uint64
	Misses uint64
}

var programCache = &spirvCache{words: make(map[Program][]uint32)}

// getOrCompile returns the cached SPIR-V of p, compiling it under the lock on
// first use so concurrent callers never compile the same program twice.
func (c *spirvCache) getOrCompile(p Program) ([]uint32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if code, ok := c.words[p]; ok {
		c.hits++
		return code, nil
	}
	c.misses++
	code, err := Compile(p.Source())
	if err != nil {
		return nil, err
	}
	c.words[p] = code
	return code, nil
}

func (c *spirvCache) stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CacheStats{Len: len(c.words), Hits: c.hits, Misses: c.misses}
}

func (c *spirvCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.words = make(map[Program][]uint32)
	c.hits, c.misses = 0, 0
}

// Stats returns the compiled-program cache counters.
func Stats() CacheStats {
	return programCache.stats()
}
