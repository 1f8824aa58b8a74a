// Package identcache interns the short, highly repetitive strings that
// appear throughout a VCD header — scope names and variable identifiers —
// so that parsing a file with thousands of variables retains one Go string
// for the same scope name instead of one per repeated occurrence.
package identcache

import (
	lru "github.com/hashicorp/golang-lru"
)

const defaultSize = 4096

// Cache is a bounded string interner backed by an LRU eviction policy.
// It is not safe for concurrent use by multiple goroutines.
type Cache struct {
	lru *lru.Cache
}

// New returns a Cache holding at most size distinct strings. A non-positive
// size falls back to a reasonable default.
func New(size int) *Cache {
	if size <= 0 {
		size = defaultSize
	}
	l, err := lru.New(size)
	if err != nil {
		// Only returned by hashicorp/golang-lru for size <= 0, which is
		// excluded above.
		panic(err)
	}
	return &Cache{lru: l}
}

// Intern returns a canonical string for b: the first call with a given byte
// sequence stores it, and every subsequent call with an equal sequence
// returns that stored string while it is still cached. Each call still
// converts b to a temporary string for the lookup.
func (c *Cache) Intern(b []byte) string {
	s := string(b)
	if v, ok := c.lru.Get(s); ok {
		return v.(string)
	}
	c.lru.Add(s, s)
	return s
}
