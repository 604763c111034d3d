// Package regexmatch wraps github.com/dlclark/regexp2 (a .NET-style PCRE
// regex engine — the closest pure-Go analogue to the PCRE-style matcher
// spec'd for triggers and aliases, and already present in the donor
// project's own dependency graph) behind a small LRU-cached compiler, so
// that re-adding the same pattern across script reloads doesn't re-pay
// compilation cost.
package regexmatch

import (
	"fmt"

	"github.com/dlclark/regexp2"
	lru "github.com/hashicorp/golang-lru/v2"
)

// cacheSize matches the donor project's own convention of sizing
// small long-lived LRUs to a few hundred entries — generous for the
// number of distinct trigger/alias patterns a user script set plausibly
// registers in one session.
const cacheSize = 512

// Cache compiles and caches regexp2 patterns keyed by (pattern, options).
type Cache struct {
	compiled *lru.Cache[string, *regexp2.Regexp]
}

// NewCache constructs a ready-to-use pattern cache.
func NewCache() *Cache {
	c, err := lru.New[string, *regexp2.Regexp](cacheSize)
	if err != nil {
		// Only returns an error for a non-positive size, which cacheSize
		// never is; a panic here would indicate a programming mistake,
		// not a runtime condition callers can recover from.
		panic(err)
	}
	return &Cache{compiled: c}
}

// Compile returns a compiled regexp2.Regexp for pattern, using
// case-sensitive matching with the regexp2.RE2 compatibility option,
// consulting the cache first.
func (c *Cache) Compile(pattern string) (*regexp2.Regexp, error) {
	key := fmt.Sprintf("%s\x00%d", pattern, regexp2.RE2)
	if re, ok := c.compiled.Get(key); ok {
		return re, nil
	}
	re, err := regexp2.Compile(pattern, regexp2.RE2)
	if err != nil {
		return nil, err
	}
	c.compiled.Add(key, re)
	return re, nil
}

// Match reports whether pattern matches anywhere in s, and on a match
// returns the 1-indexed capture group texts (group 0 is the whole match,
// matching the Lua-source-compatible 1-based indexing spec.md §9 calls
// for).
func (c *Cache) Match(pattern string, s string) (matched bool, groups []string, err error) {
	re, err := c.Compile(pattern)
	if err != nil {
		return false, nil, err
	}
	m, err := re.FindStringMatch(s)
	if err != nil {
		return false, nil, err
	}
	if m == nil {
		return false, nil, nil
	}
	gs := m.Groups()
	out := make([]string, len(gs))
	for i, g := range gs {
		out[i] = g.String()
	}
	return true, out, nil
}
