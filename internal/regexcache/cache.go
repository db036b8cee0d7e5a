// Package regexcache provides the process-global, pattern-keyed regex
// cache of SPEC_FULL.md §4.H/§5: compilation happens once, off the
// request path, at configuration-reload time; lookups afterward are
// lock-free.
package regexcache

import (
	"regexp"
	"sync"
)

var cache sync.Map // string -> *regexp.Regexp

// Compile returns the cached *regexp.Regexp for pattern, compiling and
// caching it on first use. Unicode-aware by default, matching Go's
// regexp package semantics.
func Compile(pattern string) (*regexp.Regexp, error) {
	if v, ok := cache.Load(pattern); ok {
		return v.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	actual, _ := cache.LoadOrStore(pattern, re)
	return actual.(*regexp.Regexp), nil
}

// MustCompile is Compile but panics on error; used only where the
// pattern has already been validated (e.g. at CRD admission time).
func MustCompile(pattern string) *regexp.Regexp {
	re, err := Compile(pattern)
	if err != nil {
		panic(err)
	}
	return re
}

// Reset clears the cache. Exposed for tests only.
func Reset() {
	cache.Range(func(key, _ interface{}) bool {
		cache.Delete(key)
		return true
	})
}
