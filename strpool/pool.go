// Package strpool implements the string interning pool described in §3 and
// §4.2: an insertion-ordered, deduplicated sequence of UTF-8 strings with
// stable 0-based indices, referenced from the value section by STR tags.
// The key dictionary used by schema mode (§3, "Key dictionary") is the same
// structure, built independently from the general string pool.
package strpool

// Pool is an insertion-ordered, deduplicated string set.
//
// Duplicates return the index of the existing entry (intern is idempotent);
// order is first-appearance order during encode, which the decoder relies on
// when it materializes the pool up front so STR/KEY tags resolve in O(1).
type Pool struct {
	values []string
	index  map[string]int
}

// New creates an empty pool.
func New() *Pool {
	return &Pool{index: make(map[string]int)}
}

// Intern returns the stable index of s, adding it to the pool if it is not
// already present.
func (p *Pool) Intern(s string) int {
	if idx, ok := p.index[s]; ok {
		return idx
	}
	idx := len(p.values)
	p.values = append(p.values, s)
	p.index[s] = idx
	return idx
}

// Get returns the string at index i. ok is false if i is out of range.
func (p *Pool) Get(i int) (string, bool) {
	if i < 0 || i >= len(p.values) {
		return "", false
	}
	return p.values[i], true
}

// Len returns the number of strings currently interned.
func (p *Pool) Len() int { return len(p.values) }

// Values returns the pool's strings in insertion order. The returned slice
// must not be modified by the caller.
func (p *Pool) Values() []string { return p.values }

// FromValues rebuilds a decoded pool from an already-materialized, ordered
// string slice (used by the decoder, which reads the string section up
// front rather than interning incrementally).
func FromValues(values []string) *Pool {
	p := &Pool{values: values, index: make(map[string]int, len(values))}
	for i, s := range values {
		if _, exists := p.index[s]; !exists {
			p.index[s] = i
		}
	}
	return p
}
