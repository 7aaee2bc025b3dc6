package identity

import (
	"sort"
)

// DefaultThreshold is the minimum similarity accepted for a fuzzy binding.
const DefaultThreshold = 85

// Method records how a canonical slug was bound to a source slug.
type Method string

// Binding methods in priority order.
const (
	MethodExact Method = "exact"
	MethodAlias Method = "alias"
	MethodFuzzy Method = "fuzzy"
)

// Match describes one binding.
type Match struct {
	Source string `json:"source"`
	Method Method `json:"method"`
	Score  int    `json:"score"`
}

// Result is the outcome of mapping a source signal onto canonical slugs.
// Canonical slugs that found no source are absent from Values.
type Result[V any] struct {
	Values             map[string]V
	Matches            map[string]Match
	UnmatchedSources   []string
	UnmatchedCanonical []string
}

// Counts returns the number of bindings per method.
func (r Result[V]) Counts() map[Method]int {
	out := map[Method]int{MethodExact: 0, MethodAlias: 0, MethodFuzzy: 0}
	for _, m := range r.Matches {
		out[m.Method]++
	}
	return out
}

// Option configures Map.
type Option func(*matcher)

type matcher struct {
	aliases   AliasTable
	threshold int
}

// WithAliases sets the alias table consulted after exact matching.
func WithAliases(t AliasTable) Option {
	return func(m *matcher) {
		m.aliases = t
	}
}

// WithThreshold sets the fuzzy acceptance threshold (0..100).
func WithThreshold(threshold int) Option {
	return func(m *matcher) {
		if threshold >= 0 && threshold <= 100 {
			m.threshold = threshold
		}
	}
}

// Map binds source slugs to canonical slugs by exact match, then alias, then
// fuzzy similarity. Each source slug binds at most one canonical slug and
// each canonical slug at most one source slug. Sources are visited in
// sorted order so the result does not depend on map iteration.
//
// A source slug whose alias names a slug outside the canonical set is
// consumed by the alias step and does not take part in fuzzy matching.
func Map[V any](source map[string]V, canonical []string, opts ...Option) Result[V] {
	m := &matcher{threshold: DefaultThreshold}
	for _, opt := range opts {
		opt(m)
	}

	canon := make(map[string]bool, len(canonical))
	for _, c := range canonical {
		if c != "" {
			canon[c] = true
		}
	}

	res := Result[V]{
		Values:  make(map[string]V),
		Matches: make(map[string]Match),
	}
	bind := func(canonicalSlug, sourceSlug string, method Method, score int) {
		res.Values[canonicalSlug] = source[sourceSlug]
		res.Matches[canonicalSlug] = Match{Source: sourceSlug, Method: method, Score: score}
	}

	sources := sortedKeys(source)
	consumed := make(map[string]bool, len(sources))

	for _, s := range sources {
		if canon[s] {
			bind(s, s, MethodExact, 100)
			consumed[s] = true
		}
	}

	for _, s := range sources {
		if consumed[s] {
			continue
		}
		target, ok := m.aliases[s]
		if !ok {
			continue
		}
		consumed[s] = true
		if !canon[target] {
			continue
		}
		if _, taken := res.Matches[target]; taken {
			continue
		}
		bind(target, s, MethodAlias, 100)
	}

	pool := make([]string, 0, len(sources))
	for _, s := range sources {
		if !consumed[s] {
			pool = append(pool, s)
		}
	}

	for _, c := range sortedCanonical(canon) {
		if _, bound := res.Matches[c]; bound {
			continue
		}
		best, bestScore := -1, -1
		for i, s := range pool {
			if score := Similarity(c, s); score > bestScore {
				best, bestScore = i, score
			}
		}
		if best < 0 || bestScore < m.threshold {
			res.UnmatchedCanonical = append(res.UnmatchedCanonical, c)
			continue
		}
		bind(c, pool[best], MethodFuzzy, bestScore)
		pool = append(pool[:best], pool[best+1:]...)
	}

	used := make(map[string]bool, len(res.Matches))
	for _, match := range res.Matches {
		used[match.Source] = true
	}
	for _, s := range sources {
		if !used[s] {
			res.UnmatchedSources = append(res.UnmatchedSources, s)
		}
	}
	return res
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedCanonical(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
