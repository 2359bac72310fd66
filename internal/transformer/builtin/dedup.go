package builtin

import (
	"sort"
	"strings"
)

// Dedup policies.
const (
	KeepFirst = "keep-first"
	KeepLast  = "keep-last"
)

// DeDup collapses records that share an identifier. A dump may repeat a row
// when a table was exported in several passes; the legacy tooling indexed
// rows by id, so the last occurrence won.
//
//   - "keep-first": keep the earliest occurrence
//   - "keep-last" : keep the latest occurrence (default)
//
// Output order is the input position of each winner.
type DeDup[T any] struct {
	Key    func(T) int64
	Policy string
}

// Apply returns a new slice holding one winner per key.
func (d DeDup[T]) Apply(in []T) []T {
	if len(in) == 0 || d.Key == nil {
		return in
	}

	policy := strings.ToLower(strings.TrimSpace(d.Policy))
	if policy == "" {
		policy = KeepLast
	}

	winners := make(map[int64]int, len(in))
	for i, rec := range in {
		k := d.Key(rec)
		if _, exists := winners[k]; exists && policy == KeepFirst {
			continue
		}
		winners[k] = i
	}
	if len(winners) == len(in) {
		return in
	}

	idx := make([]int, 0, len(winners))
	for _, i := range winners {
		idx = append(idx, i)
	}
	sort.Ints(idx)

	out := make([]T, 0, len(idx))
	for _, i := range idx {
		out = append(out, in[i])
	}
	return out
}
