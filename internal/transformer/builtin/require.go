// Package builtin contains the reusable transformers applied to mapped
// records: normalization, lenient coercion, required-field filtering and
// de-duplication.
package builtin

// Require removes every record for which Keep returns false.
type Require[T any] struct {
	Keep func(T) bool
}

// Apply filters in place and returns the kept prefix.
func (r Require[T]) Apply(in []T) []T {
	if r.Keep == nil {
		return in
	}
	out := in[:0]
	for _, rec := range in {
		if r.Keep(rec) {
			out = append(out, rec)
		}
	}
	return out
}
