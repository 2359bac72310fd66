package builtin

import (
	"time"

	"gallerymig/internal/parser/ints"
	"gallerymig/pkg/records"
)

// Int reads a numeric column, falling back to 0 for absent or unparsable
// values.
func Int(f records.Field) int64 {
	if !f.Valid {
		return 0
	}
	return ints.Lenient(f.Value)
}

// Flag reads a 0/1 column. clean is false when the column held some other
// number, which usually means the layout points at the wrong column.
func Flag(f records.Field) (v bool, clean bool) {
	if !f.Valid {
		return false, true
	}
	return ints.Flag(f.Value)
}

// UnixDate converts a unix-seconds column to a UTC time. Absent, unparsable
// and non-positive values yield nil.
func UnixDate(f records.Field) *time.Time {
	if !f.Valid {
		return nil
	}
	n := ints.Lenient(f.Value)
	if n <= 0 {
		return nil
	}
	t := time.Unix(n, 0).UTC()
	return &t
}
