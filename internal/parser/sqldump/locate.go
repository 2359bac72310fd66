package sqldump

import (
	"strings"

	"gallerymig/pkg/records"
)

const (
	insertKeyword = "insert into"
	valuesKeyword = "values"
)

// LocateStats describes what Locate found for one table. All counts are
// diagnostics; none of them indicate a failure.
type LocateStats struct {
	Table      string `json:"table" yaml:"table"`
	Statements int    `json:"statements" yaml:"statements"`
	NoValues   int    `json:"no_values" yaml:"no_values"`
	Records    int    `json:"records" yaml:"records"`
	Malformed  int    `json:"malformed" yaml:"malformed"`
}

// statement is one INSERT statement located in the dump. Offsets index the
// original text.
type statement struct {
	table string
	start int // offset of the INSERT marker
	body  int // first byte after VALUES, or -1 when VALUES was not found
	end   int // offset of the next INSERT marker, or len(text)
}

// Dump is a located view over a dump's text. It indexes every INSERT
// statement once and tokenizes a table's records on first request.
//
// A Dump is not safe for concurrent use; the pipeline is single-threaded.
type Dump struct {
	text  string
	stmts []statement
	cache map[string]located
}

type located struct {
	rows  []records.RawRecord
	stats LocateStats
}

// ParseDump indexes the INSERT statements of text.
func ParseDump(text string) *Dump {
	d := &Dump{
		text:  text,
		cache: make(map[string]located),
	}
	d.index()
	return d
}

// Locate returns the records of every INSERT statement for table in text.
// A table without any INSERT statement yields an empty list.
func Locate(text, table string) ([]records.RawRecord, LocateStats) {
	return ParseDump(text).Records(table)
}

// Tables returns the distinct table names that have at least one INSERT
// statement, in order of first appearance.
func (d *Dump) Tables() []string {
	seen := make(map[string]struct{}, len(d.stmts))
	var out []string
	for _, st := range d.stmts {
		if _, ok := seen[st.table]; ok {
			continue
		}
		seen[st.table] = struct{}{}
		out = append(out, st.table)
	}
	return out
}

// Records returns the tokenized rows for table across all of its INSERT
// statements, in dump order. The returned slice must not be modified.
func (d *Dump) Records(table string) ([]records.RawRecord, LocateStats) {
	if l, ok := d.cache[table]; ok {
		return l.rows, l.stats
	}

	stats := LocateStats{Table: table}
	rows := make([]records.RawRecord, 0)

	for _, st := range d.stmts {
		if st.table != table {
			continue
		}
		stats.Statements++
		if st.body < 0 {
			stats.NoValues++
			continue
		}
		scanGroups(d.text[st.body:st.end], func(interior string) {
			rec := Tokenize(interior)
			if rec.Len() == 0 {
				stats.Malformed++
				return
			}
			rows = append(rows, rec)
			stats.Records++
		})
	}

	d.cache[table] = located{rows: rows, stats: stats}
	return rows, stats
}

// index finds every INSERT marker that starts a line and records the table
// it names, where its VALUES region begins, and where it ends.
func (d *Dump) index() {
	lower := asciiLower(d.text)

	var starts []int
	for pos := 0; ; {
		at := nextMarker(lower, pos)
		if at < 0 {
			break
		}
		starts = append(starts, at)
		pos = at + len(insertKeyword)
	}

	for i, at := range starts {
		end := len(d.text)
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		nameAt := at + len(insertKeyword)
		// The name never extends past the next marker.
		table, after := readIdent(d.text[:end], nameAt)
		if table == "" {
			continue
		}
		st := statement{table: table, start: at, body: -1, end: end}
		if after < end {
			if v := strings.Index(lower[after:end], valuesKeyword); v >= 0 {
				st.body = after + v + len(valuesKeyword)
			}
		}
		d.stmts = append(d.stmts, st)
	}
}

// nextMarker returns the offset of the next "insert into" at or after from
// that begins a line (optionally indented), or -1.
func nextMarker(lower string, from int) int {
	for from < len(lower) {
		rel := strings.Index(lower[from:], insertKeyword)
		if rel < 0 {
			return -1
		}
		at := from + rel
		if atLineStart(lower, at) {
			return at
		}
		from = at + len(insertKeyword)
	}
	return -1
}

func atLineStart(s string, at int) bool {
	for i := at - 1; i >= 0; i-- {
		switch s[i] {
		case '\n':
			return true
		case ' ', '\t', '\r':
			continue
		default:
			return false
		}
	}
	return true
}

// readIdent reads a possibly quoted, possibly schema-qualified identifier
// starting at pos (leading whitespace skipped). For `db`.`t` it returns "t".
// The second result is the offset just past the identifier.
func readIdent(s string, pos int) (string, int) {
	var name string
	for {
		for pos < len(s) && (s[pos] == ' ' || s[pos] == '\t' || s[pos] == '\n' || s[pos] == '\r') {
			pos++
		}
		if pos >= len(s) {
			return name, pos
		}
		switch q := s[pos]; q {
		case '`', '"':
			end := strings.IndexByte(s[pos+1:], q)
			if end < 0 {
				return name, pos
			}
			name = s[pos+1 : pos+1+end]
			pos += end + 2
		default:
			start := pos
			for pos < len(s) && isIdentByte(s[pos]) {
				pos++
			}
			name = s[start:pos]
		}
		if pos < len(s) && s[pos] == '.' {
			pos++
			continue
		}
		return name, pos
	}
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '$' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// scanGroups walks a VALUES region and calls fn with the interior of every
// top-level parenthesized group. Quotes and backslash escapes are honored so
// that parentheses or semicolons inside string values do not split records.
// Scanning stops at the first ';' outside of quotes and groups.
func scanGroups(region string, fn func(interior string)) {
	var (
		quote  byte
		escape bool
		depth  int
		open   int
	)
	for i := 0; i < len(region); i++ {
		c := region[i]
		if escape {
			escape = false
			continue
		}
		if c == '\\' {
			escape = true
			continue
		}
		if quote != 0 {
			if c == quote {
				if i+1 < len(region) && region[i+1] == quote {
					i++
					continue
				}
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			if depth > 0 {
				quote = c
			}
		case '(':
			if depth == 0 {
				open = i + 1
			}
			depth++
		case ')':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 {
				fn(region[open:i])
			}
		case ';':
			if depth == 0 {
				return
			}
		}
	}
	// An unterminated trailing group is flushed leniently.
	if depth > 0 && open < len(region) {
		fn(region[open:])
	}
}

// asciiLower lowercases ASCII letters only, so byte offsets in the result
// match the input exactly.
func asciiLower(s string) string {
	b := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		b[i] = c
	}
	return string(b)
}
