// Package sqldump extracts rows from a textual relational database dump
// (mysqldump-style "INSERT INTO `table` ... VALUES (...),(...);" statements).
//
// It is deliberately not a SQL parser. Only the minimal landmarks are
// recognized: the INSERT marker naming a table, the VALUES keyword, the
// parenthesized record groups, and the statement boundary (a ';' outside of
// quotes or the next INSERT marker). Everything else in the dump is ignored.
//
// Two layers are exposed:
//
//   - Tokenize: split the interior of one record group into positional fields.
//   - Dump / Locate: find every INSERT statement for a table and tokenize its
//     record groups, across any number of statements.
package sqldump

import (
	"strings"

	"gallerymig/pkg/records"
)

// NullToken is the literal that marks an absent value in a dump.
const NullToken = "NULL"

// Tokenize splits the interior text of one parenthesized record (without the
// surrounding parentheses) into positional fields.
//
// Scanning rules:
//
//   - A single or double quote opens a quoted span; inside it, the same quote
//     doubled ('') is one literal quote, a lone matching quote closes the span,
//     and the other quote character is literal.
//   - A backslash makes the following character literal and is itself dropped.
//   - A comma outside a quoted span ends the current field.
//   - Fields are trimmed of surrounding whitespace; a trimmed value equal to
//     NULL becomes an absent field.
//   - A trailing buffer is emitted when it is non-empty after trimming or
//     when a quoted span was opened in it, so a trailing '' is a present
//     empty field.
//
// Unbalanced quotes do not fail: whatever was accumulated is flushed as-is.
// Empty input yields zero fields, which callers treat as malformed.
func Tokenize(s string) records.RawRecord {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	out := make(records.RawRecord, 0, 8)
	var (
		buf    strings.Builder
		quote  byte // 0 when no span is open
		quoted bool // current field opened a quoted span
		escape bool
	)

	emit := func() {
		v := strings.TrimSpace(buf.String())
		buf.Reset()
		quoted = false
		if v == NullToken {
			out = append(out, records.Null)
			return
		}
		out = append(out, records.Text(v))
	}

	for i := 0; i < len(s); i++ {
		c := s[i]

		if escape {
			buf.WriteByte(c)
			escape = false
			continue
		}

		switch {
		case c == '\\':
			escape = true

		case quote != 0 && c == quote:
			if i+1 < len(s) && s[i+1] == quote {
				buf.WriteByte(c)
				i++
				continue
			}
			quote = 0

		case quote == 0 && (c == '\'' || c == '"'):
			quote = c
			quoted = true

		case quote == 0 && c == ',':
			emit()

		default:
			buf.WriteByte(c)
		}
	}

	if quoted || strings.TrimSpace(buf.String()) != "" {
		emit()
	}
	return out
}
