// Package html provides small helpers for cleaning the HTML-ish body text
// stored by the legacy CMS. It does not parse HTML; it applies a fixed set of
// predictable text rewrites that are cheap to run over every text column:
//
//   - StripShortcodes: remove embedded CMS shortcodes such as [koken_photo ...].
//   - DecodeEntities: expand the handful of entities the CMS editor emitted.
//   - CollapseWhitespace: reduce runs of whitespace to a single space.
//   - StripTags: remove <...> sequences, for plain-text derivatives.
package html

import "strings"

// Shortcode is the embedded photo marker the legacy editor inserted into
// essay bodies.
const Shortcode = "koken_photo"

// entityReplacer expands known entities in a single pass, so "&amp;lt;"
// becomes "&lt;" and not "<".
var entityReplacer = strings.NewReplacer(
	"&nbsp;", " ",
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
	"&#039;", "'",
	"&#8211;", "–",
	"&#8212;", "—",
	"&hellip;", "…",
)

// DecodeEntities expands the known HTML entity escapes in s. Unknown
// entities are left untouched.
func DecodeEntities(s string) string {
	if !strings.Contains(s, "&") {
		return s
	}
	return entityReplacer.Replace(s)
}

// StripShortcodes removes every "[name ...]" marker from s. A marker without
// a closing bracket is left as-is. Matching on name is exact, so
// "[koken_photos]" is kept for name "koken_photo".
func StripShortcodes(s, name string) string {
	open := "[" + name
	if !strings.Contains(s, open) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for {
		i := strings.Index(s, open)
		if i < 0 {
			b.WriteString(s)
			break
		}
		rest := s[i+len(open):]
		if rest != "" && rest[0] != ']' && rest[0] != ' ' && rest[0] != '\t' && rest[0] != '\n' {
			// Longer name sharing the prefix; keep it and move on.
			b.WriteString(s[:i+len(open)])
			s = rest
			continue
		}
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			b.WriteString(s)
			break
		}
		b.WriteString(s[:i])
		s = rest[end+1:]
	}
	return b.String()
}

// CollapseWhitespace replaces consecutive whitespace characters with a single
// ASCII space and trims the result. Besides space, tab, newline and carriage
// return, the no-break space (U+00A0) counts as whitespace so that decoded
// &nbsp; runs collapse too.
func CollapseWhitespace(s string) string {
	if s == "" {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))

	seenSpace := false
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r', '\u00a0':
			if !seenSpace {
				b.WriteByte(' ')
				seenSpace = true
			}
		default:
			b.WriteRune(r)
			seenSpace = false
		}
	}

	return strings.TrimSpace(b.String())
}

// StripTags removes simplistic tags of the form <...> from s. Anything
// between '<' and the next '>' is dropped along with the delimiters.
func StripTags(s string) string {
	if !strings.ContainsRune(s, '<') {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))

	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>' && inTag:
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CleanContent is the normalization applied to stored body text: shortcodes
// are removed, entities decoded, and whitespace collapsed. Markup is kept.
func CleanContent(s string) string {
	if s == "" {
		return s
	}
	return CollapseWhitespace(DecodeEntities(StripShortcodes(s, Shortcode)))
}

// PlainText reduces body text to a single plain line, for alt texts and
// excerpts.
func PlainText(s string) string {
	if s == "" {
		return s
	}
	return CollapseWhitespace(DecodeEntities(StripTags(StripShortcodes(s, Shortcode))))
}
