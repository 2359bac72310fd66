package assemble

import (
	"path"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// umlauts are spelled out before accent stripping so "Größe" becomes
// "groesse" rather than "groe".
var umlauts = strings.NewReplacer(
	"ä", "ae", "ö", "oe", "ü", "ue", "ß", "ss",
	"Ä", "ae", "Ö", "oe", "Ü", "ue", "ẞ", "ss",
)

// Slugify lowercases s, transliterates accented letters to ASCII, and joins
// the remaining [a-z0-9] runs with single dashes.
func Slugify(s string) string {
	s = umlauts.Replace(s)
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(t, s); err == nil {
		s = folded
	}

	var b strings.Builder
	b.Grow(len(s))
	dash := false
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	return b.String()
}

// ShortName derives an identifier-safe name for an asset: the slug of the
// filename without extension, else the slug of the title, else "asset-<id>".
// The second result is ShortName plus the file's original extension.
func ShortName(id int64, filename, title string) (short, image string) {
	ext := path.Ext(filename)
	short = Slugify(strings.TrimSuffix(filename, ext))
	if short == "" {
		short = Slugify(title)
	}
	if short == "" {
		short = "asset-" + strconv.FormatInt(id, 10)
	}
	return short, short + ext
}
