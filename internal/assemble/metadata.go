package assemble

import (
	"regexp"
	"strings"

	"gallerymig/internal/parser/html"
	"gallerymig/internal/parser/ints"
	"gallerymig/pkg/records"
)

// Plausible year range for artwork dates.
const (
	MinYear = 1900
	MaxYear = 2099
)

// materialsPattern matches "<materials> | <dimensions> cm", e.g.
// "Öl auf Leinwand | 120 x 90 cm".
var materialsPattern = regexp.MustCompile(`([A-Za-zäöüÄÖÜß\s,]+)\s*\|\s*(\d+[\d\sx,]+\s*cm)`)

// ExtractMetadata reads year, materials and dimensions from a gallery's
// free text. The year comes from the description, then the title. Nothing
// found is not an error; the fields stay empty.
func ExtractMetadata(title, description string) records.Metadata {
	var md records.Metadata

	plain := html.PlainText(description)
	for _, s := range []string{plain, html.PlainText(title)} {
		if y, ok := ints.FirstYear(s, MinYear, MaxYear); ok {
			md.Year = &y
			break
		}
	}

	if m := materialsPattern.FindStringSubmatch(plain); m != nil {
		md.Materials = strings.Trim(strings.TrimSpace(m[1]), ",")
		md.Materials = strings.TrimSpace(md.Materials)
		md.Dimensions = html.CollapseWhitespace(m[2])
	}
	return md
}
