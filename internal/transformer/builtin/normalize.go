package builtin

import (
	"strings"

	"gallerymig/internal/parser/html"
	"gallerymig/pkg/records"
)

// mojibake fixes the double-encoded no-break space that shows up when a
// latin1 dump was re-read as UTF-8.
var mojibake = strings.NewReplacer("Â\u00a0", " ", "Â ", " ")

// Label cleans a short single-line label such as a title.
func Label(s string) string {
	return html.CollapseWhitespace(html.DecodeEntities(mojibake.Replace(s)))
}

// NormalizeContent cleans text document bodies: shortcodes are stripped,
// known entities decoded and whitespace collapsed. Titles and excerpts are
// reduced to plain single lines.
type NormalizeContent struct{}

func (NormalizeContent) Apply(in []records.TextDocument) []records.TextDocument {
	for i := range in {
		d := &in[i]
		d.Title = Label(d.Title)
		d.Content = html.CleanContent(mojibake.Replace(d.Content))
		d.Draft = html.CleanContent(mojibake.Replace(d.Draft))
		d.Excerpt = html.PlainText(mojibake.Replace(d.Excerpt))
	}
	return in
}

// NormalizeGallery trims and decodes the free-text gallery columns. The
// description keeps its line structure apart from whitespace runs, since
// metadata extraction reads it.
type NormalizeGallery struct{}

func (NormalizeGallery) Apply(in []records.Gallery) []records.Gallery {
	for i := range in {
		g := &in[i]
		g.Title = Label(g.Title)
		g.Summary = Label(g.Summary)
		g.Description = html.CleanContent(mojibake.Replace(g.Description))
	}
	return in
}

// NormalizeAsset trims asset labels. Filenames are only trimmed.
type NormalizeAsset struct{}

func (NormalizeAsset) Apply(in []records.Asset) []records.Asset {
	for i := range in {
		a := &in[i]
		a.Title = Label(a.Title)
		a.Caption = html.PlainText(mojibake.Replace(a.Caption))
		a.Filename = strings.TrimSpace(a.Filename)
	}
	return in
}
