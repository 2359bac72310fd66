package assemble

import (
	"strconv"
	"strings"

	"gallerymig/pkg/records"
)

// ClassifyDocument decides where a text document lives on the site. The CV,
// contact and news pages are recognized by their legacy slug or by words in
// the title; everything else becomes an essay under a slug of its title.
func ClassifyDocument(d records.TextDocument) records.Route {
	title := strings.ToLower(d.Title)
	has := func(words ...string) bool {
		for _, w := range words {
			if strings.Contains(title, w) {
				return true
			}
		}
		return false
	}

	switch {
	case d.Slug == "cv" || has("cv", "lebenslauf"):
		return records.Route{Kind: records.RouteCV, Title: "CV", Slug: "cv", Permalink: "/cv/"}
	case d.Slug == "kontakt-contact" || has("kontakt", "contact"):
		return records.Route{Kind: records.RouteContact, Title: "Contact", Slug: "contact", Permalink: "/contact/"}
	case d.Slug == "news-aktuelles" || has("news", "aktuelles", "ausstellungen"):
		return records.Route{Kind: records.RouteNews, Title: "News & Exhibitions", Slug: "news", Permalink: "/news/"}
	}

	slug := Slugify(d.Title)
	if slug == "" {
		slug = Slugify(d.Slug)
	}
	if slug == "" {
		slug = "essay-" + strconv.FormatInt(d.ID, 10)
	}
	return records.Route{
		Kind:      records.RouteEssay,
		Title:     d.Title,
		Slug:      slug,
		Permalink: "/essays/" + slug + "/",
	}
}

// ClassifyStats counts how documents were routed.
type ClassifyStats struct {
	Essays int `json:"essays" yaml:"essays"`
	Fixed  int `json:"fixed" yaml:"fixed"`
	// Shared counts fixed-route documents whose permalink an earlier
	// document already took.
	Shared int `json:"shared" yaml:"shared"`
}

// ClassifyDocuments routes every document. An essay whose slug is taken gets
// a suffix until it is unique. Fixed routes are never renamed; a second
// document on one of them is counted as Shared.
func ClassifyDocuments(docs []records.TextDocument) ([]records.Document, ClassifyStats) {
	var st ClassifyStats
	out := make([]records.Document, 0, len(docs))
	used := make(map[string]bool, len(docs))
	for _, d := range docs {
		rt := ClassifyDocument(d)
		if rt.Kind == records.RouteEssay {
			st.Essays++
			rt.Slug = uniqueSlug(rt.Slug, d.ID, func(s string) bool { return used["/essays/"+s+"/"] })
			rt.Permalink = "/essays/" + rt.Slug + "/"
		} else {
			st.Fixed++
			if used[rt.Permalink] {
				st.Shared++
			}
		}
		used[rt.Permalink] = true
		out = append(out, records.Document{TextDocument: d, Route: rt})
	}
	return out, st
}

// uniqueSlug returns slug when it is free, otherwise slug-<id>, then
// slug-<id>-2, slug-<id>-3 and so on.
func uniqueSlug(slug string, id int64, taken func(string) bool) string {
	if !taken(slug) {
		return slug
	}
	base := slug + "-" + strconv.FormatInt(id, 10)
	cand := base
	for n := 2; taken(cand); n++ {
		cand = base + "-" + strconv.Itoa(n)
	}
	return cand
}
