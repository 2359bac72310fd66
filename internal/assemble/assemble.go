// Package assemble joins eligible galleries to their ordered assets and
// derives the best-effort metadata handed to the content emitter.
package assemble

import (
	"strconv"

	"gallerymig/internal/join"
	"gallerymig/pkg/records"
)

// Stats are the assembly diagnostics.
type Stats struct {
	GalleriesSeen     int `json:"galleries_seen" yaml:"galleries_seen"`
	GalleriesEligible int `json:"galleries_eligible" yaml:"galleries_eligible"`
	GalleriesSkipped  int `json:"galleries_skipped" yaml:"galleries_skipped"`
	// GalleriesEmpty counts eligible galleries that ended up without assets.
	GalleriesEmpty int `json:"galleries_empty" yaml:"galleries_empty"`
	AssetsMatched  int `json:"assets_matched" yaml:"assets_matched"`
	// AssetsMissing counts associations whose asset id has no asset record.
	AssetsMissing int `json:"assets_missing" yaml:"assets_missing"`
	// AssetsUnusable counts associations whose asset exists but is deleted
	// or has no filename.
	AssetsUnusable int `json:"assets_unusable" yaml:"assets_unusable"`
}

// Assemble produces one record per eligible gallery, in input order.
// Association entries that point at a missing or unusable asset are dropped
// and counted. Nothing here fails; the returned slice is never nil.
func Assemble(galleries []records.Gallery, assets []records.Asset, res *join.Resolver) ([]records.AssembledGallery, Stats) {
	var st Stats

	byID := make(map[int64]records.Asset, len(assets))
	for _, a := range assets {
		byID[a.ID] = a
	}

	out := make([]records.AssembledGallery, 0, len(galleries))
	slugs := make(map[string]bool, len(galleries))

	for _, g := range galleries {
		st.GalleriesSeen++
		if !g.Eligible() {
			st.GalleriesSkipped++
			continue
		}
		st.GalleriesEligible++

		entries := make([]records.AssetEntry, 0)
		for _, assoc := range res.Lookup(g.ID) {
			a, ok := byID[assoc.AssetID]
			if !ok {
				st.AssetsMissing++
				continue
			}
			if !a.Usable() {
				st.AssetsUnusable++
				continue
			}
			st.AssetsMatched++
			entries = append(entries, entry(g, a, assoc.Order))
		}
		if len(entries) == 0 {
			st.GalleriesEmpty++
		}

		slug := uniqueSlug(gallerySlug(g), g.ID, func(s string) bool { return slugs[s] })
		slugs[slug] = true

		ag := records.AssembledGallery{
			Gallery:   g,
			Slug:      slug,
			Permalink: "/works/" + slug + "/",
			Assets:    entries,
			Metadata:  ExtractMetadata(g.Title, g.Description),
			Featured:  g.Featured || len(entries) > 0,
		}
		if len(entries) > 0 {
			ag.FeaturedImage = "images/" + entries[0].ImageName
		}
		out = append(out, ag)
	}
	return out, st
}

func entry(g records.Gallery, a records.Asset, order int) records.AssetEntry {
	short, image := ShortName(a.ID, a.Filename, a.Title)
	alt := a.Title
	if alt == "" {
		alt = a.Caption
	}
	if alt == "" {
		alt = g.Title
	}
	return records.AssetEntry{
		AssetID:   a.ID,
		Order:     order,
		Title:     a.Title,
		Filename:  a.Filename,
		Caption:   a.Caption,
		Alt:       alt,
		ShortName: short,
		ImageName: image,
	}
}

func gallerySlug(g records.Gallery) string {
	if s := Slugify(g.Title); s != "" {
		return s
	}
	if s := Slugify(g.Slug); s != "" {
		return s
	}
	return "gallery-" + strconv.FormatInt(g.ID, 10)
}
