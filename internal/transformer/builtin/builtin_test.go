package builtin

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"gallerymig/pkg/records"
)

func TestUnixDate(t *testing.T) {
	t.Parallel()

	want := time.Date(2014, 3, 5, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		in   records.Field
		want *time.Time
	}{
		{"null", records.Null, nil},
		{"empty", records.Text(""), nil},
		{"zero", records.Text("0"), nil},
		{"negative", records.Text("-5"), nil},
		{"garbage", records.Text("soon"), nil},
		{"seconds", records.Text("1394020800"), &want},
	}
	for _, tt := range tests {
		got := UnixDate(tt.in)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Fatalf("%s: UnixDate mismatch (-want +got):\n%s", tt.name, diff)
		}
	}
}

func TestIntAndFlag(t *testing.T) {
	t.Parallel()

	if Int(records.Null) != 0 || Int(records.Text("12")) != 12 || Int(records.Text("x")) != 0 {
		t.Fatalf("Int fallback broken")
	}
	if v, clean := Flag(records.Null); v || !clean {
		t.Fatalf("Flag(NULL) = %v,%v", v, clean)
	}
	if v, clean := Flag(records.Text("3")); !v || clean {
		t.Fatalf("Flag(3) = %v,%v", v, clean)
	}
}

// TestDeDup_Policies locks in winner selection and output ordering.
func TestDeDup_Policies(t *testing.T) {
	t.Parallel()

	type rec struct {
		ID  int64
		Tag string
	}
	in := func() []rec {
		return []rec{{1, "a"}, {2, "b"}, {1, "c"}, {3, "d"}, {2, "e"}}
	}
	key := func(r rec) int64 { return r.ID }

	tests := []struct {
		policy string
		want   []rec
	}{
		{"", []rec{{1, "c"}, {3, "d"}, {2, "e"}}},
		{KeepLast, []rec{{1, "c"}, {3, "d"}, {2, "e"}}},
		{KeepFirst, []rec{{1, "a"}, {2, "b"}, {3, "d"}}},
	}
	for _, tt := range tests {
		got := DeDup[rec]{Key: key, Policy: tt.policy}.Apply(in())
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Fatalf("policy %q mismatch (-want +got):\n%s", tt.policy, diff)
		}
	}

	unique := []rec{{1, "a"}, {2, "b"}}
	if got := (DeDup[rec]{Key: key}).Apply(unique); len(got) != 2 {
		t.Fatalf("unique input should pass through")
	}
}

func TestRequire(t *testing.T) {
	t.Parallel()

	got := Require[string]{Keep: func(s string) bool { return s != "" }}.Apply([]string{"a", "", "b"})
	if diff := cmp.Diff([]string{"a", "b"}, got); diff != "" {
		t.Fatalf("Require mismatch (-want +got):\n%s", diff)
	}
	if got := (Require[string]{}).Apply([]string{""}); len(got) != 1 {
		t.Fatalf("nil Keep should pass everything through")
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	gs := NormalizeGallery{}.Apply([]records.Gallery{{
		Title:       "  Rot&nbsp;&amp;\nBlau ",
		Description: "Acryl,\n Leinwand | 80 x 60 cm<br>[koken_photo id=1]",
	}})
	if gs[0].Title != "Rot & Blau" {
		t.Fatalf("gallery title = %q", gs[0].Title)
	}
	if gs[0].Description != "Acryl, Leinwand | 80 x 60 cm<br>" {
		t.Fatalf("gallery description = %q", gs[0].Description)
	}

	as := NormalizeAsset{}.Apply([]records.Asset{{Filename: " a.jpg\n", Caption: "<em>Detail</em>"}})
	if as[0].Filename != "a.jpg" || as[0].Caption != "Detail" {
		t.Fatalf("asset = %+v", as[0])
	}

	if got := Label("AtelierÂ Nord"); got != "Atelier Nord" {
		t.Fatalf("Label mojibake = %q", got)
	}
}
