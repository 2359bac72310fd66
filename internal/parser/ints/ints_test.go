package ints

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// TestLenient documents the fallback-to-zero parsing used for counters and
// flags: leading integer wins, garbage and NULL-ish input become 0.
func TestLenient(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want int64
	}{
		{"", 0},
		{"0", 0},
		{"1", 1},
		{" 42 ", 42},
		{"-7", -7},
		{"+3", 3},
		{"12abc", 12},
		{"abc", 0},
		{"-", 0},
		{"1.9", 1},
		{strings.Repeat("9", 30), 0},
	}
	for _, tt := range tests {
		if got := Lenient(tt.in); got != tt.want {
			t.Fatalf("Lenient(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestID(t *testing.T) {
	t.Parallel()

	if n, ok := ID("56"); !ok || n != 56 {
		t.Fatalf("ID(56) = %d,%v", n, ok)
	}
	if _, ok := ID("x56"); ok {
		t.Fatalf("ID(x56) should not be ok")
	}
	if _, ok := ID(""); ok {
		t.Fatalf("ID(empty) should not be ok")
	}
}

func TestFlag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in        string
		want      bool
		wantClean bool
	}{
		{"0", false, true},
		{"1", true, true},
		{"", false, true},
		{"2", true, false},
		{"-1", true, false},
	}
	for _, tt := range tests {
		got, clean := Flag(tt.in)
		if got != tt.want || clean != tt.wantClean {
			t.Fatalf("Flag(%q) = %v,%v want %v,%v", tt.in, got, clean, tt.want, tt.wantClean)
		}
	}
}

// TestFirstYear covers the year heuristic: the first four-digit run in range
// wins; wider runs and out-of-range values are skipped.
func TestFirstYear(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		in     string
		want   int
		wantOK bool
	}{
		{"plain", "Öl auf Leinwand, 2019", 2019, true},
		{"first wins", "1998 bis 2004", 1998, true},
		{"dimensions skipped", "120 x 90 cm, 2021", 2021, true},
		{"wider run skipped", "Inv. 120190", 0, false},
		{"out of range skipped", "Opus 3000, 1875, 2007", 2007, true},
		{"none", "untitled", 0, false},
	}
	for _, tt := range tests {
		got, ok := FirstYear(tt.in, 1900, 2099)
		if got != tt.want || ok != tt.wantOK {
			t.Fatalf("%s: FirstYear(%q) = %d,%v want %d,%v", tt.name, tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestDigitRuns(t *testing.T) {
	t.Parallel()

	if diff := cmp.Diff([]string{"120", "90", "2021"}, DigitRuns("120 x 90 cm (2021)")); diff != "" {
		t.Fatalf("DigitRuns mismatch (-want +got):\n%s", diff)
	}
}

func BenchmarkFirstYear(b *testing.B) {
	s := "Mischtechnik auf Papier | 70 x 50 cm, entstanden zwischen 2014 und 2016"
	for i := 0; i < b.N; i++ {
		_, _ = FirstYear(s, 1900, 2099)
	}
}
