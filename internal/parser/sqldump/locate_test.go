package sqldump

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"gallerymig/pkg/records"
)

const sampleDump = "-- MySQL dump\n" +
	"CREATE TABLE `koken_albums` (\n" +
	"  `id` int(9) NOT NULL,\n" +
	"  PRIMARY KEY (`id`)\n" +
	") ENGINE=MyISAM;\n" +
	"\n" +
	"INSERT INTO `koken_albums` (`id`, `title`) VALUES\n" +
	"(1, 'First'),\n" +
	"(2, 'Second (with parens); and semicolon');\n" +
	"INSERT INTO `koken_content` VALUES\n" +
	"(10, 'a.jpg'),\n" +
	"(11, 'b.jpg');\n" +
	"INSERT INTO `koken_albums` (`id`, `title`) VALUES\n" +
	"(3, 'Third');\n" +
	"UNLOCK TABLES;\n"

func ids(rows []records.RawRecord) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.String(0))
	}
	return out
}

// TestLocate_MultipleStatements verifies that a table split across several
// INSERT statements is collected in dump order without bleeding into the
// statements of other tables.
func TestLocate_MultipleStatements(t *testing.T) {
	t.Parallel()

	rows, stats := Locate(sampleDump, "koken_albums")
	if diff := cmp.Diff([]string{"1", "2", "3"}, ids(rows)); diff != "" {
		t.Fatalf("album ids mismatch (-want +got):\n%s", diff)
	}
	if stats.Statements != 2 || stats.Records != 3 || stats.Malformed != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if got := rows[1].String(1); got != "Second (with parens); and semicolon" {
		t.Fatalf("quoted parens/semicolon mangled: %q", got)
	}

	content, _ := Locate(sampleDump, "koken_content")
	if diff := cmp.Diff([]string{"10", "11"}, ids(content)); diff != "" {
		t.Fatalf("content ids mismatch (-want +got):\n%s", diff)
	}
}

// TestLocate_MissingTable verifies the structural-absence policy: no marker
// means an empty list, not an error or a nil surprise.
func TestLocate_MissingTable(t *testing.T) {
	t.Parallel()

	rows, stats := Locate(sampleDump, "koken_text")
	if rows == nil {
		t.Fatalf("expected empty non-nil slice")
	}
	if len(rows) != 0 || stats.Statements != 0 {
		t.Fatalf("expected nothing located, got rows=%d stats=%+v", len(rows), stats)
	}

	empty, _ := Locate("", "koken_albums")
	if len(empty) != 0 {
		t.Fatalf("empty dump should yield no rows")
	}
}

// TestLocate_SingleLineExtendedInsert covers dumps that put every record of
// a statement on one line.
func TestLocate_SingleLineExtendedInsert(t *testing.T) {
	t.Parallel()

	dump := "INSERT INTO `koken_join_albums_content` VALUES (1,56,223,1),(2,56,224,0),(3,57,9,'2');\n"
	rows, stats := Locate(dump, "koken_join_albums_content")
	if stats.Records != 3 {
		t.Fatalf("records = %d, want 3", stats.Records)
	}
	if got := rows[2].String(3); got != "2" {
		t.Fatalf("order of third row = %q, want 2", got)
	}
}

// TestLocate_MarkerInsideValueIsIgnored verifies that "INSERT INTO" inside a
// string value does not start a new statement.
func TestLocate_MarkerInsideValueIsIgnored(t *testing.T) {
	t.Parallel()

	dump := "INSERT INTO `koken_text` VALUES\n" +
		"(1, 'how to INSERT INTO `koken_albums` VALUES (9, ''x'')'),\n" +
		"(2, 'ok');\n"
	rows, _ := Locate(dump, "koken_text")
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	albums, _ := Locate(dump, "koken_albums")
	if len(albums) != 0 {
		t.Fatalf("marker inside a value must not be located, got %d rows", len(albums))
	}
}

// TestLocate_CaseAndQuoting covers lower-case keywords, unquoted and
// schema-qualified table names, and a statement without VALUES.
func TestLocate_CaseAndQuoting(t *testing.T) {
	t.Parallel()

	dump := strings.Join([]string{
		"insert into koken_albums values (1,'a');",
		"INSERT INTO `site`.`koken_albums` VALUES (2,'b');",
		"INSERT INTO `koken_albums` SELECT * FROM other;",
	}, "\n")

	rows, stats := Locate(dump, "koken_albums")
	if diff := cmp.Diff([]string{"1", "2"}, ids(rows)); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}
	if stats.Statements != 3 || stats.NoValues != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

// TestLocate_EmptyGroupCountedMalformed verifies that an empty group is
// skipped and counted.
func TestLocate_EmptyGroupCountedMalformed(t *testing.T) {
	t.Parallel()

	rows, stats := Locate("INSERT INTO `t` VALUES (),(1,2);", "t")
	if len(rows) != 1 || stats.Malformed != 1 {
		t.Fatalf("rows=%d stats=%+v", len(rows), stats)
	}
}

func TestDump_TablesAndCache(t *testing.T) {
	t.Parallel()

	d := ParseDump(sampleDump)
	if diff := cmp.Diff([]string{"koken_albums", "koken_content"}, d.Tables()); diff != "" {
		t.Fatalf("tables mismatch (-want +got):\n%s", diff)
	}

	a, _ := d.Records("koken_albums")
	b, _ := d.Records("koken_albums")
	if len(a) != len(b) || &a[0] != &b[0] {
		t.Fatalf("expected cached rows on second lookup")
	}
}

// TestLocate_TruncatedStatementIsSkipped verifies that a statement whose
// table name runs into the next INSERT marker is skipped instead of
// spilling into the following statement.
func TestLocate_TruncatedStatementIsSkipped(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		dump string
	}{
		{"bare marker", "INSERT INTO\nINSERT INTO `t` VALUES (1,2);\n"},
		{"unterminated backtick", "INSERT INTO `broken VALUES (9,9);\nINSERT INTO `t` VALUES (1,2);\n"},
		{"name at end of statement", "INSERT INTO t\nINSERT INTO `t` VALUES (1,2);\n"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rows, _ := Locate(tt.dump, "t")
			if diff := cmp.Diff([]string{"1"}, ids(rows)); diff != "" {
				t.Fatalf("ids mismatch (-want +got):\n%s", diff)
			}
		})
	}

	_, stats := Locate("INSERT INTO t\nINSERT INTO `t` VALUES (1,2);\n", "t")
	if stats.Statements != 2 || stats.NoValues != 1 || stats.Records != 1 {
		t.Fatalf("stats = %+v", stats)
	}
}
