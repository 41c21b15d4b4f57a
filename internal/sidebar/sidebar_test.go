package sidebar

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestClean(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Reports Overview", "Reports Overview"},
		{"Understanding the Deal Pipeline Report", "the Deal Pipeline"},
		{"How to Configure Notification Routing", "How to Configure"},
		{"Settings: Team Management", "Settings Team Management"},
	}
	for _, tc := range cases {
		if got := Clean(tc.in); got != tc.want {
			t.Errorf("Clean(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCleanBounded(t *testing.T) {
	long := "A Very Long Title About Configuring Every Possible Setting"
	got := Clean(long)
	if len([]rune(got)) > 28 {
		t.Fatalf("cleaned title exceeds budget: %q (%d)", got, len([]rune(got)))
	}
}

func TestCleanPreservesHowToPrefix(t *testing.T) {
	got := Clean("How to Delete a Report")
	if !strings.HasPrefix(got, "How to ") {
		t.Fatalf("prefix lost: %q", got)
	}
}

func TestUpsertInserts(t *testing.T) {
	page := "---\ntitle: \"A Long Title\"\ndescription: Something.\n---\n\nBody.\n"
	updated, changed := Upsert(page, "Short")
	if !changed {
		t.Fatal("expected change")
	}
	if !strings.Contains(updated, "sidebarTitle: \"Short\"") {
		t.Fatalf("sidebarTitle not inserted:\n%s", updated)
	}
	// inserted inside the front-matter block, after the title line
	fmEnd := strings.Index(updated[4:], "---")
	if !strings.Contains(updated[:fmEnd+4], "sidebarTitle") {
		t.Fatalf("sidebarTitle landed outside front matter:\n%s", updated)
	}
}

func TestUpsertReplaces(t *testing.T) {
	page := "---\ntitle: T\nsidebarTitle: \"Old\"\n---\n\nBody.\n"
	updated, changed := Upsert(page, "New")
	if !changed {
		t.Fatal("expected change")
	}
	if strings.Contains(updated, "Old") || !strings.Contains(updated, "sidebarTitle: \"New\"") {
		t.Fatalf("replacement failed:\n%s", updated)
	}
	if strings.Count(updated, "sidebarTitle") != 1 {
		t.Fatalf("duplicate sidebarTitle:\n%s", updated)
	}
}

func TestUpsertNoFrontMatter(t *testing.T) {
	page := "Just a body.\n"
	updated, changed := Upsert(page, "X")
	if changed || updated != page {
		t.Fatal("page without front matter must be untouched")
	}
}

func TestProcessFileShortensLongTitle(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page.mdx")
	page := "---\ntitle: \"Understanding the Advanced Notification Routing Rules\"\ndescription: D.\n---\n\nBody.\n"
	if err := os.WriteFile(path, []byte(page), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := ProcessFile(path, false)
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}
	if !res.Changed || res.SidebarTitle == "" {
		t.Fatalf("expected a shortened title, got %+v", res)
	}

	raw, _ := os.ReadFile(path)
	if !strings.Contains(string(raw), "sidebarTitle:") {
		t.Fatalf("file not updated:\n%s", raw)
	}
}

func TestProcessFileDryRun(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page.mdx")
	page := "---\ntitle: \"Understanding the Advanced Notification Routing Rules\"\n---\n\nBody.\n"
	if err := os.WriteFile(path, []byte(page), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := ProcessFile(path, true)
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}
	if !res.Changed {
		t.Fatal("dry run should still report the change")
	}

	raw, _ := os.ReadFile(path)
	if strings.Contains(string(raw), "sidebarTitle:") {
		t.Fatal("dry run must not write")
	}
}

func TestProcessFileShortTitleUntouched(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page.mdx")
	page := "---\ntitle: \"Deal Page\"\n---\n\nBody.\n"
	if err := os.WriteFile(path, []byte(page), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := ProcessFile(path, false)
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}
	if res.Changed {
		t.Fatal("short titles need no sidebar title")
	}
}

func TestAuditWalksTree(t *testing.T) {
	dir := t.TempDir()
	long := "---\ntitle: \"Understanding the Advanced Notification Routing Rules\"\n---\n\nBody.\n"
	short := "---\ntitle: \"FAQ\"\n---\n\nBody.\n"
	if err := os.MkdirAll(filepath.Join(dir, "radix", "deals"), 0o755); err != nil {
		t.Fatal(err)
	}
	os.WriteFile(filepath.Join(dir, "radix", "deals", "long.mdx"), []byte(long), 0o644)
	os.WriteFile(filepath.Join(dir, "radix", "deals", "short.mdx"), []byte(short), 0o644)
	os.WriteFile(filepath.Join(dir, "radix", "notes.txt"), []byte(long), 0o644)

	results, err := Audit(dir, false)
	if err != nil {
		t.Fatalf("audit failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 repaired page, got %d: %+v", len(results), results)
	}
}
