package mdtext

import (
	"strings"
	"testing"
)

func TestFirstHeading(t *testing.T) {
	body := []byte("Some intro.\n\n## Queue Setup\n\n# Later Heading\n")
	if got := FirstHeading(body); got != "Queue Setup" {
		t.Fatalf("unexpected heading %q", got)
	}
	if got := FirstHeading([]byte("no headings here\n")); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}

func TestFirstParagraphSkipsStubs(t *testing.T) {
	body := []byte("See below.\n\nThis paragraph is long enough to serve as a description.\n")
	got := FirstParagraph(body)
	if !strings.HasPrefix(got, "This paragraph") {
		t.Fatalf("stub paragraph not skipped: %q", got)
	}
}

func TestDescriptionTruncates(t *testing.T) {
	long := strings.Repeat("All work and no play makes docs dull. ", 10)
	got := Description([]byte(long), "Title")
	if len([]rune(got)) > 160 {
		t.Fatalf("description too long: %d runes", len([]rune(got)))
	}
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("expected ellipsis marker: %q", got)
	}
}

func TestDescriptionFallsBackToTitle(t *testing.T) {
	if got := Description([]byte("Short.\n"), "Queue Setup"); got != "Learn about Queue Setup" {
		t.Fatalf("unexpected fallback %q", got)
	}
	if got := Description(nil, ""); got != "Learn about this topic" {
		t.Fatalf("unexpected fallback %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Fatalf("short values must pass through, got %q", got)
	}
	got := Truncate("a long value needing a cut somewhere", 10)
	if len([]rune(got)) > 10 {
		t.Fatalf("truncation overflow: %q", got)
	}
}
