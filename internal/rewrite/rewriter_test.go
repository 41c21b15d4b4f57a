package rewrite

import (
	"bytes"
	"testing"

	"github.com/goliatone/go-docmigrate/pkg/interfaces"
)

func testLookup() *PathLookup {
	paths := NewPathLookup()
	paths.Register("38790618700820", "deal-page", "radix/deals/deal-page")
	paths.Register("11112222333344", "queue-setup", "rediq/queues/queue-setup")
	return paths
}

func TestRewriteStructuredReference(t *testing.T) {
	r := New(testLookup(), nil)

	body := []byte("See {{article:deal-page [38790618700820].md}} for details.")
	got := string(r.Rewrite(body, interfaces.Metadata{Product: "radix"}))

	want := "See [deal-page](radix/deals/deal-page) for details."
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestRewriteStructuredReferenceBySlug(t *testing.T) {
	r := New(testLookup(), nil)

	// Bracketed id misses the lookup; the slug still resolves.
	body := []byte("{{article:queue-setup [99999999999999].md}}")
	got := string(r.Rewrite(body, interfaces.Metadata{}))

	want := "[queue-setup](rediq/queues/queue-setup)"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestRewriteLegacyLinkKeepsDisplayText(t *testing.T) {
	r := New(testLookup(), nil)

	body := []byte("Read [the deal docs](exports/deal-page [38790618700820].md) first.")
	got := string(r.Rewrite(body, interfaces.Metadata{}))

	want := "Read [the deal docs](radix/deals/deal-page) first."
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestRewriteHelpCenterURL(t *testing.T) {
	r := New(testLookup(), nil)

	body := []byte("([help center](https://support.example.com/hc/en-us/articles/38790618700820-deal-page))")
	got := string(r.Rewrite(body, interfaces.Metadata{}))

	want := "([help center](radix/deals/deal-page))"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestRewriteMediaReference(t *testing.T) {
	r := New(testLookup(), nil)

	body := []byte("![grid](kb://media/sha1:abc123def)")
	got := string(r.Rewrite(body, interfaces.Metadata{Product: "Radix"}))

	want := "![grid](/images/radix/abc123def.png)"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestRewriteMediaReferenceKeepsExtension(t *testing.T) {
	r := New(testLookup(), nil)

	body := []byte("![shot](kb://media/screenshots/grid.jpg)")
	got := string(r.Rewrite(body, interfaces.Metadata{}))

	want := "![shot](/images/general/grid.jpg)"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestRewriteDirectMediaLink(t *testing.T) {
	r := New(testLookup(), nil)

	body := []byte("[download](kb/media/exports/report.gif)")
	got := string(r.Rewrite(body, interfaces.Metadata{Product: "rediq"}))

	want := "[download](/images/rediq/report.gif)"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestRewriteFailOpen(t *testing.T) {
	r := New(testLookup(), nil)

	body := []byte("Unresolvable: {{article:missing [55555555555555].md}} and " +
		"[gone](old/missing [55555555555555].md) and " +
		"https://support.example.com/hc/en-us/articles/55555555555555")
	got := r.Rewrite(body, interfaces.Metadata{})

	if !bytes.Equal(got, body) {
		t.Fatalf("unresolved references must remain untouched:\n%s\nvs\n%s", body, got)
	}
}

func TestRewriteRoundTripUnaffectedContent(t *testing.T) {
	r := New(testLookup(), nil)

	body := []byte("# Plain Doc\n\nJust text with a [normal link](https://example.com/page)\nand an ![image](/images/radix/local.png).\n")
	got := r.Rewrite(body, interfaces.Metadata{Product: "radix"})

	if !bytes.Equal(got, body) {
		t.Fatalf("body without legacy references changed:\n%s\nvs\n%s", body, got)
	}
}

func TestRewriteNilLookupLeavesArticleRefs(t *testing.T) {
	r := New(nil, nil)

	body := []byte("{{article:deal-page [38790618700820].md}}")
	got := r.Rewrite(body, interfaces.Metadata{})

	if !bytes.Equal(got, body) {
		t.Fatalf("empty lookup must leave references untouched, got %s", got)
	}
}

func TestMediaFilename(t *testing.T) {
	cases := map[string]string{
		"sha1:abc123":          "abc123.png",
		"abc123":               "abc123.png",
		"screenshots/grid.jpg": "grid.jpg",
		"sha256:deadbeef.webp": "deadbeef.webp",
	}
	for in, want := range cases {
		if got := MediaFilename(in); got != want {
			t.Errorf("MediaFilename(%q) = %q, want %q", in, got, want)
		}
	}
}
