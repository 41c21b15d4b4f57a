package resolve

import (
	"strings"
	"testing"

	"github.com/goliatone/go-docmigrate/pkg/interfaces"
)

func TestResolveFullMetadata(t *testing.T) {
	meta := interfaces.Metadata{
		Title:    "Deal Page",
		Product:  "Radix",
		Category: "Deals",
		Section:  "Managing Deals",
	}

	got := Resolve(meta)
	want := "radix/deals/managing-deals/deal-page.mdx"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestResolveSectionFallsBackToCategory(t *testing.T) {
	meta := interfaces.Metadata{
		Title:   "Deal Page",
		Product: "Radix",
		Section: "Deals",
	}

	got := Resolve(meta)
	want := "radix/deals/deal-page.mdx"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestResolveDefaultsEmptySegments(t *testing.T) {
	got := Resolve(interfaces.Metadata{Title: "Orphan Page"})
	want := "general/general/orphan-page.mdx"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestResolveDeterministic(t *testing.T) {
	meta := interfaces.Metadata{
		Title:    "Configuring Webhooks & Callbacks",
		Product:  "Rediq",
		Category: "API / Integrations",
	}

	first := Resolve(meta)
	for i := 0; i < 5; i++ {
		if got := Resolve(meta); got != first {
			t.Fatalf("resolve not deterministic: %q vs %q", first, got)
		}
	}
}

func TestSanitize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Getting Started", "getting-started"},
		{"API / Integrations", "api-integrations"},
		{"  --weird--  ", "weird"},
		{"!!!", "general"},
		{"", "general"},
		{"already-clean", "already-clean"},
	}

	for _, tc := range cases {
		if got := Sanitize(tc.in); got != tc.want {
			t.Errorf("Sanitize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	inputs := []string{"Getting Started", "API / Integrations", "!!!", "a--b"}
	for _, in := range inputs {
		once := Sanitize(in)
		if twice := Sanitize(once); twice != once {
			t.Errorf("Sanitize not idempotent for %q: %q -> %q", in, once, twice)
		}
	}
}

func TestTitleSlugCapsLength(t *testing.T) {
	long := strings.Repeat("word ", 30)
	got := TitleSlug(long)
	if len(got) > 50 {
		t.Fatalf("slug exceeds cap: %d chars", len(got))
	}
	if strings.HasSuffix(got, "-") || strings.HasPrefix(got, "-") {
		t.Fatalf("slug has dangling hyphen: %q", got)
	}
}

func TestTitleSlugSpecialCharacters(t *testing.T) {
	got := TitleSlug("What's new? (2024 edition)")
	if strings.ContainsAny(got, "'?() ") {
		t.Fatalf("slug retains special characters: %q", got)
	}
}

func TestPagePath(t *testing.T) {
	if got := PagePath("radix/deals/deal-page.mdx"); got != "radix/deals/deal-page" {
		t.Fatalf("unexpected page path %q", got)
	}
}

func TestAssignerCollision(t *testing.T) {
	assigner := NewAssigner()

	first, collided := assigner.Assign("uid-1", "radix/general/faq.mdx")
	if collided {
		t.Fatal("first assignment should not collide")
	}
	if first != "radix/general/faq.mdx" {
		t.Fatalf("unexpected path %q", first)
	}

	second, collided := assigner.Assign("uid-2", "radix/general/faq.mdx")
	if !collided {
		t.Fatal("second assignment should collide")
	}
	if second == first {
		t.Fatalf("collision produced duplicate path %q", second)
	}
	if !strings.HasPrefix(second, "radix/general/faq-") || !strings.HasSuffix(second, ".mdx") {
		t.Fatalf("suffix should land before extension, got %q", second)
	}
	if assigner.Len() != 2 {
		t.Fatalf("expected 2 owned paths, got %d", assigner.Len())
	}
}

func TestAssignerCollisionDeterministic(t *testing.T) {
	run := func() string {
		assigner := NewAssigner()
		assigner.Assign("uid-1", "radix/general/faq.mdx")
		path, _ := assigner.Assign("uid-2", "radix/general/faq.mdx")
		return path
	}

	first := run()
	for i := 0; i < 3; i++ {
		if got := run(); got != first {
			t.Fatalf("collision suffix not deterministic: %q vs %q", first, got)
		}
	}
}

func TestAssignerReassignSameUID(t *testing.T) {
	assigner := NewAssigner()
	assigner.Assign("uid-1", "radix/general/faq.mdx")

	path, collided := assigner.Assign("uid-1", "radix/general/faq.mdx")
	if collided {
		t.Fatal("re-assigning the owner should not collide")
	}
	if path != "radix/general/faq.mdx" {
		t.Fatalf("unexpected path %q", path)
	}
}
