// Package resolve maps article metadata to deterministic output paths and
// guards path uniqueness across a migration run.
package resolve

import (
	"regexp"
	"strings"

	slug "github.com/goliatone/go-slug"

	"github.com/goliatone/go-docmigrate/internal/identity"
	"github.com/goliatone/go-docmigrate/pkg/interfaces"
)

const (
	// Extension applied to every materialized content file.
	Extension = ".mdx"
	// maxSlugLength bounds filename slugs derived from titles.
	maxSlugLength = 50
	// defaultSegment replaces empty or fully-sanitized-away path segments.
	defaultSegment = "general"
)

var (
	nonWordRun   = regexp.MustCompile(`[^a-z0-9_-]+`)
	hyphenRun    = regexp.MustCompile(`-{2,}`)
	specialChars = regexp.MustCompile(`[^\w\s-]`)
	spaceRun     = regexp.MustCompile(`[\s-]+`)
)

// Resolve computes the output path for the given metadata. It is a pure
// function: identical metadata always yields an identical path. Collision
// handling lives in Assigner, not here.
//
// The shape is <product>/<category>[/<section>]/<slug>.mdx where category
// falls back to section, then to "general". When category itself came from
// the section, the section segment is not repeated.
func Resolve(meta interfaces.Metadata) string {
	product := strings.ToLower(strings.TrimSpace(meta.Product))
	if product == "" {
		product = defaultSegment
	}

	category := strings.TrimSpace(meta.Category)
	section := strings.TrimSpace(meta.Section)
	if category == "" {
		category = section
		section = ""
	}

	segments := []string{product, Sanitize(category)}
	if section != "" {
		segments = append(segments, Sanitize(section))
	}
	segments = append(segments, TitleSlug(meta.Title))

	return strings.Join(segments, "/") + Extension
}

// Sanitize normalizes a path segment: lowercase, runs of non-word
// characters collapsed to single hyphens, repeated hyphens collapsed,
// leading/trailing hyphens trimmed. Empty results default to "general".
// Sanitize is idempotent.
func Sanitize(segment string) string {
	lowered := strings.ToLower(strings.TrimSpace(segment))
	cleaned := nonWordRun.ReplaceAllString(lowered, "-")
	cleaned = hyphenRun.ReplaceAllString(cleaned, "-")
	cleaned = strings.Trim(cleaned, "-")
	if cleaned == "" {
		return defaultSegment
	}
	return cleaned
}

// TitleSlug derives a URL-safe filename slug from a title, bounded to
// maxSlugLength characters.
func TitleSlug(title string) string {
	normalized, err := slug.Normalize(title)
	if err != nil || normalized == "" {
		normalized = fallbackSlug(title)
	}
	if normalized == "" {
		return defaultSegment
	}
	if len(normalized) > maxSlugLength {
		normalized = normalized[:maxSlugLength]
	}
	return strings.Trim(normalized, "-")
}

// fallbackSlug mirrors the slug rules for inputs go-slug rejects: strip
// special characters, collapse whitespace/hyphen runs into single hyphens.
func fallbackSlug(title string) string {
	lowered := specialChars.ReplaceAllString(strings.ToLower(title), "")
	return strings.Trim(spaceRun.ReplaceAllString(lowered, "-"), "-")
}

// PagePath strips the content extension from an output path, producing the
// form used in links and the navigation manifest.
func PagePath(outputPath string) string {
	return strings.TrimSuffix(outputPath, Extension)
}

// Assigner tracks path ownership across a run. Assignment is sequential by
// design: collision detection depends on a globally visible set of assigned
// paths.
type Assigner struct {
	owners map[string]string // path -> uid
}

// NewAssigner builds an empty assignment set.
func NewAssigner() *Assigner {
	return &Assigner{owners: map[string]string{}}
}

// Assign claims path for uid. If another article already owns the path, a
// short suffix derived from the uid is appended before the extension and
// the collided flag is set. Re-assigning the same uid returns its existing
// path unchanged.
func (a *Assigner) Assign(uid, path string) (assigned string, collided bool) {
	owner, taken := a.owners[path]
	if !taken || owner == uid {
		a.owners[path] = uid
		return path, false
	}

	base := strings.TrimSuffix(path, Extension)
	candidate := base + "-" + identity.ShortSuffix(uid) + Extension
	for i := 2; ; i++ {
		owner, taken := a.owners[candidate]
		if !taken || owner == uid {
			break
		}
		candidate = base + "-" + identity.ShortSuffix(uid) + "-" + itoa(i) + Extension
	}
	a.owners[candidate] = uid
	return candidate, true
}

// Assigned reports whether a path has an owner.
func (a *Assigner) Assigned(path string) bool {
	_, ok := a.owners[path]
	return ok
}

// Len reports the number of assigned paths.
func (a *Assigner) Len() int {
	return len(a.owners)
}

func itoa(n int) string {
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	if len(digits) == 0 {
		return "0"
	}
	return string(digits)
}
