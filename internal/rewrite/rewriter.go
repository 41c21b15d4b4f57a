// Package rewrite resolves embedded legacy references in article bodies into
// site-relative links. Every rule fails open: a reference that cannot be
// resolved is left byte-for-byte as it was.
package rewrite

import (
	"path"
	"regexp"
	"strings"

	"github.com/goliatone/go-docmigrate/internal/logging"
	"github.com/goliatone/go-docmigrate/pkg/interfaces"
)

// PathLookup maps legacy identifiers to page paths that were actually
// assigned during this run. Only assigned paths ever appear here, which is
// what keeps rewritten links from dangling.
type PathLookup struct {
	byNumericID map[string]string
	bySlug      map[string]string
}

// NewPathLookup builds an empty lookup.
func NewPathLookup() *PathLookup {
	return &PathLookup{
		byNumericID: map[string]string{},
		bySlug:      map[string]string{},
	}
}

// Register associates an article's identifiers with its assigned page path
// (extension-free). Empty identifiers are ignored; first registration wins.
func (p *PathLookup) Register(numericID, slug, pagePath string) {
	if pagePath == "" {
		return
	}
	if numericID != "" {
		if _, exists := p.byNumericID[numericID]; !exists {
			p.byNumericID[numericID] = pagePath
		}
	}
	if slug != "" {
		if _, exists := p.bySlug[slug]; !exists {
			p.bySlug[slug] = pagePath
		}
	}
}

// ByNumericID resolves a page path from an embedded numeric id.
func (p *PathLookup) ByNumericID(id string) (string, bool) {
	pagePath, ok := p.byNumericID[id]
	return pagePath, ok
}

// BySlug resolves a page path from a legacy slug.
func (p *PathLookup) BySlug(slug string) (string, bool) {
	pagePath, ok := p.bySlug[slug]
	return pagePath, ok
}

var (
	// {{article:my-slug [38790618700820].md}}
	structuredRefPattern = regexp.MustCompile(`\{\{article:([^}]+)\}\}`)
	// [text](some/dir/my-slug [38790618700820].md)
	legacyLinkPattern = regexp.MustCompile(`\[([^\]]+)\]\(([^)]*?\[(\d+)\]\.md)\)`)
	// https://support.example.com/hc/en-us/articles/38790618700820-deal-page
	helpCenterPattern = regexp.MustCompile(`https?://[^\s)]*/articles/(\d+)[^\s)]*`)
	// kb://media/sha1:abc123 or kb://media/screenshots/grid.png
	mediaRefPattern = regexp.MustCompile(`kb://media/([^)\s]+)`)
	// [text](kb/media/screenshots/grid.png)
	mediaLinkPattern = regexp.MustCompile(`\]\(kb/media/([^)\s]+)\)`)
	// bracketed numeric id embedded in a legacy reference value
	bracketIDPattern = regexp.MustCompile(`\[(\d+)\]`)
	// content-hash scheme prefix on a media id, e.g. "sha1:"
	hashSchemePattern = regexp.MustCompile(`^[a-z0-9]+:`)
)

// Rewriter applies the reference rules against a lookup of assigned paths.
type Rewriter struct {
	paths  *PathLookup
	logger interfaces.Logger
}

// New builds a rewriter. A nil lookup means every article reference misses,
// which leaves all article references untouched.
func New(paths *PathLookup, logger interfaces.Logger) *Rewriter {
	if paths == nil {
		paths = NewPathLookup()
	}
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Rewriter{paths: paths, logger: logger}
}

// Rewrite resolves article and media references in body. The article and
// media regex families are disjoint, so rule order between them does not
// matter; both run before any cosmetic component conversion.
func (r *Rewriter) Rewrite(body []byte, meta interfaces.Metadata) []byte {
	text := string(body)

	text = r.rewriteStructuredRefs(text)
	text = r.rewriteLegacyLinks(text)
	text = r.rewriteHelpCenterURLs(text)
	text = r.rewriteMediaRefs(text, meta)

	return []byte(text)
}

// rewriteStructuredRefs handles {{article:<legacy-filename>}}. Resolution is
// numeric-id-first, slug-second; success replaces the whole token with a
// markdown link whose text is the resolved path's final segment.
func (r *Rewriter) rewriteStructuredRefs(text string) string {
	return structuredRefPattern.ReplaceAllStringFunc(text, func(token string) string {
		value := structuredRefPattern.FindStringSubmatch(token)[1]
		pagePath, ok := r.resolveLegacyValue(value)
		if !ok {
			r.logger.Warn("unresolved article reference", "reference", token)
			return token
		}
		return "[" + path.Base(pagePath) + "](" + pagePath + ")"
	})
}

// rewriteLegacyLinks handles [text](.../slug [id].md), replacing only the
// link target and keeping the author's display text.
func (r *Rewriter) rewriteLegacyLinks(text string) string {
	return legacyLinkPattern.ReplaceAllStringFunc(text, func(token string) string {
		m := legacyLinkPattern.FindStringSubmatch(token)
		display, target, numericID := m[1], m[2], m[3]

		pagePath, ok := r.paths.ByNumericID(numericID)
		if !ok {
			pagePath, ok = r.paths.BySlug(slugFromLegacyTarget(target))
		}
		if !ok {
			r.logger.Warn("unresolved legacy link", "target", target)
			return token
		}
		return "[" + display + "](" + pagePath + ")"
	})
}

// rewriteHelpCenterURLs handles external help-center URLs embedding an
// article id. Replacement happens only when the id maps to an assigned path.
func (r *Rewriter) rewriteHelpCenterURLs(text string) string {
	return helpCenterPattern.ReplaceAllStringFunc(text, func(token string) string {
		numericID := helpCenterPattern.FindStringSubmatch(token)[1]
		pagePath, ok := r.paths.ByNumericID(numericID)
		if !ok {
			return token
		}
		return pagePath
	})
}

// rewriteMediaRefs handles kb://media/<id> tokens and kb/media/<path> link
// targets, pointing both at the local image tree for the current article's
// product namespace.
func (r *Rewriter) rewriteMediaRefs(text string, meta interfaces.Metadata) string {
	product := strings.ToLower(strings.TrimSpace(meta.Product))
	if product == "" {
		product = "general"
	}

	text = mediaRefPattern.ReplaceAllStringFunc(text, func(token string) string {
		id := mediaRefPattern.FindStringSubmatch(token)[1]
		return "/images/" + product + "/" + MediaFilename(id)
	})

	text = mediaLinkPattern.ReplaceAllStringFunc(text, func(token string) string {
		target := mediaLinkPattern.FindStringSubmatch(token)[1]
		return "](/images/" + product + "/" + MediaFilename(target) + ")"
	})

	return text
}

// resolveLegacyValue resolves a legacy filename value like
// "my-slug [38790618700820].md" — numeric id first, then slug.
func (r *Rewriter) resolveLegacyValue(value string) (string, bool) {
	if m := bracketIDPattern.FindStringSubmatch(value); m != nil {
		if pagePath, ok := r.paths.ByNumericID(m[1]); ok {
			return pagePath, true
		}
	}
	if slug := slugFromLegacyTarget(value); slug != "" {
		if pagePath, ok := r.paths.BySlug(slug); ok {
			return pagePath, true
		}
	}
	return "", false
}

// slugFromLegacyTarget extracts the slug portion of a legacy filename or
// relative path: final segment, bracketed id and extension stripped.
func slugFromLegacyTarget(target string) string {
	base := path.Base(strings.TrimSpace(target))
	base = bracketIDPattern.ReplaceAllString(base, "")
	base = strings.TrimSuffix(base, ".md")
	return strings.TrimSpace(base)
}

// MediaFilename normalizes a media id or path into a local image filename:
// content-hash scheme prefixes are stripped, the final path segment is
// taken, and a .png extension is applied when none is present.
func MediaFilename(id string) string {
	name := path.Base(strings.TrimSpace(id))
	name = hashSchemePattern.ReplaceAllString(name, "")
	if path.Ext(name) == "" {
		name += ".png"
	}
	return name
}
