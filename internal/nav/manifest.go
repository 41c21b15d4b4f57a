// Package nav builds, post-processes, and validates the site navigation
// manifest (docs.json): tabs per product, groups per category, page paths
// without extension.
package nav

import (
	"sort"
	"strings"

	"github.com/goliatone/go-docmigrate/internal/articles"
	"github.com/goliatone/go-docmigrate/internal/namespace"
	"github.com/goliatone/go-docmigrate/internal/resolve"
)

// Manifest is the navigation manifest document.
type Manifest struct {
	Schema     string     `json:"$schema"`
	Theme      string     `json:"theme"`
	Name       string     `json:"name"`
	Colors     Colors     `json:"colors"`
	Navigation Navigation `json:"navigation"`
}

// Colors carries the site theming palette.
type Colors struct {
	Primary string `json:"primary"`
	Light   string `json:"light"`
	Dark    string `json:"dark"`
}

// Navigation is the tab tree.
type Navigation struct {
	Tabs []Tab `json:"tabs"`
}

// Tab is one product tab.
type Tab struct {
	Tab    string  `json:"tab"`
	Groups []Group `json:"groups"`
}

// Group holds page entries: either path strings or one level of nested
// subgroup objects.
type Group struct {
	Group string `json:"group"`
	Pages []any  `json:"pages"`
}

// Subgroup is the nested page container inferred from a third path segment.
type Subgroup struct {
	Group string `json:"group"`
	Pages []any  `json:"pages"`
}

const (
	schemaMarker = "https://mintlify.com/docs.json"
	defaultTheme = "mint"
)

var defaultColors = Colors{
	Primary: "#0D9373",
	Light:   "#07C983",
	Dark:    "#0D9373",
}

// Build assembles a manifest from the migrated records: one tab per product
// namespace, one group per category, pages sorted by title.
func Build(siteName string, records []*articles.Record) *Manifest {
	type pageEntry struct {
		path  string
		title string
	}

	// product -> category -> pages
	tree := map[string]map[string][]pageEntry{}
	for _, rec := range records {
		if rec.OutputPath == "" {
			continue
		}
		pagePath := resolve.PagePath(rec.OutputPath)
		segments := strings.Split(pagePath, "/")
		if len(segments) < 2 {
			continue
		}
		product, category := segments[0], segments[1]

		if tree[product] == nil {
			tree[product] = map[string][]pageEntry{}
		}
		tree[product][category] = append(tree[product][category], pageEntry{
			path:  pagePath,
			title: rec.Meta.Title,
		})
	}

	manifest := &Manifest{
		Schema:     schemaMarker,
		Theme:      defaultTheme,
		Name:       siteName,
		Colors:     defaultColors,
		Navigation: Navigation{Tabs: []Tab{}},
	}

	products := make([]string, 0, len(tree))
	for product := range tree {
		products = append(products, product)
	}
	orderProducts(products)

	for _, product := range products {
		categories := tree[product]

		names := make([]string, 0, len(categories))
		for name := range categories {
			names = append(names, name)
		}
		sort.Strings(names)

		tab := Tab{Tab: DisplayName(product)}
		for _, category := range names {
			pages := categories[category]
			sort.SliceStable(pages, func(i, j int) bool { return pages[i].title < pages[j].title })

			group := Group{Group: DisplayName(category)}
			for _, page := range pages {
				group.Pages = append(group.Pages, page.path)
			}
			tab.Groups = append(tab.Groups, group)
		}
		manifest.Navigation.Tabs = append(manifest.Navigation.Tabs, tab)
	}

	return manifest
}

// orderProducts sorts products with the known namespaces first, in their
// canonical order, then any others alphabetically.
func orderProducts(products []string) {
	rank := func(product string) int {
		for i, ns := range namespace.All() {
			if product == ns {
				return i
			}
		}
		return len(namespace.All())
	}
	sort.SliceStable(products, func(i, j int) bool {
		ri, rj := rank(products[i]), rank(products[j])
		if ri != rj {
			return ri < rj
		}
		return products[i] < products[j]
	})
}

// DisplayName turns a path segment into a display label: hyphens to spaces,
// words title-cased, known initialisms upper-cased.
func DisplayName(segment string) string {
	overrides := map[string]string{
		"api":             "API",
		"faq":             "FAQ",
		"getting-started": "Getting Started",
	}
	if name, ok := overrides[strings.ToLower(segment)]; ok {
		return name
	}
	return articles.TitleFromSegment(segment)
}
