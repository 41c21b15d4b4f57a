package nav

import "strings"

// Nest restructures each group's flat page list into one level of
// subgroups, inferred from the third path segment
// (<product>/<category>/<section>/<page>). Pages without a section stay at
// the top level. First-appearance order is preserved for both pages and
// subgroups.
func Nest(manifest *Manifest) {
	for t := range manifest.Navigation.Tabs {
		tab := &manifest.Navigation.Tabs[t]
		for g := range tab.Groups {
			tab.Groups[g].Pages = nestPages(tab.Groups[g].Pages)
		}
	}
}

func nestPages(pages []any) []any {
	var out []any
	subgroups := map[string]*Subgroup{}
	var subgroupOrder []string

	for _, entry := range pages {
		page, ok := entry.(string)
		if !ok {
			// already nested, keep as-is
			out = append(out, entry)
			continue
		}

		segments := strings.Split(page, "/")
		if len(segments) < 4 {
			out = append(out, page)
			continue
		}

		section := segments[2]
		sub, exists := subgroups[section]
		if !exists {
			sub = &Subgroup{Group: DisplayName(section)}
			subgroups[section] = sub
			subgroupOrder = append(subgroupOrder, section)
			// placeholder keeps the subgroup at its first-appearance slot
			out = append(out, sub)
		}
		sub.Pages = append(sub.Pages, page)
	}

	// materialize subgroup pointers as values
	for i, entry := range out {
		if sub, ok := entry.(*Subgroup); ok {
			out[i] = Subgroup{Group: sub.Group, Pages: sub.Pages}
		}
	}
	return out
}
