package nav

import (
	"sort"
	"strings"
)

// Page-priority adjustments. Negative pulls a page toward the front of its
// group, positive pushes it back; unmatched pages keep their relative order
// via a stable sort on the base score (their current index).
const (
	overviewBoost       = -600
	gettingStartedBoost = -500
	deletePenalty       = 60
	betaPenalty         = 120
	faqPenalty          = 250
)

// Order re-sorts pages within every group and subgroup so overview and
// getting-started material leads while FAQ, troubleshooting, beta, and
// deletion topics trail.
func Order(manifest *Manifest) {
	for t := range manifest.Navigation.Tabs {
		tab := &manifest.Navigation.Tabs[t]
		for g := range tab.Groups {
			tab.Groups[g].Pages = orderPages(tab.Groups[g].Pages)
		}
	}
}

func orderPages(pages []any) []any {
	type scored struct {
		entry any
		score int
	}

	items := make([]scored, len(pages))
	for i, entry := range pages {
		items[i] = scored{entry: entry, score: i + pageScore(entry)}
	}

	sort.SliceStable(items, func(i, j int) bool { return items[i].score < items[j].score })

	out := make([]any, len(items))
	for i, item := range items {
		if sub, ok := item.entry.(Subgroup); ok {
			sub.Pages = orderPages(sub.Pages)
			item.entry = sub
		}
		out[i] = item.entry
	}
	return out
}

// pageScore derives the priority adjustment from a page's final segment.
// Subgroups are scored by their display name so a "Getting Started"
// subgroup floats like a getting-started page would.
func pageScore(entry any) int {
	var name string
	switch v := entry.(type) {
	case string:
		segments := strings.Split(v, "/")
		name = segments[len(segments)-1]
	case Subgroup:
		name = strings.ToLower(strings.ReplaceAll(v.Group, " ", "-"))
	default:
		return 0
	}

	name = strings.ToLower(name)
	switch {
	case strings.Contains(name, "overview"):
		return overviewBoost
	case strings.Contains(name, "getting-started"):
		return gettingStartedBoost
	case strings.Contains(name, "faq"), strings.Contains(name, "troubleshooting"):
		return faqPenalty
	case strings.Contains(name, "beta"):
		return betaPenalty
	case strings.Contains(name, "delet"):
		return deletePenalty
	}
	return 0
}
