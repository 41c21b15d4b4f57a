package nav

import (
	"sort"
	"strings"
)

// groupDisplayOverrides fixes labels the mechanical title-casing gets wrong.
var groupDisplayOverrides = map[string]string{
	"faqs":            "FAQs",
	"api reference":   "API Reference",
	"how tos":         "How-Tos",
	"sso and saml":    "SSO & SAML",
	"crm basics":      "CRM Basics",
	"ai features":     "AI Features",
	"import export":   "Import & Export",
	"user management": "User Management",
}

// desiredGroupOrder pins well-known groups to the front of their tab, in
// this order. Groups not listed keep their relative order after the pinned
// ones.
var desiredGroupOrder = []string{
	"Overview",
	"Getting Started",
	"Tutorials",
	"Reports",
	"Settings",
	"Troubleshooting",
	"FAQ",
}

// Format normalizes group display names and applies the preferred group
// ordering within each tab.
func Format(manifest *Manifest) {
	for t := range manifest.Navigation.Tabs {
		tab := &manifest.Navigation.Tabs[t]

		for g := range tab.Groups {
			tab.Groups[g].Group = formatGroupName(tab.Groups[g].Group)
		}

		rank := func(name string) int {
			for i, desired := range desiredGroupOrder {
				if strings.EqualFold(name, desired) {
					return i
				}
			}
			return len(desiredGroupOrder)
		}
		sort.SliceStable(tab.Groups, func(i, j int) bool {
			return rank(tab.Groups[i].Group) < rank(tab.Groups[j].Group)
		})
	}
}

func formatGroupName(name string) string {
	spaced := strings.ReplaceAll(name, "-", " ")
	if override, ok := groupDisplayOverrides[strings.ToLower(spaced)]; ok {
		return override
	}

	words := strings.Fields(spaced)
	for i, word := range words {
		lower := strings.ToLower(word)
		// small words stay lowercase unless they lead
		if i > 0 && (lower == "and" || lower == "or" || lower == "the" || lower == "of" || lower == "to" || lower == "a") {
			words[i] = lower
			continue
		}
		runes := []rune(word)
		words[i] = strings.ToUpper(string(runes[0])) + strings.ToLower(string(runes[1:]))
	}
	return strings.Join(words, " ")
}
