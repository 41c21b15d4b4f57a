// Package transform applies the cosmetic MDX conversions: callout
// components, stepped-list grouping, FAQ synthesis, frame-wrapped images,
// and structured front matter.
package transform

import (
	"regexp"
	"strings"
)

var (
	notePattern    = regexp.MustCompile(`(?m)^> \*\*Note:\*\* (.+)$`)
	warningPattern = regexp.MustCompile(`(?m)^> \*\*Warning:\*\* (.+)$`)
	tipPattern     = regexp.MustCompile(`(?m)^> \*\*Tip:\*\* (.+)$`)

	// standalone image on its own line
	standaloneImagePattern = regexp.MustCompile(`(?m)^!\[([^\]]*)\]\(([^)]+)\)$`)

	// numbered list item: "1. Do the thing"
	numberedItemPattern = regexp.MustCompile(`^(\d+)\.\s+(.+)$`)
)

// minStepsItems is the smallest numbered list worth converting to a Steps
// component. Shorter lists read fine as plain markdown.
const minStepsItems = 3

// Components applies the callout, frame, and steps conversions in order.
// Reference rewriting must already have happened: these rules assume link
// targets are final.
func Components(body []byte) []byte {
	text := string(body)

	text = notePattern.ReplaceAllString(text, "<Note>\n$1\n</Note>")
	text = warningPattern.ReplaceAllString(text, "<Warning>\n$1\n</Warning>")
	text = tipPattern.ReplaceAllString(text, "<Tip>\n$1\n</Tip>")

	text = wrapStandaloneImages(text)
	text = groupNumberedSteps(text)

	return []byte(text)
}

// wrapStandaloneImages converts bare image lines into Frame blocks.
func wrapStandaloneImages(text string) string {
	return standaloneImagePattern.ReplaceAllStringFunc(text, func(line string) string {
		m := standaloneImagePattern.FindStringSubmatch(line)
		alt, src := m[1], m[2]
		return "<Frame>\n  <img src=\"" + src + "\" alt=\"" + alt + "\" />\n</Frame>"
	})
}

// groupNumberedSteps wraps consecutive numbered-list runs of minStepsItems
// or more into a Steps component, one Step per item with the item text as
// the step title. Shorter runs and runs inside code fences are left alone.
func groupNumberedSteps(text string) string {
	lines := strings.Split(text, "\n")
	var out []string

	inFence := false
	i := 0
	for i < len(lines) {
		line := lines[i]
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inFence = !inFence
		}
		if inFence || numberedItemPattern.FindStringSubmatch(line) == nil {
			out = append(out, line)
			i++
			continue
		}

		// collect the run of numbered items
		var items []string
		j := i
		for j < len(lines) {
			m := numberedItemPattern.FindStringSubmatch(lines[j])
			if m == nil {
				break
			}
			items = append(items, m[2])
			j++
		}

		if len(items) < minStepsItems {
			out = append(out, lines[i:j]...)
			i = j
			continue
		}

		out = append(out, "<Steps>")
		for _, item := range items {
			out = append(out, "  <Step title=\""+escapeAttr(strings.TrimSpace(item))+"\">")
			out = append(out, "  </Step>")
		}
		out = append(out, "</Steps>")
		i = j
	}

	return strings.Join(out, "\n")
}

// FAQ renders suggested queries into an AccordionGroup appended under a
// heading. Returns "" when there is nothing to render.
func FAQ(queries []string) string {
	var kept []string
	for _, q := range queries {
		if strings.TrimSpace(q) != "" {
			kept = append(kept, strings.TrimSpace(q))
		}
	}
	if len(kept) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("## Frequently Asked Questions\n\n<AccordionGroup>\n")
	for _, q := range kept {
		b.WriteString("  <Accordion title=\"" + escapeAttr(q) + "\">\n")
		b.WriteString("    " + q + "\n")
		b.WriteString("  </Accordion>\n")
	}
	b.WriteString("</AccordionGroup>\n")
	return b.String()
}

func escapeAttr(value string) string {
	return strings.NewReplacer(`"`, "&quot;", "<", "&lt;", ">", "&gt;").Replace(value)
}
