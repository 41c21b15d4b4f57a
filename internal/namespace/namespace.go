// Package namespace infers the product partition an item belongs to from
// its source article identifier. The two partitions double as navigation
// tabs and as subtrees of the local image store.
package namespace

import "strings"

const (
	// Radix is the default product namespace.
	Radix = "radix"
	// Rediq is the secondary product namespace.
	Rediq = "rediq"
)

// Infer derives the namespace for a source article id. The boolean reports
// whether the id actually carried a recognizable marker; callers should
// surface a warning and fall back to Radix when it did not, so unknown id
// shapes can be classified manually instead of silently defaulting.
func Infer(sourceArticleID string) (string, bool) {
	lowered := strings.ToLower(sourceArticleID)
	switch {
	case strings.Contains(lowered, ":rediq:"):
		return Rediq, true
	case strings.Contains(lowered, ":radix:"):
		return Radix, true
	case strings.Contains(lowered, "rediq"):
		return Rediq, true
	case strings.Contains(lowered, "radix"):
		return Radix, true
	}
	return Radix, false
}

// All enumerates the known namespaces in display order.
func All() []string {
	return []string{Radix, Rediq}
}
