package repair

import (
	"os"
	"regexp"
)

// mdxExtensionPattern matches link targets still carrying a .mdx extension.
// Page paths in links and navigation are extension-free.
var mdxExtensionPattern = regexp.MustCompile(`([^()\s]+)\.mdx\)`)

// ExtensionStats summarizes an extension-cleanup run.
type ExtensionStats struct {
	FilesScanned int
	FilesChanged int
	LinksCleaned int
}

// StripExtensions removes .mdx extensions from link targets across the
// page tree.
func StripExtensions(root string, dryRun bool) (*ExtensionStats, error) {
	stats := &ExtensionStats{}
	err := walkPages(root, func(path string) error {
		raw, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		stats.FilesScanned++

		page := string(raw)
		cleaned := mdxExtensionPattern.ReplaceAllStringFunc(page, func(token string) string {
			stats.LinksCleaned++
			return mdxExtensionPattern.ReplaceAllString(token, "$1)")
		})

		if cleaned == page {
			return nil
		}
		stats.FilesChanged++
		if dryRun {
			return nil
		}
		return os.WriteFile(path, []byte(cleaned), 0o644)
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}
