package repair

import (
	"os"
	"regexp"
	"strings"

	"github.com/goliatone/go-docmigrate/internal/rewrite"
)

// framePattern captures a Frame block's img tag and an optional existing
// caption line.
var framePattern = regexp.MustCompile(`(?s)<Frame>\s*<img src="([^"]+)"([^/>]*)/>\s*(?:<p[^>]*>.*?</p>\s*)?</Frame>`)

// CaptionStats summarizes a caption-injection run.
type CaptionStats struct {
	FilesScanned     int
	FilesChanged     int
	CaptionsAdded    int
	AlreadyCaptioned int
}

// AddCaptions walks the page tree and injects manifest captions into Frame
// blocks whose image matches a captioned media item. Existing captions are
// never overwritten.
func AddCaptions(root string, captions map[string]string, dryRun bool) (*CaptionStats, error) {
	// filename -> caption, so a Frame's src basename can be matched
	byFilename := make(map[string]string, len(captions))
	for mediaID, caption := range captions {
		byFilename[rewrite.MediaFilename(mediaID)] = caption
	}

	stats := &CaptionStats{}
	err := walkPages(root, func(path string) error {
		raw, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		stats.FilesScanned++

		page := string(raw)
		fixed := framePattern.ReplaceAllStringFunc(page, func(block string) string {
			if strings.Contains(block, "<p") {
				stats.AlreadyCaptioned++
				return block
			}
			m := framePattern.FindStringSubmatch(block)
			src := m[1]
			caption, ok := byFilename[basename(src)]
			if !ok {
				return block
			}
			stats.CaptionsAdded++
			captionLine := "  <p align=\"center\"><em>" + escapeJSX(caption) + "</em></p>\n"
			return strings.Replace(block, "</Frame>", captionLine+"</Frame>", 1)
		})

		if fixed == page {
			return nil
		}
		stats.FilesChanged++
		if dryRun {
			return nil
		}
		return os.WriteFile(path, []byte(fixed), 0o644)
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func basename(src string) string {
	if idx := strings.LastIndex(src, "/"); idx >= 0 {
		return src[idx+1:]
	}
	return src
}

// escapeJSX keeps caption text safe inside an MDX element.
func escapeJSX(text string) string {
	return strings.NewReplacer(
		"{", "&#123;",
		"}", "&#125;",
		"<", "&lt;",
		">", "&gt;",
	).Replace(text)
}
