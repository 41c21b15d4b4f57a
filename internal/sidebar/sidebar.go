// Package sidebar audits and repairs sidebarTitle entries across a
// generated page tree: long titles get a cleaned, bounded short form
// written into the front-matter block.
package sidebar

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const (
	// maxTitleLength is the sidebar display budget.
	maxTitleLength = 28
	// needsShorteningAt is the title length that triggers an upsert.
	needsShorteningAt = 30
)

// fillerWords are dropped from titles when shortening; they carry no
// information in a sidebar context.
var fillerWords = map[string]bool{
	"report":        true,
	"reports":       true,
	"overview":      true,
	"guide":         true,
	"tutorial":      true,
	"introduction":  true,
	"using":         true,
	"understanding": true,
}

var (
	titlePattern        = regexp.MustCompile(`(?m)^title:\s*["']?(.*?)["']?\s*$`)
	sidebarTitlePattern = regexp.MustCompile(`(?m)^sidebarTitle:\s*["']?(.*?)["']?\s*$`)
	frontMatterPattern  = regexp.MustCompile(`(?s)^---\n(.*?)\n---`)
	spaceRun            = regexp.MustCompile(`\s+`)
)

// Clean produces the sidebar form of a title: separators normalized,
// filler words dropped, then truncated at a word boundary to the display
// budget. A "How to " prefix is meaningful and survives cleaning.
func Clean(title string) string {
	title = strings.TrimSpace(title)
	title = strings.NewReplacer(":", " ", "–", "-", "—", "-").Replace(title)
	title = spaceRun.ReplaceAllString(title, " ")

	howTo := strings.HasPrefix(strings.ToLower(title), "how to ")
	rest := title
	if howTo {
		rest = title[len("How to "):]
	}

	var kept []string
	for _, word := range strings.Fields(rest) {
		if fillerWords[strings.ToLower(strings.Trim(word, ".,!?"))] {
			continue
		}
		kept = append(kept, word)
	}
	if len(kept) == 0 {
		kept = strings.Fields(rest)
	}

	cleaned := strings.Join(kept, " ")
	if howTo {
		cleaned = "How to " + cleaned
	}

	if len([]rune(cleaned)) <= maxTitleLength {
		return cleaned
	}

	// truncate at a word boundary
	words := strings.Fields(cleaned)
	var built string
	for _, word := range words {
		candidate := built
		if candidate != "" {
			candidate += " "
		}
		candidate += word
		if len([]rune(candidate)) > maxTitleLength {
			break
		}
		built = candidate
	}
	if built == "" {
		built = string([]rune(cleaned)[:maxTitleLength])
	}
	return built
}

// Upsert sets sidebarTitle in a raw page's front-matter block, replacing an
// existing entry or inserting after the title line. Pages without a
// front-matter block are returned unchanged.
func Upsert(page string, sidebarTitle string) (string, bool) {
	fm := frontMatterPattern.FindString(page)
	if fm == "" {
		return page, false
	}

	escaped := strings.ReplaceAll(sidebarTitle, `"`, `\"`)
	line := `sidebarTitle: "` + escaped + `"`

	var updated string
	if sidebarTitlePattern.MatchString(fm) {
		updated = sidebarTitlePattern.ReplaceAllString(fm, line)
	} else {
		loc := titlePattern.FindStringIndex(fm)
		if loc == nil {
			return page, false
		}
		updated = fm[:loc[1]] + "\n" + line + fm[loc[1]:]
	}

	if updated == fm {
		return page, false
	}
	return strings.Replace(page, fm, updated, 1), true
}

// FileResult records one page's audit/repair outcome.
type FileResult struct {
	Path         string
	Title        string
	SidebarTitle string
	Changed      bool
}

// ProcessFile shortens one page's sidebar title when its title exceeds the
// threshold. Dry-run skips the write but still reports the outcome.
func ProcessFile(path string, dryRun bool) (FileResult, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return FileResult{Path: path}, err
	}
	page := string(raw)

	fm := frontMatterPattern.FindString(page)
	if fm == "" {
		return FileResult{Path: path}, nil
	}
	m := titlePattern.FindStringSubmatch(fm)
	if m == nil {
		return FileResult{Path: path}, nil
	}
	title := m[1]

	result := FileResult{Path: path, Title: title}
	if len([]rune(title)) < needsShorteningAt {
		return result, nil
	}

	short := Clean(title)
	if short == title {
		return result, nil
	}
	result.SidebarTitle = short

	updated, changed := Upsert(page, short)
	if !changed {
		return result, nil
	}
	result.Changed = true

	if dryRun {
		return result, nil
	}
	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		return result, err
	}
	return result, nil
}

// Audit walks a page tree and repairs every page needing a shortened
// sidebar title, returning per-file outcomes for reporting.
func Audit(root string, dryRun bool) ([]FileResult, error) {
	var results []FileResult
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(p) != ".mdx" {
			return nil
		}
		res, err := ProcessFile(p, dryRun)
		if err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
		if res.Changed || res.SidebarTitle != "" {
			results = append(results, res)
		}
		return nil
	})
	return results, err
}
