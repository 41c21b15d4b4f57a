package manifest

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"strings"
)

// MediaItem is one record of the media manifest (media.jsonl).
type MediaItem struct {
	MediaID         string `json:"media_id"`
	Caption         string `json:"caption"`
	OriginalName    string `json:"original_name"`
	Ext             string `json:"ext"`
	SourceArticleID string `json:"source_article_id"`
}

// LoadMedia parses line-delimited media records from r. Records without a
// media_id and malformed lines are skipped; the second return value counts
// the skips.
func LoadMedia(r io.Reader) ([]MediaItem, int) {
	var (
		items   []MediaItem
		skipped int
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var item MediaItem
		if err := json.Unmarshal([]byte(line), &item); err != nil {
			skipped++
			continue
		}
		if item.MediaID == "" {
			skipped++
			continue
		}
		items = append(items, item)
	}

	return items, skipped
}

// LoadMediaFile reads a media manifest from disk.
func LoadMediaFile(path string) ([]MediaItem, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()
	items, skipped := LoadMedia(f)
	return items, skipped, nil
}

// Captions maps media ids to their captions, dropping empty ones.
func Captions(items []MediaItem) map[string]string {
	captions := make(map[string]string, len(items))
	for _, item := range items {
		if item.Caption == "" {
			continue
		}
		captions[item.MediaID] = item.Caption
	}
	return captions
}
