package transform

import (
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-docmigrate/internal/mdtext"
	"github.com/goliatone/go-docmigrate/pkg/interfaces"
)

// FrontMatter is the structured header emitted at the top of every page.
type FrontMatter struct {
	Title        string `yaml:"title"`
	Description  string `yaml:"description"`
	Tag          string `yaml:"tag,omitempty"`
	SidebarTitle string `yaml:"sidebarTitle,omitempty"`
	Icon         string `yaml:"icon,omitempty"`
}

const (
	// sidebarThreshold is the title length beyond which a shortened
	// sidebarTitle is emitted.
	sidebarThreshold = 30
	// sidebarBuildLimit bounds the word-accumulated short form.
	sidebarBuildLimit = 22
	// sidebarPassthrough keeps short-enough titles verbatim.
	sidebarPassthrough = 25
)

// categoryIcons maps normalized categories to sidebar icons.
var categoryIcons = map[string]string{
	"reports":         "chart-line",
	"settings":        "gear",
	"tutorials":       "graduation-cap",
	"troubleshooting": "wrench",
	"api":             "code",
	"getting-started": "rocket",
	"general":         "book",
}

// Build assembles a page's front matter from its metadata and body.
// Title and description are always populated; the remaining fields are
// emitted only when they carry information.
func Build(meta interfaces.Metadata, body []byte) FrontMatter {
	fm := FrontMatter{
		Title:       strings.TrimSpace(meta.Title),
		Description: strings.TrimSpace(meta.Description),
	}
	if fm.Title == "" {
		fm.Title = "Untitled"
	}
	if fm.Description == "" {
		fm.Description = mdtext.Description(body, fm.Title)
	}

	if len(meta.Tags) > 0 && strings.TrimSpace(meta.Tags[0]) != "" {
		fm.Tag = strings.ToUpper(strings.TrimSpace(meta.Tags[0]))
	}

	if len([]rune(fm.Title)) > sidebarThreshold {
		fm.SidebarTitle = ShortTitle(fm.Title)
	}

	category := strings.ToLower(strings.TrimSpace(meta.Category))
	if icon, ok := categoryIcons[category]; ok {
		fm.Icon = icon
	}

	return fm
}

// ShortTitle builds a sidebar-length form of a long title: words are
// accumulated while the result stays under the build limit, with an
// ellipsis marker unless the accumulated form is already short enough to
// stand on its own.
func ShortTitle(title string) string {
	words := strings.Fields(title)
	var built string
	for _, word := range words {
		candidate := built
		if candidate != "" {
			candidate += " "
		}
		candidate += word
		if len([]rune(candidate)) >= sidebarBuildLimit {
			break
		}
		built = candidate
	}
	if built == "" && len(words) > 0 {
		built = words[0]
	}
	if len([]rune(title)) <= sidebarPassthrough {
		return title
	}
	if built == title {
		return built
	}
	return built + "..."
}

// Render serializes the front matter block, delimiters included, ready to
// prepend to a page body.
func (fm FrontMatter) Render() (string, error) {
	encoded, err := yaml.Marshal(fm)
	if err != nil {
		return "", err
	}
	return "---\n" + string(encoded) + "---\n\n", nil
}
