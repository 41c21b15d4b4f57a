package nav

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json
var manifestSchema []byte

// Validate checks a built manifest against the navigation schema before it
// is written. A schema violation here means a builder bug, not bad input.
func Validate(manifest *Manifest) error {
	encoded, err := json.Marshal(manifest)
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("docs-schema.json", bytes.NewReader(manifestSchema)); err != nil {
		return fmt.Errorf("load navigation schema: %w", err)
	}
	compiled, err := compiler.Compile("docs-schema.json")
	if err != nil {
		return fmt.Errorf("compile navigation schema: %w", err)
	}

	var payload any
	if err := json.Unmarshal(encoded, &payload); err != nil {
		return fmt.Errorf("decode manifest for validation: %w", err)
	}
	if err := compiled.Validate(payload); err != nil {
		return fmt.Errorf("navigation manifest invalid: %w", err)
	}
	return nil
}

// WriteFile validates and writes the manifest as indented JSON.
func WriteFile(manifest *Manifest, path string) error {
	if err := Validate(manifest); err != nil {
		return err
	}
	encoded, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(encoded, '\n'), 0o644)
}

// LoadFile reads an existing manifest from disk, for the repair tools that
// post-process a previously generated manifest.
func LoadFile(path string) (*Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var manifest Manifest
	if err := json.Unmarshal(raw, &manifest); err != nil {
		return nil, fmt.Errorf("parse navigation manifest: %w", err)
	}
	normalizeEntries(&manifest)
	return &manifest, nil
}

// normalizeEntries converts the map[string]any page entries produced by
// generic JSON decoding back into Subgroup values.
func normalizeEntries(manifest *Manifest) {
	for t := range manifest.Navigation.Tabs {
		tab := &manifest.Navigation.Tabs[t]
		for g := range tab.Groups {
			pages := tab.Groups[g].Pages
			for i, entry := range pages {
				obj, ok := entry.(map[string]any)
				if !ok {
					continue
				}
				sub := Subgroup{}
				if name, ok := obj["group"].(string); ok {
					sub.Group = name
				}
				if nested, ok := obj["pages"].([]any); ok {
					sub.Pages = nested
				}
				pages[i] = sub
			}
		}
	}
}
