package interfaces

// Metadata is the normalized article metadata the pipeline operates on,
// whether it came from a metadata record, the manifest, or was synthesized
// from content.
type Metadata struct {
	Title            string   `json:"title"`
	Description      string   `json:"description,omitempty"`
	Product          string   `json:"product,omitempty"`
	Category         string   `json:"category,omitempty"`
	Section          string   `json:"section,omitempty"`
	Tags             []string `json:"tags,omitempty"`
	MediaIDs         []string `json:"media_ids,omitempty"`
	SuggestedQueries []string `json:"suggested_queries,omitempty"`
}
