package types

// Document is the OpenAPI 3.0 document assembled from model replies.
type Document struct {
	OpenAPI    string                    `json:"openapi" yaml:"openapi"`
	Info       Info                      `json:"info" yaml:"info"`
	Paths      map[string]map[string]any `json:"paths" yaml:"paths"`
	Components map[string]map[string]any `json:"components,omitempty" yaml:"components,omitempty"`
}

// Info is the OpenAPI info object.
type Info struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Version     string `json:"version" yaml:"version"`
}

// NewDocument returns the empty skeleton for a run.
func NewDocument(title, description string) *Document {
	return &Document{
		OpenAPI: "3.0.0",
		Info: Info{
			Title:       title,
			Description: description,
			Version:     "1.0.0",
		},
		Paths:      map[string]map[string]any{},
		Components: map[string]map[string]any{},
	}
}

// ModelReply is the shape a model reply must have to be merged.
type ModelReply struct {
	Paths      map[string]map[string]any `json:"paths,omitempty"`
	Components map[string]map[string]any `json:"components,omitempty"`
}
