// Package viz renders the published networks as standalone HTML pages.
package viz

// Node types.
const (
	NodeTypeAuthor = "author"
	NodeTypePaper  = "paper"
)

// GraphData contains all data needed to render the visualization.
type GraphData struct {
	Title string `json:"-"`
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node represents an author or a paper.
type Node struct {
	ID   string `json:"id"`
	Type string `json:"type"`

	// Display
	Label string `json:"label"`

	// Paper-specific fields (for tooltips)
	Title         string `json:"title,omitempty"`
	Year          int    `json:"year,omitempty"`
	CitationCount int    `json:"citationCount"`

	// Author-specific fields
	PaperCount int `json:"paperCount"`
}

// Edge is a collaboration (undirected, weighted) or a citation (directed).
type Edge struct {
	Source   string `json:"source"`
	Target   string `json:"target"`
	Weight   int    `json:"weight"`
	Directed bool   `json:"directed"`
}

// IsEmpty returns true if the graph has no nodes.
func (g *GraphData) IsEmpty() bool {
	return len(g.Nodes) == 0
}
