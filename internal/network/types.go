// Package network builds the author collaboration and paper citation graphs.
//
// Both graphs share the canonical envelope {nodes, links, metadata} consumed
// by the visualization front end. Builders take read-only inputs and return
// a graph they own exclusively; nothing here touches the filesystem except
// the explicit Read/Write helpers.
package network

import "fmt"

// Graph file names in the output directory.
const (
	AuthorNetworkFile   = "author_network.json"
	CitationNetworkFile = "citation_network.json"
	AuthorEdgesFile     = "author_edges.csv"
	AuthorD3File        = "author_network_d3.json"
)

// AuthorNode is an author with at least one collaboration.
type AuthorNode struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PaperCount int    `json:"paperCount"` // In-scope membership rows, not distinct papers
}

// CollaborationLink is an undirected, weighted co-authorship edge.
// Source sorts before Target.
type CollaborationLink struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Weight int    `json:"weight"`
}

// CollaborationMetadata summarizes a collaboration graph.
type CollaborationMetadata struct {
	TotalPapers         int    `json:"total_papers"`
	TotalAuthors        int    `json:"total_authors"`
	TotalCollaborations int    `json:"total_collaborations"`
	YearRange           string `json:"year_range"`
}

// CollaborationGraph is the author_network.json document.
type CollaborationGraph struct {
	Nodes    []AuthorNode          `json:"nodes"`
	Links    []CollaborationLink   `json:"links"`
	Metadata CollaborationMetadata `json:"metadata"`
}

// PaperNode is an in-scope paper.
type PaperNode struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Year          int    `json:"year"`
	CitationCount int    `json:"citationCount"`
}

// CitationLink is a directed edge: Source cites Target.
type CitationLink struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// CitationMetadata summarizes a citation graph.
type CitationMetadata struct {
	TotalPapers    int    `json:"total_papers"`
	TotalCitations int    `json:"total_citations"`
	YearRange      string `json:"year_range"`
}

// CitationGraph is the citation_network.json document.
type CitationGraph struct {
	Nodes    []PaperNode      `json:"nodes"`
	Links    []CitationLink   `json:"links"`
	Metadata CitationMetadata `json:"metadata"`
}

// FormatYearRange renders a year range as "min-max".
func FormatYearRange(min, max int) string {
	return fmt.Sprintf("%d-%d", min, max)
}

// IsEmpty returns true if the graph has no nodes.
func (g *CollaborationGraph) IsEmpty() bool {
	return len(g.Nodes) == 0
}

// IsEmpty returns true if the graph has no nodes.
func (g *CitationGraph) IsEmpty() bool {
	return len(g.Nodes) == 0
}
