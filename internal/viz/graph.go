package viz

import (
	"fmt"

	"github.com/matsen/scinet/internal/network"
)

// maxLabelRunes bounds paper labels; the full title stays in the tooltip.
const maxLabelRunes = 40

// FromCollaboration converts an author network for rendering. Node size
// follows paperCount and edge width follows weight.
func FromCollaboration(g *network.CollaborationGraph) *GraphData {
	out := &GraphData{
		Title: fmt.Sprintf("Author Collaboration Network (%s)", g.Metadata.YearRange),
		Nodes: make([]Node, 0, len(g.Nodes)),
		Edges: make([]Edge, 0, len(g.Links)),
	}
	for _, n := range g.Nodes {
		out.Nodes = append(out.Nodes, Node{
			ID:         n.ID,
			Type:       NodeTypeAuthor,
			Label:      n.Name,
			PaperCount: n.PaperCount,
		})
	}
	for _, l := range g.Links {
		out.Edges = append(out.Edges, Edge{Source: l.Source, Target: l.Target, Weight: l.Weight})
	}
	return out
}

// FromCitation converts a citation network for rendering. Node size follows
// citationCount and edges point from citing to cited paper. Duplicate
// citation rows render as parallel edges.
func FromCitation(g *network.CitationGraph) *GraphData {
	out := &GraphData{
		Title: fmt.Sprintf("Paper Citation Network (%s)", g.Metadata.YearRange),
		Nodes: make([]Node, 0, len(g.Nodes)),
		Edges: make([]Edge, 0, len(g.Links)),
	}
	for _, n := range g.Nodes {
		out.Nodes = append(out.Nodes, Node{
			ID:            n.ID,
			Type:          NodeTypePaper,
			Label:         truncate(n.Title, maxLabelRunes),
			Title:         n.Title,
			Year:          n.Year,
			CitationCount: n.CitationCount,
		})
	}
	for _, l := range g.Links {
		out.Edges = append(out.Edges, Edge{Source: l.Source, Target: l.Target, Weight: 1, Directed: true})
	}
	return out
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
