package network

import (
	"github.com/matsen/scinet/internal/population"
	"github.com/matsen/scinet/internal/record"
)

// CitationDiagnostics reports counts observed while building.
type CitationDiagnostics struct {
	RawReferences int // Rows in the reference table
	Internal      int // Rows with both endpoints in scope
}

// BuildCitation derives the citation graph among the papers in scope.
//
// Only reference rows whose citing and cited papers are both in scope become
// links; duplicate rows become duplicate links. Every in-scope paper is a
// node whether or not it has links.
func BuildCitation(scope []record.Paper, refs []record.PaperReferenceLink) (*CitationGraph, CitationDiagnostics) {
	diag := CitationDiagnostics{RawReferences: len(refs)}

	inScope := make(map[string]bool, len(scope))
	g := &CitationGraph{
		Nodes: make([]PaperNode, 0, len(scope)),
		Links: make([]CitationLink, 0),
	}
	for _, p := range scope {
		inScope[p.ID] = true
		g.Nodes = append(g.Nodes, PaperNode{
			ID:            p.ID,
			Title:         record.TitleOrUnknown(p.Title),
			Year:          p.Year,
			CitationCount: p.CitationCount,
		})
	}

	for _, r := range refs {
		if inScope[r.PaperID] && inScope[r.ReferenceID] {
			g.Links = append(g.Links, CitationLink{Source: r.PaperID, Target: r.ReferenceID})
		}
	}
	diag.Internal = len(g.Links)

	min, max := population.YearRange(scope)
	g.Metadata = CitationMetadata{
		TotalPapers:    len(scope),
		TotalCitations: len(g.Links),
		YearRange:      FormatYearRange(min, max),
	}
	return g, diag
}

// FilterByYear returns a copy of the graph restricted to papers published in
// [from, to]. Links survive only if both endpoints do; metadata is recomputed
// from the remaining nodes.
func (g *CitationGraph) FilterByYear(from, to int) *CitationGraph {
	out := &CitationGraph{
		Nodes: make([]PaperNode, 0),
		Links: make([]CitationLink, 0),
	}
	keep := make(map[string]bool)
	min, max := 0, 0
	for _, n := range g.Nodes {
		if n.Year < from || n.Year > to {
			continue
		}
		if len(out.Nodes) == 0 || n.Year < min {
			min = n.Year
		}
		if len(out.Nodes) == 0 || n.Year > max {
			max = n.Year
		}
		keep[n.ID] = true
		out.Nodes = append(out.Nodes, n)
	}
	for _, l := range g.Links {
		if keep[l.Source] && keep[l.Target] {
			out.Links = append(out.Links, l)
		}
	}
	out.Metadata = CitationMetadata{
		TotalPapers:    len(out.Nodes),
		TotalCitations: len(out.Links),
		YearRange:      FormatYearRange(min, max),
	}
	return out
}
