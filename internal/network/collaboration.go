package network

import (
	"github.com/matsen/scinet/internal/population"
	"github.com/matsen/scinet/internal/record"
)

// pairKey is an unordered author pair, canonicalized so that a <= b.
type pairKey struct {
	a, b string
}

func newPairKey(x, y string) pairKey {
	if y < x {
		x, y = y, x
	}
	return pairKey{a: x, b: y}
}

// CollaborationDiagnostics reports counts observed while building.
type CollaborationDiagnostics struct {
	ScopedRows     int // Membership rows whose paper is in scope
	PaperGroups    int // In-scope papers with at least one author row
	MultiAuthor    int // Groups with two or more rows
	MissingAuthors int // Edge endpoints absent from the author table
}

// BuildCollaboration derives the co-authorship graph for the papers in scope.
//
// Every pair of rows within a paper's membership group contributes one unit of
// weight to the pair of authors they name, so duplicate membership rows
// inflate weights and paper counts exactly as they appear in the source. An
// author listed twice on one paper pairs with itself, producing a self-loop.
// Authors with no collaborations are not part of the graph. Endpoints missing
// from the author table are left out of the node list; their edges remain.
func BuildCollaboration(scope []record.Paper, links []record.PaperAuthorLink, authors []record.Author) (*CollaborationGraph, CollaborationDiagnostics) {
	var diag CollaborationDiagnostics

	inScope := make(map[string]bool, len(scope))
	for _, p := range scope {
		inScope[p.ID] = true
	}

	// Group membership rows by paper, in order of first appearance.
	var paperOrder []string
	groups := make(map[string][]string)
	rowCounts := make(map[string]int)
	for _, l := range links {
		if !inScope[l.PaperID] {
			continue
		}
		diag.ScopedRows++
		if _, seen := groups[l.PaperID]; !seen {
			paperOrder = append(paperOrder, l.PaperID)
		}
		groups[l.PaperID] = append(groups[l.PaperID], l.AuthorID)
		rowCounts[l.AuthorID]++
	}
	diag.PaperGroups = len(paperOrder)

	weights := make(map[pairKey]int)
	var pairOrder []pairKey
	for _, paperID := range paperOrder {
		group := groups[paperID]
		if len(group) < 2 {
			continue
		}
		diag.MultiAuthor++
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				key := newPairKey(group[i], group[j])
				if _, seen := weights[key]; !seen {
					pairOrder = append(pairOrder, key)
				}
				weights[key]++
			}
		}
	}

	byID := make(map[string]record.Author, len(authors))
	for _, a := range authors {
		if _, dup := byID[a.ID]; !dup {
			byID[a.ID] = a
		}
	}

	g := &CollaborationGraph{
		Nodes: make([]AuthorNode, 0),
		Links: make([]CollaborationLink, 0, len(pairOrder)),
	}
	placed := make(map[string]bool)
	addNode := func(id string) {
		if placed[id] {
			return
		}
		placed[id] = true
		a, ok := byID[id]
		if !ok {
			diag.MissingAuthors++
			return
		}
		g.Nodes = append(g.Nodes, AuthorNode{ID: id, Name: a.DisplayName, PaperCount: rowCounts[id]})
	}

	for _, key := range pairOrder {
		g.Links = append(g.Links, CollaborationLink{Source: key.a, Target: key.b, Weight: weights[key]})
		addNode(key.a)
		addNode(key.b)
	}

	min, max := population.YearRange(scope)
	g.Metadata = CollaborationMetadata{
		TotalPapers:         len(scope),
		TotalAuthors:        len(g.Nodes),
		TotalCollaborations: len(g.Links),
		YearRange:           FormatYearRange(min, max),
	}
	return g, diag
}
