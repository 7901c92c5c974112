package network

import (
	"testing"

	"github.com/matsen/scinet/internal/record"
)

func refs(pairs ...[2]string) []record.PaperReferenceLink {
	out := make([]record.PaperReferenceLink, len(pairs))
	for i, p := range pairs {
		out[i] = record.PaperReferenceLink{PaperID: p[0], ReferenceID: p[1]}
	}
	return out
}

func TestBuildCitation_WorkedExample(t *testing.T) {
	g, diag := BuildCitation(papers("P1", "P2"), refs([2]string{"P1", "P2"}, [2]string{"P1", "P4"}))

	if len(g.Links) != 1 || g.Links[0] != (CitationLink{Source: "P1", Target: "P2"}) {
		t.Errorf("links = %+v, want [P1->P2]", g.Links)
	}
	if len(g.Nodes) != 2 || g.Nodes[0].ID != "P1" || g.Nodes[1].ID != "P2" {
		t.Errorf("nodes = %+v, want [P1 P2]", g.Nodes)
	}
	if diag.RawReferences != 2 || diag.Internal != 1 {
		t.Errorf("diag = %+v", diag)
	}
}

func TestBuildCitation_InternalOnly(t *testing.T) {
	tests := []struct {
		name      string
		refs      []record.PaperReferenceLink
		wantLinks int
	}{
		{"both in scope", refs([2]string{"P1", "P2"}), 1},
		{"cited outside", refs([2]string{"P1", "X"}), 0},
		{"citing outside", refs([2]string{"X", "P1"}), 0},
		{"duplicates preserved", refs([2]string{"P1", "P2"}, [2]string{"P1", "P2"}), 2},
		{"self citation kept", refs([2]string{"P3", "P3"}), 1},
		{"no references", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _ := BuildCitation(papers("P1", "P2", "P3"), tt.refs)

			if len(g.Links) != tt.wantLinks {
				t.Errorf("got %d links, want %d", len(g.Links), tt.wantLinks)
			}
			if g.Metadata.TotalCitations != tt.wantLinks {
				t.Errorf("TotalCitations = %d, want %d", g.Metadata.TotalCitations, tt.wantLinks)
			}
			if len(g.Nodes) != 3 {
				t.Errorf("got %d nodes, want 3 regardless of links", len(g.Nodes))
			}
		})
	}
}

func TestBuildCitation_NodeDefaults(t *testing.T) {
	scope := []record.Paper{
		{ID: "P1", Title: "", Year: 0, CitationCount: 0},
		{ID: "P2", Title: "Known", Year: 2022, CitationCount: 9},
	}

	g, _ := BuildCitation(scope, nil)

	if g.Nodes[0].Title != record.UnknownTitle {
		t.Errorf("blank title = %q, want %q", g.Nodes[0].Title, record.UnknownTitle)
	}
	want := PaperNode{ID: "P2", Title: "Known", Year: 2022, CitationCount: 9}
	if g.Nodes[1] != want {
		t.Errorf("node = %+v, want %+v", g.Nodes[1], want)
	}
	if g.Metadata.YearRange != "0-2022" {
		t.Errorf("YearRange = %q, want 0-2022", g.Metadata.YearRange)
	}
}

func TestCitationGraph_FilterByYear(t *testing.T) {
	scope := []record.Paper{
		{ID: "A", Year: 2020}, {ID: "B", Year: 2022}, {ID: "C", Year: 2024},
	}
	g, _ := BuildCitation(scope, refs([2]string{"B", "A"}, [2]string{"C", "B"}, [2]string{"C", "A"}))

	got := g.FilterByYear(2021, 2025)

	if len(got.Nodes) != 2 {
		t.Errorf("got %d nodes, want 2", len(got.Nodes))
	}
	if len(got.Links) != 1 || got.Links[0] != (CitationLink{Source: "C", Target: "B"}) {
		t.Errorf("links = %+v, want [C->B]", got.Links)
	}
	want := CitationMetadata{TotalPapers: 2, TotalCitations: 1, YearRange: "2022-2024"}
	if got.Metadata != want {
		t.Errorf("metadata = %+v, want %+v", got.Metadata, want)
	}
	if len(g.Nodes) != 3 {
		t.Error("FilterByYear modified the receiver")
	}
}

func TestCitationGraph_FingerprintIgnoresOrder(t *testing.T) {
	g1, _ := BuildCitation(papers("P1", "P2", "P3"), refs([2]string{"P1", "P2"}, [2]string{"P2", "P3"}))
	g2, _ := BuildCitation(papers("P3", "P1", "P2"), refs([2]string{"P2", "P3"}, [2]string{"P1", "P2"}))

	if g1.Fingerprint() != g2.Fingerprint() {
		t.Error("fingerprint depends on order")
	}

	g3, _ := BuildCitation(papers("P1", "P2", "P3"), refs([2]string{"P1", "P2"}, [2]string{"P1", "P2"}))
	if g1.Fingerprint() == g3.Fingerprint() {
		t.Error("fingerprint ignores link multiplicity")
	}
}
