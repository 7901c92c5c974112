package network

import (
	"testing"

	"github.com/matsen/scinet/internal/population"
	"github.com/matsen/scinet/internal/record"
)

func papers(ids ...string) []record.Paper {
	out := make([]record.Paper, len(ids))
	for i, id := range ids {
		out[i] = record.Paper{ID: id, Title: "Title " + id, Year: 2021}
	}
	return out
}

func memberships(pairs ...[2]string) []record.PaperAuthorLink {
	out := make([]record.PaperAuthorLink, len(pairs))
	for i, p := range pairs {
		out[i] = record.PaperAuthorLink{PaperID: p[0], AuthorID: p[1]}
	}
	return out
}

func authorTable(ids ...string) []record.Author {
	out := make([]record.Author, len(ids))
	for i, id := range ids {
		out[i] = record.Author{ID: id, DisplayName: "Author " + id}
	}
	return out
}

func weightsOf(g *CollaborationGraph) map[pairKey]int {
	w := make(map[pairKey]int)
	for _, l := range g.Links {
		w[newPairKey(l.Source, l.Target)] += l.Weight
	}
	return w
}

func TestBuildCollaboration_WorkedExample(t *testing.T) {
	all := []record.Paper{
		{ID: "P1", Year: 2021, FieldsOfStudy: "Computer Science"},
		{ID: "P2", Year: 2021, FieldsOfStudy: "Computer Science"},
		{ID: "P3", Year: 2019, FieldsOfStudy: "Computer Science"},
	}
	links := memberships([2]string{"P1", "A"}, [2]string{"P1", "B"}, [2]string{"P2", "A"}, [2]string{"P2", "B"}, [2]string{"P3", "C"})
	scope := population.Filter(all, population.Criteria{YearFrom: 2020, YearTo: 2025, Topic: "Computer Science", MinTopical: 1})

	g, _ := BuildCollaboration(scope.Papers, links, authorTable("A", "B", "C"))

	if len(g.Nodes) != 2 {
		t.Fatalf("got %d nodes, want 2", len(g.Nodes))
	}
	for _, n := range g.Nodes {
		if n.PaperCount != 2 {
			t.Errorf("node %s paperCount = %d, want 2", n.ID, n.PaperCount)
		}
		if n.ID == "C" {
			t.Error("isolated author C should not be a node")
		}
	}
	if len(g.Links) != 1 {
		t.Fatalf("got %d links, want 1", len(g.Links))
	}
	if l := g.Links[0]; l.Source != "A" || l.Target != "B" || l.Weight != 2 {
		t.Errorf("link = %+v, want A-B weight 2", l)
	}

	want := CollaborationMetadata{TotalPapers: 2, TotalAuthors: 2, TotalCollaborations: 1, YearRange: "2021-2021"}
	if g.Metadata != want {
		t.Errorf("metadata = %+v, want %+v", g.Metadata, want)
	}
}

func TestBuildCollaboration_PairCounts(t *testing.T) {
	tests := []struct {
		name        string
		links       []record.PaperAuthorLink
		wantWeights map[pairKey]int
		wantCounts  map[string]int
	}{
		{
			name: "k authors contribute k(k-1)/2 pairs",
			links: memberships(
				[2]string{"P1", "A"}, [2]string{"P1", "B"}, [2]string{"P1", "C"}, [2]string{"P1", "D"},
			),
			wantWeights: map[pairKey]int{
				newPairKey("A", "B"): 1, newPairKey("A", "C"): 1, newPairKey("A", "D"): 1,
				newPairKey("B", "C"): 1, newPairKey("B", "D"): 1, newPairKey("C", "D"): 1,
			},
			wantCounts: map[string]int{"A": 1, "B": 1, "C": 1, "D": 1},
		},
		{
			name: "reciprocal orderings merge",
			links: memberships(
				[2]string{"P1", "B"}, [2]string{"P1", "A"},
				[2]string{"P2", "A"}, [2]string{"P2", "B"},
			),
			wantWeights: map[pairKey]int{newPairKey("A", "B"): 2},
			wantCounts:  map[string]int{"A": 2, "B": 2},
		},
		{
			name: "duplicate membership rows inflate weight and paper count",
			links: memberships(
				[2]string{"P1", "A"}, [2]string{"P1", "B"}, [2]string{"P1", "B"},
			),
			wantWeights: map[pairKey]int{newPairKey("A", "B"): 2, newPairKey("B", "B"): 1},
			wantCounts:  map[string]int{"A": 1, "B": 2},
		},
		{
			name: "author listed twice pairs with itself",
			links: memberships(
				[2]string{"P1", "A"}, [2]string{"P1", "B"}, [2]string{"P1", "B"},
				[2]string{"P2", "D"}, [2]string{"P2", "D"},
			),
			wantWeights: map[pairKey]int{
				newPairKey("A", "B"): 2, newPairKey("B", "B"): 1, newPairKey("D", "D"): 1,
			},
			wantCounts: map[string]int{"A": 1, "B": 2, "D": 2},
		},
		{
			name: "out-of-scope papers ignored",
			links: memberships(
				[2]string{"P1", "A"}, [2]string{"P1", "B"},
				[2]string{"OUT", "A"}, [2]string{"OUT", "B"},
			),
			wantWeights: map[pairKey]int{newPairKey("A", "B"): 1},
			wantCounts:  map[string]int{"A": 1, "B": 1},
		},
		{
			name:        "single-author papers produce nothing",
			links:       memberships([2]string{"P1", "A"}, [2]string{"P2", "B"}),
			wantWeights: map[pairKey]int{},
			wantCounts:  map[string]int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _ := BuildCollaboration(papers("P1", "P2"), tt.links, authorTable("A", "B", "C", "D"))

			got := weightsOf(g)
			if len(got) != len(tt.wantWeights) {
				t.Errorf("got %d pairs, want %d", len(got), len(tt.wantWeights))
			}
			for k, w := range tt.wantWeights {
				if got[k] != w {
					t.Errorf("weight(%s,%s) = %d, want %d", k.a, k.b, got[k], w)
				}
			}

			if len(g.Nodes) != len(tt.wantCounts) {
				t.Errorf("got %d nodes, want %d", len(g.Nodes), len(tt.wantCounts))
			}
			for _, n := range g.Nodes {
				if n.PaperCount != tt.wantCounts[n.ID] {
					t.Errorf("paperCount(%s) = %d, want %d", n.ID, n.PaperCount, tt.wantCounts[n.ID])
				}
			}
		})
	}
}

func TestBuildCollaboration_LinksAreCanonicalAndUnique(t *testing.T) {
	links := memberships(
		[2]string{"P1", "Z"}, [2]string{"P1", "A"}, [2]string{"P1", "M"},
		[2]string{"P2", "M"}, [2]string{"P2", "Z"},
	)
	g, _ := BuildCollaboration(papers("P1", "P2"), links, authorTable("A", "M", "Z"))

	seen := make(map[pairKey]bool)
	for _, l := range g.Links {
		if l.Source > l.Target {
			t.Errorf("link %s-%s not canonical", l.Source, l.Target)
		}
		k := newPairKey(l.Source, l.Target)
		if seen[k] {
			t.Errorf("duplicate link %s-%s", l.Source, l.Target)
		}
		seen[k] = true
		if l.Weight < 1 {
			t.Errorf("link %s-%s weight %d < 1", l.Source, l.Target, l.Weight)
		}
	}
	if w := weightsOf(g)[newPairKey("M", "Z")]; w != 2 {
		t.Errorf("weight(M,Z) = %d, want 2", w)
	}
}

func TestBuildCollaboration_EveryNodeHasAnEdge(t *testing.T) {
	links := memberships(
		[2]string{"P1", "A"}, [2]string{"P1", "B"},
		[2]string{"P2", "C"},
		[2]string{"P3", "D"}, [2]string{"P3", "D"},
	)
	g, _ := BuildCollaboration(papers("P1", "P2", "P3"), links, authorTable("A", "B", "C", "D"))

	endpoints := make(map[string]bool)
	for _, l := range g.Links {
		endpoints[l.Source] = true
		endpoints[l.Target] = true
	}
	for _, n := range g.Nodes {
		if !endpoints[n.ID] {
			t.Errorf("node %s has no edges", n.ID)
		}
	}
	if len(g.Nodes) != 3 {
		t.Errorf("got %d nodes, want 3 (A, B, and D via its self-loop)", len(g.Nodes))
	}
	if w := weightsOf(g)[newPairKey("D", "D")]; w != 1 {
		t.Errorf("weight(D,D) = %d, want 1", w)
	}
}

func TestBuildCollaboration_IncrementsPerGroup(t *testing.T) {
	links := memberships(
		[2]string{"P1", "A"}, [2]string{"P1", "B"}, [2]string{"P1", "B"},
		[2]string{"P2", "D"}, [2]string{"P2", "D"},
	)
	g, _ := BuildCollaboration(papers("P1", "P2"), links, authorTable("A", "B", "D"))

	total := 0
	for _, l := range g.Links {
		total += l.Weight
	}
	// 3 rows give 3 pairs, 2 rows give 1.
	if total != 4 {
		t.Errorf("total weight = %d, want 4", total)
	}
}

func TestBuildCollaboration_MissingAuthorMetadata(t *testing.T) {
	links := memberships([2]string{"P1", "A"}, [2]string{"P1", "GHOST"})

	g, diag := BuildCollaboration(papers("P1"), links, authorTable("A"))

	if len(g.Links) != 1 {
		t.Fatalf("got %d links, want 1 (edge kept)", len(g.Links))
	}
	if len(g.Nodes) != 1 || g.Nodes[0].ID != "A" {
		t.Errorf("nodes = %+v, want only A", g.Nodes)
	}
	if diag.MissingAuthors != 1 {
		t.Errorf("MissingAuthors = %d, want 1", diag.MissingAuthors)
	}
	if g.Metadata.TotalAuthors != 1 {
		t.Errorf("TotalAuthors = %d, want 1", g.Metadata.TotalAuthors)
	}
}

func TestBuildCollaboration_EmptyScope(t *testing.T) {
	g, diag := BuildCollaboration(nil, memberships([2]string{"P1", "A"}, [2]string{"P1", "B"}), authorTable("A", "B"))

	if g.Nodes == nil || g.Links == nil {
		t.Error("nodes and links should be empty slices, not nil")
	}
	if len(g.Nodes) != 0 || len(g.Links) != 0 {
		t.Errorf("got %d nodes %d links, want none", len(g.Nodes), len(g.Links))
	}
	if g.Metadata.YearRange != "0-0" {
		t.Errorf("YearRange = %q, want 0-0", g.Metadata.YearRange)
	}
	if diag.ScopedRows != 0 {
		t.Errorf("ScopedRows = %d, want 0", diag.ScopedRows)
	}
}

func TestBuildCollaboration_Idempotent(t *testing.T) {
	scope := papers("P1", "P2", "P3")
	links := memberships(
		[2]string{"P1", "A"}, [2]string{"P1", "B"}, [2]string{"P1", "C"},
		[2]string{"P2", "C"}, [2]string{"P2", "A"},
		[2]string{"P3", "B"}, [2]string{"P3", "D"},
	)
	authors := authorTable("A", "B", "C", "D")

	first, _ := BuildCollaboration(scope, links, authors)
	second, _ := BuildCollaboration(scope, links, authors)

	if first.Fingerprint() != second.Fingerprint() {
		t.Error("fingerprints differ across identical runs")
	}
	for i := range first.Links {
		if first.Links[i] != second.Links[i] {
			t.Errorf("link order differs within identical runs at %d", i)
		}
	}
}
