package viz

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/matsen/scinet/internal/network"
)

func collaboration() *network.CollaborationGraph {
	return &network.CollaborationGraph{
		Nodes: []network.AuthorNode{
			{ID: "1", Name: "Ada", PaperCount: 3},
			{ID: "2", Name: "Grace", PaperCount: 1},
		},
		Links: []network.CollaborationLink{
			{Source: "1", Target: "2", Weight: 2},
			{Source: "1", Target: "9", Weight: 1}, // 9 missing from the author table
		},
		Metadata: network.CollaborationMetadata{YearRange: "2020-2025"},
	}
}

func TestFromCollaboration(t *testing.T) {
	g := FromCollaboration(collaboration())

	if len(g.Nodes) != 2 || len(g.Edges) != 2 {
		t.Fatalf("got %d nodes, %d edges", len(g.Nodes), len(g.Edges))
	}
	if n := g.Nodes[0]; n.Type != NodeTypeAuthor || n.Label != "Ada" || n.PaperCount != 3 {
		t.Errorf("node = %+v", n)
	}
	if e := g.Edges[0]; e.Weight != 2 || e.Directed {
		t.Errorf("edge = %+v", e)
	}
	if !strings.Contains(g.Title, "2020-2025") {
		t.Errorf("Title = %q", g.Title)
	}
}

func TestFromCitation(t *testing.T) {
	long := strings.Repeat("word ", 20)
	g := FromCitation(&network.CitationGraph{
		Nodes: []network.PaperNode{{ID: "P1", Title: long, Year: 2021, CitationCount: 4}, {ID: "P2", Title: "Short"}},
		Links: []network.CitationLink{{Source: "P2", Target: "P1"}, {Source: "P2", Target: "P1"}},
	})

	if len(g.Edges) != 2 {
		t.Errorf("got %d edges, want duplicates kept", len(g.Edges))
	}
	if !g.Edges[0].Directed {
		t.Error("citation edge not directed")
	}
	n := g.Nodes[0]
	if n.Title != long {
		t.Error("full title not kept")
	}
	if got := len([]rune(n.Label)); got != maxLabelRunes {
		t.Errorf("label has %d runes, want %d", got, maxLabelRunes)
	}
	if g.Nodes[1].Label != "Short" {
		t.Errorf("short label = %q", g.Nodes[1].Label)
	}
}

func TestToCytoscapeJSON_DropsDanglingEdges(t *testing.T) {
	js, err := FromCollaboration(collaboration()).ToCytoscapeJSON()
	if err != nil {
		t.Fatalf("ToCytoscapeJSON() error = %v", err)
	}

	var elements CytoscapeElements
	if err := json.Unmarshal([]byte(js), &elements); err != nil {
		t.Fatal(err)
	}
	if len(elements.Nodes) != 2 {
		t.Errorf("got %d nodes, want 2", len(elements.Nodes))
	}
	if len(elements.Edges) != 1 {
		t.Fatalf("got %d edges, want 1", len(elements.Edges))
	}
	if elements.Edges[0].Data.ID != "1-2-0" || elements.Edges[0].Classes != "" {
		t.Errorf("edge = %+v", elements.Edges[0])
	}
}

func TestGenerateHTML(t *testing.T) {
	html, err := GenerateHTML(FromCollaboration(collaboration()), DefaultOptions())
	if err != nil {
		t.Fatalf("GenerateHTML() error = %v", err)
	}

	for _, want := range []string{CytoscapeCDN, `"cose"`, "Author Collaboration Network (2020-2025)", `"paperCount":3`} {
		if !strings.Contains(html, want) {
			t.Errorf("HTML missing %q", want)
		}
	}
}

func TestGenerateHTML_Layouts(t *testing.T) {
	tests := []struct {
		layout  string
		want    string
		wantErr bool
	}{
		{"circle", `"circle"`, false},
		{"grid", `"grid"`, false},
		{"", `"cose"`, false},
		{"spiral", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.layout, func(t *testing.T) {
			html, err := GenerateHTML(FromCollaboration(collaboration()), HTMLOptions{Layout: tt.layout})
			if tt.wantErr {
				if err == nil {
					t.Error("GenerateHTML() error = nil, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("GenerateHTML() error = %v", err)
			}
			if !strings.Contains(html, tt.want) {
				t.Errorf("HTML missing layout %s", tt.want)
			}
		})
	}
}

func TestGenerateHTML_Empty(t *testing.T) {
	html, err := GenerateHTML(&GraphData{}, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(html, "No graph data") {
		t.Error("empty graph did not render the empty state")
	}

	if _, err := GenerateHTML(nil, DefaultOptions()); err == nil {
		t.Error("GenerateHTML(nil) error = nil")
	}
}
