package network

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/matsen/scinet/internal/export"
)

// DegreeNode is an author with its number of distinct collaborators.
type DegreeNode struct {
	ID     string `json:"id"`
	Degree int    `json:"degree"`
}

// DegreeGraph is the lightweight D3 document built from an edge list.
type DegreeGraph struct {
	Nodes []DegreeNode        `json:"nodes"`
	Links []CollaborationLink `json:"links"`
}

// NewDegreeGraph builds a degree-annotated graph from collaboration links.
// Every endpoint becomes a node; node order follows first appearance.
func NewDegreeGraph(links []CollaborationLink) *DegreeGraph {
	g := &DegreeGraph{
		Nodes: make([]DegreeNode, 0),
		Links: make([]CollaborationLink, len(links)),
	}
	copy(g.Links, links)

	index := make(map[string]int)
	bump := func(id string) {
		i, ok := index[id]
		if !ok {
			i = len(g.Nodes)
			index[id] = i
			g.Nodes = append(g.Nodes, DegreeNode{ID: id})
		}
		g.Nodes[i].Degree++
	}
	for _, l := range links {
		bump(l.Source)
		bump(l.Target)
	}
	return g
}

// DegreeGraph converts the collaboration graph's links to a DegreeGraph.
func (g *CollaborationGraph) DegreeGraph() *DegreeGraph {
	return NewDegreeGraph(g.Links)
}

// WriteEdgeList writes links as a source,target,weight CSV file.
func WriteEdgeList(path string, links []CollaborationLink) error {
	return export.WriteFile(path, func(w io.Writer) error {
		cw := csv.NewWriter(w)
		if err := cw.Write([]string{"source", "target", "weight"}); err != nil {
			return err
		}
		for _, l := range links {
			if err := cw.Write([]string{l.Source, l.Target, strconv.Itoa(l.Weight)}); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	})
}

// ReadEdgeList reads a source,target,weight CSV file.
func ReadEdgeList(path string) ([]CollaborationLink, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	head, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading edge list header: %w", err)
	}
	cols := map[string]int{}
	for i, name := range head {
		cols[strings.TrimSpace(name)] = i
	}
	for _, want := range []string{"source", "target", "weight"} {
		if _, ok := cols[want]; !ok {
			return nil, fmt.Errorf("edge list has no %q column", want)
		}
	}

	var links []CollaborationLink
	line := 1
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("parsing edge list line %d: %w", line, err)
		}
		weight, err := strconv.Atoi(strings.TrimSpace(row[cols["weight"]]))
		if err != nil {
			return nil, fmt.Errorf("edge list line %d: invalid weight %q", line, row[cols["weight"]])
		}
		links = append(links, CollaborationLink{
			Source: row[cols["source"]],
			Target: row[cols["target"]],
			Weight: weight,
		})
	}
	return links, nil
}
