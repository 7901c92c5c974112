package network

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/matsen/scinet/internal/export"
)

// ReadCollaborationGraph loads an author_network.json document.
// A missing file is reported with an error satisfying os.IsNotExist.
func ReadCollaborationGraph(path string) (*CollaborationGraph, error) {
	var g CollaborationGraph
	if err := readJSON(path, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// ReadCitationGraph loads a citation_network.json document.
func ReadCitationGraph(path string) (*CitationGraph, error) {
	var g CitationGraph
	if err := readJSON(path, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// Write persists the graph atomically.
func (g *CollaborationGraph) Write(path string) error {
	return export.WriteJSON(path, g)
}

// Write persists the graph atomically.
func (g *CitationGraph) Write(path string) error {
	return export.WriteJSON(path, g)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}
