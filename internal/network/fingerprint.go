package network

import (
	"encoding/hex"
	"fmt"
	"sort"

	"golang.org/x/crypto/blake2b"
)

// Fingerprint returns a digest of the graph's node multiset, link multiset,
// and metadata. Node and link order do not affect the result, so two builds
// over identical inputs fingerprint equally.
func (g *CollaborationGraph) Fingerprint() string {
	nodes := make([]string, len(g.Nodes))
	for i, n := range g.Nodes {
		nodes[i] = fmt.Sprintf("%q\x00%q\x00%d", n.ID, n.Name, n.PaperCount)
	}
	links := make([]string, len(g.Links))
	for i, l := range g.Links {
		links[i] = fmt.Sprintf("%q\x00%q\x00%d", l.Source, l.Target, l.Weight)
	}
	meta := fmt.Sprintf("%d\x00%d\x00%d\x00%s",
		g.Metadata.TotalPapers, g.Metadata.TotalAuthors, g.Metadata.TotalCollaborations, g.Metadata.YearRange)
	return digest("collaboration", nodes, links, meta)
}

// Fingerprint returns an order-independent digest of the graph content.
func (g *CitationGraph) Fingerprint() string {
	nodes := make([]string, len(g.Nodes))
	for i, n := range g.Nodes {
		nodes[i] = fmt.Sprintf("%q\x00%q\x00%d\x00%d", n.ID, n.Title, n.Year, n.CitationCount)
	}
	links := make([]string, len(g.Links))
	for i, l := range g.Links {
		links[i] = fmt.Sprintf("%q\x00%q", l.Source, l.Target)
	}
	meta := fmt.Sprintf("%d\x00%d\x00%s",
		g.Metadata.TotalPapers, g.Metadata.TotalCitations, g.Metadata.YearRange)
	return digest("citation", nodes, links, meta)
}

// digest hashes sorted node and link encodings. Sorting turns the sequences
// into multisets; duplicates still contribute once each.
func digest(kind string, nodes, links []string, meta string) string {
	sort.Strings(nodes)
	sort.Strings(links)

	h, _ := blake2b.New256(nil) // only fails for oversized keys
	write := func(s string) {
		fmt.Fprintf(h, "%d:%s\n", len(s), s)
	}
	write(kind)
	write(meta)
	write(fmt.Sprintf("nodes=%d", len(nodes)))
	for _, n := range nodes {
		write(n)
	}
	write(fmt.Sprintf("links=%d", len(links)))
	for _, l := range links {
		write(l)
	}
	return hex.EncodeToString(h.Sum(nil))
}
