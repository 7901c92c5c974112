package network

// CollaborationStats summarizes weights and paper counts.
type CollaborationStats struct {
	AvgWeight          float64 `json:"avg_weight"`
	MaxWeight          int     `json:"max_weight"`
	MinWeight          int     `json:"min_weight"`
	AvgPapersPerAuthor float64 `json:"avg_papers_per_author"`
	MaxPaperCount      int     `json:"max_paper_count"`
}

// Stats computes summary statistics. Fields are zero for an empty graph.
func (g *CollaborationGraph) Stats() CollaborationStats {
	var s CollaborationStats
	if len(g.Links) > 0 {
		total := 0
		s.MinWeight = g.Links[0].Weight
		for _, l := range g.Links {
			total += l.Weight
			if l.Weight > s.MaxWeight {
				s.MaxWeight = l.Weight
			}
			if l.Weight < s.MinWeight {
				s.MinWeight = l.Weight
			}
		}
		s.AvgWeight = float64(total) / float64(len(g.Links))
	}
	if len(g.Nodes) > 0 {
		total := 0
		for _, n := range g.Nodes {
			total += n.PaperCount
			if n.PaperCount > s.MaxPaperCount {
				s.MaxPaperCount = n.PaperCount
			}
		}
		s.AvgPapersPerAuthor = float64(total) / float64(len(g.Nodes))
	}
	return s
}

// CitationStats summarizes citation counts of the in-scope papers.
type CitationStats struct {
	AvgCitations   float64 `json:"avg_citations"`
	MaxCitations   int     `json:"max_citations"`
	ZeroCitations  int     `json:"zero_citations"`
	IsolatedPapers int     `json:"isolated_papers"` // Nodes with no internal links
}

// Stats computes summary statistics. Fields are zero for an empty graph.
func (g *CitationGraph) Stats() CitationStats {
	var s CitationStats
	if len(g.Nodes) == 0 {
		return s
	}

	linked := make(map[string]bool, 2*len(g.Links))
	for _, l := range g.Links {
		linked[l.Source] = true
		linked[l.Target] = true
	}

	total := 0
	for _, n := range g.Nodes {
		total += n.CitationCount
		if n.CitationCount > s.MaxCitations {
			s.MaxCitations = n.CitationCount
		}
		if n.CitationCount == 0 {
			s.ZeroCitations++
		}
		if !linked[n.ID] {
			s.IsolatedPapers++
		}
	}
	s.AvgCitations = float64(total) / float64(len(g.Nodes))
	return s
}
