// Package record defines the core domain types for bibliographic records.
package record

// Paper represents a publication in the source tables.
type Paper struct {
	ID            string `json:"id"`             // Canonical identifier (see CanonicalID)
	Title         string `json:"title"`          // May be empty in source data
	Year          int    `json:"year"`           // 0 if unknown
	CitationCount int    `json:"citation_count"` // 0 if unknown
	FieldsOfStudy string `json:"fields_of_study"`
}

// Author represents a paper author.
type Author struct {
	ID          string `json:"id"`           // Integer id assigned at ingestion, as a string
	DisplayName string `json:"display_name"` // Name shown in the visualization
	OpenAlexID  string `json:"openalex_id"`  // External id, only used during ingestion
}

// PaperAuthorLink records that an author appears on a paper.
type PaperAuthorLink struct {
	PaperID  string `json:"paper_id"`
	AuthorID string `json:"author_id"`
	Sequence string `json:"sequence"` // "first", "middle", "last", or a number
}

// PaperReferenceLink is a raw citation row: PaperID cites ReferenceID.
// ReferenceID may name a paper outside the known population.
type PaperReferenceLink struct {
	PaperID     string `json:"paper_id"`
	ReferenceID string `json:"reference_id"`
}
