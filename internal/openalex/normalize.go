package openalex

import (
	"strconv"

	"github.com/matsen/scinet/internal/record"
	"github.com/matsen/scinet/internal/tables"
)

// Field labels assigned during normalization.
const (
	FieldComputerScience = "Computer Science"
	FieldGeneral         = "General"
)

// AuthorRegistry assigns sequential integer ids to OpenAlex authors in
// first-seen order. Each ingestion run owns its own registry.
type AuthorRegistry struct {
	ids     map[string]string
	authors []record.Author
}

// NewAuthorRegistry returns an empty registry. The first author gets id 1.
func NewAuthorRegistry() *AuthorRegistry {
	return &AuthorRegistry{ids: make(map[string]string)}
}

// Register returns the id for an OpenAlex author, assigning the next one if
// the author has not been seen. The display name of the first sighting wins.
func (r *AuthorRegistry) Register(openAlexID, displayName string) string {
	if id, ok := r.ids[openAlexID]; ok {
		return id
	}
	if displayName == "" {
		displayName = record.UnknownTitle
	}
	id := strconv.Itoa(len(r.authors) + 1)
	r.ids[openAlexID] = id
	r.authors = append(r.authors, record.Author{
		ID:          id,
		DisplayName: displayName,
		OpenAlexID:  openAlexID,
	})
	return id
}

// Authors returns the registered authors in id order.
func (r *AuthorRegistry) Authors() []record.Author {
	return r.authors
}

// Len returns the number of registered authors.
func (r *AuthorRegistry) Len() int { return len(r.authors) }

// NormalizeReport counts what normalization dropped.
type NormalizeReport struct {
	Works              int `json:"works"`
	SkippedWorks       int `json:"skipped_works"`       // No id
	SkippedAuthorships int `json:"skipped_authorships"` // No author id
}

// Normalize converts works into the four source tables.
func Normalize(works []Work) (*tables.Snapshot, NormalizeReport) {
	reg := NewAuthorRegistry()
	snap := &tables.Snapshot{
		Papers:       make([]record.Paper, 0, len(works)),
		PaperAuthors: []record.PaperAuthorLink{},
		References:   []record.PaperReferenceLink{},
	}
	report := NormalizeReport{Works: len(works)}

	for _, w := range works {
		paperID := ShortID(w.ID)
		if paperID == "" {
			report.SkippedWorks++
			continue
		}

		p := record.Paper{
			ID:            paperID,
			CitationCount: w.CitedByCount,
			FieldsOfStudy: fieldOf(w.Topics),
		}
		if w.Title != nil {
			p.Title = *w.Title
		}
		if w.PublicationYear != nil {
			p.Year = *w.PublicationYear
		}
		snap.Papers = append(snap.Papers, p)

		for _, a := range w.Authorships {
			if a.Author == nil || ShortID(a.Author.ID) == "" {
				report.SkippedAuthorships++
				continue
			}
			seq := a.AuthorPosition
			if seq == "" {
				seq = "unknown"
			}
			snap.PaperAuthors = append(snap.PaperAuthors, record.PaperAuthorLink{
				PaperID:  paperID,
				AuthorID: reg.Register(ShortID(a.Author.ID), a.Author.DisplayName),
				Sequence: seq,
			})
		}

		for _, ref := range w.ReferencedWorks {
			if refID := ShortID(ref); refID != "" {
				snap.References = append(snap.References, record.PaperReferenceLink{
					PaperID:     paperID,
					ReferenceID: refID,
				})
			}
		}
	}

	snap.Authors = reg.Authors()
	if snap.Authors == nil {
		snap.Authors = []record.Author{}
	}
	return snap, report
}

func fieldOf(topics []Topic) string {
	for _, t := range topics {
		if t.Mentions("computer") {
			return FieldComputerScience
		}
	}
	return FieldGeneral
}
