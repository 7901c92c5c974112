package openalex

import "strings"

// Institution is an entry from the /institutions endpoint.
type Institution struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	CountryCode string `json:"country_code,omitempty"`
	WorksCount  int    `json:"works_count,omitempty"`
}

// Work is a publication from the /works endpoint, limited to WorkFields.
type Work struct {
	ID              string       `json:"id"`
	Title           *string      `json:"title"`
	PublicationYear *int         `json:"publication_year"`
	CitedByCount    int          `json:"cited_by_count"`
	Authorships     []Authorship `json:"authorships"`
	ReferencedWorks []string     `json:"referenced_works"`
	Topics          []Topic      `json:"topics"`
}

// Authorship ties an author to a work.
type Authorship struct {
	AuthorPosition string      `json:"author_position"`
	Author         *AuthorStub `json:"author"`
}

// AuthorStub is the abbreviated author embedded in an authorship.
type AuthorStub struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// Topic is a research topic assigned to a work with its taxonomy parents.
type Topic struct {
	ID          string     `json:"id"`
	DisplayName string     `json:"display_name"`
	Score       float64    `json:"score,omitempty"`
	Subfield    *TopicNode `json:"subfield,omitempty"`
	Field       *TopicNode `json:"field,omitempty"`
	Domain      *TopicNode `json:"domain,omitempty"`
}

// TopicNode is one level of the topic taxonomy.
type TopicNode struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// Mentions reports whether the topic or any of its parents contains s
// (case-insensitive).
func (t Topic) Mentions(s string) bool {
	s = strings.ToLower(s)
	names := []string{t.DisplayName}
	for _, n := range []*TopicNode{t.Subfield, t.Field, t.Domain} {
		if n != nil {
			names = append(names, n.DisplayName)
		}
	}
	for _, name := range names {
		if strings.Contains(strings.ToLower(name), s) {
			return true
		}
	}
	return false
}

// listResponse is the envelope of every list endpoint.
type listResponse[T any] struct {
	Meta struct {
		Count   int `json:"count"`
		Page    int `json:"page"`
		PerPage int `json:"per_page"`
	} `json:"meta"`
	Results []T `json:"results"`
}

// ShortID strips the https://openalex.org/ prefix from an entity id.
func ShortID(id string) string {
	if i := strings.LastIndex(id, "/"); i >= 0 {
		return id[i+1:]
	}
	return id
}
