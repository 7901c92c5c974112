// Package population selects the papers in scope for graph construction.
package population

import (
	"strings"

	"github.com/matsen/scinet/internal/record"
)

// DefaultMinTopical is the smallest topical result set accepted before the
// filter falls back to the year-only population.
const DefaultMinTopical = 50

// Criteria configures the population filter.
type Criteria struct {
	YearFrom   int    // Inclusive lower bound
	YearTo     int    // Inclusive upper bound
	Topic      string // Case-insensitive substring of FieldsOfStudy; empty disables
	MinTopical int    // Fallback threshold; 0 means DefaultMinTopical
}

// Result is the outcome of a filter run.
type Result struct {
	Papers       []record.Paper // The in-scope population, in input order
	YearMatched  int            // Papers passing the year predicate
	TopicMatched int            // Papers passing both predicates
	FellBack     bool           // Topical filter discarded for too few matches
}

// InYearRange reports whether a paper's year lies in [from, to].
func InYearRange(p record.Paper, from, to int) bool {
	return p.Year >= from && p.Year <= to
}

// MatchesTopic reports whether a paper's field-of-study tag contains topic,
// ignoring case. A blank tag never matches.
func MatchesTopic(p record.Paper, topic string) bool {
	if strings.TrimSpace(p.FieldsOfStudy) == "" {
		return false
	}
	return strings.Contains(strings.ToLower(p.FieldsOfStudy), strings.ToLower(topic))
}

// ShouldFallBack reports whether a topical match count is too small to use.
func ShouldFallBack(topicalCount, minTopical int) bool {
	if minTopical <= 0 {
		minTopical = DefaultMinTopical
	}
	return topicalCount < minTopical
}

// Filter returns the papers in scope under c. Papers are never modified.
func Filter(papers []record.Paper, c Criteria) Result {
	byYear := make([]record.Paper, 0, len(papers))
	for _, p := range papers {
		if InYearRange(p, c.YearFrom, c.YearTo) {
			byYear = append(byYear, p)
		}
	}

	if c.Topic == "" {
		return Result{Papers: byYear, YearMatched: len(byYear), TopicMatched: len(byYear)}
	}

	var topical []record.Paper
	for _, p := range byYear {
		if MatchesTopic(p, c.Topic) {
			topical = append(topical, p)
		}
	}

	res := Result{
		Papers:       topical,
		YearMatched:  len(byYear),
		TopicMatched: len(topical),
	}
	if ShouldFallBack(len(topical), c.MinTopical) {
		res.Papers = byYear
		res.FellBack = true
	}
	return res
}

// IDs returns the set of in-scope paper identifiers.
func (r Result) IDs() map[string]bool {
	ids := make(map[string]bool, len(r.Papers))
	for _, p := range r.Papers {
		ids[p.ID] = true
	}
	return ids
}

// YearRange returns the smallest and largest year in the population.
// Both are 0 for an empty population.
func (r Result) YearRange() (min, max int) {
	return YearRange(r.Papers)
}

// YearRange returns the smallest and largest year among papers.
func YearRange(papers []record.Paper) (min, max int) {
	for i, p := range papers {
		if i == 0 || p.Year < min {
			min = p.Year
		}
		if i == 0 || p.Year > max {
			max = p.Year
		}
	}
	return min, max
}
