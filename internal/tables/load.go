package tables

import (
	"errors"

	"github.com/matsen/scinet/internal/record"
)

// LoadPapers reads the papers table. Year and CitationCount values that
// cannot be parsed degrade to 0 and are counted as malformed. A missing
// FieldsOfStudy column leaves every paper untagged.
func LoadPapers(path string) ([]record.Paper, LoadReport, error) {
	report := LoadReport{Table: TablePapers, Path: path}
	var papers []record.Paper

	err := readCSV(TablePapers, path, []string{ColPaperID, ColYear}, func(h header, row []string) {
		report.Rows++
		id := record.CanonicalID(h.get(row, ColPaperID))
		if id == "" {
			report.Skipped++
			return
		}

		year, ok := record.ParseYear(h.get(row, ColYear))
		if !ok {
			report.Malformed++
		}
		count, ok := record.ParseCount(h.get(row, ColCitationCount))
		if !ok {
			report.Malformed++
		}

		papers = append(papers, record.Paper{
			ID:            id,
			Title:         h.get(row, ColTitle),
			Year:          year,
			CitationCount: count,
			FieldsOfStudy: h.get(row, ColFieldsOfStudy),
		})
	})
	if err != nil {
		return nil, report, err
	}
	return papers, report, nil
}

// LoadAuthors reads the authors table.
func LoadAuthors(path string) ([]record.Author, LoadReport, error) {
	report := LoadReport{Table: TableAuthors, Path: path}
	var authors []record.Author

	err := readCSV(TableAuthors, path, []string{ColAuthorID, ColDisplayName}, func(h header, row []string) {
		report.Rows++
		id := record.CanonicalID(h.get(row, ColAuthorID))
		if id == "" {
			report.Skipped++
			return
		}
		authors = append(authors, record.Author{
			ID:          id,
			DisplayName: h.get(row, ColDisplayName),
			OpenAlexID:  h.get(row, ColOpenAlexID),
		})
	})
	if err != nil {
		return nil, report, err
	}
	return authors, report, nil
}

// LoadPaperAuthors reads the paper-author membership table. Rows are kept
// in file order and duplicates are preserved.
func LoadPaperAuthors(path string) ([]record.PaperAuthorLink, LoadReport, error) {
	report := LoadReport{Table: TablePaperAuthors, Path: path}
	var links []record.PaperAuthorLink

	err := readCSV(TablePaperAuthors, path, []string{ColPaperID, ColAuthorID}, func(h header, row []string) {
		report.Rows++
		paperID := record.CanonicalID(h.get(row, ColPaperID))
		authorID := record.CanonicalID(h.get(row, ColAuthorID))
		if paperID == "" || authorID == "" {
			report.Skipped++
			return
		}
		links = append(links, record.PaperAuthorLink{
			PaperID:  paperID,
			AuthorID: authorID,
			Sequence: h.get(row, ColAuthorSequence),
		})
	})
	if err != nil {
		return nil, report, err
	}
	return links, report, nil
}

// LoadReferences reads the raw paper reference table. Duplicates are preserved.
func LoadReferences(path string) ([]record.PaperReferenceLink, LoadReport, error) {
	report := LoadReport{Table: TableReferences, Path: path}
	var refs []record.PaperReferenceLink

	err := readCSV(TableReferences, path, []string{ColPaperID, ColPaperReferenceID}, func(h header, row []string) {
		report.Rows++
		citing := record.CanonicalID(h.get(row, ColPaperID))
		cited := record.CanonicalID(h.get(row, ColPaperReferenceID))
		if citing == "" || cited == "" {
			report.Skipped++
			return
		}
		refs = append(refs, record.PaperReferenceLink{PaperID: citing, ReferenceID: cited})
	})
	if err != nil {
		return nil, report, err
	}
	return refs, report, nil
}

// Need selects which tables LoadSnapshot reads.
type Need struct {
	Papers       bool
	Authors      bool
	PaperAuthors bool
	References   bool
}

// NeedAll requests every table.
var NeedAll = Need{Papers: true, Authors: true, PaperAuthors: true, References: true}

// LoadSnapshot loads the requested tables. The first failing table aborts
// the load; reports for tables read so far are returned either way.
func LoadSnapshot(paths Paths, need Need) (*Snapshot, []LoadReport, error) {
	snap := &Snapshot{}
	var reports []LoadReport

	if need.Papers {
		papers, rep, err := LoadPapers(paths.Papers)
		reports = append(reports, rep)
		if err != nil {
			return nil, reports, err
		}
		snap.Papers = papers
	}
	if need.Authors {
		authors, rep, err := LoadAuthors(paths.Authors)
		reports = append(reports, rep)
		if err != nil {
			return nil, reports, err
		}
		snap.Authors = authors
	}
	if need.PaperAuthors {
		links, rep, err := LoadPaperAuthors(paths.PaperAuthors)
		reports = append(reports, rep)
		if err != nil {
			return nil, reports, err
		}
		snap.PaperAuthors = links
	}
	if need.References {
		refs, rep, err := LoadReferences(paths.References)
		reports = append(reports, rep)
		if err != nil {
			return nil, reports, err
		}
		snap.References = refs
	}
	return snap, reports, nil
}

// IsMissingInput reports whether err is caused by an absent table file.
func IsMissingInput(err error) bool {
	return errors.Is(err, ErrMissingInput)
}
