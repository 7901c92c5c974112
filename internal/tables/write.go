package tables

import (
	"io"
	"strconv"

	"github.com/matsen/scinet/internal/export"
	"github.com/matsen/scinet/internal/record"
)

// WritePapers writes the papers table atomically.
func WritePapers(path string, papers []record.Paper) error {
	cols := []string{ColPaperID, ColTitle, ColYear, ColCitationCount, ColFieldsOfStudy}
	return export.WriteFile(path, func(w io.Writer) error {
		return writeCSV(w, cols, func(emit func(...string) error) error {
			for _, p := range papers {
				if err := emit(p.ID, p.Title, strconv.Itoa(p.Year), strconv.Itoa(p.CitationCount), p.FieldsOfStudy); err != nil {
					return err
				}
			}
			return nil
		})
	})
}

// WriteAuthors writes the authors table atomically.
func WriteAuthors(path string, authors []record.Author) error {
	cols := []string{ColAuthorID, ColDisplayName, ColOpenAlexID}
	return export.WriteFile(path, func(w io.Writer) error {
		return writeCSV(w, cols, func(emit func(...string) error) error {
			for _, a := range authors {
				if err := emit(a.ID, a.DisplayName, a.OpenAlexID); err != nil {
					return err
				}
			}
			return nil
		})
	})
}

// WritePaperAuthors writes the paper-author membership table atomically.
func WritePaperAuthors(path string, links []record.PaperAuthorLink) error {
	cols := []string{ColPaperID, ColAuthorID, ColAuthorSequence}
	return export.WriteFile(path, func(w io.Writer) error {
		return writeCSV(w, cols, func(emit func(...string) error) error {
			for _, l := range links {
				if err := emit(l.PaperID, l.AuthorID, l.Sequence); err != nil {
					return err
				}
			}
			return nil
		})
	})
}

// WriteReferences writes the paper reference table atomically.
func WriteReferences(path string, refs []record.PaperReferenceLink) error {
	cols := []string{ColPaperID, ColPaperReferenceID}
	return export.WriteFile(path, func(w io.Writer) error {
		return writeCSV(w, cols, func(emit func(...string) error) error {
			for _, r := range refs {
				if err := emit(r.PaperID, r.ReferenceID); err != nil {
					return err
				}
			}
			return nil
		})
	})
}

// WriteSnapshot writes all four tables into the locations given by paths.
func WriteSnapshot(paths Paths, snap *Snapshot) error {
	if err := WritePapers(paths.Papers, snap.Papers); err != nil {
		return err
	}
	if err := WriteAuthors(paths.Authors, snap.Authors); err != nil {
		return err
	}
	if err := WritePaperAuthors(paths.PaperAuthors, snap.PaperAuthors); err != nil {
		return err
	}
	return WriteReferences(paths.References, snap.References)
}
