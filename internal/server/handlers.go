package server

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/matsen/scinet/internal/catalog"
	"github.com/matsen/scinet/internal/network"
)

// Handler serves the published graph documents and the catalog.
// Every request reads from disk, so a rebuild is visible on the next request.
type Handler struct {
	OutputDir   string
	CatalogPath string
}

// Index lists the available endpoints.
func (h *Handler) Index(c *gin.Context) {
	respondOK(c, gin.H{
		"message": "SciSciNet API",
		"version": "1.0",
		"endpoints": gin.H{
			"author_network":   "/api/author-network",
			"citation_network": "/api/citation-network",
			"papers":           "/api/papers",
			"authors":          "/api/authors",
			"stats":            "/api/stats",
		},
	})
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	respondOK(c, gin.H{"status": "healthy"})
}

// AuthorNetwork serves author_network.json.
func (h *Handler) AuthorNetwork(c *gin.Context) {
	g, err := network.ReadCollaborationGraph(filepath.Join(h.OutputDir, network.AuthorNetworkFile))
	if err != nil {
		respondReadError(c, "Author network data not found", err)
		return
	}
	respondOK(c, g)
}

// CitationNetwork serves citation_network.json, optionally restricted to
// papers published in [year_from, year_to].
func (h *Handler) CitationNetwork(c *gin.Context) {
	from, to, ok := yearParams(c)
	if !ok {
		return
	}

	g, err := network.ReadCitationGraph(filepath.Join(h.OutputDir, network.CitationNetworkFile))
	if err != nil {
		respondReadError(c, "Citation network data not found", err)
		return
	}
	if from > 0 || to > 0 {
		if to == 0 {
			to = math.MaxInt
		}
		g = g.FilterByYear(from, to)
	}
	respondOK(c, g)
}

// GraphSummary is the per-graph entry of the stats response.
type GraphSummary struct {
	Nodes    int `json:"nodes"`
	Links    int `json:"links"`
	Metadata any `json:"metadata"`
	Summary  any `json:"summary"`
}

// Stats reports node and link counts and metadata for both graphs.
func (h *Handler) Stats(c *gin.Context) {
	authors, err := network.ReadCollaborationGraph(filepath.Join(h.OutputDir, network.AuthorNetworkFile))
	if err != nil {
		respondReadError(c, "Author network data not found", err)
		return
	}
	citations, err := network.ReadCitationGraph(filepath.Join(h.OutputDir, network.CitationNetworkFile))
	if err != nil {
		respondReadError(c, "Citation network data not found", err)
		return
	}

	respondOK(c, gin.H{
		"author_network": GraphSummary{
			Nodes:    len(authors.Nodes),
			Links:    len(authors.Links),
			Metadata: authors.Metadata,
			Summary:  authors.Stats(),
		},
		"citation_network": GraphSummary{
			Nodes:    len(citations.Nodes),
			Links:    len(citations.Links),
			Metadata: citations.Metadata,
			Summary:  citations.Stats(),
		},
	})
}

// Papers lists papers from the catalog.
func (h *Handler) Papers(c *gin.Context) {
	from, to, ok := yearParams(c)
	if !ok {
		return
	}
	limit, offset, ok := pageParams(c)
	if !ok {
		return
	}

	db, ok := h.openCatalog(c)
	if !ok {
		return
	}
	defer db.Close()

	papers, total, err := db.ListPapers(catalog.PaperQuery{
		YearFrom: from,
		YearTo:   to,
		Title:    strings.TrimSpace(c.Query("q")),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	respondOK(c, gin.H{"total": total, "papers": papers})
}

// Authors lists authors from the catalog, most prolific first.
func (h *Handler) Authors(c *gin.Context) {
	limit, offset, ok := pageParams(c)
	if !ok {
		return
	}

	db, ok := h.openCatalog(c)
	if !ok {
		return
	}
	defer db.Close()

	authors, total, err := db.ListAuthors(limit, offset)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	respondOK(c, gin.H{"total": total, "authors": authors})
}

// Author returns one author and their papers.
func (h *Handler) Author(c *gin.Context) {
	db, ok := h.openCatalog(c)
	if !ok {
		return
	}
	defer db.Close()

	id := c.Param("id")
	author, err := db.GetAuthor(id)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	if author == nil {
		respondError(c, http.StatusNotFound, fmt.Sprintf("Author %s not found", id))
		return
	}

	papers, total, err := db.ListPapers(catalog.PaperQuery{AuthorID: id})
	if err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	respondOK(c, gin.H{"author": author, "total": total, "papers": papers})
}

func (h *Handler) openCatalog(c *gin.Context) (*catalog.DB, bool) {
	db, err := catalog.OpenExisting(h.CatalogPath)
	if err != nil {
		if errors.Is(err, catalog.ErrNotBuilt) {
			respondError(c, http.StatusNotFound, "Catalog not found (run 'scinet rebuild')")
		} else {
			respondError(c, http.StatusInternalServerError, err.Error())
		}
		return nil, false
	}
	return db, true
}

// respondReadError maps a missing file to 404 and anything else to 500.
func respondReadError(c *gin.Context, notFound string, err error) {
	if errors.Is(err, os.ErrNotExist) {
		respondError(c, http.StatusNotFound, notFound)
		return
	}
	respondError(c, http.StatusInternalServerError, err.Error())
}

// yearParams parses optional year_from and year_to. It writes a 400 and
// returns ok=false on malformed input.
func yearParams(c *gin.Context) (from, to int, ok bool) {
	if from, ok = intParam(c, "year_from"); !ok {
		return 0, 0, false
	}
	if to, ok = intParam(c, "year_to"); !ok {
		return 0, 0, false
	}
	if from > 0 && to > 0 && from > to {
		respondError(c, http.StatusBadRequest, "year_from must not be after year_to")
		return 0, 0, false
	}
	return from, to, true
}

func pageParams(c *gin.Context) (limit, offset int, ok bool) {
	if limit, ok = intParam(c, "limit"); !ok {
		return 0, 0, false
	}
	if offset, ok = intParam(c, "offset"); !ok {
		return 0, 0, false
	}
	return limit, offset, true
}

func intParam(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		respondError(c, http.StatusBadRequest, fmt.Sprintf("%s must be a non-negative integer", name))
		return 0, false
	}
	return v, true
}
