package server

import (
	"github.com/gin-gonic/gin"

	"github.com/matsen/scinet/internal/logging"
)

// NewRouter wires the read-only API.
func NewRouter(h *Handler, log *logging.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(log))
	r.Use(CORS())

	r.GET("/", h.Index)
	r.GET("/health", h.Health)

	api := r.Group("/api")
	{
		api.GET("/author-network", h.AuthorNetwork)
		api.GET("/citation-network", h.CitationNetwork)
		api.GET("/papers", h.Papers)
		api.GET("/authors", h.Authors)
		api.GET("/authors/:id", h.Author)
		api.GET("/stats", h.Stats)
	}

	return r
}
