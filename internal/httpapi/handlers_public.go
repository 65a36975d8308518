package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"recruiting-platform/internal/models"
	"recruiting-platform/internal/search"
)

// handleListJobs serves the public board. When any search parameter is
// present and the search index is available the query goes to Elasticsearch;
// otherwise the open postings come straight from the database.
func (s *Server) handleListJobs(c *gin.Context) {
	params := search.Params{
		Term:         c.Query("q"),
		CategoryID:   c.Query("category"),
		WorkModel:    c.Query("workModel"),
		ContractType: c.Query("contractType"),
		Location:     c.Query("location"),
		SortBy:       c.Query("sort"),
	}
	if from, err := strconv.Atoi(c.Query("from")); err == nil && from > 0 {
		params.From = from
	}
	if size, err := strconv.Atoi(c.Query("size")); err == nil && size > 0 {
		params.Size = size
	}

	if s.search != nil && hasSearchParams(params) {
		jobs, err := s.search.SearchJobs(c.Request.Context(), params)
		if err != nil {
			s.errors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"jobs": jobs})
		return
	}

	jobs, err := s.jobs.ListOpen(c.Request.Context())
	if err != nil {
		s.errors.Respond(c, err)
		return
	}
	if jobs == nil {
		jobs = []*models.Job{}
	}
	c.JSON(http.StatusOK, gin.H{"jobs": jobs})
}

func hasSearchParams(p search.Params) bool {
	return p.Term != "" || p.CategoryID != "" || p.WorkModel != "" ||
		p.ContractType != "" || p.Location != "" || p.SortBy != ""
}

func (s *Server) handleGetJob(c *gin.Context) {
	job, err := s.jobs.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.errors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

func (s *Server) handleListCategories(c *gin.Context) {
	categories, err := s.categories.List(c.Request.Context())
	if err != nil {
		s.errors.Respond(c, err)
		return
	}
	if categories == nil {
		categories = []*models.Category{}
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (s *Server) handleLookupCEP(c *gin.Context) {
	address, err := s.cep.Lookup(c.Request.Context(), c.Param("code"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "cep not found"})
		return
	}
	c.JSON(http.StatusOK, address)
}
