package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"recruiting-platform/internal/board"
	apperrors "recruiting-platform/internal/common/errors"
	"recruiting-platform/internal/jobs"
	"recruiting-platform/internal/models"
)

func (s *Server) handleAdminListJobs(c *gin.Context) {
	list, err := s.jobs.ListAll(c.Request.Context())
	if err != nil {
		s.errors.Respond(c, err)
		return
	}
	if list == nil {
		list = []*models.Job{}
	}
	c.JSON(http.StatusOK, gin.H{"jobs": list})
}

func (s *Server) handleCreateJob(c *gin.Context) {
	var input jobs.Input
	if err := c.ShouldBindJSON(&input); err != nil {
		s.errors.Respond(c, apperrors.NewJobValidationFailedError("invalid request body"))
		return
	}

	job, err := s.jobs.Create(c.Request.Context(), input)
	if err != nil {
		s.errors.Respond(c, err)
		return
	}

	s.dashboard.Invalidate(c.Request.Context())
	c.JSON(http.StatusCreated, job)
}

func (s *Server) handleUpdateJob(c *gin.Context) {
	var input jobs.Input
	if err := c.ShouldBindJSON(&input); err != nil {
		s.errors.Respond(c, apperrors.NewJobValidationFailedError("invalid request body"))
		return
	}

	job, err := s.jobs.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		s.errors.Respond(c, err)
		return
	}

	s.dashboard.Invalidate(c.Request.Context())
	c.JSON(http.StatusOK, job)
}

func (s *Server) handleDeleteJob(c *gin.Context) {
	if err := s.jobs.Delete(c.Request.Context(), c.Param("id")); err != nil {
		s.errors.Respond(c, err)
		return
	}

	s.dashboard.Invalidate(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// handleJobBoard returns a job's applications grouped into pipeline columns.
func (s *Server) handleJobBoard(c *gin.Context) {
	apps, err := s.board.ListByJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.errors.Respond(c, err)
		return
	}

	b := board.New(apps)
	c.JSON(http.StatusOK, gin.H{"columns": b.Columns()})
}

type statusRequest struct {
	Status string `json:"status"`
}

// handleUpdateStatus moves an application to a new stage. The durable write
// and the best effort candidate email are handled by the pipeline service;
// the response reports both outcomes.
func (s *Server) handleUpdateStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.errors.Respond(c, apperrors.NewInvalidStageError("invalid request body"))
		return
	}

	result, err := s.pipeline.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		s.errors.Respond(c, err)
		return
	}

	s.dashboard.Invalidate(c.Request.Context())
	c.JSON(http.StatusOK, result)
}

// handleCandidateResumeURL hands an admin a download link for an applicant's
// resume.
func (s *Server) handleCandidateResumeURL(c *gin.Context) {
	app, err := s.board.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.errors.Respond(c, err)
		return
	}

	profile, err := s.profiles.GetByID(c.Request.Context(), app.CandidateID)
	if err != nil {
		s.errors.Respond(c, err)
		return
	}

	url, err := s.resumes.DownloadURL(c.Request.Context(), profile.ResumeKey)
	if err != nil {
		s.errors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

func (s *Server) handleListTalents(c *gin.Context) {
	talents, err := s.profiles.SearchTalents(c.Request.Context(), c.Query("q"))
	if err != nil {
		s.errors.Respond(c, err)
		return
	}
	if talents == nil {
		talents = []*models.Profile{}
	}
	c.JSON(http.StatusOK, gin.H{"talents": talents})
}

func (s *Server) handleDashboard(c *gin.Context) {
	stats, err := s.dashboard.GetStats(c.Request.Context())
	if err != nil {
		s.errors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
