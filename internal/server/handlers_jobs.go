package server

import (
	"net/http"

	"careercoach/internal/jobs"

	"github.com/gin-gonic/gin"
)

type jobsMatchRequest struct {
	ResumeID   string `json:"resume_id" binding:"required"`
	Query      string `json:"query" binding:"required"`
	Location   string `json:"location"`
	MaxResults int    `json:"max_results"`
}

func (s *Server) handleJobsMatch(c *gin.Context) {
	var req jobsMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "resume_id and query are required")
		return
	}

	if s.board == nil || !s.board.Configured() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "job board is not configured"})
		return
	}

	rec, err := s.store.GetResume(req.ResumeID)
	if err != nil {
		s.respondError(c, err)
		return
	}

	deps := jobs.Deps{
		Logger:       s.logger,
		ResumeSkills: jobs.ExtractSkills(rec.RawText),
		Rater:        jobs.NewAIRater(s.gen, rec.RawText, s.logger),
	}

	result, err := jobs.Match(c.Request.Context(), s.board, deps, req.Query, req.Location, req.MaxResults)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
