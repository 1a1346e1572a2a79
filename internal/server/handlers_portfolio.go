package server

import (
	"encoding/json"
	"net/http"

	"careercoach/internal/career"
	"careercoach/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type portfolioCreateRequest struct {
	ResumeID string `json:"resume_id" binding:"required"`
}

func (s *Server) handlePortfolioCreate(c *gin.Context) {
	var req portfolioCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "resume_id is required")
		return
	}

	rec, err := s.store.GetResume(req.ResumeID)
	if err != nil {
		s.respondError(c, err)
		return
	}

	var profile *career.StructuredResume
	if len(rec.Structured) > 0 {
		profile = &career.StructuredResume{}
		if err := json.Unmarshal(rec.Structured, profile); err != nil {
			s.respondError(c, err)
			return
		}
	} else {
		// Structuring may have been skipped at upload time; do it now.
		profile, err = s.coach.StructureResume(c.Request.Context(), rec.RawText)
		if err != nil {
			s.respondError(c, err)
			return
		}
	}

	html, err := career.RenderPortfolio(profile)
	if err != nil {
		s.respondError(c, err)
		return
	}

	rec2 := &store.Portfolio{
		ID:       uuid.NewString(),
		ResumeID: req.ResumeID,
		HTML:     html,
	}
	if err := s.store.SavePortfolio(rec2); err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": rec2.ID})
}

func (s *Server) handlePortfolioGet(c *gin.Context) {
	rec, err := s.store.GetPortfolio(c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(rec.HTML))
}
