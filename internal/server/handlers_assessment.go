package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"careercoach/internal/career"
	"careercoach/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type assessmentGenerateRequest struct {
	Type       string   `json:"type"`
	Skills     []string `json:"skills" binding:"required,min=1"`
	TargetRole string   `json:"target_role"`
	Difficulty string   `json:"difficulty"`
	Count      int      `json:"count"`
}

func (s *Server) handleAssessmentGenerate(c *gin.Context) {
	var req assessmentGenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "skills are required")
		return
	}

	assessment, err := s.coach.GenerateAssessment(c.Request.Context(), career.AssessmentParams{
		Type:       req.Type,
		Skills:     req.Skills,
		TargetRole: req.TargetRole,
		Difficulty: req.Difficulty,
		Count:      req.Count,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}

	encoded, err := json.Marshal(assessment)
	if err != nil {
		s.respondError(c, err)
		return
	}

	rec := &store.Assessment{
		ID:         uuid.NewString(),
		Type:       assessment.Type,
		Skills:     strings.Join(assessment.Skills, ", "),
		TargetRole: assessment.TargetRole,
		Difficulty: assessment.Difficulty,
		Questions:  datatypes.JSON(encoded),
	}
	if err := s.store.SaveAssessment(rec); err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, rec)
}

func (s *Server) handleAssessmentGet(c *gin.Context) {
	rec, err := s.store.GetAssessment(c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

type assessmentEvaluateRequest struct {
	Answers map[int]int `json:"answers" binding:"required"`
}

func (s *Server) handleAssessmentEvaluate(c *gin.Context) {
	var req assessmentEvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "answers are required")
		return
	}

	rec, err := s.store.GetAssessment(c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	eval, err := s.coach.EvaluateAssessment(c.Request.Context(), json.RawMessage(rec.Questions), req.Answers)
	if err != nil {
		s.respondError(c, err)
		return
	}

	if encoded, merr := json.Marshal(eval); merr == nil {
		rec.Evaluation = datatypes.JSON(encoded)
		if serr := s.store.SaveAssessment(rec); serr != nil {
			s.respondError(c, serr)
			return
		}
	}

	c.JSON(http.StatusOK, eval)
}
