package server

import (
	"encoding/json"
	"net/http"

	"careercoach/internal/ai"
	"careercoach/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type roadmapGenerateRequest struct {
	ResumeID   string `json:"resume_id" binding:"required"`
	TargetRole string `json:"target_role" binding:"required"`
	Timeframe  string `json:"timeframe"`
}

func (s *Server) handleRoadmapGenerate(c *gin.Context) {
	var req roadmapGenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "resume_id and target_role are required")
		return
	}

	rec, err := s.store.GetResume(req.ResumeID)
	if err != nil {
		s.respondError(c, err)
		return
	}

	// Prefer the structured profile; fall back to raw text for resumes
	// uploaded while the AI was unavailable.
	profile := rec.RawText
	if len(rec.Structured) > 0 {
		profile = string(rec.Structured)
	}

	roadmap, err := s.coach.GenerateRoadmap(c.Request.Context(), profile, req.TargetRole, req.Timeframe)
	if err != nil {
		s.respondError(c, err)
		return
	}

	encoded, err := json.Marshal(roadmap)
	if err != nil {
		s.respondError(c, err)
		return
	}

	rec2 := &store.Roadmap{
		ID:         uuid.NewString(),
		ResumeID:   req.ResumeID,
		TargetRole: req.TargetRole,
		Content:    datatypes.JSON(encoded),
	}
	if err := s.store.SaveRoadmap(rec2); err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, rec2)
}

func (s *Server) handleRoadmapGet(c *gin.Context) {
	rec, err := s.store.GetRoadmap(c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

type roadmapAdjustRequest struct {
	Feedback string `json:"feedback" binding:"required"`
}

func (s *Server) handleRoadmapAdjust(c *gin.Context) {
	var req roadmapAdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "feedback is required")
		return
	}

	rec, err := s.store.GetRoadmap(c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	adjusted, err := s.coach.AdjustRoadmap(c.Request.Context(), json.RawMessage(rec.Content), req.Feedback)
	if err != nil {
		s.respondError(c, err)
		return
	}

	encoded, err := json.Marshal(adjusted)
	if err != nil {
		s.respondError(c, err)
		return
	}
	rec.Content = datatypes.JSON(encoded)
	if err := s.store.SaveRoadmap(rec); err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, rec)
}

type roadmapChatRequest struct {
	Question string    `json:"question" binding:"required"`
	History  []ai.Turn `json:"history"`
}

func (s *Server) handleRoadmapChat(c *gin.Context) {
	var req roadmapChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "question is required")
		return
	}

	rec, err := s.store.GetRoadmap(c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	answer, err := s.coach.RoadmapChat(c.Request.Context(), json.RawMessage(rec.Content), req.Question, req.History)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"answer": answer})
}
