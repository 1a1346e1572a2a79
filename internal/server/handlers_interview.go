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

type interviewStartRequest struct {
	Role    string `json:"role" binding:"required"`
	Persona string `json:"persona"`
}

func (s *Server) handleInterviewStart(c *gin.Context) {
	var req interviewStartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "role is required")
		return
	}

	question, err := s.coach.InterviewTurn(c.Request.Context(), req.Role, req.Persona, "", nil)
	if err != nil {
		s.respondError(c, err)
		return
	}

	turns := []ai.Turn{{Role: ai.RoleModel, Text: question}}
	encoded, err := json.Marshal(turns)
	if err != nil {
		s.respondError(c, err)
		return
	}

	rec := &store.InterviewSession{
		ID:      uuid.NewString(),
		Role:    req.Role,
		Persona: req.Persona,
		Turns:   datatypes.JSON(encoded),
	}
	if err := s.store.SaveInterview(rec); err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": rec.ID, "question": question})
}

type interviewTurnRequest struct {
	Answer string `json:"answer" binding:"required"`
}

func (s *Server) handleInterviewTurn(c *gin.Context) {
	var req interviewTurnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "answer is required")
		return
	}

	rec, err := s.store.GetInterview(c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	var turns []ai.Turn
	if err := json.Unmarshal(rec.Turns, &turns); err != nil {
		s.respondError(c, err)
		return
	}

	question, err := s.coach.InterviewTurn(c.Request.Context(), rec.Role, rec.Persona, req.Answer, turns)
	if err != nil {
		s.respondError(c, err)
		return
	}

	turns = append(turns,
		ai.Turn{Role: ai.RoleUser, Text: req.Answer},
		ai.Turn{Role: ai.RoleModel, Text: question},
	)
	encoded, err := json.Marshal(turns)
	if err != nil {
		s.respondError(c, err)
		return
	}
	rec.Turns = datatypes.JSON(encoded)
	if err := s.store.SaveInterview(rec); err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"question": question})
}

func (s *Server) handleInterviewSummary(c *gin.Context) {
	rec, err := s.store.GetInterview(c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	var turns []ai.Turn
	if err := json.Unmarshal(rec.Turns, &turns); err != nil {
		s.respondError(c, err)
		return
	}

	summary, err := s.coach.SummarizeInterview(c.Request.Context(), rec.Role, turns)
	if err != nil {
		s.respondError(c, err)
		return
	}

	if encoded, merr := json.Marshal(summary); merr == nil {
		rec.Summary = datatypes.JSON(encoded)
		if serr := s.store.SaveInterview(rec); serr != nil {
			s.respondError(c, serr)
			return
		}
	}

	c.JSON(http.StatusOK, summary)
}
