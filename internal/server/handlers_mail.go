package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type mailDraftRequest struct {
	Purpose   string `json:"purpose" binding:"required"`
	Recipient string `json:"recipient" binding:"required"`
	Tone      string `json:"tone"`
	ResumeID  string `json:"resume_id"`
}

func (s *Server) handleMailDraft(c *gin.Context) {
	var req mailDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "purpose and recipient are required")
		return
	}

	background := ""
	if req.ResumeID != "" {
		rec, err := s.store.GetResume(req.ResumeID)
		if err != nil {
			s.respondError(c, err)
			return
		}
		background = rec.RawText
		if len(rec.Structured) > 0 {
			background = string(rec.Structured)
		}
	}

	draft, err := s.coach.DraftMail(c.Request.Context(), req.Purpose, req.Recipient, req.Tone, background)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, draft)
}
