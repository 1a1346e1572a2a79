package server

import (
	"encoding/json"
	"io"
	"net/http"

	"careercoach/internal/career"
	"careercoach/internal/resume"
	"careercoach/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

const maxUploadBytes = 10 << 20

func (s *Server) handleResumeUpload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		badRequest(c, "multipart field 'file' is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		s.respondError(c, err)
		return
	}
	if len(data) > maxUploadBytes {
		badRequest(c, "file too large")
		return
	}

	mime := header.Header.Get("Content-Type")
	rawText, err := resume.ExtractText(mime, data)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	rec := &store.Resume{
		ID:       uuid.NewString(),
		FileName: header.Filename,
		RawText:  rawText,
	}

	// Structure and categorize in the same request; a failed AI call
	// still leaves the raw text stored and retrievable.
	structured, err := s.coach.StructureResume(c.Request.Context(), rawText)
	if err == nil {
		if encoded, merr := json.Marshal(structured); merr == nil {
			rec.Structured = datatypes.JSON(encoded)
		}
	} else {
		s.logger.Warn("resume structuring failed, storing raw text only",
			zap.String("resume_id", rec.ID),
			zap.Error(err),
		)
	}

	if skills, serr := s.coach.CategorizeSkills(c.Request.Context(), rawText); serr == nil {
		if encoded, merr := json.Marshal(skills); merr == nil {
			rec.Skills = datatypes.JSON(encoded)
		}
	}

	if err := s.store.SaveResume(rec); err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, rec)
}

func (s *Server) handleResumeList(c *gin.Context) {
	resumes, err := s.store.ListResumes()
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"resumes": resumes})
}

func (s *Server) handleResumeGet(c *gin.Context) {
	rec, err := s.store.GetResume(c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (s *Server) handleResumeDelete(c *gin.Context) {
	if err := s.store.DeleteResume(c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type optimizeRequest struct {
	TargetRole     string `json:"target_role" binding:"required"`
	Section        string `json:"section"`
	JobDescription string `json:"job_description"`
}

func (s *Server) handleResumeOptimize(c *gin.Context) {
	var req optimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "target_role is required")
		return
	}

	rec, err := s.store.GetResume(c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	opt, err := s.coach.OptimizeResume(c.Request.Context(), rec.RawText, career.OptimizeOptions{
		TargetRole:     req.TargetRole,
		Section:        req.Section,
		JobDescription: req.JobDescription,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, opt)
}

type analyzeRequest struct {
	TargetRole string `json:"target_role"`
}

func (s *Server) handleResumeAnalyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		badRequest(c, "invalid request body")
		return
	}

	rec, err := s.store.GetResume(c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	analysis, err := s.coach.AnalyzeResume(c.Request.Context(), rec.RawText, req.TargetRole)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, analysis)
}
