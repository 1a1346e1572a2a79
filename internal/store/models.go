package store

import (
	"time"

	"gorm.io/datatypes"
)

// Resume is an uploaded resume with its extracted text and the structured
// profile the AI derived from it.
type Resume struct {
	ID         string         `gorm:"primaryKey" json:"id"`
	FileName   string         `json:"file_name"`
	RawText    string         `json:"raw_text"`
	Structured datatypes.JSON `json:"structured,omitempty"`
	Skills     datatypes.JSON `json:"skills,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// Roadmap is a generated learning roadmap tied to a target role.
type Roadmap struct {
	ID         string         `gorm:"primaryKey" json:"id"`
	ResumeID   string         `gorm:"index" json:"resume_id"`
	TargetRole string         `json:"target_role"`
	Content    datatypes.JSON `json:"content"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// Assessment is a generated skill test and, after submission, its
// evaluation.
type Assessment struct {
	ID   string `gorm:"primaryKey" json:"id"`
	Type string `json:"type"`
	// Skills is the comma-joined list the test was generated for.
	Skills     string         `json:"skills"`
	TargetRole string         `json:"target_role,omitempty"`
	Difficulty string         `json:"difficulty"`
	Questions  datatypes.JSON `json:"questions"`
	Evaluation datatypes.JSON `json:"evaluation,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// InterviewSession accumulates the turns of one mock interview.
type InterviewSession struct {
	ID        string         `gorm:"primaryKey" json:"id"`
	Role      string         `json:"role"`
	Persona   string         `json:"persona"`
	Turns     datatypes.JSON `json:"turns"`
	Summary   datatypes.JSON `json:"summary,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Portfolio is a rendered portfolio page for a resume.
type Portfolio struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	ResumeID  string    `gorm:"index" json:"resume_id"`
	HTML      string    `json:"html"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
