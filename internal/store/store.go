// Package store is the persistence layer: a single SQLite database holding
// resumes, roadmaps, assessments, interview sessions and portfolios.
package store

import (
	"errors"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// ErrNotFound is returned when a lookup by ID matches nothing.
var ErrNotFound = errors.New("record not found")

// Store wraps the database handle.
type Store struct {
	db *gorm.DB
}

// Open opens (creating if needed) the SQLite database at path and migrates
// the schema.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.AutoMigrate(
		&Resume{},
		&Roadmap{},
		&Assessment{},
		&InterviewSession{},
		&Portfolio{},
	); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Reset deletes every row from every table. Used by the reset command.
func (s *Store) Reset() error {
	for _, model := range []any{
		&Portfolio{},
		&InterviewSession{},
		&Assessment{},
		&Roadmap{},
		&Resume{},
	} {
		if err := s.db.Where("1 = 1").Delete(model).Error; err != nil {
			return fmt.Errorf("reset: %w", err)
		}
	}
	return nil
}

func wrapLookup(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// SaveResume inserts or updates a resume.
func (s *Store) SaveResume(r *Resume) error {
	return s.db.Save(r).Error
}

// GetResume loads one resume by ID.
func (s *Store) GetResume(id string) (*Resume, error) {
	var r Resume
	if err := s.db.First(&r, "id = ?", id).Error; err != nil {
		return nil, wrapLookup(err)
	}
	return &r, nil
}

// ListResumes returns all resumes, newest first.
func (s *Store) ListResumes() ([]Resume, error) {
	var out []Resume
	if err := s.db.Order("created_at desc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteResume removes a resume and its dependents.
func (s *Store) DeleteResume(id string) error {
	res := s.db.Delete(&Resume{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	s.db.Delete(&Roadmap{}, "resume_id = ?", id)
	s.db.Delete(&Portfolio{}, "resume_id = ?", id)
	return nil
}

// SaveRoadmap inserts or updates a roadmap.
func (s *Store) SaveRoadmap(r *Roadmap) error {
	return s.db.Save(r).Error
}

// GetRoadmap loads one roadmap by ID.
func (s *Store) GetRoadmap(id string) (*Roadmap, error) {
	var r Roadmap
	if err := s.db.First(&r, "id = ?", id).Error; err != nil {
		return nil, wrapLookup(err)
	}
	return &r, nil
}

// SaveAssessment inserts or updates an assessment.
func (s *Store) SaveAssessment(a *Assessment) error {
	return s.db.Save(a).Error
}

// GetAssessment loads one assessment by ID.
func (s *Store) GetAssessment(id string) (*Assessment, error) {
	var a Assessment
	if err := s.db.First(&a, "id = ?", id).Error; err != nil {
		return nil, wrapLookup(err)
	}
	return &a, nil
}

// SaveInterview inserts or updates an interview session.
func (s *Store) SaveInterview(session *InterviewSession) error {
	return s.db.Save(session).Error
}

// GetInterview loads one interview session by ID.
func (s *Store) GetInterview(id string) (*InterviewSession, error) {
	var session InterviewSession
	if err := s.db.First(&session, "id = ?", id).Error; err != nil {
		return nil, wrapLookup(err)
	}
	return &session, nil
}

// SavePortfolio inserts or updates a portfolio.
func (s *Store) SavePortfolio(p *Portfolio) error {
	return s.db.Save(p).Error
}

// GetPortfolio loads one portfolio by ID.
func (s *Store) GetPortfolio(id string) (*Portfolio, error) {
	var p Portfolio
	if err := s.db.First(&p, "id = ?", id).Error; err != nil {
		return nil, wrapLookup(err)
	}
	return &p, nil
}
