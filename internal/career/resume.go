package career

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// StructuredResume is the typed profile extracted from a raw resume.
type StructuredResume struct {
	Name           string       `json:"name"`
	Title          string       `json:"title"`
	Summary        string       `json:"summary"`
	Contact        Contact      `json:"contact"`
	Experience     []Experience `json:"experience"`
	Education      []Education  `json:"education"`
	Skills         []string     `json:"skills"`
	Certifications []string     `json:"certifications"`
}

type Contact struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
}

type Experience struct {
	Company    string   `json:"company"`
	Role       string   `json:"role"`
	Period     string   `json:"period"`
	Highlights []string `json:"highlights"`
}

type Education struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Period      string `json:"period"`
}

// SkillProfile groups resume skills by category.
type SkillProfile struct {
	Technical []string `json:"technical"`
	Soft      []string `json:"soft"`
	Tools     []string `json:"tools"`
	Domains   []string `json:"domains"`
}

// OptimizedResume is a rewrite of the resume targeted at a role.
type OptimizedResume struct {
	OptimizedResume string          `json:"optimized_resume"`
	Changes         []ResumeChange  `json:"changes"`
	KeywordsAdded   []string        `json:"keywords_added"`
	Raw             json.RawMessage `json:"-"`
}

type ResumeChange struct {
	Section string `json:"section"`
	Reason  string `json:"reason"`
}

// ResumeAnalysis scores a resume against a role.
type ResumeAnalysis struct {
	Score        int      `json:"score"`
	Strengths    []string `json:"strengths"`
	Gaps         []string `json:"gaps"`
	Suggestions  []string `json:"suggestions"`
	InferredRole string   `json:"inferred_role"`
}

// StructureResume extracts a typed profile from raw resume text.
func (s *Service) StructureResume(ctx context.Context, rawText string) (*StructuredResume, error) {
	prompt, err := renderPrompt("structure_resume", map[string]string{"RESUME": rawText})
	if err != nil {
		return nil, err
	}
	raw, err := s.gen.GenerateText(ctx, prompt)
	if err != nil {
		return nil, err
	}
	var out StructuredResume
	if err := decodeJSON(raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CategorizeSkills groups the skills evidenced by a resume.
func (s *Service) CategorizeSkills(ctx context.Context, rawText string) (*SkillProfile, error) {
	prompt, err := renderPrompt("categorize_skills", map[string]string{"RESUME": rawText})
	if err != nil {
		return nil, err
	}
	raw, err := s.gen.GenerateText(ctx, prompt)
	if err != nil {
		return nil, err
	}
	var out SkillProfile
	if err := decodeJSON(raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// OptimizeOptions scopes a resume rewrite. An empty Section means the whole
// resume; JobDescription, when present, steers keyword and achievement
// alignment toward a concrete listing.
type OptimizeOptions struct {
	TargetRole     string
	Section        string
	JobDescription string
}

// OptimizeResume rewrites the resume, or one section of it, for a target
// role.
func (s *Service) OptimizeResume(ctx context.Context, rawText string, opts OptimizeOptions) (*OptimizedResume, error) {
	scope := "the whole resume"
	if section := strings.TrimSpace(opts.Section); section != "" {
		scope = fmt.Sprintf("only the %q section; leave every other section unchanged", section)
	}

	jobContext := ""
	if jd := strings.TrimSpace(opts.JobDescription); jd != "" {
		jobContext = "Align keywords and achievements with this job description:\n" + jd + "\n"
	}

	prompt, err := renderPrompt("optimize_resume", map[string]string{
		"RESUME":      rawText,
		"TARGET_ROLE": opts.TargetRole,
		"SCOPE":       scope,
		"JOB_CONTEXT": jobContext,
	})
	if err != nil {
		return nil, err
	}
	raw, err := s.gen.GenerateText(ctx, prompt)
	if err != nil {
		return nil, err
	}
	var out OptimizedResume
	if err := decodeJSON(raw, &out); err != nil {
		return nil, err
	}
	out.Raw = json.RawMessage(ExtractJSON(raw))
	return &out, nil
}

// AnalyzeResume scores the resume against a target role. When no role is
// given the model infers one from the resume itself, so analysis always
// produces a usable fit score.
func (s *Service) AnalyzeResume(ctx context.Context, rawText, targetRole string) (*ResumeAnalysis, error) {
	role := strings.TrimSpace(targetRole)
	if role == "" {
		role = "the role this resume appears to target"
	}

	prompt, err := renderPrompt("analyze_resume", map[string]string{
		"RESUME":      rawText,
		"TARGET_ROLE": role,
	})
	if err != nil {
		return nil, err
	}
	raw, err := s.gen.GenerateText(ctx, prompt)
	if err != nil {
		return nil, err
	}
	var out ResumeAnalysis
	if err := decodeJSON(raw, &out); err != nil {
		return nil, err
	}

	if targetRole == "" {
		s.logger.Debug("analysis ran against inferred role",
			zap.String("inferred_role", out.InferredRole),
		)
	}
	return &out, nil
}
