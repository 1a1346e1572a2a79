package career

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

const defaultQuestionCount = 5

// AssessmentParams describes the test to generate. Skills is the only
// required field; everything else has a workable default.
type AssessmentParams struct {
	// Type labels the assessment kind, e.g. "technical" or "behavioral".
	Type   string
	Skills []string
	// TargetRole, when set, frames the questions and drives the
	// difficulty hint unless Difficulty is given explicitly.
	TargetRole string
	Difficulty string
	Count      int
}

// Assessment is a generated multiple-choice skill test.
type Assessment struct {
	Type       string     `json:"type"`
	Skills     []string   `json:"skills"`
	TargetRole string     `json:"target_role,omitempty"`
	Difficulty string     `json:"difficulty"`
	Questions  []Question `json:"questions"`
}

type Question struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	AnswerIndex int      `json:"answer_index"`
	Explanation string   `json:"explanation"`
}

// Evaluation is the graded result of a submitted assessment.
type Evaluation struct {
	Score       int              `json:"score"`
	Total       int              `json:"total"`
	Percentage  float64          `json:"percentage"`
	Feedback    string           `json:"feedback"`
	PerQuestion []QuestionResult `json:"per_question"`
}

type QuestionResult struct {
	Question string `json:"question"`
	Correct  bool   `json:"correct"`
	Note     string `json:"note"`
}

func normalizeDifficulty(difficulty string) string {
	switch strings.ToLower(strings.TrimSpace(difficulty)) {
	case "easy":
		return "easy"
	case "hard":
		return "hard"
	default:
		return "medium"
	}
}

// difficultyForRole derives a difficulty hint from the seniority implied by
// a target role.
func difficultyForRole(role string) string {
	role = strings.ToLower(role)
	switch {
	case strings.Contains(role, "junior"), strings.Contains(role, "intern"):
		return "easy"
	case strings.Contains(role, "senior"), strings.Contains(role, "lead"), strings.Contains(role, "staff"):
		return "hard"
	default:
		return "medium"
	}
}

// GenerateAssessment builds a test over the requested skills. Unknown
// difficulties fall back to medium, a blank difficulty is derived from the
// target role, and a non-positive count gets the default.
func (s *Service) GenerateAssessment(ctx context.Context, params AssessmentParams) (*Assessment, error) {
	if params.Count <= 0 {
		params.Count = defaultQuestionCount
	}
	kind := strings.TrimSpace(params.Type)
	if kind == "" {
		kind = "technical"
	}
	role := strings.TrimSpace(params.TargetRole)

	difficulty := strings.TrimSpace(params.Difficulty)
	if difficulty == "" {
		difficulty = difficultyForRole(role)
	}

	roleContext := "no specific role"
	if role != "" {
		roleContext = role
	}

	prompt, err := renderPrompt("assessment_generate", map[string]string{
		"TYPE":        kind,
		"SKILLS":      strings.Join(params.Skills, ", "),
		"TARGET_ROLE": roleContext,
		"DIFFICULTY":  normalizeDifficulty(difficulty),
		"COUNT":       fmt.Sprintf("%d", params.Count),
	})
	if err != nil {
		return nil, err
	}
	raw, err := s.gen.GenerateText(ctx, prompt)
	if err != nil {
		return nil, err
	}
	var out Assessment
	if err := decodeJSON(raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// EvaluateAssessment grades submitted answers against a stored assessment.
// Answers map question index to chosen option index.
func (s *Service) EvaluateAssessment(ctx context.Context, assessment json.RawMessage, answers map[int]int) (*Evaluation, error) {
	encoded, err := json.Marshal(answers)
	if err != nil {
		return nil, fmt.Errorf("encode answers: %w", err)
	}

	prompt, err := renderPrompt("assessment_evaluate", map[string]string{
		"ASSESSMENT": string(assessment),
		"ANSWERS":    string(encoded),
	})
	if err != nil {
		return nil, err
	}
	raw, err := s.gen.GenerateText(ctx, prompt)
	if err != nil {
		return nil, err
	}
	var out Evaluation
	if err := decodeJSON(raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
