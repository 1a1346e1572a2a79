package career

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"careercoach/internal/ai"
)

// Interviewer personas, ordered by how much pressure they apply.
var personas = map[string]string{
	"easy":   "A friendly, encouraging interviewer who asks straightforward questions and helps the candidate relax.",
	"medium": "A professional, neutral interviewer who asks standard questions for the role and follows up on vague answers.",
	"hard":   "A demanding senior interviewer who drills into details, challenges assumptions and expects precise answers.",
}

// InterviewSummary is the coach's review of a finished mock interview.
type InterviewSummary struct {
	Overall    string   `json:"overall"`
	Score      int      `json:"score"`
	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`
	Advice     []string `json:"advice"`
}

func personaDescription(persona string) string {
	if desc, ok := personas[strings.ToLower(strings.TrimSpace(persona))]; ok {
		return desc
	}
	return personas["medium"]
}

// InterviewTurn produces the interviewer's next question given the
// conversation so far. The candidate's latest answer is the prompt; an empty
// answer starts the interview.
func (s *Service) InterviewTurn(ctx context.Context, role, persona, answer string, history []ai.Turn) (string, error) {
	system, err := renderPrompt("interview_turn", map[string]string{
		"ROLE":                role,
		"PERSONA_DESCRIPTION": personaDescription(persona),
	})
	if err != nil {
		return "", err
	}

	turns := make([]ai.Turn, 0, len(history)+1)
	turns = append(turns, ai.Turn{Role: ai.RoleUser, Text: system})
	turns = append(turns, history...)

	if strings.TrimSpace(answer) == "" {
		answer = "Please begin the interview."
	}

	return s.gen.GenerateChat(ctx, answer, turns)
}

// SummarizeInterview reviews a full transcript and scores the candidate.
func (s *Service) SummarizeInterview(ctx context.Context, role string, transcript []ai.Turn) (*InterviewSummary, error) {
	var builder strings.Builder
	for _, turn := range transcript {
		speaker := "Candidate"
		if turn.Role == ai.RoleModel {
			speaker = "Interviewer"
		}
		fmt.Fprintf(&builder, "%s: %s\n", speaker, turn.Text)
	}

	prompt, err := renderPrompt("interview_summary", map[string]string{
		"ROLE":       role,
		"TRANSCRIPT": builder.String(),
	})
	if err != nil {
		return nil, err
	}
	raw, err := s.gen.GenerateText(ctx, prompt)
	if err != nil {
		return nil, err
	}
	var out InterviewSummary
	if err := decodeJSON(raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TranscriptJSON encodes interview turns for storage.
func TranscriptJSON(turns []ai.Turn) (json.RawMessage, error) {
	encoded, err := json.Marshal(turns)
	if err != nil {
		return nil, fmt.Errorf("encode transcript: %w", err)
	}
	return encoded, nil
}
