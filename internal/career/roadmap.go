package career

import (
	"context"
	"encoding/json"
	"strings"

	"careercoach/internal/ai"
)

// Roadmap is a phased learning plan toward a target role.
type Roadmap struct {
	TargetRole string         `json:"target_role"`
	Phases     []RoadmapPhase `json:"phases"`
}

type RoadmapPhase struct {
	Title     string     `json:"title"`
	Duration  string     `json:"duration"`
	Goals     []string   `json:"goals"`
	Resources []Resource `json:"resources"`
	Milestone string     `json:"milestone"`
}

type Resource struct {
	Name string `json:"name"`
	Type string `json:"type"`
	URL  string `json:"url"`
}

// GenerateRoadmap builds a roadmap from a candidate profile. The profile is
// whatever structured or raw resume text the caller has; an empty timeframe
// lets the model pick one.
func (s *Service) GenerateRoadmap(ctx context.Context, profile, targetRole, timeframe string) (*Roadmap, error) {
	if strings.TrimSpace(timeframe) == "" {
		timeframe = "whatever is realistic for the gap"
	}

	prompt, err := renderPrompt("roadmap_generate", map[string]string{
		"PROFILE":     profile,
		"TARGET_ROLE": targetRole,
		"TIMEFRAME":   timeframe,
	})
	if err != nil {
		return nil, err
	}
	raw, err := s.gen.GenerateText(ctx, prompt)
	if err != nil {
		return nil, err
	}
	var out Roadmap
	if err := decodeJSON(raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AdjustRoadmap revises an existing roadmap from candidate feedback.
func (s *Service) AdjustRoadmap(ctx context.Context, current json.RawMessage, feedback string) (*Roadmap, error) {
	prompt, err := renderPrompt("roadmap_adjust", map[string]string{
		"ROADMAP":  string(current),
		"FEEDBACK": feedback,
	})
	if err != nil {
		return nil, err
	}
	raw, err := s.gen.GenerateText(ctx, prompt)
	if err != nil {
		return nil, err
	}
	var out Roadmap
	if err := decodeJSON(raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RoadmapChat answers a free-form question about a roadmap, carrying the
// prior conversation turns.
func (s *Service) RoadmapChat(ctx context.Context, roadmap json.RawMessage, question string, history []ai.Turn) (string, error) {
	system, err := renderPrompt("roadmap_chat", map[string]string{
		"ROADMAP": string(roadmap),
	})
	if err != nil {
		return "", err
	}

	// The system framing rides as the opening user turn; neither provider
	// exposes a dedicated system slot through the invocation layer.
	turns := make([]ai.Turn, 0, len(history)+1)
	turns = append(turns, ai.Turn{Role: ai.RoleUser, Text: system})
	turns = append(turns, history...)

	return s.gen.GenerateChat(ctx, question, turns)
}
