package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"careercoach/internal/ai"

	"go.uber.org/zap"
)

// MatchRating is the AI's judgement of one listing against the resume.
type MatchRating struct {
	Score  int    `json:"score"`
	Reason string `json:"reason"`
	// Degraded marks ratings produced without the AI, when the whole
	// provider chain was unavailable. The listing is still returned.
	Degraded bool `json:"degraded,omitempty"`
}

// Rater scores a listing against the candidate.
type Rater interface {
	Rate(ctx context.Context, listing *Listing) *MatchRating
}

// TextGenerator is the slice of the invocation chain the rater needs.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

const ratingPrompt = `You are a recruiter. Rate how well the candidate below fits the job listing.

Return ONLY a JSON object, no prose:

{"score": 0, "reason": ""}

"score" is an integer from 0 to 100.

Job listing:
Title: {{TITLE}}
Company: {{COMPANY}}
Description: {{DESCRIPTION}}

Candidate resume:
{{RESUME}}
`

// AIRater rates listings with one generation call each, degrading to an
// unscored rating when the AI chain is exhausted.
type AIRater struct {
	gen        TextGenerator
	resumeText string
	logger     *zap.Logger
}

// NewAIRater builds a rater bound to one resume.
func NewAIRater(gen TextGenerator, resumeText string, logger *zap.Logger) *AIRater {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AIRater{gen: gen, resumeText: resumeText, logger: logger}
}

// Rate never fails: provider exhaustion yields a degraded rating so the
// match endpoint keeps working on keyword overlap alone.
func (r *AIRater) Rate(ctx context.Context, listing *Listing) *MatchRating {
	prompt := ratingPrompt
	for key, value := range map[string]string{
		"TITLE":       listing.Title,
		"COMPANY":     listing.Company,
		"DESCRIPTION": listing.Description,
		"RESUME":      r.resumeText,
	} {
		prompt = strings.ReplaceAll(prompt, "{{"+key+"}}", value)
	}

	raw, err := r.gen.GenerateText(ctx, prompt)
	if err != nil {
		if errors.Is(err, ai.ErrUnavailable) {
			return &MatchRating{Reason: "AI rating unavailable", Degraded: true}
		}
		r.logger.Warn("listing rating failed",
			zap.String("listing_id", listing.ID),
			zap.Error(err),
		)
		return &MatchRating{Reason: "rating failed", Degraded: true}
	}

	var rating MatchRating
	if err := json.Unmarshal([]byte(extractJSONObject(raw)), &rating); err != nil {
		r.logger.Warn("listing rating unparsable",
			zap.String("listing_id", listing.ID),
			zap.Error(err),
		)
		return &MatchRating{Reason: "rating unparsable", Degraded: true}
	}
	return &rating
}

func extractJSONObject(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSuffix(strings.TrimSpace(raw), "```")
	}
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		return raw[start : end+1]
	}
	return raw
}

// MatchResult is the response of the match endpoint.
type MatchResult struct {
	Query    string    `json:"query"`
	Listings []Listing `json:"listings"`
}

// Match runs the full pipeline: board search, dedupe, skill overlap, then
// AI rating of the top candidates.
func Match(ctx context.Context, board *BoardClient, deps Deps, query, location string, maxResults int) (*MatchResult, error) {
	listings, err := board.Search(ctx, query, location, maxResults)
	if err != nil {
		return nil, fmt.Errorf("search job board: %w", err)
	}

	steps := []Filter{
		NewDedupe(),
		NewSkillOverlap(1),
		NewRating(5),
	}
	filtered, err := Run(ctx, deps, steps, listings)
	if err != nil {
		return nil, err
	}

	return &MatchResult{Query: query, Listings: filtered}, nil
}
