package jobs

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Filter is one step of the match pipeline.
type Filter interface {
	Name() string
	Apply(ctx context.Context, deps Deps, listings []Listing) ([]Listing, Step, error)
}

// Deps aggregates dependencies shared across all pipeline steps.
type Deps struct {
	Logger       *zap.Logger
	ResumeSkills []string
	Rater        Rater
}

// Step describes the result of executing one pipeline step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Run executes the filters sequentially, logging each step's outcome.
func Run(ctx context.Context, deps Deps, steps []Filter, listings []Listing) ([]Listing, error) {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	for _, step := range steps {
		next, info, err := step.Apply(ctx, deps, listings)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		deps.Logger.Info("match pipeline step",
			zap.String("name", step.Name()),
			zap.Int("initial", info.Initial),
			zap.Int("dropped", info.Dropped),
			zap.Int("left", info.Left),
		)

		listings = next
	}

	return listings, nil
}

type dedupeFilter struct{}

// NewDedupe creates a filter that removes duplicate listings. Boards return
// the same posting under multiple IDs when it is syndicated.
func NewDedupe() Filter {
	return &dedupeFilter{}
}

func (f *dedupeFilter) Name() string { return "dedupe" }

func (f *dedupeFilter) Apply(_ context.Context, _ Deps, listings []Listing) ([]Listing, Step, error) {
	initial := len(listings)
	seen := make(map[string]struct{}, initial)
	out := make([]Listing, 0, initial)
	for _, l := range listings {
		key := strings.ToLower(l.Company + "|" + l.Title)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, l)
	}
	return out, Step{Initial: initial, Dropped: initial - len(out), Left: len(out)}, nil
}

type skillOverlapFilter struct {
	minimum int
}

// NewSkillOverlap creates a filter that drops listings sharing fewer than
// minimum skills with the resume and annotates the rest with the overlap.
func NewSkillOverlap(minimum int) Filter {
	if minimum < 1 {
		minimum = 1
	}
	return &skillOverlapFilter{minimum: minimum}
}

func (f *skillOverlapFilter) Name() string { return "skill_overlap" }

func (f *skillOverlapFilter) Apply(_ context.Context, deps Deps, listings []Listing) ([]Listing, Step, error) {
	initial := len(listings)
	if len(deps.ResumeSkills) == 0 {
		// Nothing to match against; pass everything through unannotated.
		return listings, Step{Initial: initial, Dropped: 0, Left: initial}, nil
	}

	out := make([]Listing, 0, initial)
	for _, l := range listings {
		matched := Overlap(ExtractSkills(l.Title+" "+l.Description), deps.ResumeSkills)
		if len(matched) < f.minimum {
			continue
		}
		l.MatchedSkills = matched
		out = append(out, l)
	}
	return out, Step{Initial: initial, Dropped: initial - len(out), Left: len(out)}, nil
}

type ratingFilter struct {
	limit int
}

// NewRating creates the AI rating step. It annotates rather than drops: an
// unratable listing is still worth showing. At most limit listings are
// rated to bound AI spend per request.
func NewRating(limit int) Filter {
	if limit <= 0 {
		limit = 5
	}
	return &ratingFilter{limit: limit}
}

func (f *ratingFilter) Name() string { return "ai_rating" }

func (f *ratingFilter) Apply(ctx context.Context, deps Deps, listings []Listing) ([]Listing, Step, error) {
	initial := len(listings)
	if deps.Rater == nil {
		deps.Logger.Info("rater is not configured; skipping ai_rating step")
		return listings, Step{Initial: initial, Dropped: 0, Left: initial}, nil
	}

	for i := range listings {
		if i >= f.limit {
			break
		}
		rating := deps.Rater.Rate(ctx, &listings[i])
		listings[i].Rating = rating

		deps.Logger.Debug("listing rated",
			zap.String("listing_id", listings[i].ID),
			zap.Int("score", rating.Score),
			zap.Bool("degraded", rating.Degraded),
		)
	}

	return listings, Step{Initial: initial, Dropped: 0, Left: initial}, nil
}
