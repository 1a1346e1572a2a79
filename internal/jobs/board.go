// Package jobs searches public job boards and matches listings against a
// candidate's resume.
package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	defaultBoardBaseURL = "https://api.adzuna.com/v1/api"
	defaultCountry      = "gb"
	resultsPerPage      = 20
	boardTimeout        = 30 * time.Second
)

// Countries the board API serves, keyed by ISO code.
var supportedCountries = map[string]struct{}{
	"at": {}, "au": {}, "be": {}, "br": {}, "ca": {}, "ch": {}, "de": {},
	"es": {}, "fr": {}, "gb": {}, "in": {}, "it": {}, "mx": {}, "nl": {},
	"nz": {}, "pl": {}, "sg": {}, "us": {}, "za": {},
}

// Listing is one job posting in board-independent shape.
type Listing struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Company     string  `json:"company"`
	Location    string  `json:"location"`
	Description string  `json:"description"`
	URL         string  `json:"url"`
	SalaryMin   float64 `json:"salary_min,omitempty"`
	SalaryMax   float64 `json:"salary_max,omitempty"`

	// Filled by the match pipeline.
	MatchedSkills []string     `json:"matched_skills,omitempty"`
	Rating        *MatchRating `json:"rating,omitempty"`
}

// BoardClient talks to the Adzuna-compatible search API.
type BoardClient struct {
	baseURL string
	appID   string
	appKey  string
	country string
	http    *http.Client
	logger  *zap.Logger
}

// BoardConfig holds the board credentials and defaults.
type BoardConfig struct {
	BaseURL string
	AppID   string
	AppKey  string
	Country string
}

// NewBoardClient builds a board client. An unsupported or empty country
// falls back to the default.
func NewBoardClient(cfg BoardConfig, logger *zap.Logger) *BoardClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBoardBaseURL
	}
	country := strings.ToLower(strings.TrimSpace(cfg.Country))
	if _, ok := supportedCountries[country]; !ok {
		country = defaultCountry
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BoardClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		appID:   cfg.AppID,
		appKey:  cfg.AppKey,
		country: country,
		http:    &http.Client{Timeout: boardTimeout},
		logger:  logger,
	}
}

// Configured reports whether board credentials are present. Search fails
// without them; callers degrade the endpoint instead of crashing.
func (c *BoardClient) Configured() bool {
	return c.appID != "" && c.appKey != ""
}

type searchResponse struct {
	Count   int `json:"count"`
	Results []struct {
		ID      string `json:"id"`
		Title   string `json:"title"`
		Company struct {
			DisplayName string `json:"display_name"`
		} `json:"company"`
		Location struct {
			DisplayName string `json:"display_name"`
		} `json:"location"`
		Description string  `json:"description"`
		RedirectURL string  `json:"redirect_url"`
		SalaryMin   float64 `json:"salary_min"`
		SalaryMax   float64 `json:"salary_max"`
	} `json:"results"`
}

// Search queries the board, walking pages until maxResults listings are
// collected or the board runs out.
func (c *BoardClient) Search(ctx context.Context, query, location string, maxResults int) ([]Listing, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("job board credentials are not configured")
	}
	if maxResults <= 0 {
		maxResults = resultsPerPage
	}

	var listings []Listing
	for page := 1; len(listings) < maxResults; page++ {
		batch, total, err := c.searchPage(ctx, query, location, page)
		if err != nil {
			return nil, err
		}
		listings = append(listings, batch...)

		c.logger.Debug("job board page fetched",
			zap.Int("page", page),
			zap.Int("collected", len(listings)),
			zap.Int("total", total),
		)

		if len(batch) < resultsPerPage || len(listings) >= total {
			break
		}
	}

	if len(listings) > maxResults {
		listings = listings[:maxResults]
	}
	return listings, nil
}

func (c *BoardClient) searchPage(ctx context.Context, query, location string, page int) ([]Listing, int, error) {
	endpoint := fmt.Sprintf("%s/jobs/%s/search/%d", c.baseURL, c.country, page)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, err
	}

	q := url.Values{}
	q.Set("app_id", c.appID)
	q.Set("app_key", c.appKey)
	q.Set("what", query)
	q.Set("results_per_page", strconv.Itoa(resultsPerPage))
	q.Set("content-type", "application/json")
	if location != "" {
		q.Set("where", location)
	}
	req.URL.RawQuery = q.Encode()

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("job board request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, 0, fmt.Errorf("job board: bad status %s", resp.Status)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, 0, fmt.Errorf("job board response: %w", err)
	}

	listings := make([]Listing, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		listings = append(listings, Listing{
			ID:          r.ID,
			Title:       r.Title,
			Company:     r.Company.DisplayName,
			Location:    r.Location.DisplayName,
			Description: r.Description,
			URL:         r.RedirectURL,
			SalaryMin:   r.SalaryMin,
			SalaryMax:   r.SalaryMax,
		})
	}
	return listings, parsed.Count, nil
}
