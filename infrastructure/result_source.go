package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"zlpix/application"

	log "github.com/sirupsen/logrus"
)

// FederalLotteryFeed fetches official draw results from an HTTP JSON feed.
type FederalLotteryFeed struct {
	baseURL    string
	httpClient *http.Client
}

// NewFederalLotteryFeed creates a feed client for the given base URL
func NewFederalLotteryFeed(baseURL string) *FederalLotteryFeed {
	return &FederalLotteryFeed{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type feedResponse struct {
	DrawDate string   `json:"draw_date"`
	Numbers  []string `json:"numbers"`
}

// Fetch retrieves the official numbers for a draw date. A 404 from the feed
// means the result has not been published yet.
func (f *FederalLotteryFeed) Fetch(ctx context.Context, drawDate time.Time) ([]string, error) {
	url := fmt.Sprintf("%s/results/%s", f.baseURL, drawDate.Format("2006-01-02"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build feed request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch draw result: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, application.ErrResultUnavailable
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("draw result feed returned status %d", resp.StatusCode)
	}

	var body feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode draw result feed: %w", err)
	}

	if len(body.Numbers) == 0 {
		return nil, application.ErrResultUnavailable
	}

	log.WithFields(log.Fields{
		"drawDate": drawDate.Format("2006-01-02"),
		"numbers":  body.Numbers,
	}).Debug("Fetched official draw result")

	return body.Numbers, nil
}

// ManualResultSource holds admin-supplied official results, consulted before
// the external feed. Results are keyed by draw date.
type ManualResultSource struct {
	mu      sync.RWMutex
	results map[string][]string
}

// NewManualResultSource creates an empty manual result source
func NewManualResultSource() *ManualResultSource {
	return &ManualResultSource{
		results: make(map[string][]string),
	}
}

// Set records the official numbers for a draw date
func (s *ManualResultSource) Set(drawDate time.Time, numbers []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[drawDate.Format("2006-01-02")] = numbers
}

// Fetch returns the recorded numbers for a draw date, or ErrResultUnavailable
func (s *ManualResultSource) Fetch(ctx context.Context, drawDate time.Time) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	numbers, ok := s.results[drawDate.Format("2006-01-02")]
	if !ok {
		return nil, application.ErrResultUnavailable
	}
	return numbers, nil
}

// ChainedResultSource tries each source in order, falling through on
// ErrResultUnavailable.
type ChainedResultSource struct {
	sources []application.DrawResultSource
}

// NewChainedResultSource creates a result source that consults sources in order
func NewChainedResultSource(sources ...application.DrawResultSource) *ChainedResultSource {
	return &ChainedResultSource{sources: sources}
}

// Fetch returns the first available result
func (c *ChainedResultSource) Fetch(ctx context.Context, drawDate time.Time) ([]string, error) {
	for _, source := range c.sources {
		numbers, err := source.Fetch(ctx, drawDate)
		if err == nil {
			return numbers, nil
		}
		if err != application.ErrResultUnavailable {
			return nil, err
		}
	}
	return nil, application.ErrResultUnavailable
}
