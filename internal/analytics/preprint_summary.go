// Package analytics aggregates per-provider preprint counts from the
// search/analytics backend.
package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/madrona-research/madrona/internal/config"
	"github.com/madrona-research/madrona/internal/metrics"
	"github.com/madrona-research/madrona/internal/preprints"
	"gorm.io/gorm"
)

// ProviderCount is the per-provider total for one day
type ProviderCount struct {
	Name  string `json:"name"`
	Total int    `json:"total"`
}

// Event is one per-provider summary document
type Event struct {
	Timestamp time.Time     `json:"timestamp"`
	Provider  ProviderCount `json:"provider"`
}

// PreprintSummary queries the search backend for daily preprint counts
type PreprintSummary struct {
	SearchURL string
	Client    *http.Client
}

// NewPreprintSummary builds a summary client from the loaded configuration
func NewPreprintSummary() *PreprintSummary {
	timeout := config.GetDuration("analytics.timeout")
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &PreprintSummary{
		SearchURL: config.GetString("analytics.search_url"),
		Client:    &http.Client{Timeout: timeout},
	}
}

type rangeFilter struct {
	GTE string `json:"gte"`
	LT  string `json:"lt"`
}

type searchQuery struct {
	Query struct {
		Bool struct {
			Filter []map[string]interface{} `json:"filter"`
		} `json:"bool"`
	} `json:"query"`
	Size int `json:"size"`
}

type searchResponse struct {
	Hits struct {
		Total int `json:"total"`
	} `json:"hits"`
}

// GetEvents returns one event per provider with the number of preprints
// created on the given day (UTC midnight to the next midnight, exclusive).
func (s *PreprintSummary) GetEvents(ctx context.Context, db *gorm.DB, day time.Time) ([]Event, error) {
	providers, err := preprints.ListProviders(db)
	if err != nil {
		return nil, err
	}

	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)

	events := make([]Event, 0, len(providers))
	for _, provider := range providers {
		total, err := s.countForProvider(ctx, provider.Name, start, end)
		if err != nil {
			return nil, fmt.Errorf("failed to count preprints for provider %s: %w", provider.Name, err)
		}

		events = append(events, Event{
			Timestamp: start,
			Provider:  ProviderCount{Name: provider.Name, Total: total},
		})
	}

	return events, nil
}

// countForProvider issues one search query and parses the hit total
func (s *PreprintSummary) countForProvider(ctx context.Context, name string, start, end time.Time) (int, error) {
	var query searchQuery
	query.Query.Bool.Filter = []map[string]interface{}{
		{"term": map[string]string{"provider": name}},
		{"range": map[string]rangeFilter{
			"date_created": {
				GTE: start.Format(time.RFC3339),
				LT:  end.Format(time.RFC3339),
			},
		}},
	}

	body, err := json.Marshal(&query)
	if err != nil {
		return 0, fmt.Errorf("failed to encode query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.SearchURL, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	metrics.AnalyticsQueries.Inc()
	resp, err := s.Client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("search backend returned status %d", resp.StatusCode)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return 0, fmt.Errorf("failed to decode search response: %w", err)
	}

	return parsed.Hits.Total, nil
}
