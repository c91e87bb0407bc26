// Package summary covers the AI-generated patient overview: kicking off
// generation and polling until the backend finishes processing.
package summary

import (
	"context"
	"time"

	"github.com/medsyn/console/internal/platform/gateway"
)

// DefaultPollInterval is how often Await re-checks a processing summary.
const DefaultPollInterval = 3 * time.Second

// Overview is the envelope payload of the summary endpoints. IsProcessing
// true means generation is still running and Summary holds the previous
// text, if any.
type Overview struct {
	HealthID     string     `json:"healthId"`
	Summary      string     `json:"summary"`
	IsProcessing bool       `json:"isProcessing"`
	GeneratedAt  *time.Time `json:"generatedAt,omitempty"`
}

type Service struct {
	client *gateway.Client
}

func NewService(client *gateway.Client) *Service {
	return &Service{client: client}
}

// Get fetches the current overview without triggering generation.
func (s *Service) Get(ctx context.Context, healthID string) (Overview, error) {
	endpoint, err := gateway.Resolve(gateway.EndpointPatientSummary, map[string]string{"healthId": healthID})
	if err != nil {
		return Overview{}, err
	}
	env, err := gateway.Get[gateway.Envelope[Overview]](ctx, s.client, endpoint)
	if err != nil {
		return Overview{}, err
	}
	return env.Unwrap(endpoint, "summary load failed")
}

// Generate asks the backend to produce a fresh overview. The response
// usually comes back with IsProcessing set; Await follows it to completion.
func (s *Service) Generate(ctx context.Context, healthID string) (Overview, error) {
	endpoint, err := gateway.Resolve(gateway.EndpointGenerateSummary, map[string]string{"healthId": healthID})
	if err != nil {
		return Overview{}, err
	}
	env, err := gateway.Post[gateway.Envelope[Overview]](ctx, s.client, endpoint, nil)
	if err != nil {
		return Overview{}, err
	}
	return env.Unwrap(endpoint, "summary generation failed")
}

// Await polls until the overview stops processing, the context is
// cancelled, or a request fails. A non-positive interval falls back to the
// default.
func (s *Service) Await(ctx context.Context, healthID string, interval time.Duration) (Overview, error) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	overview, err := s.Get(ctx, healthID)
	if err != nil {
		return Overview{}, err
	}
	for overview.IsProcessing {
		select {
		case <-ctx.Done():
			return Overview{}, ctx.Err()
		case <-time.After(interval):
		}
		overview, err = s.Get(ctx, healthID)
		if err != nil {
			// A request cut short by cancellation reports the
			// context's error, not a wrapped transport error.
			if ctx.Err() != nil {
				return Overview{}, ctx.Err()
			}
			return Overview{}, err
		}
	}
	return overview, nil
}

// GenerateAndAwait triggers generation and follows it to completion.
func (s *Service) GenerateAndAwait(ctx context.Context, healthID string, interval time.Duration) (Overview, error) {
	overview, err := s.Generate(ctx, healthID)
	if err != nil {
		return Overview{}, err
	}
	if !overview.IsProcessing {
		return overview, nil
	}
	return s.Await(ctx, healthID, interval)
}
