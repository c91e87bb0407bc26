// Package patient covers the patient roster: listing with search,
// onboarding, and profile reads and updates.
package patient

import (
	"context"

	"github.com/medsyn/console/internal/platform/gateway"
	"github.com/medsyn/console/pkg/pagination"
)

type Service struct {
	client *gateway.Client
}

func NewService(client *gateway.Client) *Service {
	return &Service{client: client}
}

type listRequest struct {
	Page   int    `json:"page"`
	Limit  int    `json:"limit"`
	Search string `json:"search,omitempty"`
}

// List fetches one page of the roster, optionally filtered by a search term
// matched server side against names and health IDs.
func (s *Service) List(ctx context.Context, params pagination.Params, search string) (ListData, error) {
	env, err := gateway.Post[gateway.Envelope[ListData]](ctx, s.client, gateway.EndpointPatientList,
		listRequest{Page: params.Page, Limit: params.Limit, Search: search})
	if err != nil {
		return ListData{}, err
	}
	return env.Unwrap(gateway.EndpointPatientList, "patient list load failed")
}

// Get fetches one patient by ID.
func (s *Service) Get(ctx context.Context, patientID string) (Profile, error) {
	endpoint, err := gateway.Resolve(gateway.EndpointPatientByID, map[string]string{"patientId": patientID})
	if err != nil {
		return Profile{}, err
	}
	env, err := gateway.Get[gateway.Envelope[Profile]](ctx, s.client, endpoint)
	if err != nil {
		return Profile{}, err
	}
	return env.Unwrap(endpoint, "patient load failed")
}

// Onboard admits a new patient and returns the created record, health ID
// assigned by the backend.
func (s *Service) Onboard(ctx context.Context, form OnboardForm) (Profile, error) {
	if err := form.Validate(); err != nil {
		return Profile{}, err
	}
	env, err := gateway.Post[gateway.Envelope[Profile]](ctx, s.client, gateway.EndpointPatientOnboard, form)
	if err != nil {
		return Profile{}, err
	}
	return env.Unwrap(gateway.EndpointPatientOnboard, "patient onboarding failed")
}

// Update saves profile edits and returns the updated record.
func (s *Service) Update(ctx context.Context, patientID string, form OnboardForm) (Profile, error) {
	if err := form.Validate(); err != nil {
		return Profile{}, err
	}
	endpoint, err := gateway.Resolve(gateway.EndpointPatientUpdate, map[string]string{"patientId": patientID})
	if err != nil {
		return Profile{}, err
	}
	env, err := gateway.Post[gateway.Envelope[Profile]](ctx, s.client, endpoint, form)
	if err != nil {
		return Profile{}, err
	}
	return env.Unwrap(endpoint, "patient update failed")
}
