// Package staff covers the staff roster: listing, account registration and
// profile updates. Registration goes through the login API because accounts
// live with the identity service, not the business backend.
package staff

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
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// List fetches one page of the staff roster.
func (s *Service) List(ctx context.Context, params pagination.Params) (ListData, error) {
	env, err := gateway.Post[gateway.Envelope[ListData]](ctx, s.client, gateway.EndpointStaffList,
		listRequest{Page: params.Page, Limit: params.Limit})
	if err != nil {
		return ListData{}, err
	}
	return env.Unwrap(gateway.EndpointStaffList, "staff list load failed")
}

// Get fetches one staff member by user ID.
func (s *Service) Get(ctx context.Context, userID string) (Profile, error) {
	endpoint, err := gateway.Resolve(gateway.EndpointStaffByID, map[string]string{"userId": userID})
	if err != nil {
		return Profile{}, err
	}
	env, err := gateway.Get[gateway.Envelope[Profile]](ctx, s.client, endpoint)
	if err != nil {
		return Profile{}, err
	}
	return env.Unwrap(endpoint, "staff load failed")
}

// Register creates a staff account and returns the created profile.
func (s *Service) Register(ctx context.Context, form RegisterForm) (Profile, error) {
	if err := form.Validate(); err != nil {
		return Profile{}, err
	}
	env, err := gateway.PostLogin[gateway.Envelope[Profile]](ctx, s.client, gateway.EndpointRegisterStaff, form)
	if err != nil {
		return Profile{}, err
	}
	return env.Unwrap(gateway.EndpointRegisterStaff, "staff registration failed")
}

// Update saves edits to a staff profile and returns the updated record.
func (s *Service) Update(ctx context.Context, profile Profile) (Profile, error) {
	env, err := gateway.PostLogin[gateway.Envelope[Profile]](ctx, s.client, gateway.EndpointUpdateStaff, profile)
	if err != nil {
		return Profile{}, err
	}
	return env.Unwrap(gateway.EndpointUpdateStaff, "staff update failed")
}
