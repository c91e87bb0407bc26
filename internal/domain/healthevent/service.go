// Package healthevent covers the patient health timeline: the paginated
// event listing plus create, edit and delete.
package healthevent

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

// List fetches one page of a patient's timeline.
func (s *Service) List(ctx context.Context, healthID string, params pagination.Params) (ListData, error) {
	pathParams := params.PathParams()
	pathParams["healthId"] = healthID
	endpoint, err := gateway.Resolve(gateway.EndpointEventList, pathParams)
	if err != nil {
		return ListData{}, err
	}
	env, err := gateway.Get[gateway.Envelope[ListData]](ctx, s.client, endpoint)
	if err != nil {
		return ListData{}, err
	}
	return env.Unwrap(endpoint, "health event list load failed")
}

// Add records a new event and returns the created record.
func (s *Service) Add(ctx context.Context, event Event) (Event, error) {
	if err := event.Validate(); err != nil {
		return Event{}, err
	}
	env, err := gateway.Post[gateway.Envelope[Event]](ctx, s.client, gateway.EndpointEventAdd, event)
	if err != nil {
		return Event{}, err
	}
	return env.Unwrap(gateway.EndpointEventAdd, "health event create failed")
}

// Update saves edits to an event and returns the updated record.
func (s *Service) Update(ctx context.Context, event Event) (Event, error) {
	if err := event.Validate(); err != nil {
		return Event{}, err
	}
	endpoint, err := gateway.Resolve(gateway.EndpointEventUpdate, map[string]string{"healthId": event.HealthID})
	if err != nil {
		return Event{}, err
	}
	env, err := gateway.Post[gateway.Envelope[Event]](ctx, s.client, endpoint, event)
	if err != nil {
		return Event{}, err
	}
	return env.Unwrap(endpoint, "health event update failed")
}

// Delete removes an event from the timeline.
func (s *Service) Delete(ctx context.Context, healthID, eventID string) error {
	endpoint, err := gateway.Resolve(gateway.EndpointEventDelete, map[string]string{
		"healthId": healthID,
		"eventId":  eventID,
	})
	if err != nil {
		return err
	}
	env, err := gateway.Delete[gateway.Envelope[any]](ctx, s.client, endpoint)
	if err != nil {
		return err
	}
	_, err = env.Unwrap(endpoint, "health event delete failed")
	return err
}
