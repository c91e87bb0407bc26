// Package dietplan covers the weekly meal schedule: fetching the active
// plan, generating a new one, and mapping the backend's flat entry list
// onto the week grid the schedule renders from.
package dietplan

import (
	"context"

	"github.com/medsyn/console/internal/platform/gateway"
)

type Service struct {
	client *gateway.Client
}

func NewService(client *gateway.Client) *Service {
	return &Service{client: client}
}

// Active fetches the patient's current plan.
func (s *Service) Active(ctx context.Context, healthID string) (PlanData, error) {
	endpoint, err := gateway.Resolve(gateway.EndpointDietPlan, map[string]string{"healthId": healthID})
	if err != nil {
		return PlanData{}, err
	}
	env, err := gateway.Get[gateway.Envelope[PlanData]](ctx, s.client, endpoint)
	if err != nil {
		return PlanData{}, err
	}
	return env.Unwrap(endpoint, "diet plan load failed")
}

// Generate asks the backend for a fresh plan. The previous plan moves to
// the inactive history server side; the returned plan is the new active one.
func (s *Service) Generate(ctx context.Context, healthID string) (PlanData, error) {
	endpoint, err := gateway.Resolve(gateway.EndpointDietPlanGenerate, map[string]string{"healthId": healthID})
	if err != nil {
		return PlanData{}, err
	}
	env, err := gateway.Post[gateway.Envelope[PlanData]](ctx, s.client, endpoint, nil)
	if err != nil {
		return PlanData{}, err
	}
	return env.Unwrap(endpoint, "diet plan generation failed")
}

// History fetches the plans retired by earlier generations.
func (s *Service) History(ctx context.Context, healthID string) (HistoryData, error) {
	endpoint, err := gateway.Resolve(gateway.EndpointDietPlanHistory, map[string]string{"healthId": healthID})
	if err != nil {
		return HistoryData{}, err
	}
	env, err := gateway.Get[gateway.Envelope[HistoryData]](ctx, s.client, endpoint)
	if err != nil {
		return HistoryData{}, err
	}
	return env.Unwrap(endpoint, "diet plan history load failed")
}

// ActiveWeek fetches the current plan already mapped onto the week grid.
func (s *Service) ActiveWeek(ctx context.Context, healthID string) (Week, error) {
	plan, err := s.Active(ctx, healthID)
	if err != nil {
		return Week{}, err
	}
	return MapWeek(plan.Entries), nil
}
