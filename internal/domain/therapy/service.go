// Package therapy covers treatment planning: goals, scheduled
// interventions with their visit logs, and the week-grid schedule overview.
package therapy

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

// Goals fetches all treatment goals for a patient.
func (s *Service) Goals(ctx context.Context, healthID string) (GoalData, error) {
	endpoint, err := gateway.Resolve(gateway.EndpointTherapyGoals, map[string]string{"healthId": healthID})
	if err != nil {
		return GoalData{}, err
	}
	env, err := gateway.Get[gateway.Envelope[GoalData]](ctx, s.client, endpoint)
	if err != nil {
		return GoalData{}, err
	}
	return env.Unwrap(endpoint, "goal list load failed")
}

// SubmitGoal creates a goal and returns the created record.
func (s *Service) SubmitGoal(ctx context.Context, goal Goal) (Goal, error) {
	if err := goal.Validate(); err != nil {
		return Goal{}, err
	}
	env, err := gateway.Post[gateway.Envelope[Goal]](ctx, s.client, gateway.EndpointTherapyGoalSubmit, goal)
	if err != nil {
		return Goal{}, err
	}
	return env.Unwrap(gateway.EndpointTherapyGoalSubmit, "goal create failed")
}

// Interventions fetches the patient's scheduled interventions, visit logs
// embedded.
func (s *Service) Interventions(ctx context.Context, healthID string) (PlanData, error) {
	endpoint, err := gateway.Resolve(gateway.EndpointTherapySessions, map[string]string{"healthId": healthID})
	if err != nil {
		return PlanData{}, err
	}
	env, err := gateway.Get[gateway.Envelope[PlanData]](ctx, s.client, endpoint)
	if err != nil {
		return PlanData{}, err
	}
	return env.Unwrap(endpoint, "intervention list load failed")
}

// SubmitIntervention creates an intervention and returns the created record.
func (s *Service) SubmitIntervention(ctx context.Context, intervention Intervention) (Intervention, error) {
	if err := intervention.Validate(); err != nil {
		return Intervention{}, err
	}
	env, err := gateway.Post[gateway.Envelope[Intervention]](ctx, s.client, gateway.EndpointTherapySubmit, intervention)
	if err != nil {
		return Intervention{}, err
	}
	return env.Unwrap(gateway.EndpointTherapySubmit, "intervention create failed")
}

// UpdateIntervention saves edits, status transitions included, and returns
// the updated record.
func (s *Service) UpdateIntervention(ctx context.Context, intervention Intervention) (Intervention, error) {
	if err := intervention.Validate(); err != nil {
		return Intervention{}, err
	}
	endpoint, err := gateway.Resolve(gateway.EndpointTherapyUpdate, map[string]string{"healthId": intervention.HealthID})
	if err != nil {
		return Intervention{}, err
	}
	env, err := gateway.Post[gateway.Envelope[Intervention]](ctx, s.client, endpoint, intervention)
	if err != nil {
		return Intervention{}, err
	}
	return env.Unwrap(endpoint, "intervention update failed")
}

type visitRequest struct {
	HealthID string `json:"healthId"`
	Visit
}

// SubmitVisit logs a session under an intervention and returns the created
// visit.
func (s *Service) SubmitVisit(ctx context.Context, healthID string, visit Visit) (Visit, error) {
	if err := visit.Validate(); err != nil {
		return Visit{}, err
	}
	env, err := gateway.Post[gateway.Envelope[Visit]](ctx, s.client, gateway.EndpointVisitSubmit,
		visitRequest{HealthID: healthID, Visit: visit})
	if err != nil {
		return Visit{}, err
	}
	return env.Unwrap(gateway.EndpointVisitSubmit, "visit create failed")
}

// UpdateVisit saves edits to a logged visit.
func (s *Service) UpdateVisit(ctx context.Context, healthID string, visit Visit) (Visit, error) {
	if err := visit.Validate(); err != nil {
		return Visit{}, err
	}
	endpoint, err := gateway.Resolve(gateway.EndpointVisitUpdate, map[string]string{"healthId": healthID})
	if err != nil {
		return Visit{}, err
	}
	env, err := gateway.Post[gateway.Envelope[Visit]](ctx, s.client, endpoint,
		visitRequest{HealthID: healthID, Visit: visit})
	if err != nil {
		return Visit{}, err
	}
	return env.Unwrap(endpoint, "visit update failed")
}
