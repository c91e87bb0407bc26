package therapy

import (
	"context"
	"errors"

	"github.com/medsyn/console/internal/platform/panel"
)

// ErrInterventionNotFound means a mutation referenced a session ID absent
// from the loaded listing.
var ErrInterventionNotFound = errors.New("intervention not found")

// API is the slice of Service the planner needs.
type API interface {
	Goals(ctx context.Context, healthID string) (GoalData, error)
	SubmitGoal(ctx context.Context, goal Goal) (Goal, error)
	Interventions(ctx context.Context, healthID string) (PlanData, error)
	SubmitIntervention(ctx context.Context, intervention Intervention) (Intervention, error)
	UpdateIntervention(ctx context.Context, intervention Intervention) (Intervention, error)
	SubmitVisit(ctx context.Context, healthID string, visit Visit) (Visit, error)
}

// Planner drives the treatment-planning view for one patient: the goal and
// intervention listings and their editors. Mutations merge the returned
// record into the local arrays; nothing triggers a refetch.
type Planner struct {
	svc      API
	healthID string

	goals         *panel.List[Goal]
	interventions *panel.List[Intervention]

	goalEditor         *panel.Editor[Goal]
	interventionEditor *panel.Editor[Intervention]
}

func NewPlanner(svc API, healthID string) *Planner {
	return &Planner{
		svc:                svc,
		healthID:           healthID,
		goals:              panel.NewList(func(g Goal) string { return g.GoalID }),
		interventions:      panel.NewList(func(i Intervention) string { return i.SessionID }),
		goalEditor:         panel.NewEditor[Goal](),
		interventionEditor: panel.NewEditor[Intervention](),
	}
}

func (p *Planner) Goals() *panel.List[Goal]                 { return p.goals }
func (p *Planner) Interventions() *panel.List[Intervention] { return p.interventions }
func (p *Planner) GoalEditor() *panel.Editor[Goal]          { return p.goalEditor }
func (p *Planner) InterventionEditor() *panel.Editor[Intervention] {
	return p.interventionEditor
}

func (p *Planner) LoadGoals(ctx context.Context) error {
	p.goals.BeginLoad()
	data, err := p.svc.Goals(ctx, p.healthID)
	if err != nil {
		p.goals.Fail(err)
		return err
	}
	p.goals.Fill(data.Goals, data.TotalCount)
	return nil
}

func (p *Planner) LoadInterventions(ctx context.Context) error {
	p.interventions.BeginLoad()
	data, err := p.svc.Interventions(ctx, p.healthID)
	if err != nil {
		p.interventions.Fail(err)
		return err
	}
	p.interventions.Fill(data.Interventions, data.TotalCount)
	return nil
}

// SubmitGoal saves the goal editor draft and merges the created goal to the
// front of the listing.
func (p *Planner) SubmitGoal(ctx context.Context) (Goal, error) {
	created, err := p.goalEditor.Submit(func(draft Goal) (Goal, error) {
		draft.HealthID = p.healthID
		return p.svc.SubmitGoal(ctx, draft)
	})
	if err != nil {
		return Goal{}, err
	}
	p.goals.Prepend(created)
	return created, nil
}

// SubmitIntervention saves the intervention editor draft: a draft without a
// session ID is created and prepended, one with a session ID is updated and
// replaced in place.
func (p *Planner) SubmitIntervention(ctx context.Context) (Intervention, error) {
	var editing bool
	saved, err := p.interventionEditor.Submit(func(draft Intervention) (Intervention, error) {
		draft.HealthID = p.healthID
		if draft.SessionID == "" {
			return p.svc.SubmitIntervention(ctx, draft)
		}
		editing = true
		return p.svc.UpdateIntervention(ctx, draft)
	})
	if err != nil {
		return Intervention{}, err
	}
	if editing {
		p.interventions.Replace(saved)
	} else {
		p.interventions.Prepend(saved)
	}
	return saved, nil
}

// Duplicate opens the intervention editor with a copy of an existing
// intervention. The copy sheds its identity and visit log; it joins the
// listing once submitted.
func (p *Planner) Duplicate(sessionID string) bool {
	for _, iv := range p.interventions.Items() {
		if iv.SessionID != sessionID {
			continue
		}
		dup := iv
		dup.SessionID = ""
		dup.Visits = nil
		dup.Name = iv.Name + " (copy)"
		p.interventionEditor.OpenCreate(dup)
		return true
	}
	return false
}

// Archive marks an intervention archived and replaces it in the listing.
// Archived interventions stay visible; the schedule overview skips them.
func (p *Planner) Archive(ctx context.Context, sessionID string) error {
	for _, iv := range p.interventions.Items() {
		if iv.SessionID != sessionID {
			continue
		}
		iv.Status = StatusArchived
		updated, err := p.svc.UpdateIntervention(ctx, iv)
		if err != nil {
			return err
		}
		p.interventions.Replace(updated)
		return nil
	}
	return ErrInterventionNotFound
}

// RecordVisit logs a visit under an intervention and appends it to that
// intervention's embedded log locally.
func (p *Planner) RecordVisit(ctx context.Context, visit Visit) (Visit, error) {
	created, err := p.svc.SubmitVisit(ctx, p.healthID, visit)
	if err != nil {
		return Visit{}, err
	}
	for _, iv := range p.interventions.Items() {
		if iv.SessionID != visit.SessionID {
			continue
		}
		iv.Visits = append(iv.Visits, created)
		p.interventions.Replace(iv)
		break
	}
	return created, nil
}
