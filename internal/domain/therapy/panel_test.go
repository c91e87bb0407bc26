package therapy

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

type fakeAPI struct {
	goals         GoalData
	interventions PlanData
	submitErr     error
	updated       []Intervention
	nextID        int
}

func (f *fakeAPI) Goals(ctx context.Context, healthID string) (GoalData, error) {
	return f.goals, nil
}

func (f *fakeAPI) SubmitGoal(ctx context.Context, goal Goal) (Goal, error) {
	if f.submitErr != nil {
		return Goal{}, f.submitErr
	}
	f.nextID++
	goal.GoalID = fmt.Sprintf("g%d", f.nextID)
	return goal, nil
}

func (f *fakeAPI) Interventions(ctx context.Context, healthID string) (PlanData, error) {
	return f.interventions, nil
}

func (f *fakeAPI) SubmitIntervention(ctx context.Context, iv Intervention) (Intervention, error) {
	if f.submitErr != nil {
		return Intervention{}, f.submitErr
	}
	f.nextID++
	iv.SessionID = fmt.Sprintf("s%d", f.nextID)
	return iv, nil
}

func (f *fakeAPI) UpdateIntervention(ctx context.Context, iv Intervention) (Intervention, error) {
	f.updated = append(f.updated, iv)
	return iv, nil
}

func (f *fakeAPI) SubmitVisit(ctx context.Context, healthID string, visit Visit) (Visit, error) {
	f.nextID++
	visit.VisitID = fmt.Sprintf("v%d", f.nextID)
	return visit, nil
}

func seededPlanner() (*Planner, *fakeAPI) {
	// Generated IDs start at 2 so they never collide with the seeded g1/s1.
	api := &fakeAPI{
		nextID: 1,
		goals: GoalData{Goals: []Goal{
			{GoalID: "g1", HealthID: "H1", Name: "Independent transfers", Type: "short-term", Status: StatusOngoing},
		}, TotalCount: 1},
		interventions: PlanData{Interventions: []Intervention{
			{SessionID: "s1", HealthID: "H1", Name: "Gait training", Discipline: DisciplinePT, OnWeek: 1, DurationWeeks: 2, Status: StatusOngoing},
		}, TotalCount: 1},
	}
	return NewPlanner(api, "H1"), api
}

func TestPlanner_Load(t *testing.T) {
	p, _ := seededPlanner()
	if err := p.LoadGoals(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.LoadInterventions(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.Goals().Items()) != 1 || len(p.Interventions().Items()) != 1 {
		t.Fatalf("expected seeded listings, got %d goals and %d interventions",
			len(p.Goals().Items()), len(p.Interventions().Items()))
	}
}

func TestPlanner_SubmitGoalPrepends(t *testing.T) {
	p, _ := seededPlanner()
	if err := p.LoadGoals(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p.GoalEditor().OpenCreate(Goal{Name: "Stair climbing", Type: "long-term", Status: StatusPlanned})
	created, err := p.SubmitGoal(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	goals := p.Goals().Items()
	if goals[0].GoalID != created.GoalID {
		t.Fatalf("expected created goal first, got %q", goals[0].GoalID)
	}
	if created.HealthID != "H1" {
		t.Fatalf("expected health ID attached, got %q", created.HealthID)
	}
	if p.Goals().Total() != 2 {
		t.Fatalf("expected total 2, got %d", p.Goals().Total())
	}
}

func TestPlanner_SubmitGoalFailureKeepsEditorOpen(t *testing.T) {
	p, api := seededPlanner()
	if err := p.LoadGoals(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	api.submitErr = errors.New("boom")
	p.GoalEditor().OpenCreate(Goal{Name: "Stair climbing", Type: "long-term", Status: StatusPlanned})
	if _, err := p.SubmitGoal(context.Background()); err == nil {
		t.Fatal("expected submit error")
	}
	if !p.GoalEditor().IsOpen() {
		t.Fatal("editor must stay open after a failed submit")
	}
	if !p.GoalEditor().State().IsFailed() {
		t.Fatal("editor state must hold the failure")
	}
	if len(p.Goals().Items()) != 1 {
		t.Fatalf("failed submit must not touch the listing, got %d goals", len(p.Goals().Items()))
	}
}

func TestPlanner_SubmitInterventionEditReplaces(t *testing.T) {
	p, _ := seededPlanner()
	if err := p.LoadInterventions(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	existing := p.Interventions().Items()[0]
	existing.Name = "Gait training v2"
	p.InterventionEditor().OpenEdit(existing)
	saved, err := p.SubmitIntervention(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	items := p.Interventions().Items()
	if len(items) != 1 || items[0].Name != "Gait training v2" {
		t.Fatalf("expected in-place replace, got %+v", items)
	}
	if saved.SessionID != "s1" {
		t.Fatalf("edit must keep the session ID, got %q", saved.SessionID)
	}
}

func TestPlanner_DuplicateOpensEditorWithCopy(t *testing.T) {
	p, _ := seededPlanner()
	if err := p.LoadInterventions(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.Duplicate("s1") {
		t.Fatal("expected duplicate to find s1")
	}
	draft := p.InterventionEditor().Draft()
	if draft.SessionID != "" || draft.Name != "Gait training (copy)" {
		t.Fatalf("expected identity-free copy, got %+v", draft)
	}
	created, err := p.SubmitIntervention(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.SessionID == "" || created.SessionID == "s1" {
		t.Fatalf("expected a fresh session ID, got %q", created.SessionID)
	}
	if len(p.Interventions().Items()) != 2 {
		t.Fatalf("expected copy merged into listing, got %d", len(p.Interventions().Items()))
	}
}

func TestPlanner_ArchiveReplacesAndLeavesSchedule(t *testing.T) {
	p, api := seededPlanner()
	if err := p.LoadInterventions(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.Archive(context.Background(), "s1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(api.updated) != 1 || api.updated[0].Status != StatusArchived {
		t.Fatalf("expected archive persisted, got %+v", api.updated)
	}
	items := p.Interventions().Items()
	if len(items) != 1 || items[0].Status != StatusArchived {
		t.Fatalf("expected archived in place, got %+v", items)
	}
	if slots := ScheduleOverview(items); len(slots) != 0 {
		t.Fatalf("archived interventions must not be scheduled, got %d slots", len(slots))
	}
	if err := p.Archive(context.Background(), "nope"); !errors.Is(err, ErrInterventionNotFound) {
		t.Fatalf("expected ErrInterventionNotFound, got %v", err)
	}
}

func TestPlanner_RecordVisitAppendsToLog(t *testing.T) {
	p, _ := seededPlanner()
	if err := p.LoadInterventions(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	created, err := p.RecordVisit(context.Background(), Visit{SessionID: "s1", Date: "2026-08-21"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	iv := p.Interventions().Items()[0]
	if len(iv.Visits) != 1 || iv.Visits[0].VisitID != created.VisitID {
		t.Fatalf("expected visit merged into the log, got %+v", iv.Visits)
	}
}
