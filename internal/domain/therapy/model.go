package therapy

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// GoalType distinguishes short-term from long-term treatment goals.
var validGoalTypes = map[string]bool{
	"short-term": true, "long-term": true,
}

// Goal is one treatment goal in a patient's plan.
type Goal struct {
	GoalID     string `json:"goalId"`
	HealthID   string `json:"healthId"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	Status     Status `json:"status"`
	TargetDate string `json:"targetDate,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

func (g Goal) Validate() error {
	return validation.ValidateStruct(&g,
		validation.Field(&g.HealthID, validation.Required),
		validation.Field(&g.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&g.Type, validation.Required, validation.By(goalTypeRule)),
		validation.Field(&g.Status, validation.Required, validation.By(statusRule)),
	)
}

func goalTypeRule(value interface{}) error {
	t, _ := value.(string)
	if !validGoalTypes[t] {
		return validation.NewError("validation_goal_type", "must be short-term or long-term")
	}
	return nil
}

func statusRule(value interface{}) error {
	s, _ := value.(Status)
	if !s.Valid() {
		return validation.NewError("validation_therapy_status", "unrecognized status")
	}
	return nil
}

func disciplineRule(value interface{}) error {
	d, _ := value.(Discipline)
	if !d.Valid() {
		return validation.NewError("validation_discipline", "unrecognized discipline")
	}
	return nil
}

// Visit is one logged session under an intervention.
type Visit struct {
	VisitID   string `json:"visitId"`
	SessionID string `json:"sessionId,omitempty"`
	Date      string `json:"vDate"`
	Summary   string `json:"summary,omitempty"`
}

func (v Visit) Validate() error {
	return validation.ValidateStruct(&v,
		validation.Field(&v.Date, validation.Required, validation.Date("2006-01-02")),
	)
}

// Intervention is one scheduled therapy block in the plan. OnWeek and
// DurationWeeks place it in the plan's week grid; Visits is the embedded
// session log.
type Intervention struct {
	SessionID     string     `json:"sessionId"`
	HealthID      string     `json:"healthId"`
	Name          string     `json:"name"`
	Discipline    Discipline `json:"type"`
	Description   string     `json:"desc,omitempty"`
	OnWeek        int        `json:"onWeek"`
	DurationWeeks int        `json:"duration"`
	StartDate     string     `json:"sDate,omitempty"`
	EndDate       string     `json:"eDate,omitempty"`
	Location      string     `json:"loc,omitempty"`
	Status        Status     `json:"status"`
	Visits        []Visit    `json:"visits,omitempty"`
}

func (i Intervention) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.HealthID, validation.Required),
		validation.Field(&i.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&i.Discipline, validation.Required, validation.By(disciplineRule)),
		validation.Field(&i.OnWeek, validation.Min(1)),
		validation.Field(&i.DurationWeeks, validation.Min(1)),
		validation.Field(&i.Status, validation.Required, validation.By(statusRule)),
	)
}

// PlanData is the envelope payload of the intervention listing.
type PlanData struct {
	Interventions []Intervention `json:"sessions"`
	TotalCount    int            `json:"totalCount"`
}

// GoalData is the envelope payload of the goal listing.
type GoalData struct {
	Goals      []Goal `json:"goals"`
	TotalCount int    `json:"totalCount"`
}
