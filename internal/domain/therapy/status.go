package therapy

import (
	"fmt"
	"strings"
)

// Status is the canonical lifecycle state of a therapy goal or intervention.
// The machine form is the wire format; DisplayLabel is the only place the
// presentation casing lives.
type Status string

const (
	StatusPlanned   Status = "planned"
	StatusOngoing   Status = "ongoing"
	StatusCompleted Status = "completed"
	StatusOnHold    Status = "onhold"
	StatusArchived  Status = "archived"
)

var statusLabels = map[Status]string{
	StatusPlanned:   "Planned",
	StatusOngoing:   "Ongoing",
	StatusCompleted: "Completed",
	StatusOnHold:    "On Hold",
	StatusArchived:  "Archived",
}

func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// DisplayLabel renders the status for tables and summaries.
func (s Status) DisplayLabel() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// ParseStatus accepts either the machine form or a display label and
// returns the canonical status.
func ParseStatus(raw string) (Status, error) {
	normalized := Status(strings.ToLower(strings.ReplaceAll(strings.TrimSpace(raw), " ", "")))
	if normalized.Valid() {
		return normalized, nil
	}
	return "", fmt.Errorf("unrecognized therapy status %q", raw)
}

// Discipline is the therapy specialty an intervention belongs to.
type Discipline string

const (
	DisciplinePhysiatry Discipline = "physiatry"
	DisciplinePT        Discipline = "pt"
	DisciplineOT        Discipline = "ot"
	DisciplineST        Discipline = "st"
	DisciplineNursing   Discipline = "nursing"
	DisciplineOther     Discipline = "other"
)

var disciplineLabels = map[Discipline]string{
	DisciplinePhysiatry: "Physiatry",
	DisciplinePT:        "Physical Therapy",
	DisciplineOT:        "Occupational Therapy",
	DisciplineST:        "Speech Therapy",
	DisciplineNursing:   "Nursing",
	DisciplineOther:     "Other",
}

func (d Discipline) Valid() bool {
	_, ok := disciplineLabels[d]
	return ok
}

func (d Discipline) DisplayLabel() string {
	if label, ok := disciplineLabels[d]; ok {
		return label
	}
	return string(d)
}
