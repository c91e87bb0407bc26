package therapy

import "sort"

// WeekSlot is one row of the schedule overview: the interventions active in
// a plan week, grouped for the calendar-style rendering.
type WeekSlot struct {
	Week          int
	Interventions []Intervention
}

// ScheduleOverview lays the interventions out on the plan's week grid. An
// intervention starting OnWeek with DurationWeeks occupies every week of
// that span. Archived interventions are left off the grid; weeks with
// nothing scheduled are omitted.
func ScheduleOverview(interventions []Intervention) []WeekSlot {
	byWeek := map[int][]Intervention{}
	for _, iv := range interventions {
		if iv.Status == StatusArchived {
			continue
		}
		start := iv.OnWeek
		if start < 1 {
			start = 1
		}
		duration := iv.DurationWeeks
		if duration < 1 {
			duration = 1
		}
		for week := start; week < start+duration; week++ {
			byWeek[week] = append(byWeek[week], iv)
		}
	}

	weeks := make([]int, 0, len(byWeek))
	for week := range byWeek {
		weeks = append(weeks, week)
	}
	sort.Ints(weeks)

	slots := make([]WeekSlot, 0, len(weeks))
	for _, week := range weeks {
		slots = append(slots, WeekSlot{Week: week, Interventions: byWeek[week]})
	}
	return slots
}

// VisitCount totals the logged visits across interventions.
func VisitCount(interventions []Intervention) int {
	count := 0
	for _, iv := range interventions {
		count += len(iv.Visits)
	}
	return count
}
