package dietplan

// Macros are the per-meal nutrition targets.
type Macros struct {
	Calories int `json:"calories,omitempty"`
	Protein  int `json:"protein,omitempty"`
	Carbs    int `json:"carbs,omitempty"`
	Fat      int `json:"fat,omitempty"`
}

// Entry is one flat row of the plan as the backend returns it: a day name,
// a meal type and the foods for that slot.
type Entry struct {
	Day       string   `json:"day"`
	Type      string   `json:"type"`
	FoodItems []string `json:"foodItems"`
	Macros    Macros   `json:"macros,omitempty"`
}

// PlanData is the envelope payload of the diet plan endpoints.
type PlanData struct {
	PlanID  string  `json:"planId"`
	Active  bool    `json:"active"`
	Entries []Entry `json:"entries"`
}

// HistoryData is the envelope payload of the plan history listing:
// previously active plans, newest last.
type HistoryData struct {
	Plans []PlanData `json:"plans"`
}

// Meal is one slot of a day once the flat entries are mapped onto the
// week grid.
type Meal struct {
	Type   string
	Foods  []string
	Macros Macros
}

// Day is one day of the mapped plan: four fixed meal slots.
type Day struct {
	Name  string
	Meals [slotCount]Meal
}

// Week is the mapped plan, monday through sunday.
type Week struct {
	Days [7]Day
}

// DayByName returns the mapped day, false for unrecognized names.
func (w Week) DayByName(name string) (Day, bool) {
	index, ok := dayIndex[name]
	if !ok {
		return Day{}, false
	}
	return w.Days[index], true
}
