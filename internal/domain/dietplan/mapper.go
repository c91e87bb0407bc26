package dietplan

import "strings"

// Meal slot positions within a day. The grid is fixed; every day has all
// four slots whether or not the plan fills them.
const (
	SlotBreakfast = 0
	SlotLunch     = 1
	SlotSnack     = 2
	SlotDinner    = 3

	slotCount = 4
)

var slotIndex = map[string]int{
	"breakfast": SlotBreakfast,
	"lunch":     SlotLunch,
	"snack":     SlotSnack,
	"dinner":    SlotDinner,
}

var slotNames = [slotCount]string{"breakfast", "lunch", "snack", "dinner"}

var dayIndex = map[string]int{
	"monday": 0, "tuesday": 1, "wednesday": 2, "thursday": 3,
	"friday": 4, "saturday": 5, "sunday": 6,
}

var dayNames = [7]string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// MapWeek folds the backend's flat entry list onto the week grid. Entries
// with an unrecognized day or meal type are dropped; every slot of every
// day comes back with a non-nil food list so renderers never branch on nil.
func MapWeek(entries []Entry) Week {
	var week Week
	for d, name := range dayNames {
		week.Days[d].Name = name
		for s := range week.Days[d].Meals {
			week.Days[d].Meals[s] = Meal{Type: slotNames[s], Foods: []string{}}
		}
	}

	for _, entry := range entries {
		d, ok := dayIndex[strings.ToLower(strings.TrimSpace(entry.Day))]
		if !ok {
			continue
		}
		s, ok := slotIndex[strings.ToLower(strings.TrimSpace(entry.Type))]
		if !ok {
			continue
		}
		foods := entry.FoodItems
		if foods == nil {
			foods = []string{}
		}
		week.Days[d].Meals[s] = Meal{Type: slotNames[s], Foods: foods, Macros: entry.Macros}
	}
	return week
}
