package models

import "time"

// Day is a weekday name or the wildcard "Any"
type Day string

const (
	DayMonday    Day = "Monday"
	DayTuesday   Day = "Tuesday"
	DayWednesday Day = "Wednesday"
	DayThursday  Day = "Thursday"
	DayFriday    Day = "Friday"
	DaySaturday  Day = "Saturday"
	DaySunday    Day = "Sunday"
	DayAny       Day = "Any"
)

// Weekdays lists the concrete days in calendar order, Monday first.
var Weekdays = []Day{
	DayMonday, DayTuesday, DayWednesday, DayThursday, DayFriday, DaySaturday, DaySunday,
}

// ParseDay accepts a weekday name or "Any". Matching is case-sensitive.
func ParseDay(s string) (Day, bool) {
	d := Day(s)
	if d == DayAny {
		return d, true
	}
	for _, w := range Weekdays {
		if d == w {
			return d, true
		}
	}
	return "", false
}

// DayFromWeekday maps a time.Weekday onto the catalog's day names.
func DayFromWeekday(wd time.Weekday) Day {
	// time.Sunday == 0
	return Weekdays[(int(wd)+6)%7]
}

// AcceptedDays returns the values a request may use for day.
func AcceptedDays() []string {
	out := make([]string, 0, len(Weekdays)+1)
	for _, d := range Weekdays {
		out = append(out, string(d))
	}
	return append(out, string(DayAny))
}

// TimeOfDay is one of the three catalog buckets or the wildcard "Any"
type TimeOfDay string

const (
	TimeMorning   TimeOfDay = "Morning"
	TimeAfternoon TimeOfDay = "Afternoon"
	TimeEvening   TimeOfDay = "Evening"
	TimeAny       TimeOfDay = "Any"

	// timeNight is only accepted as input and always folds into TimeEvening.
	timeNight = "Night"
)

// TimeBuckets lists the concrete buckets in the order they occur during a day.
var TimeBuckets = []TimeOfDay{TimeMorning, TimeAfternoon, TimeEvening}

// ParseTimeOfDay accepts Morning, Afternoon, Evening, Night or Any.
// Night is folded into Evening; the catalog only knows three buckets.
func ParseTimeOfDay(s string) (TimeOfDay, bool) {
	switch s {
	case string(TimeMorning), string(TimeAfternoon), string(TimeEvening), string(TimeAny):
		return TimeOfDay(s), true
	case timeNight:
		return TimeEvening, true
	}
	return "", false
}

// AcceptedTimesOfDay returns the values a request may use for timeOfDay.
func AcceptedTimesOfDay() []string {
	return []string{string(TimeMorning), string(TimeAfternoon), string(TimeEvening), timeNight, string(TimeAny)}
}

// MealType classifies a dish
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealDessert   MealType = "dessert"
	MealSnack     MealType = "snack"
)

// MealTypes lists every meal type.
var MealTypes = []MealType{MealBreakfast, MealLunch, MealDinner, MealDessert, MealSnack}

// ParseMealType accepts one of the lower-case meal type names.
func ParseMealType(s string) (MealType, bool) {
	for _, m := range MealTypes {
		if MealType(s) == m {
			return m, true
		}
	}
	return "", false
}

// AcceptedMealTypes returns the meal type names as strings.
func AcceptedMealTypes() []string {
	out := make([]string, len(MealTypes))
	for i, m := range MealTypes {
		out[i] = string(m)
	}
	return out
}

// Occasion is a static, catalog-level occasion label
type Occasion string

const (
	OccasionFamilyGathering Occasion = "Family Gathering"
	OccasionPujaCeremony    Occasion = "Puja Ceremony"
	OccasionDiwali          Occasion = "Diwali"
	OccasionParty           Occasion = "Party"
)

// StaticOccasions lists the occasion labels a catalog dish may carry.
var StaticOccasions = []Occasion{
	OccasionFamilyGathering, OccasionPujaCeremony, OccasionDiwali, OccasionParty,
}

// IsStaticOccasion reports whether s is one of the static occasion labels.
func IsStaticOccasion(s string) bool {
	for _, o := range StaticOccasions {
		if Occasion(s) == o {
			return true
		}
	}
	return false
}
