// Package suggest holds the pure suggestion logic: resolving a clock reading
// into a request context, filtering the catalog, matching tags, and resolving
// occasions and festivals. Nothing here blocks or keeps state.
package suggest

import (
	"time"

	"rasaroots/internal/models"
)

// Context is the day and time bucket a daily suggestion is computed for.
type Context struct {
	Day       models.Day       `json:"day"`
	TimeOfDay models.TimeOfDay `json:"timeOfDay"`
	MealType  models.MealType  `json:"mealType"`
}

// ResolveTimeBucket maps an hour in [0,23] to a time bucket.
// [5,12) is Morning, [12,17) is Afternoon, everything else is Evening.
func ResolveTimeBucket(hour int) models.TimeOfDay {
	switch {
	case hour >= 5 && hour < 12:
		return models.TimeMorning
	case hour >= 12 && hour < 17:
		return models.TimeAfternoon
	default:
		return models.TimeEvening
	}
}

// ResolveMealType maps a concrete bucket to the meal served in it.
// Anything other than Morning or Afternoon is dinner.
func ResolveMealType(bucket models.TimeOfDay) models.MealType {
	switch bucket {
	case models.TimeMorning:
		return models.MealBreakfast
	case models.TimeAfternoon:
		return models.MealLunch
	default:
		return models.MealDinner
	}
}

// ResolveContext derives the day and bucket for now as seen in loc.
func ResolveContext(now time.Time, loc *time.Location) Context {
	if loc != nil {
		now = now.In(loc)
	}
	bucket := ResolveTimeBucket(now.Hour())
	return Context{
		Day:       models.DayFromWeekday(now.Weekday()),
		TimeOfDay: bucket,
		MealType:  ResolveMealType(bucket),
	}
}
