package suggest

import "rasaroots/internal/models"

// anyTimeMeals are the meal types admitted when the request asks for any time.
var anyTimeMeals = []models.MealType{models.MealBreakfast, models.MealLunch, models.MealDinner}

// FilterDaily narrows dishes to those suitable for day and bucket, then by
// tags. Either day or bucket may be the "Any" wildcard. The result keeps the
// input order and is never nil.
func FilterDaily(dishes []models.Dish, day models.Day, bucket models.TimeOfDay, tags models.TagSet) []models.Dish {
	out := make([]models.Dish, 0)
	for i := range dishes {
		d := &dishes[i]
		if !onDay(d, day) || !atTime(d, bucket) {
			continue
		}
		if !Matches(d.Tags, tags) {
			continue
		}
		out = append(out, *d)
	}
	return out
}

func onDay(d *models.Dish, day models.Day) bool {
	if day == models.DayAny {
		return len(d.DayRecommended) > 0
	}
	return d.RecommendedOn(day)
}

func atTime(d *models.Dish, bucket models.TimeOfDay) bool {
	if bucket == models.TimeAny {
		if len(d.TimeOfDay) == 0 {
			return false
		}
		for _, m := range anyTimeMeals {
			if d.MealType == m {
				return true
			}
		}
		return false
	}
	return d.ServedAt(bucket) && d.MealType == ResolveMealType(bucket)
}

// FilterMealType keeps the dishes of one meal type, in input order.
func FilterMealType(dishes []models.Dish, mt models.MealType) []models.Dish {
	out := make([]models.Dish, 0)
	for i := range dishes {
		if dishes[i].IsMealType(mt) {
			out = append(out, dishes[i])
		}
	}
	return out
}
