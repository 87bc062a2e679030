package suggest

import "rasaroots/internal/models"

// Matches reports whether a dish with dishTags survives a tag filter.
// An empty request matches everything; otherwise one shared tag is enough.
// Both the daily and the occasion paths filter through this function.
func Matches(dishTags, requested models.TagSet) bool {
	if requested.IsEmpty() {
		return true
	}
	for _, t := range requested {
		if dishTags.Contains(t) {
			return true
		}
	}
	return false
}

// FilterTags keeps the dishes whose tags match requested, in input order.
func FilterTags(dishes []models.Dish, requested models.TagSet) []models.Dish {
	out := make([]models.Dish, 0, len(dishes))
	for i := range dishes {
		if Matches(dishes[i].Tags, requested) {
			out = append(out, dishes[i])
		}
	}
	return out
}
