package suggest

import "rasaroots/internal/models"

// Source is the read-only view of the catalog the occasion resolver needs.
type Source interface {
	Dishes() []models.Dish
	Festival(id string) (models.Festival, bool)
}

// ResolveOccasionDishes returns the dishes associated with an occasion.
//
// A static occasion label matches dishes whose occasion field equals it.
// Otherwise the id is looked up as a festival and its dishIds are returned.
// Lookups are case-sensitive. An unknown id yields an empty slice, never nil.
// Results are in catalog order.
func ResolveOccasionDishes(src Source, occasionID string) []models.Dish {
	dishes := src.Dishes()
	out := make([]models.Dish, 0)

	if models.IsStaticOccasion(occasionID) {
		for i := range dishes {
			if string(dishes[i].Occasion) == occasionID {
				out = append(out, dishes[i])
			}
		}
		return out
	}

	f, ok := src.Festival(occasionID)
	if !ok {
		return out
	}
	ids := make(map[int]struct{}, len(f.DishIDs))
	for _, id := range f.DishIDs {
		ids[id] = struct{}{}
	}
	for i := range dishes {
		if _, ok := ids[dishes[i].ID]; ok {
			out = append(out, dishes[i])
		}
	}
	return out
}

// FilterOccasion resolves an occasion and applies the tag filter.
func FilterOccasion(src Source, occasionID string, tags models.TagSet) []models.Dish {
	return FilterTags(ResolveOccasionDishes(src, occasionID), tags)
}
