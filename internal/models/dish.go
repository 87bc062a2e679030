package models

import (
	"fmt"
)

// Dish represents a recommendable catalog entry. Dishes are loaded once at
// startup and never mutated afterwards.
type Dish struct {
	ID             int         `yaml:"id" json:"id"`
	Name           string      `yaml:"name" json:"name"`
	Description    string      `yaml:"description" json:"description"`
	ImageURL       string      `yaml:"imageUrl" json:"imageUrl"`
	Tags           TagSet      `yaml:"tags" json:"tags"`
	MealType       MealType    `yaml:"mealType" json:"mealType"`
	Occasion       Occasion    `yaml:"occasion,omitempty" json:"occasion,omitempty"`
	RegionSpecific bool        `yaml:"regionSpecific,omitempty" json:"regionSpecific,omitempty"`
	Seasonal       bool        `yaml:"seasonal,omitempty" json:"seasonal,omitempty"`
	DayRecommended []Day       `yaml:"dayRecommended" json:"dayRecommended"`
	TimeOfDay      []TimeOfDay `yaml:"timeOfDay" json:"timeOfDay"`
}

// Suggestion is the client-facing shape of a dish, optionally carrying an
// ML confidence score in [0,1].
type Suggestion struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	ImageURL    string   `json:"imageUrl"`
	Tags        TagSet   `json:"tags"`
	MealType    MealType `json:"mealType"`
	Confidence  *float64 `json:"confidence,omitempty"`
}

// ValidateDish validates a catalog dish
func ValidateDish(d *Dish) error {
	if d.ID <= 0 {
		return fmt.Errorf("dish %q: id must be greater than 0", d.Name)
	}
	if d.Name == "" {
		return fmt.Errorf("dish %d: name is required", d.ID)
	}
	if _, ok := ParseMealType(string(d.MealType)); !ok {
		return fmt.Errorf("dish %d: unknown meal type %q", d.ID, d.MealType)
	}
	if d.Occasion != "" && !IsStaticOccasion(string(d.Occasion)) {
		return fmt.Errorf("dish %d: unknown occasion %q", d.ID, d.Occasion)
	}
	for _, t := range d.Tags {
		if _, ok := ParseTag(string(t)); !ok {
			return fmt.Errorf("dish %d: unknown tag %q", d.ID, t)
		}
	}
	for _, day := range d.DayRecommended {
		if _, ok := ParseDay(string(day)); !ok {
			return fmt.Errorf("dish %d: unknown day %q", d.ID, day)
		}
	}
	for _, t := range d.TimeOfDay {
		// Night is an input alias only; catalog entries must use a real bucket.
		if t != TimeMorning && t != TimeAfternoon && t != TimeEvening && t != TimeAny {
			return fmt.Errorf("dish %d: unknown time of day %q", d.ID, t)
		}
	}
	return nil
}

// IsMealType checks if the dish belongs to a specific meal type
func (d *Dish) IsMealType(mealType MealType) bool {
	return d.MealType == mealType
}

// RecommendedOn reports whether the dish lists day or the "Any" sentinel.
// An empty day set matches nothing.
func (d *Dish) RecommendedOn(day Day) bool {
	for _, x := range d.DayRecommended {
		if x == day || x == DayAny {
			return true
		}
	}
	return false
}

// ServedAt reports whether the dish lists bucket or the "Any" sentinel.
// An empty time set matches nothing.
func (d *Dish) ServedAt(bucket TimeOfDay) bool {
	for _, x := range d.TimeOfDay {
		if x == bucket || x == TimeAny {
			return true
		}
	}
	return false
}

// Suggestion converts the dish to its client-facing shape.
func (d *Dish) Suggestion() Suggestion {
	tags := d.Tags
	if tags == nil {
		tags = TagSet{}
	}
	return Suggestion{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		ImageURL:    d.ImageURL,
		Tags:        tags,
		MealType:    d.MealType,
	}
}
