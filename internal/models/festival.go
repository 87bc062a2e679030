package models

import (
	"fmt"
	"strconv"
	"time"
)

// DateLayout is the ISO calendar date layout used for festival dates.
const DateLayout = "2006-01-02"

// Region represents the part of India a festival is mainly celebrated in
type Region string

const (
	RegionNorth    Region = "North"
	RegionSouth    Region = "South"
	RegionEast     Region = "East"
	RegionWest     Region = "West"
	RegionCentral  Region = "Central"
	RegionAllIndia Region = "All India"
)

// Festival is static reference data. Movable festivals follow a lunar
// calendar, so their dates are listed per year.
type Festival struct {
	ID           string `yaml:"id" json:"id"`
	Name         string `yaml:"name" json:"name"`
	Description  string `yaml:"description" json:"description"`
	Significance string `yaml:"significance" json:"significance"`
	Region       Region `yaml:"region" json:"region"`
	ImageURL     string `yaml:"imageUrl" json:"imageUrl"`
	Movable      bool   `yaml:"movable" json:"movable"`
	// Dates maps a year to an ISO date (YYYY-MM-DD) within that year.
	Dates map[int]string `yaml:"dates" json:"dates"`
	// DishIDs associates catalog dishes with the festival.
	DishIDs []int `yaml:"dishIds" json:"dishIds"`
	// TraditionalDishes is display text only and plays no part in resolution.
	TraditionalDishes []string `yaml:"traditionalDishes" json:"traditionalDishes"`
}

// DateFor returns the festival's ISO date in year, if one is listed.
func (f *Festival) DateFor(year int) (string, bool) {
	d, ok := f.Dates[year]
	return d, ok
}

// ValidateFestival checks ids and that every listed date parses and falls in its year.
func ValidateFestival(f *Festival) error {
	if f.ID == "" {
		return fmt.Errorf("festival %q: id is required", f.Name)
	}
	if f.Name == "" {
		return fmt.Errorf("festival %s: name is required", f.ID)
	}
	for year, date := range f.Dates {
		t, err := time.Parse(DateLayout, date)
		if err != nil {
			return fmt.Errorf("festival %s: invalid date %q: %w", f.ID, date, err)
		}
		if t.Year() != year {
			return fmt.Errorf("festival %s: date %s is listed under year %s", f.ID, date, strconv.Itoa(year))
		}
	}
	return nil
}
