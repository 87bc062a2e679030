package suggest

import (
	"time"

	"rasaroots/internal/models"
)

// Occurrence is a festival together with the date it next falls on.
type Occurrence struct {
	Festival  models.Festival `json:"festival"`
	Date      string          `json:"date"`
	DaysUntil int             `json:"daysUntil"`
}

// nextDate returns the festival's date this year, or next year's if this
// year's has passed. Next year's listed date is preferred; without one the
// month and day are carried over.
func nextDate(f *models.Festival, year int, today string) (string, bool) {
	date, ok := f.DateFor(year)
	if !ok {
		return "", false
	}
	if date >= today {
		return date, true
	}
	if next, ok := f.DateFor(year + 1); ok {
		return next, true
	}
	d, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return "", false
	}
	// time.Date normalises Feb 29 into Mar 1 in non-leap years.
	return time.Date(year+1, d.Month(), d.Day(), 0, 0, 0, 0, time.UTC).Format(models.DateLayout), true
}

// UpcomingFestival picks the festival whose next date is nearest to today,
// counting today itself. Festivals without a date for today's year are
// skipped. Ties go to the earlier entry in the table.
func UpcomingFestival(festivals []models.Festival, today time.Time) (Occurrence, bool) {
	year := today.Year()
	todayStr := today.Format(models.DateLayout)

	best := -1
	bestDate := ""
	for i := range festivals {
		date, ok := nextDate(&festivals[i], year, todayStr)
		if !ok {
			continue
		}
		if best < 0 || date < bestDate {
			best, bestDate = i, date
		}
	}
	if best < 0 {
		return Occurrence{}, false
	}

	occ := Occurrence{Festival: festivals[best], Date: bestDate}
	if d, err := time.ParseInLocation(models.DateLayout, bestDate, today.Location()); err == nil {
		start := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
		occ.DaysUntil = int(d.Sub(start).Hours()+12) / 24
	}
	return occ, true
}

// TodayFestival returns the festival whose date this year is today.
func TodayFestival(festivals []models.Festival, today time.Time) (models.Festival, bool) {
	todayStr := today.Format(models.DateLayout)
	for i := range festivals {
		if date, ok := festivals[i].DateFor(today.Year()); ok && date == todayStr {
			return festivals[i], true
		}
	}
	return models.Festival{}, false
}
