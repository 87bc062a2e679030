// Package evaluation scores a user's feedback against the suggestion sets of
// fixed contexts, answering "how often did this user like what we would have
// suggested for a weekday breakfast?".
package evaluation

import (
	"rasaroots/internal/catalog"
	"rasaroots/internal/models"
	"rasaroots/internal/suggest"
)

// Scenario is a fixed suggestion context. Either Occasion is set, or Day and
// TimeOfDay are.
type Scenario struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Day       models.Day       `json:"day,omitempty"`
	TimeOfDay models.TimeOfDay `json:"timeOfDay,omitempty"`
	Occasion  string           `json:"occasion,omitempty"`
}

// ScenarioResult is the feedback tally for one scenario. ApprovalRate is nil
// when the user rated none of the scenario's dishes.
type ScenarioResult struct {
	Scenario
	Suggested    int      `json:"suggested"`
	Rated        int      `json:"rated"`
	Liked        int      `json:"liked"`
	ApprovalRate *float64 `json:"approvalRate"`
}

// Summary aggregates one user's feedback.
type Summary struct {
	UserID       string           `json:"userId"`
	Total        int              `json:"total"`
	Liked        int              `json:"liked"`
	ApprovalRate *float64         `json:"approvalRate"`
	Scenarios    []ScenarioResult `json:"scenarios"`
}

// Evaluator holds the catalog and the scenarios feedback is scored against.
type Evaluator struct {
	catalog   *catalog.Catalog
	scenarios []Scenario
	// suggested[i] is the dish id set of scenarios[i].
	suggested []map[int]bool
}

// NewEvaluator precomputes the suggestion set of every built-in scenario.
func NewEvaluator(c *catalog.Catalog) *Evaluator {
	e := &Evaluator{catalog: c}
	e.loadScenarios()
	return e
}

func (e *Evaluator) loadScenarios() {
	e.scenarios = []Scenario{
		{ID: "weekday_breakfast", Name: "Weekday Breakfast", Day: models.DayMonday, TimeOfDay: models.TimeMorning},
		{ID: "weekday_lunch", Name: "Weekday Lunch", Day: models.DayWednesday, TimeOfDay: models.TimeAfternoon},
		{ID: "weekday_dinner", Name: "Weekday Dinner", Day: models.DayThursday, TimeOfDay: models.TimeEvening},
		{ID: "weekend_breakfast", Name: "Weekend Breakfast", Day: models.DaySunday, TimeOfDay: models.TimeMorning},
		{ID: "weekend_dinner", Name: "Weekend Dinner", Day: models.DaySaturday, TimeOfDay: models.TimeEvening},
		{ID: "family_gathering", Name: "Family Gathering", Occasion: "Family Gathering"},
		{ID: "festive", Name: "Festive", Occasion: "Diwali"},
	}

	e.suggested = make([]map[int]bool, len(e.scenarios))
	for i, s := range e.scenarios {
		var dishes []models.Dish
		if s.Occasion != "" {
			dishes = suggest.FilterOccasion(e.catalog, s.Occasion, nil)
		} else {
			dishes = suggest.FilterDaily(e.catalog.Dishes(), s.Day, s.TimeOfDay, nil)
		}
		ids := make(map[int]bool, len(dishes))
		for _, d := range dishes {
			ids[d.ID] = true
		}
		e.suggested[i] = ids
	}
}

// Evaluate tallies feedback. When a user rated the same dish more than once,
// only the latest rating (by position) counts. Feedback for dishes missing
// from the catalog counts toward the totals but no scenario.
func (e *Evaluator) Evaluate(userID string, feedback []models.Feedback) Summary {
	latest := make(map[int]bool, len(feedback))
	order := make([]int, 0, len(feedback))
	for _, f := range feedback {
		if _, seen := latest[f.DishID]; !seen {
			order = append(order, f.DishID)
		}
		latest[f.DishID] = f.Liked
	}

	sum := Summary{UserID: userID, Scenarios: make([]ScenarioResult, len(e.scenarios))}
	for _, id := range order {
		sum.Total++
		if latest[id] {
			sum.Liked++
		}
	}
	sum.ApprovalRate = ratio(sum.Liked, sum.Total)

	for i, s := range e.scenarios {
		r := ScenarioResult{Scenario: s, Suggested: len(e.suggested[i])}
		for _, id := range order {
			if !e.suggested[i][id] {
				continue
			}
			r.Rated++
			if latest[id] {
				r.Liked++
			}
		}
		r.ApprovalRate = ratio(r.Liked, r.Rated)
		sum.Scenarios[i] = r
	}
	return sum
}

func ratio(n, d int) *float64 {
	if d == 0 {
		return nil
	}
	v := float64(n) / float64(d)
	return &v
}
