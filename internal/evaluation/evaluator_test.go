package evaluation

import (
	"testing"

	"rasaroots/internal/catalog"
	"rasaroots/internal/models"
)

func newEvaluator(t *testing.T) *Evaluator {
	t.Helper()
	c, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog.Default() error = %v", err)
	}
	return NewEvaluator(c)
}

func TestNewEvaluator(t *testing.T) {
	e := newEvaluator(t)

	ids := map[string]bool{}
	for _, s := range e.scenarios {
		ids[s.ID] = true
	}
	for _, id := range []string{"weekday_breakfast", "weekend_dinner", "family_gathering", "festive"} {
		if !ids[id] {
			t.Errorf("scenario %q missing", id)
		}
	}

	for i, s := range e.scenarios {
		if len(e.suggested[i]) == 0 {
			t.Errorf("scenario %s suggests no dishes", s.ID)
		}
	}
}

func TestEvaluate_Empty(t *testing.T) {
	e := newEvaluator(t)

	sum := e.Evaluate("u1", nil)
	if sum.Total != 0 || sum.ApprovalRate != nil {
		t.Errorf("Evaluate(nil) = %+v, want zero totals and nil rate", sum)
	}
	if len(sum.Scenarios) != len(e.scenarios) {
		t.Errorf("len(Scenarios) = %d, want %d", len(sum.Scenarios), len(e.scenarios))
	}
	for _, r := range sum.Scenarios {
		if r.ApprovalRate != nil {
			t.Errorf("scenario %s rate = %v, want nil", r.ID, *r.ApprovalRate)
		}
	}
}

func TestEvaluate(t *testing.T) {
	e := newEvaluator(t)

	feedback := []models.Feedback{
		{UserID: "u1", DishID: 1, Liked: false}, // Poha, later re-rated
		{UserID: "u1", DishID: 2, Liked: false}, // Idli Sambar
		{UserID: "u1", DishID: 1, Liked: true},
		{UserID: "u1", DishID: 11, Liked: true}, // Paneer Butter Masala
	}
	sum := e.Evaluate("u1", feedback)

	if sum.Total != 3 {
		t.Errorf("Total = %d, want 3", sum.Total)
	}
	if sum.Liked != 2 {
		t.Errorf("Liked = %d, want 2", sum.Liked)
	}

	byID := map[string]ScenarioResult{}
	for _, r := range sum.Scenarios {
		byID[r.ID] = r
	}

	wb := byID["weekday_breakfast"]
	if wb.Rated != 2 || wb.Liked != 1 {
		t.Errorf("weekday_breakfast rated/liked = %d/%d, want 2/1", wb.Rated, wb.Liked)
	}
	if wb.ApprovalRate == nil || *wb.ApprovalRate != 0.5 {
		t.Errorf("weekday_breakfast rate = %v, want 0.5", wb.ApprovalRate)
	}

	fg := byID["family_gathering"]
	if fg.Rated != 1 || fg.Liked != 1 {
		t.Errorf("family_gathering rated/liked = %d/%d, want 1/1", fg.Rated, fg.Liked)
	}

	if fest := byID["festive"]; fest.Rated != 0 || fest.ApprovalRate != nil {
		t.Errorf("festive = %+v, want unrated", fest)
	}
}
