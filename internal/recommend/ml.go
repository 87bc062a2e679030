package recommend

import (
	"context"
	"strconv"

	"rasaroots/internal/models"
	"rasaroots/internal/monitoring"
	"rasaroots/internal/scorer"
	"rasaroots/internal/suggest"
)

const maxFamilySize = 20

// MLQuery is the body of a direct scorer request.
type MLQuery struct {
	TimeOfDay   string              `json:"time_of_day"`
	Region      string              `json:"region"`
	Tags        []string            `json:"tags"`
	// FamilySize 0 means unset; the scorer then gets the default household.
	FamilySize  int                 `json:"family_size"`
	Preferences map[string][]string `json:"preferences"`
}

// MLResult is what the scorer returned, or the daily fallback when it could
// not be used.
type MLResult struct {
	Recommendations []scorer.Recommendation `json:"recommendations"`
	Degraded        bool                    `json:"degraded"`
}

// Recommend forwards q to the scorer. Without a working scorer it serves the
// daily filter for today and the requested time of day instead.
func (f *Facade) Recommend(ctx context.Context, q MLQuery) (MLResult, error) {
	var es errs
	bucket := parseTimeOfDay("time_of_day", q.TimeOfDay, &es)
	tags := parseTagList("tags", q.Tags, &es)
	if q.FamilySize < 0 || q.FamilySize > maxFamilySize {
		es.add("family_size", strconv.Itoa(q.FamilySize), "family size must be between 1 and 20, or 0 for the default", nil)
	}
	if err := es.err(); err != nil {
		return MLResult{}, err
	}

	p := Profile{FamilySize: q.FamilySize, Region: q.Region, Preferences: q.Preferences}
	if p.Preferences == nil {
		p.Preferences = map[string][]string{}
	}

	if f.scorer != nil {
		recs, err := f.scorer.Score(ctx, scorerRequest(bucket, tags.Strings(), p))
		if err == nil {
			monitoring.SuggestionsReturned.WithLabelValues(ModeML).Observe(float64(len(recs)))
			return MLResult{Recommendations: recs}, nil
		}
		f.degraded(ctx, err)
	}

	now := f.Context()
	if bucket == models.TimeAny {
		bucket = now.TimeOfDay
	}
	dishes := suggest.FilterDaily(f.catalog.Dishes(), now.Day, bucket, tags)
	recs := make([]scorer.Recommendation, len(dishes))
	for i := range dishes {
		d := &dishes[i]
		recs[i] = scorer.Recommendation{
			Name:        d.Name,
			Description: d.Description,
			ImageURL:    d.ImageURL,
			Tags:        d.Tags.Strings(),
			MealType:    string(d.MealType),
		}
	}
	monitoring.SuggestionsReturned.WithLabelValues(ModeML).Observe(float64(len(recs)))
	return MLResult{Recommendations: recs, Degraded: true}, nil
}
