// Package recommend is the single entry point for suggestion requests. It
// validates raw parameters, runs the filters in package suggest, and
// optionally enriches the result with scores from the external scorer.
package recommend

import (
	"context"
	"errors"
	"strings"
	"time"

	"rasaroots/internal/catalog"
	"rasaroots/internal/logging"
	"rasaroots/internal/models"
	"rasaroots/internal/monitoring"
	"rasaroots/internal/scorer"
	"rasaroots/internal/suggest"
)

// Modes label suggestion metrics.
const (
	ModeDaily    = "daily"
	ModeOccasion = "occasion"
	ModeNow      = "now"
	ModeML       = "ml"
)

// Facade serves recommendation requests against one catalog.
type Facade struct {
	catalog *catalog.Catalog
	scorer  scorer.Scorer
	monitor *monitoring.Monitor
	loc     *time.Location
	now     func() time.Time
}

// Option configures a Facade.
type Option func(*Facade)

// WithScorer enables enrichment. A nil scorer disables it.
func WithScorer(s scorer.Scorer) Option {
	return func(f *Facade) { f.scorer = s }
}

// WithMonitor records outcomes on m.
func WithMonitor(m *monitoring.Monitor) Option {
	return func(f *Facade) { f.monitor = m }
}

// WithLocation sets the timezone used to resolve the current context.
func WithLocation(loc *time.Location) Option {
	return func(f *Facade) { f.loc = loc }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(f *Facade) { f.now = now }
}

// New creates a Facade.
func New(c *catalog.Catalog, opts ...Option) *Facade {
	f := &Facade{catalog: c, loc: time.Local, now: time.Now}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Catalog returns the catalog the facade serves.
func (f *Facade) Catalog() *catalog.Catalog {
	return f.catalog
}

// Today returns the current time in the configured location.
func (f *Facade) Today() time.Time {
	return f.now().In(f.loc)
}

// Context resolves the current day and time bucket. It never calls the
// scorer.
func (f *Facade) Context() suggest.Context {
	return suggest.ResolveContext(f.now(), f.loc)
}

// Profile carries per-user hints forwarded to the scorer.
type Profile struct {
	FamilySize  int
	Region      string
	Preferences map[string][]string
}

// DailyQuery holds raw daily request parameters.
type DailyQuery struct {
	Day       string
	TimeOfDay string
	Tags      string
	Profile   Profile
}

// OccasionQuery holds raw occasion request parameters.
type OccasionQuery struct {
	Occasion string
	Tags     string
	Profile  Profile
}

// Daily validates q and returns the matching dishes. A missing day or time
// of day means Any.
func (f *Facade) Daily(ctx context.Context, q DailyQuery) ([]models.Suggestion, error) {
	var es errs
	day := parseDay(q.Day, &es)
	bucket := parseTimeOfDay("timeOfDay", q.TimeOfDay, &es)
	tags := parseTags("tags", q.Tags, &es)
	if err := es.err(); err != nil {
		return nil, err
	}

	dishes := suggest.FilterDaily(f.catalog.Dishes(), day, bucket, tags)
	out := f.enrich(ctx, dishes, bucket, tags, q.Profile)
	monitoring.SuggestionsReturned.WithLabelValues(ModeDaily).Observe(float64(len(out)))
	return out, nil
}

// Occasion validates q and returns the dishes for a static occasion or a
// festival. The id is matched exactly; unknown occasions yield an empty list.
func (f *Facade) Occasion(ctx context.Context, q OccasionQuery) ([]models.Suggestion, error) {
	var es errs
	occasion := q.Occasion
	if occasion == "" {
		accepted := make([]string, 0, len(models.StaticOccasions))
		for _, o := range models.StaticOccasions {
			accepted = append(accepted, string(o))
		}
		es.add("occasion", q.Occasion, "occasion is required", accepted)
	}
	tags := parseTags("tags", q.Tags, &es)
	if err := es.err(); err != nil {
		return nil, err
	}

	dishes := suggest.FilterOccasion(f.catalog, occasion, tags)
	if len(dishes) == 0 {
		logging.Ctx(ctx).Debug().Str("occasion", occasion).Msg("no dishes for occasion")
	}
	out := f.enrich(ctx, dishes, models.TimeAny, tags, q.Profile)
	monitoring.SuggestionsReturned.WithLabelValues(ModeOccasion).Observe(float64(len(out)))
	return out, nil
}

// NowResult is a daily suggestion for the current clock reading.
type NowResult struct {
	Context     suggest.Context     `json:"context"`
	Suggestions []models.Suggestion `json:"suggestions"`
}

// Now resolves the current day and time bucket and returns daily suggestions.
func (f *Facade) Now(ctx context.Context, tags string, p Profile) (NowResult, error) {
	var es errs
	ts := parseTags("tags", tags, &es)
	if err := es.err(); err != nil {
		return NowResult{}, err
	}

	sc := f.Context()
	dishes := suggest.FilterDaily(f.catalog.Dishes(), sc.Day, sc.TimeOfDay, ts)
	out := f.enrich(ctx, dishes, sc.TimeOfDay, ts, p)
	monitoring.SuggestionsReturned.WithLabelValues(ModeNow).Observe(float64(len(out)))
	return NowResult{Context: sc, Suggestions: out}, nil
}

// MealType returns the catalog filtered by meal type.
func (f *Facade) MealType(raw string) ([]models.Suggestion, error) {
	mt, ok := models.ParseMealType(raw)
	if !ok {
		var es errs
		es.add("mealType", raw, "unknown meal type", models.AcceptedMealTypes())
		return nil, es.err()
	}
	return toSuggestions(suggest.FilterMealType(f.catalog.Dishes(), mt)), nil
}

// All returns the full catalog.
func (f *Facade) All() []models.Suggestion {
	return toSuggestions(f.catalog.Dishes())
}

func toSuggestions(dishes []models.Dish) []models.Suggestion {
	out := make([]models.Suggestion, len(dishes))
	for i := range dishes {
		out[i] = dishes[i].Suggestion()
	}
	return out
}

// enrich attaches scorer confidences to dishes by case-insensitive name. Any
// scorer failure leaves the list unenriched; it is logged, never returned.
func (f *Facade) enrich(ctx context.Context, dishes []models.Dish, bucket models.TimeOfDay, tags models.TagSet, p Profile) []models.Suggestion {
	out := toSuggestions(dishes)
	if f.scorer == nil || len(out) == 0 {
		return out
	}

	recs, err := f.scorer.Score(ctx, scorerRequest(bucket, tags.Strings(), p))
	if err != nil {
		f.degraded(ctx, err)
		return out
	}

	conf := make(map[string]float64, len(recs))
	for _, r := range recs {
		if r.Confidence == nil {
			continue
		}
		key := strings.ToLower(r.Name)
		if _, seen := conf[key]; !seen {
			conf[key] = scorer.Clamp(*r.Confidence)
		}
	}
	for i := range out {
		if c, ok := conf[strings.ToLower(out[i].Name)]; ok {
			c := c
			out[i].Confidence = &c
		}
	}
	return out
}

func (f *Facade) degraded(ctx context.Context, err error) {
	ev := logging.Ctx(ctx).Warn().Err(err)
	if !errors.Is(err, scorer.ErrUnavailable) {
		ev = ev.Bool("unexpected", true)
	}
	ev.Msg("scorer unavailable, serving unenriched suggestions")
	if f.monitor != nil {
		f.monitor.Incr("suggestions_degraded")
		f.monitor.RecordMetric("last_degraded_reason", err.Error())
	}
	monitoring.ScorerRequests.WithLabelValues(monitoring.OutcomeDegraded).Inc()
}

func scorerRequest(bucket models.TimeOfDay, tags []string, p Profile) scorer.Request {
	req := scorer.Request{
		Tags:        tags,
		FamilySize:  p.FamilySize,
		Region:      p.Region,
		Preferences: p.Preferences,
	}
	if bucket != models.TimeAny {
		req.TimeOfDay = string(bucket)
	}
	if req.FamilySize <= 0 {
		req.FamilySize = models.DefaultPreferences().FamilySize
	}
	if req.Tags == nil {
		req.Tags = []string{}
	}
	return req
}
