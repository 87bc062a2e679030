// Package scorer talks to the external recommendation scorer. The scorer is
// an opaque collaborator: it receives a context and returns dishes with a
// confidence in [0,1]. Its responses are treated as partial records and
// every missing field is replaced by a fixed default.
package scorer

import (
	"context"
	"errors"
	"strings"

	"github.com/goccy/go-json"
)

// PlaceholderImage is used when the scorer returns no image.
const PlaceholderImage = "https://source.unsplash.com/featured/300x200/?indian,food"

// ErrUnavailable is returned when the scorer cannot be reached, times out,
// answers with garbage, or is short-circuited by the breaker.
var ErrUnavailable = errors.New("scorer unavailable")

// Request is the body sent to the scorer.
type Request struct {
	TimeOfDay   string              `json:"time_of_day,omitempty"`
	Region      string              `json:"region,omitempty"`
	Tags        []string            `json:"tags"`
	FamilySize  int                 `json:"family_size"`
	Preferences map[string][]string `json:"preferences"`
}

// Recommendation is a scored dish after defaults have been applied.
type Recommendation struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	ImageURL    string   `json:"imageUrl"`
	Tags        []string `json:"tags"`
	MealType    string   `json:"mealType,omitempty"`
	Confidence  *float64 `json:"confidence,omitempty"`
}

// Scorer returns recommendations for a request.
type Scorer interface {
	Score(ctx context.Context, req Request) ([]Recommendation, error)
}

// partial mirrors a scorer record where every field may be absent.
type partial struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	ImageURL    *string  `json:"imageUrl"`
	Tags        []string `json:"tags"`
	MealType    *string  `json:"meal_type"`
	Confidence  *float64 `json:"confidence"`
}

type response struct {
	Recommendations []partial `json:"recommendations"`
}

// decode parses a scorer response body and applies defaults. Records
// without a name are dropped since nothing can be matched against them.
func decode(body []byte) ([]Recommendation, error) {
	var resp response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}
	out := make([]Recommendation, 0, len(resp.Recommendations))
	for _, p := range resp.Recommendations {
		if r, ok := p.normalize(); ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (p partial) normalize() (Recommendation, bool) {
	if p.Name == nil || strings.TrimSpace(*p.Name) == "" {
		return Recommendation{}, false
	}
	r := Recommendation{
		Name:     strings.TrimSpace(*p.Name),
		ImageURL: PlaceholderImage,
		Tags:     []string{},
	}
	if p.Description != nil {
		r.Description = *p.Description
	}
	if p.ImageURL != nil && *p.ImageURL != "" {
		r.ImageURL = *p.ImageURL
	}
	if p.Tags != nil {
		r.Tags = p.Tags
	}
	if p.MealType != nil {
		r.MealType = *p.MealType
	}
	if p.Confidence != nil {
		c := Clamp(*p.Confidence)
		r.Confidence = &c
	}
	return r, true
}

// Clamp limits a confidence to [0,1].
func Clamp(c float64) float64 {
	switch {
	case c != c: // NaN
		return 0
	case c < 0:
		return 0
	case c > 1:
		return 1
	}
	return c
}
