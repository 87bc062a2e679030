package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rasaroots/internal/catalog"
	"rasaroots/internal/config"
	"rasaroots/internal/database"
	"rasaroots/internal/models"
	"rasaroots/internal/preferences"
	"rasaroots/internal/recommend"
	"rasaroots/internal/scorer"
)

const testSecret = "test-secret"

// Saturday 2026-10-17, 10:00 UTC.
var testNow = time.Date(2026, 10, 17, 10, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T, mutate func(*Options), facadeOpts ...recommend.Option) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	c, err := catalog.Default()
	require.NoError(t, err)

	db, err := database.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	prefs, err := preferences.Open("")
	require.NoError(t, err)
	t.Cleanup(func() { prefs.Close() })

	facadeOpts = append([]recommend.Option{
		recommend.WithClock(func() time.Time { return testNow }),
		recommend.WithLocation(time.UTC),
	}, facadeOpts...)

	opts := Options{
		Facade:      recommend.New(c, facadeOpts...),
		Feedback:    db,
		Preferences: prefs,
	}
	if mutate != nil {
		mutate(&opts)
	}
	return NewServer(opts)
}

func do(s *Server, method, path string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func listNames(items []map[string]interface{}) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i], _ = it["name"].(string)
	}
	return out
}

func token(t *testing.T, sub string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := tok.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + signed
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)

	w := do(s, "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = do(s, "GET", "/health", nil, "X-Request-ID", "abc-123")
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

// unreachableStore fails every call.
type unreachableStore struct{}

func (unreachableStore) Ping(context.Context) error { return errors.New("connection refused") }
func (unreachableStore) CreateFeedback(context.Context, *models.Feedback) error {
	return errors.New("connection refused")
}
func (unreachableStore) ListFeedback(context.Context, string) ([]models.Feedback, error) {
	return nil, errors.New("connection refused")
}

func TestHealth_DatabaseDown(t *testing.T) {
	s := newTestServer(t, func(o *Options) { o.Feedback = unreachableStore{} })

	w := do(s, "GET", "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "database unreachable")

	// Suggestions do not depend on the database.
	assert.Equal(t, http.StatusOK, do(s, "GET", "/suggestions/daily", nil).Code)

	w = do(s, "POST", "/feedback", gin.H{"userId": "u1", "dishId": 1, "liked": true})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestDailySuggestions(t *testing.T) {
	s := newTestServer(t, nil)

	for _, prefix := range []string{"", "/api/v1"} {
		w := do(s, "GET", prefix+"/suggestions/daily?day=Monday&timeOfDay=Morning&tags=Quick", nil)
		require.Equal(t, http.StatusOK, w.Code, prefix)

		items := decodeList(t, w)
		assert.Equal(t, []string{"Poha", "Ragi Dosa", "Upma", "Sabudana Khichdi"}, listNames(items))
		for _, it := range items {
			assert.Contains(t, it, "id")
			assert.Contains(t, it, "imageUrl")
			assert.Contains(t, it, "mealType")
			assert.NotContains(t, it, "confidence")
		}
	}
}

func TestDailySuggestions_Invalid(t *testing.T) {
	s := newTestServer(t, nil)

	w := do(s, "GET", "/suggestions/daily?day=Someday&timeOfDay=Morning", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body struct {
		Message string                 `json:"message"`
		Errors  []recommend.FieldError `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Invalid parameters", body.Message)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "day", body.Errors[0].Field)
	assert.Contains(t, body.Errors[0].Accepted, "Any")
}

func TestDailySuggestions_EmptyIsSuccess(t *testing.T) {
	s := newTestServer(t, nil)

	w := do(s, "GET", "/suggestions/daily?day=Saturday&timeOfDay=Morning&tags=Probiotic", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestOccasionSuggestions(t *testing.T) {
	s := newTestServer(t, nil)

	w := do(s, "GET", "/api/v1/suggestions/occasion/Family%20Gathering", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"Paneer Butter Masala"}, listNames(decodeList(t, w)))

	w = do(s, "GET", "/suggestions/occasion/UnknownXYZ", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())

	w = do(s, "GET", "/suggestions/occasion/holi?tags=Sweet", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"Gujiya"}, listNames(decodeList(t, w)))
}

func TestNowSuggestions(t *testing.T) {
	s := newTestServer(t, nil)

	w := do(s, "GET", "/suggestions/now", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var res recommend.NowResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "Saturday", string(res.Context.Day))
	assert.Equal(t, "Morning", string(res.Context.TimeOfDay))
	assert.NotEmpty(t, res.Suggestions)
}

func TestDishes(t *testing.T) {
	s := newTestServer(t, nil)

	w := do(s, "GET", "/dishes", nil)
	require.Equal(t, http.StatusOK, w.Code)
	all := decodeList(t, w)
	assert.Equal(t, "Poha", all[0]["name"])

	w = do(s, "GET", "/dishes/meal/dessert", nil)
	require.Equal(t, http.StatusOK, w.Code)
	for _, it := range decodeList(t, w) {
		assert.Equal(t, "dessert", it["mealType"])
	}

	w = do(s, "GET", "/dishes/meal/brunch", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(s, "GET", "/dishes/12", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Kheer")

	assert.Equal(t, http.StatusNotFound, do(s, "GET", "/dishes/999", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(s, "GET", "/dishes/poha", nil).Code)
}

func TestFestivals(t *testing.T) {
	s := newTestServer(t, nil)

	w := do(s, "GET", "/festivals", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeList(t, w), 12)

	w = do(s, "GET", "/festivals/today", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"durga-puja"`)

	w = do(s, "GET", "/festivals/upcoming", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var occ struct {
		Festival  map[string]interface{} `json:"festival"`
		Date      string                 `json:"date"`
		DaysUntil int                    `json:"daysUntil"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &occ))
	assert.Equal(t, "durga-puja", occ.Festival["id"])
	assert.Equal(t, "2026-10-17", occ.Date)
	assert.Equal(t, 0, occ.DaysUntil)

	assert.Equal(t, http.StatusOK, do(s, "GET", "/festivals/holi", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(s, "GET", "/festivals/halloween", nil).Code)
}

func TestFeedback(t *testing.T) {
	s := newTestServer(t, nil)

	w := do(s, "POST", "/feedback", gin.H{"userId": "u1", "dishId": 1, "liked": true})
	require.Equal(t, http.StatusCreated, w.Code)

	var fb map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fb))
	assert.NotZero(t, fb["id"])
	assert.Equal(t, "u1", fb["userId"])
	assert.Equal(t, true, fb["liked"])
	assert.NotEmpty(t, fb["dateAdded"])

	do(s, "POST", "/api/v1/feedback", gin.H{"userId": "u1", "dishId": 2, "liked": false})
	do(s, "POST", "/feedback", gin.H{"userId": "u2", "dishId": 3, "liked": true})

	w = do(s, "GET", "/users/u1/feedback", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeList(t, w), 2)

	w = do(s, "GET", "/api/v1/users/u1/feedback/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var sum struct {
		UserID       string  `json:"userId"`
		Total        int     `json:"total"`
		Liked        int     `json:"liked"`
		ApprovalRate float64 `json:"approvalRate"`
		Scenarios    []struct {
			ID    string `json:"id"`
			Rated int    `json:"rated"`
		} `json:"scenarios"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sum))
	assert.Equal(t, "u1", sum.UserID)
	assert.Equal(t, 2, sum.Total)
	assert.Equal(t, 1, sum.Liked)
	assert.Equal(t, 0.5, sum.ApprovalRate)
	assert.Equal(t, "weekday_breakfast", sum.Scenarios[0].ID)
	assert.Equal(t, 2, sum.Scenarios[0].Rated)
}

func TestFeedback_Invalid(t *testing.T) {
	s := newTestServer(t, nil)

	tests := []struct {
		name string
		body interface{}
		code int
	}{
		{"MissingLiked", gin.H{"userId": "u1", "dishId": 1}, http.StatusBadRequest},
		{"MissingDish", gin.H{"userId": "u1", "liked": true}, http.StatusBadRequest},
		{"MissingUser", gin.H{"dishId": 1, "liked": true}, http.StatusBadRequest},
		{"UnknownDish", gin.H{"userId": "u1", "dishId": 999, "liked": true}, http.StatusNotFound},
		{"NotJSON", "nope", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(s, "POST", "/feedback", tt.body)
			assert.Equal(t, tt.code, w.Code, w.Body.String())
		})
	}
}

func TestPreferences(t *testing.T) {
	s := newTestServer(t, nil)

	w := do(s, "GET", "/users/u1/preferences", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"preferredTags":["Healthy","Quick"],"familySize":4,"regionalPreferences":[]}`, w.Body.String())

	w = do(s, "PUT", "/users/u1/preferences", gin.H{"familySize": 2, "regionalPreferences": []string{"South", "All India"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"preferredTags":["Healthy","Quick"],"familySize":2,"regionalPreferences":["South","All India"]}`, w.Body.String())

	w = do(s, "GET", "/api/v1/users/u1/preferences", nil)
	assert.Contains(t, w.Body.String(), `"familySize":2`)
}

func TestPreferences_Invalid(t *testing.T) {
	s := newTestServer(t, nil)

	w := do(s, "PUT", "/users/u1/preferences", gin.H{"preferredTags": []string{"Quick", "Crunchy"}})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body struct {
		Errors []recommend.FieldError `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "preferredTags", body.Errors[0].Field)
	assert.Equal(t, "Crunchy", body.Errors[0].Value)
	assert.Contains(t, body.Errors[0].Accepted, "Sweet")

	w = do(s, "PUT", "/users/u1/preferences", gin.H{"familySize": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(s, "PUT", "/users/u1/preferences", gin.H{"regionalPreferences": []string{"Atlantis"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuth(t *testing.T) {
	s := newTestServer(t, func(o *Options) {
		o.Auth = config.AuthConfig{Enabled: true, JWTSecret: testSecret}
	})

	assert.Equal(t, http.StatusUnauthorized, do(s, "GET", "/users/u1/preferences", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, do(s, "GET", "/users/u1/preferences", nil, "Authorization", "Bearer garbage").Code)
	assert.Equal(t, http.StatusForbidden, do(s, "GET", "/users/u2/preferences", nil, "Authorization", token(t, "u1")).Code)
	assert.Equal(t, http.StatusOK, do(s, "GET", "/users/u1/preferences", nil, "Authorization", token(t, "u1")).Code)

	// Anonymous suggestions still work.
	assert.Equal(t, http.StatusOK, do(s, "GET", "/suggestions/daily", nil).Code)

	w := do(s, "POST", "/feedback", gin.H{"dishId": 1, "liked": true}, "Authorization", token(t, "u1"))
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"userId":"u1"`)

	w = do(s, "POST", "/feedback", gin.H{"userId": "u2", "dishId": 1, "liked": true}, "Authorization", token(t, "u1"))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestScorerTimeoutDegrades(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	defer slow.Close()

	guard := scorer.NewGuard(scorer.NewHTTPScorer(slow.URL, nil), scorer.GuardConfig{Timeout: 30 * time.Millisecond}, nil)
	s := newTestServer(t, nil, recommend.WithScorer(guard))

	w := do(s, "GET", "/suggestions/daily?day=Monday&timeOfDay=Morning", nil)
	require.Equal(t, http.StatusOK, w.Code)
	items := decodeList(t, w)
	require.NotEmpty(t, items)
	for _, it := range items {
		assert.NotContains(t, it, "confidence")
	}

	w = do(s, "POST", "/recommendations/ml", gin.H{"time_of_day": "Morning", "tags": []string{"Quick"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"degraded":true`)
}

func TestScorerEnrichment(t *testing.T) {
	ml := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"recommendations":[{"name":"poha","tags":["Quick"],"confidence":0.87}]}`))
	}))
	defer ml.Close()

	guard := scorer.NewGuard(scorer.NewHTTPScorer(ml.URL, nil), scorer.GuardConfig{Timeout: time.Second}, nil)
	s := newTestServer(t, nil, recommend.WithScorer(guard))

	w := do(s, "GET", "/suggestions/daily?day=Monday&timeOfDay=Morning&tags=Quick", nil)
	require.Equal(t, http.StatusOK, w.Code)
	items := decodeList(t, w)
	assert.Equal(t, 0.87, items[0]["confidence"])
	assert.NotContains(t, items[1], "confidence")

	w = do(s, "POST", "/api/v1/recommendations/ml", gin.H{"family_size": 3})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"degraded":false`)

	w = do(s, "POST", "/recommendations/ml", gin.H{"family_size": 99})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, func(o *Options) {
		o.RateLimit = 0.001
		o.RateBurst = 1
	})

	assert.Equal(t, http.StatusOK, do(s, "GET", "/dishes", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(s, "GET", "/dishes", nil).Code)
}

func TestStatus(t *testing.T) {
	s := newTestServer(t, nil)
	do(s, "POST", "/feedback", gin.H{"userId": "u1", "dishId": 1, "liked": true})

	w := do(s, "GET", "/api/v1/status", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Contains(t, response, "uptime_seconds")
	assert.Equal(t, float64(1), response["feedback_created"])
}
