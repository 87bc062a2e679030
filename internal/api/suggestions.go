package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"rasaroots/internal/logging"
	"rasaroots/internal/models"
	"rasaroots/internal/recommend"
	"rasaroots/internal/suggest"
)

func (s *Server) handleDaily(c *gin.Context) {
	out, err := s.facade.Daily(c.Request.Context(), recommend.DailyQuery{
		Day:       c.Query("day"),
		TimeOfDay: c.Query("timeOfDay"),
		Tags:      c.Query("tags"),
		Profile:   s.profile(c),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleNow(c *gin.Context) {
	res, err := s.facade.Now(c.Request.Context(), c.Query("tags"), s.profile(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleOccasion(c *gin.Context) {
	out, err := s.facade.Occasion(c.Request.Context(), recommend.OccasionQuery{
		Occasion: c.Param("occasionId"),
		Tags:     c.Query("tags"),
		Profile:  s.profile(c),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleML(c *gin.Context) {
	var q recommend.MLQuery
	if err := c.ShouldBindJSON(&q); err != nil {
		bindError(c, err)
		return
	}
	res, err := s.facade.Recommend(c.Request.Context(), q)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleListDishes(c *gin.Context) {
	c.JSON(http.StatusOK, s.facade.All())
}

func (s *Server) handleDishesByMealType(c *gin.Context) {
	out, err := s.facade.MealType(c.Param("mealType"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleGetDish(c *gin.Context) {
	raw := c.Param("id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		invalidParameters(c, []recommend.FieldError{{Field: "id", Value: raw, Message: "id must be an integer"}})
		return
	}
	d, ok := s.facade.Catalog().Dish(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Dish not found"})
		return
	}
	c.JSON(http.StatusOK, d)
}

func (s *Server) handleListFestivals(c *gin.Context) {
	c.JSON(http.StatusOK, s.facade.Catalog().Festivals())
}

func (s *Server) handleUpcomingFestival(c *gin.Context) {
	occ, ok := suggest.UpcomingFestival(s.facade.Catalog().Festivals(), s.facade.Today())
	if !ok {
		c.JSON(http.StatusOK, gin.H{"festival": nil})
		return
	}
	c.JSON(http.StatusOK, occ)
}

func (s *Server) handleTodayFestival(c *gin.Context) {
	f, ok := suggest.TodayFestival(s.facade.Catalog().Festivals(), s.facade.Today())
	if !ok {
		c.JSON(http.StatusOK, gin.H{"festival": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"festival": f})
}

func (s *Server) handleGetFestival(c *gin.Context) {
	f, ok := s.facade.Catalog().Festival(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Festival not found"})
		return
	}
	c.JSON(http.StatusOK, f)
}

// profile builds scorer hints from the caller's stored preferences. Anonymous
// callers and store failures get an empty profile.
func (s *Server) profile(c *gin.Context) recommend.Profile {
	user := currentUser(c)
	if user == "" || s.prefs == nil {
		return recommend.Profile{}
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), s.opts.PreferenceTimeout)
	defer cancel()

	p, err := s.prefs.Get(ctx, user)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("user", user).Msg("preferences unavailable, using defaults")
		if !errors.Is(err, context.Canceled) {
			s.monitor.Incr("preferences_degraded")
		}
		p = models.DefaultPreferences()
	}
	tags := make([]string, len(p.PreferredTags))
	for i, t := range p.PreferredTags {
		tags[i] = string(t)
	}
	return recommend.Profile{
		FamilySize: p.FamilySize,
		Preferences: map[string][]string{
			"tags":    tags,
			"regions": p.RegionalPreferences,
		},
	}
}
