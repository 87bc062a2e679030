package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"rasaroots/internal/logging"
	"rasaroots/internal/models"
	"rasaroots/internal/preferences"
	"rasaroots/internal/recommend"
)

// feedbackRequest is the body of POST /feedback.
type feedbackRequest struct {
	UserID string `json:"userId" binding:"omitempty,max=128"`
	DishID int    `json:"dishId" binding:"required,gt=0"`
	Liked  *bool  `json:"liked" binding:"required"`
}

// preferencesRequest is a partial preference update. Absent fields are kept.
type preferencesRequest struct {
	PreferredTags       []string `json:"preferredTags" binding:"omitempty,dive,dishtag"`
	FamilySize          *int     `json:"familySize" binding:"omitempty,min=1,max=20"`
	RegionalPreferences []string `json:"regionalPreferences" binding:"omitempty,dive,oneof=North South East West Central 'All India'"`
}

func (s *Server) handleCreateFeedback(c *gin.Context) {
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user := req.UserID
	if sub := currentUser(c); sub != "" {
		if user != "" && user != sub {
			c.JSON(http.StatusForbidden, gin.H{"error": "userId does not match token"})
			return
		}
		user = sub
	}
	if user == "" {
		invalidParameters(c, []recommend.FieldError{{Field: "userId", Message: "userId is required"}})
		return
	}
	if _, ok := s.facade.Catalog().Dish(req.DishID); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Dish not found"})
		return
	}

	fb := &models.Feedback{UserID: user, DishID: req.DishID, Liked: *req.Liked}
	if err := s.fb.CreateFeedback(c.Request.Context(), fb); err != nil {
		writeError(c, err)
		return
	}
	s.monitor.Incr("feedback_created")
	c.JSON(http.StatusCreated, fb)
}

func (s *Server) handleListFeedback(c *gin.Context) {
	out, err := s.fb.ListFeedback(c.Request.Context(), c.Param("userId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleFeedbackSummary(c *gin.Context) {
	user := c.Param("userId")
	out, err := s.fb.ListFeedback(c.Request.Context(), user)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.eval.Evaluate(user, out))
}

func (s *Server) handleGetPreferences(c *gin.Context) {
	user := c.Param("userId")
	ctx, cancel := context.WithTimeout(c.Request.Context(), s.opts.PreferenceTimeout)
	defer cancel()

	p, err := s.prefs.Get(ctx, user)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("user", user).Msg("preferences unavailable, serving defaults")
		s.monitor.Incr("preferences_degraded")
		p = models.DefaultPreferences()
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) handleUpdatePreferences(c *gin.Context) {
	var req preferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	patch := preferences.Patch{
		FamilySize:          req.FamilySize,
		RegionalPreferences: req.RegionalPreferences,
	}
	if req.PreferredTags != nil {
		patch.PreferredTags = make([]models.Tag, len(req.PreferredTags))
		for i, t := range req.PreferredTags {
			patch.PreferredTags[i] = models.Tag(t)
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.opts.PreferenceTimeout)
	defer cancel()

	p, err := s.prefs.Merge(ctx, c.Param("userId"), patch)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("failed to update preferences")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "preferences unavailable"})
		return
	}
	c.JSON(http.StatusOK, p)
}
