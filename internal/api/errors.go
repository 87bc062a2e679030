package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"rasaroots/internal/logging"
	"rasaroots/internal/models"
	"rasaroots/internal/recommend"
)

// writeError maps err onto a response. Validation failures become 400 with
// the offending fields; anything else is a 500.
func writeError(c *gin.Context, err error) {
	var ip *recommend.InvalidParametersError
	if errors.As(err, &ip) {
		invalidParameters(c, ip.Fields)
		return
	}
	logging.Ctx(c.Request.Context()).Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

func invalidParameters(c *gin.Context, fields []recommend.FieldError) {
	c.JSON(http.StatusBadRequest, gin.H{
		"message": "Invalid parameters",
		"errors":  fields,
	})
}

// bindError reports a body that failed to decode or validate.
func bindError(c *gin.Context, err error) {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		invalidParameters(c, []recommend.FieldError{{Field: "body", Message: err.Error()}})
		return
	}

	fields := make([]recommend.FieldError, 0, len(ve))
	for _, fe := range ve {
		f := recommend.FieldError{
			Field:   jsonName(fe.Field()),
			Value:   fmt.Sprint(fe.Value()),
			Message: fmt.Sprintf("failed on %s", fe.Tag()),
		}
		if fe.Param() != "" {
			f.Message += "=" + fe.Param()
		}
		if fe.Tag() == "dishtag" {
			f.Accepted = models.AcceptedTags()
		}
		fields = append(fields, f)
	}
	invalidParameters(c, fields)
}

// jsonName lower-cases the first letter of a struct field name and strips
// any slice index, so PreferredTags[1] reads as preferredTags.
func jsonName(field string) string {
	if i := strings.IndexByte(field, '['); i >= 0 {
		field = field[:i]
	}
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}
