package recommend

import (
	"strings"

	"rasaroots/internal/models"
)

// parseTags splits a comma separated tag list. Blank segments are skipped and
// duplicates collapse. Unknown tags are reported on es.
func parseTags(field, raw string, es *errs) models.TagSet {
	var tags []models.Tag
	for _, seg := range strings.Split(raw, ",") {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		t, ok := models.ParseTag(seg)
		if !ok {
			es.add(field, seg, "unknown tag", models.AcceptedTags())
			continue
		}
		tags = append(tags, t)
	}
	return models.NewTagSet(tags...)
}

func parseTagList(field string, raw []string, es *errs) models.TagSet {
	return parseTags(field, strings.Join(raw, ","), es)
}

// parseDay defaults a missing day to Any.
func parseDay(raw string, es *errs) models.Day {
	if raw == "" {
		return models.DayAny
	}
	d, ok := models.ParseDay(raw)
	if !ok {
		es.add("day", raw, "unknown day", models.AcceptedDays())
	}
	return d
}

// parseTimeOfDay defaults a missing time of day to Any.
func parseTimeOfDay(field, raw string, es *errs) models.TimeOfDay {
	if raw == "" {
		return models.TimeAny
	}
	t, ok := models.ParseTimeOfDay(raw)
	if !ok {
		es.add(field, raw, "unknown time of day", models.AcceptedTimesOfDay())
	}
	return t
}
