package models

// Tag represents a descriptive dish label used for filtering
type Tag string

const (
	TagHealthy   Tag = "Healthy"
	TagLight     Tag = "Light"
	TagSpicy     Tag = "Spicy"
	TagQuick     Tag = "Quick"
	TagFestive   Tag = "Festive"
	TagProtein   Tag = "Protein"
	TagProbiotic Tag = "Probiotic"
	TagOnePot    Tag = "One-pot"
	TagBalanced  Tag = "Balanced"
	TagSweet     Tag = "Sweet"
)

// Tags lists every known tag.
var Tags = []Tag{
	TagHealthy, TagLight, TagSpicy, TagQuick, TagFestive,
	TagProtein, TagProbiotic, TagOnePot, TagBalanced, TagSweet,
}

// ParseTag accepts a known tag name. Matching is exact.
func ParseTag(s string) (Tag, bool) {
	for _, t := range Tags {
		if Tag(s) == t {
			return t, true
		}
	}
	return "", false
}

// AcceptedTags returns the known tag names as strings.
func AcceptedTags() []string {
	out := make([]string, len(Tags))
	for i, t := range Tags {
		out[i] = string(t)
	}
	return out
}

// TagSet is a duplicate-free collection of tags. Order is kept only so that
// JSON output is stable; it carries no meaning.
type TagSet []Tag

// NewTagSet collapses duplicates, keeping the first occurrence of each tag.
func NewTagSet(tags ...Tag) TagSet {
	if len(tags) == 0 {
		return TagSet{}
	}
	seen := make(map[Tag]struct{}, len(tags))
	out := make(TagSet, 0, len(tags))
	for _, t := range tags {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// Contains reports whether t is in the set.
func (s TagSet) Contains(t Tag) bool {
	for _, x := range s {
		if x == t {
			return true
		}
	}
	return false
}

// IsEmpty reports whether the set has no tags.
func (s TagSet) IsEmpty() bool {
	return len(s) == 0
}

// Strings returns the tags as plain strings.
func (s TagSet) Strings() []string {
	out := make([]string, len(s))
	for i, t := range s {
		out[i] = string(t)
	}
	return out
}
