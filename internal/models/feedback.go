package models

import (
	"time"
)

// Feedback records whether a user liked a dish
type Feedback struct {
	ID        uint      `gorm:"primary_key" json:"id"`
	UserID    string    `gorm:"index;not null" json:"userId"`
	DishID    int       `gorm:"not null" json:"dishId"`
	Liked     bool      `json:"liked"`
	DateAdded time.Time `gorm:"not null" json:"dateAdded"`
}

// TableName sets the table name for Feedback
func (Feedback) TableName() string {
	return "user_feedback"
}

// Preferences is the per-user preference document
type Preferences struct {
	PreferredTags       []Tag    `json:"preferredTags"`
	FamilySize          int      `json:"familySize"`
	RegionalPreferences []string `json:"regionalPreferences"`
}

// DefaultPreferences returns the document a user starts with.
func DefaultPreferences() Preferences {
	return Preferences{
		PreferredTags:       []Tag{TagHealthy, TagQuick},
		FamilySize:          4,
		RegionalPreferences: []string{},
	}
}
