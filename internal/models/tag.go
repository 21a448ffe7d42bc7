package models

import "time"

// Tag is a normalized temperament label (e.g. "Curious", "Playful").
// Names are unique and compared case-sensitively.
type Tag struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"size:100;uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"not null"`
	Cats      []*Cat    `gorm:"many2many:cat_tags;"`
}
