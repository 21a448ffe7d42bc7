package models

import "time"

// Cat is one imported image. ID follows insertion order; CatID is the
// upstream identifier and the dedup key for imports.
type Cat struct {
	ID        uint      `gorm:"primaryKey"`
	CatID     string    `gorm:"size:64;uniqueIndex;not null"`
	Width     int       `gorm:"not null"`
	Height    int       `gorm:"not null"`
	Image     string    `gorm:"size:512;not null"`
	CreatedAt time.Time `gorm:"not null"`
	Tags      []*Tag    `gorm:"many2many:cat_tags;"`
}

// TagNames returns the names of the cat's tags in their loaded order.
func (c *Cat) TagNames() []string {
	names := make([]string, 0, len(c.Tags))
	for _, tag := range c.Tags {
		if tag != nil {
			names = append(names, tag.Name)
		}
	}
	return names
}
