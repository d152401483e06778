package models

import "github.com/lib/pq"

const (
	PropertyTypeRent = "rent"
	PropertyTypeBuy  = "buy"
)

type Property struct {
	BaseModel

	ProjectSlug  string         `gorm:"not null;index"` // foreign key to Project.Slug
	Type         string         `gorm:"not null"`       // "rent" or "buy"
	TitleTH      string         `gorm:"column:title_th;not null"`
	TitleEN      string         `gorm:"column:title_en"`
	SlugEN       string         `gorm:"column:slug_en"`
	Price        float64        `gorm:"not null"` // THB; monthly when Type is "rent"
	SizeSqm      float64        `gorm:"column:size_sqm"`
	Bedrooms     *int
	Bathrooms    *int
	Floor        *int
	Furnished    string
	BTSDistanceM *int           `gorm:"column:bts_distance_m"`
	MRTDistanceM *int           `gorm:"column:mrt_distance_m"`
	Badges       pq.StringArray `gorm:"type:text[]"`
	Images       pq.StringArray `gorm:"type:text[]"` // first entry is the cover image
	Status       string
}
