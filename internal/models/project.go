package models

import "github.com/lib/pq"

type Project struct {
	BaseModel

	Slug       string `gorm:"uniqueIndex;not null"`
	NameTH     string `gorm:"column:name_th;not null"`
	NameEN     string `gorm:"column:name_en;not null"`
	Developer  string
	YearBuilt  int
	Floors     int
	Units      int
	Facilities pq.StringArray `gorm:"type:text[]"`
	Highlights pq.StringArray `gorm:"type:text[]"`
	BTS        string         `gorm:"column:bts"` // nearest transit labels
	MRT        string         `gorm:"column:mrt"`
	Landmark   string
	Lat        float64
	Lng        float64

	// Relationships
	Properties []Property `gorm:"foreignKey:ProjectSlug;references:Slug;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
