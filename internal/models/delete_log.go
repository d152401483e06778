package models

import "gorm.io/datatypes"

// DeleteLog records a dashboard property deletion. Deletes are hard
// deletes with no undo; the snapshot keeps the last known row state.
type DeleteLog struct {
	BaseModel

	PropertyID uint           `gorm:"not null;index"`
	TitleTH    string         `gorm:"column:title_th"`
	Reason     string         `gorm:"not null"`
	DeletedBy  uint           `gorm:"index"`
	Snapshot   datatypes.JSON `gorm:"type:jsonb"`
}

const DeleteReasonManual = "manual_deletion"
