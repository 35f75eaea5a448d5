package models

import (
	"time"

	"gorm.io/datatypes"
)

// ImportSession stores the loosely-typed phase outputs as JSON columns; the
// repository marshals them from the structured domain types at the boundary.
type ImportSession struct {
	ID     string `gorm:"type:uuid;primaryKey"`
	UserID string `gorm:"type:text;not null;index"`
	Status string `gorm:"type:text;not null"`

	FileName string `gorm:"type:text;not null"`
	FileData []byte `gorm:"type:bytea"`

	TotalRows int `gorm:"not null;default:0"`
	ValidRows int `gorm:"not null;default:0"`

	Analysis   datatypes.JSON `gorm:"type:jsonb"`
	Mapping    datatypes.JSON `gorm:"type:jsonb"`
	Normalized datatypes.JSON `gorm:"type:jsonb"`
	Duplicates datatypes.JSON `gorm:"type:jsonb"`
	Decisions  datatypes.JSON `gorm:"type:jsonb"`
	Result     datatypes.JSON `gorm:"type:jsonb"`

	ErrorMessage *string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ImportSession) TableName() string {
	return "import_sessions"
}
