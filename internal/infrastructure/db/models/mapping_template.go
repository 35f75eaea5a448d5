package models

import (
	"time"

	"gorm.io/datatypes"
)

type MappingTemplate struct {
	ID          int64  `gorm:"primaryKey"`
	Name        string `gorm:"size:255;not null"`
	Description string `gorm:"type:text"`
	CreatedBy   string `gorm:"type:text;index"`

	IsDefault bool `gorm:"not null;default:false"`
	IsActive  bool `gorm:"not null;default:true"`

	Mapping        datatypes.JSON `gorm:"type:jsonb"`
	MergeRules     datatypes.JSON `gorm:"type:jsonb"`
	IgnoredColumns datatypes.JSON `gorm:"type:jsonb"`

	ColumnSignature string `gorm:"size:64;index"`
	UseCount        int    `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (MappingTemplate) TableName() string {
	return "mapping_templates"
}
