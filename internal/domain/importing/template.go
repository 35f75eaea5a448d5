package importing

import "time"

// Template is a saved, reusable column-to-field mapping keyed by a column
// signature. Deleting a template only deactivates it.
type Template struct {
	ID              int64
	Name            string
	Description     string
	CreatedBy       string
	IsDefault       bool
	IsActive        bool
	Mapping         map[string]string
	MergeRules      []MergeRule
	IgnoredColumns  []string
	ColumnSignature string
	UseCount        int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
