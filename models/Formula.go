package models

import (
	"time"
)

// Formula is one catalog entry as served by the catalog API.
type Formula struct {
	ID                   uint          `gorm:"primaryKey" json:"id"`
	FormulaName          string        `gorm:"not null;uniqueIndex" json:"formula_name"`
	Latex                string        `gorm:"type:text;not null" json:"latex"`
	FormulaDescription   *string       `gorm:"type:text" json:"formula_description"`
	EnglishVerbalization *string       `gorm:"type:text" json:"english_verbalization"`
	CreatedAt            time.Time     `json:"-"`
	UpdatedAt            time.Time     `json:"-"`
	Applications         []Application `gorm:"many2many:formula_applications;" json:"-"`
}
