package models

import (
	"strings"
	"time"
)

// Application is a word problem that formulas can be linked to.
type Application struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Title           string    `gorm:"not null" json:"title"`
	ProblemText     string    `gorm:"type:text;not null" json:"problem_text"`
	SubjectArea     *string   `gorm:"type:varchar(128)" json:"subject_area"`
	DifficultyLevel *string   `gorm:"type:varchar(32)" json:"difficulty_level"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"-"`
	Formulas        []Formula `gorm:"many2many:formula_applications;" json:"-"`
}

// All lists every model managed by migrations.
func All() []any {
	return []any{&Formula{}, &Application{}}
}

// Optional returns nil for blank values so they are stored and served as null.
func Optional(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
