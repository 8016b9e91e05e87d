// Package catalog holds the formula and application records as the browser
// sees them, together with the display rules applied to their fields.
package catalog

// Formula is a named mathematical statement with its notation source.
type Formula struct {
	ID                   int    `json:"id"`
	FormulaName          string `json:"formula_name"`
	Latex                string `json:"latex"`
	FormulaDescription   Text   `json:"formula_description"`
	EnglishVerbalization Text   `json:"english_verbalization"`
}

// Interactive reports whether the formula gets a detail link and a hover
// preview. Only the presence of a description decides this.
func (f Formula) Interactive() bool {
	return f.FormulaDescription.IsPresent()
}

// Application is a worked problem context that formulas can be linked to.
type Application struct {
	ID              int    `json:"id"`
	Title           string `json:"title"`
	ProblemText     string `json:"problem_text"`
	SubjectArea     Text   `json:"subject_area"`
	DifficultyLevel Text   `json:"difficulty_level"`
	CreatedAt       Text   `json:"created_at"`
}

// LinkRequest is the body of the link-formulas write.
type LinkRequest struct {
	FormulaIDs []int `json:"formula_ids"`
}
