package mock

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	applog "formulary/internal/log"
	"formulary/models"
)

//go:embed seed.yaml
var seedFixture []byte

type fixture struct {
	Formulas []struct {
		Name          string `yaml:"formula_name"`
		Latex         string `yaml:"latex"`
		Description   string `yaml:"formula_description"`
		Verbalization string `yaml:"english_verbalization"`
	} `yaml:"formulas"`
	Applications []struct {
		Title           string   `yaml:"title"`
		ProblemText     string   `yaml:"problem_text"`
		SubjectArea     string   `yaml:"subject_area"`
		DifficultyLevel string   `yaml:"difficulty_level"`
		Formulas        []string `yaml:"formulas"`
	} `yaml:"applications"`
}

// New returns an in-memory sqlite database seeded with a small formula
// catalog. Every call gets its own database.
func New(ctx context.Context) (*gorm.DB, error) {
	applog.Debug(ctx, "initialising mock database")

	dsn := fmt.Sprintf("file:formulary-mock-%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(models.All()...); err != nil {
		return nil, err
	}

	if err := seed(ctx, db, seedFixture); err != nil {
		return nil, err
	}

	return db, nil
}

func seed(ctx context.Context, db *gorm.DB, raw []byte) error {
	applog.Debug(ctx, "seeding mock database")

	var data fixture
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("decode seed fixture: %w", err)
	}

	byName := make(map[string]*models.Formula, len(data.Formulas))
	for _, entry := range data.Formulas {
		formula := &models.Formula{
			FormulaName:          entry.Name,
			Latex:                entry.Latex,
			FormulaDescription:   models.Optional(entry.Description),
			EnglishVerbalization: models.Optional(entry.Verbalization),
		}
		if err := db.WithContext(ctx).Create(formula).Error; err != nil {
			return fmt.Errorf("seed formula %q: %w", entry.Name, err)
		}
		byName[entry.Name] = formula
	}

	for _, entry := range data.Applications {
		application := &models.Application{
			Title:           entry.Title,
			ProblemText:     entry.ProblemText,
			SubjectArea:     models.Optional(entry.SubjectArea),
			DifficultyLevel: models.Optional(entry.DifficultyLevel),
		}
		for _, name := range entry.Formulas {
			formula, ok := byName[name]
			if !ok {
				return fmt.Errorf("seed application %q: unknown formula %q", entry.Title, name)
			}
			application.Formulas = append(application.Formulas, *formula)
		}
		if err := db.WithContext(ctx).Create(application).Error; err != nil {
			return fmt.Errorf("seed application %q: %w", entry.Title, err)
		}
	}

	applog.Debug(ctx, "mock database seeded", "formulas", len(data.Formulas), "applications", len(data.Applications))
	return nil
}
