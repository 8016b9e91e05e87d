package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"formulary/internal/config"
	"formulary/internal/db/mock"
	"formulary/models"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "formulas.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func seededDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := mock.New(context.Background())
	require.NoError(t, err)
	return database
}

func TestReadCSVNormalisesHeader(t *testing.T) {
	path := writeCSV(t, "\ufeffFormula_Name, LaTeX ,formula_description\nSlope,m = \\frac{y_2 - y_1}{x_2 - x_1}, Rise over run \n")

	records, err := readCSV(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Slope", records[0][columnName])
	assert.Equal(t, `m = \frac{y_2 - y_1}{x_2 - x_1}`, records[0][columnLatex])
	assert.Equal(t, "Rise over run", records[0][columnDescription])
	_, hasVerbalization := records[0][columnVerbalization]
	assert.False(t, hasVerbalization)
}

func TestReadCSVRejectsMissingColumns(t *testing.T) {
	path := writeCSV(t, "formula_name,formula_description\nSlope,Rise over run\n")

	_, err := readCSV(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "latex")
}

func TestReadCSVRejectsEmptyFile(t *testing.T) {
	_, err := readCSV(writeCSV(t, ""))
	require.Error(t, err)
}

func TestBuildFormula(t *testing.T) {
	formula, err := buildFormula(map[string]string{
		columnName:          "  Mean   Value ",
		columnLatex:         `\bar{x} = \frac{1}{n}\sum x_i`,
		columnDescription:   "N/A",
		columnVerbalization: "x bar equals one over n times the sum of x i",
	})
	require.NoError(t, err)
	assert.Equal(t, "Mean Value", formula.FormulaName)
	assert.Nil(t, formula.FormulaDescription)
	require.NotNil(t, formula.EnglishVerbalization)
	assert.Equal(t, "x bar equals one over n times the sum of x i", *formula.EnglishVerbalization)

	_, err = buildFormula(map[string]string{columnName: "Blank", columnLatex: " "})
	assert.Error(t, err)

	_, err = buildFormula(map[string]string{columnName: "n/a", columnLatex: "x"})
	assert.Error(t, err)
}

func TestImportFormulasCreatesAndUpdates(t *testing.T) {
	database := seededDB(t)
	ctx := context.Background()

	created, updated, err := importFormulas(ctx, database, []map[string]string{
		{columnName: "Slope", columnLatex: `m = \frac{\Delta y}{\Delta x}`, columnDescription: "Rise over run"},
		{columnName: "Pythagorean Theorem", columnLatex: `c^2 = a^2 + b^2`},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, created)
	assert.Equal(t, 1, updated)

	var slope models.Formula
	require.NoError(t, database.Where("formula_name = ?", "Slope").First(&slope).Error)
	require.NotNil(t, slope.FormulaDescription)
	assert.Equal(t, "Rise over run", *slope.FormulaDescription)
	assert.Nil(t, slope.EnglishVerbalization)

	var pythagoras models.Formula
	require.NoError(t, database.Where("formula_name = ?", "Pythagorean Theorem").First(&pythagoras).Error)
	assert.Equal(t, `c^2 = a^2 + b^2`, pythagoras.Latex)
	require.NotNil(t, pythagoras.FormulaDescription, "absent column must keep the stored description")
	assert.Equal(t, "Relates the three sides of a right triangle.", *pythagoras.FormulaDescription)
	require.NotNil(t, pythagoras.EnglishVerbalization)
}

func TestImportFormulasClearsPresentBlankColumns(t *testing.T) {
	database := seededDB(t)

	_, updated, err := importFormulas(context.Background(), database, []map[string]string{
		{columnName: "Area of a Circle", columnLatex: `A = \pi r^2`, columnDescription: ""},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, updated)

	var area models.Formula
	require.NoError(t, database.Where("formula_name = ?", "Area of a Circle").First(&area).Error)
	assert.Nil(t, area.FormulaDescription)
}

func TestImportFormulasReportsRecordNumber(t *testing.T) {
	database := seededDB(t)

	_, _, err := importFormulas(context.Background(), database, []map[string]string{
		{columnName: "Slope", columnLatex: "m"},
		{columnName: "Broken"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record 2")
}

type stubVerbalizer struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]bool
}

func (s *stubVerbalizer) Verbalize(_ context.Context, name, latex string) (string, error) {
	s.mu.Lock()
	s.calls = append(s.calls, name)
	s.mu.Unlock()
	if s.fail[name] {
		return "", errors.New("model unavailable")
	}
	return "reading of " + latex, nil
}

func TestVerbalizeMissingFillsOnlyBlankReadings(t *testing.T) {
	database := seededDB(t)
	stub := &stubVerbalizer{}

	filled, err := verbalizeMissing(context.Background(), database, stub, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, filled)
	assert.ElementsMatch(t, []string{"Area of a Circle", "Euler's Identity"}, stub.calls)

	var euler models.Formula
	require.NoError(t, database.Where("formula_name = ?", "Euler's Identity").First(&euler).Error)
	require.NotNil(t, euler.EnglishVerbalization)
	assert.Equal(t, `reading of e^{i\pi} + 1 = 0`, *euler.EnglishVerbalization)

	filled, err = verbalizeMissing(context.Background(), database, stub, 2)
	require.NoError(t, err)
	assert.Zero(t, filled)
	assert.Len(t, stub.calls, 2)
}

func TestVerbalizeMissingKeepsGoingAfterFailure(t *testing.T) {
	database := seededDB(t)
	stub := &stubVerbalizer{fail: map[string]bool{"Area of a Circle": true}}

	filled, err := verbalizeMissing(context.Background(), database, stub, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Area of a Circle")
	assert.Equal(t, 1, filled)

	var area models.Formula
	require.NoError(t, database.Where("formula_name = ?", "Area of a Circle").First(&area).Error)
	assert.Nil(t, area.EnglishVerbalization)
}

func restoreCatalogSeams(t *testing.T) {
	t.Helper()
	originalLoad := loadConfigFunc
	originalOpen := openDatabaseFunc
	originalVerbalizer := newVerbalizerFunc
	t.Cleanup(func() {
		loadConfigFunc = originalLoad
		openDatabaseFunc = originalOpen
		newVerbalizerFunc = originalVerbalizer
	})
}

func persistentConfig() config.Config {
	return config.Config{
		Logging:  config.LoggingConfig{Level: "error"},
		Database: config.DatabaseConfig{URL: "postgres://catalog.test/formulary"},
	}
}

func TestImportCommandUsesConfiguredDatabase(t *testing.T) {
	restoreCatalogSeams(t)
	database := seededDB(t)

	loadConfigFunc = func(string) (config.Config, error) { return persistentConfig(), nil }
	openDatabaseFunc = func(context.Context, config.DatabaseConfig) (*gorm.DB, error) {
		return database, nil
	}

	path := writeCSV(t, "formula_name,latex\nSlope,m\nEuler's Identity,e^{i\\pi} = -1\n")

	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"import", path})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "Imported 2 formulas (1 new, 1 updated) from formulas.csv\n", out.String())
}

func TestVerbalizeCommandReportsClientError(t *testing.T) {
	restoreCatalogSeams(t)

	loadConfigFunc = func(string) (config.Config, error) { return persistentConfig(), nil }
	openDatabaseFunc = func(context.Context, config.DatabaseConfig) (*gorm.DB, error) {
		return seededDB(t), nil
	}
	newVerbalizerFunc = func(config.AIConfig) (verbalizer, error) {
		return nil, errors.New("api key is required")
	}

	cmd := rootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"verbalize"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "build model client"))
}

func TestSetupReportsConfigError(t *testing.T) {
	restoreCatalogSeams(t)
	loadConfigFunc = func(string) (config.Config, error) {
		return config.Config{}, errors.New("bad file")
	}

	_, _, err := setup(context.Background(), &globalFlags{}, dbTarget{command: "serve"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config")
}

func TestWritingCommandsRefuseEphemeralDatabase(t *testing.T) {
	cases := []struct {
		name    string
		args    []string
		cfg     config.DatabaseConfig
		wantErr string
	}{
		{name: "import without url", args: []string{"import", "formulas.csv"}, wantErr: "DATABASE_URL is required for import"},
		{name: "verbalize without url", args: []string{"verbalize"}, wantErr: "DATABASE_URL is required for verbalize"},
		{
			name:    "import with mock configured",
			args:    []string{"import", "formulas.csv"},
			cfg:     config.DatabaseConfig{URL: "postgres://catalog.test/formulary", UseMock: true},
			wantErr: "DATABASE_USE_MOCK is set",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			restoreCatalogSeams(t)
			loadConfigFunc = func(string) (config.Config, error) {
				return config.Config{Logging: config.LoggingConfig{Level: "error"}, Database: tc.cfg}, nil
			}
			opened := false
			openDatabaseFunc = func(context.Context, config.DatabaseConfig) (*gorm.DB, error) {
				opened = true
				return seededDB(t), nil
			}

			args := tc.args
			if args[0] == "import" {
				args = []string{"import", writeCSV(t, "formula_name,latex\nSlope,m\n")}
			}
			cmd := rootCmd()
			var out bytes.Buffer
			cmd.SetOut(&out)
			cmd.SetErr(&bytes.Buffer{})
			cmd.SetArgs(args)

			err := cmd.Execute()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
			assert.False(t, opened, "no database should be opened")
			assert.Empty(t, out.String())
		})
	}
}

func TestImportCommandWritesToMockWhenAsked(t *testing.T) {
	restoreCatalogSeams(t)
	loadConfigFunc = func(string) (config.Config, error) {
		return config.Config{Logging: config.LoggingConfig{Level: "error"}}, nil
	}
	var gotCfg config.DatabaseConfig
	openDatabaseFunc = func(_ context.Context, cfg config.DatabaseConfig) (*gorm.DB, error) {
		gotCfg = cfg
		return seededDB(t), nil
	}

	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"import", "--mock", writeCSV(t, "formula_name,latex\nSlope,m\n")})

	require.NoError(t, cmd.Execute())
	assert.True(t, bool(gotCfg.UseMock))
	assert.Contains(t, out.String(), "Imported 1 formulas (1 new, 0 updated)")
}

func TestServeKeepsMockFallback(t *testing.T) {
	restoreCatalogSeams(t)
	loadConfigFunc = func(string) (config.Config, error) {
		return config.Config{Logging: config.LoggingConfig{Level: "error"}}, nil
	}
	openDatabaseFunc = func(context.Context, config.DatabaseConfig) (*gorm.DB, error) {
		return seededDB(t), nil
	}

	_, database, err := setup(context.Background(), &globalFlags{}, dbTarget{command: "serve"})
	require.NoError(t, err)
	assert.NotNil(t, database)
}

func TestServeReturnsListenError(t *testing.T) {
	err := serve(context.Background(), "not-an-address", nil)
	assert.Error(t, err)
}

func TestServeStopsWhenContextEnds(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, serve(ctx, "127.0.0.1:0", nil))
}
