package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"formulary/models"
)

var cleanWhitespace = regexp.MustCompile(`\s+`)

const (
	columnName          = "formula_name"
	columnLatex         = "latex"
	columnDescription   = "formula_description"
	columnVerbalization = "english_verbalization"
)

func importCmd(flags *globalFlags) *cobra.Command {
	var useMock bool

	cmd := &cobra.Command{
		Use:   "import <csv>",
		Short: "Import formulas from a CSV file, updating rows with the same name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			csvPath := args[0]
			if _, err := os.Stat(csvPath); err != nil {
				return fmt.Errorf("locate csv: %w", err)
			}

			_, database, err := setup(cmd.Context(), flags, dbTarget{command: "import", durable: true, mock: useMock})
			if err != nil {
				return err
			}

			records, err := readCSV(csvPath)
			if err != nil {
				return fmt.Errorf("read csv: %w", err)
			}

			created, updated, err := importFormulas(cmd.Context(), database, records)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d formulas (%d new, %d updated) from %s\n",
				created+updated, created, updated, filepath.Base(csvPath))
			return nil
		},
	}

	cmd.Flags().BoolVar(&useMock, "mock", false, "Write to the seeded in-memory database; changes are lost on exit")
	return cmd
}

func readCSV(path string) ([]map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, errors.New("csv is empty")
	}

	header := rows[0]
	for idx, key := range header {
		header[idx] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(key, "\ufeff")))
	}
	if !contains(header, columnName) || !contains(header, columnLatex) {
		return nil, fmt.Errorf("csv header must include %s and %s", columnName, columnLatex)
	}

	records := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}

		record := make(map[string]string, len(header))
		for idx, key := range header {
			if idx >= len(row) {
				continue
			}
			record[key] = strings.TrimSpace(row[idx])
		}
		records = append(records, record)
	}

	return records, nil
}

func contains(values []string, want string) bool {
	for _, value := range values {
		if value == want {
			return true
		}
	}
	return false
}

// buildFormula maps one CSV record to a formula. Blank and N/A optional
// cells become null.
func buildFormula(row map[string]string) (models.Formula, error) {
	formula := models.Formula{
		FormulaName:          normalizeText(row[columnName]),
		Latex:                strings.TrimSpace(row[columnLatex]),
		FormulaDescription:   models.Optional(normalizeText(row[columnDescription])),
		EnglishVerbalization: models.Optional(normalizeText(row[columnVerbalization])),
	}
	if formula.FormulaName == "" {
		return models.Formula{}, errors.New("formula name is empty")
	}
	if formula.Latex == "" {
		return models.Formula{}, fmt.Errorf("formula %q has no latex", formula.FormulaName)
	}
	return formula, nil
}

func normalizeValue(value string) string {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "N/A") {
		return ""
	}
	return value
}

func normalizeText(value string) string {
	value = normalizeValue(value)
	if value == "" {
		return value
	}
	value = cleanWhitespace.ReplaceAllString(value, " ")
	return strings.TrimSpace(value)
}

// importFormulas upserts every record by formula name, one transaction per
// record. Optional columns missing from the file keep their stored values.
func importFormulas(ctx context.Context, database *gorm.DB, records []map[string]string) (created, updated int, err error) {
	for idx, record := range records {
		formula, err := buildFormula(record)
		if err != nil {
			return created, updated, fmt.Errorf("record %d: %w", idx+1, err)
		}

		isNew := false
		if err := database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var existing models.Formula
			err := tx.Where("formula_name = ?", formula.FormulaName).First(&existing).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				isNew = true
				if err := tx.Create(&formula).Error; err != nil {
					return fmt.Errorf("create formula %q: %w", formula.FormulaName, err)
				}
				return nil
			case err != nil:
				return fmt.Errorf("find formula %q: %w", formula.FormulaName, err)
			}

			updates := map[string]any{"latex": formula.Latex}
			if _, ok := record[columnDescription]; ok {
				updates[columnDescription] = formula.FormulaDescription
			}
			if _, ok := record[columnVerbalization]; ok {
				updates[columnVerbalization] = formula.EnglishVerbalization
			}
			if err := tx.Model(&existing).Updates(updates).Error; err != nil {
				return fmt.Errorf("update formula %q: %w", formula.FormulaName, err)
			}
			return nil
		}); err != nil {
			return created, updated, fmt.Errorf("record %d (%s): %w", idx+1, formula.FormulaName, err)
		}

		if isNew {
			created++
		} else {
			updated++
		}
	}
	return created, updated, nil
}
