package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"formulary/internal/ai"
	"formulary/internal/config"
	applog "formulary/internal/log"
	"formulary/models"
)

type verbalizer interface {
	Verbalize(ctx context.Context, name, latex string) (string, error)
}

var newVerbalizerFunc = func(cfg config.AIConfig) (verbalizer, error) {
	return ai.NewClient(ai.Config{
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
	})
}

func verbalizeCmd(flags *globalFlags) *cobra.Command {
	var (
		concurrency int
		useMock     bool
	)

	cmd := &cobra.Command{
		Use:   "verbalize",
		Short: "Fill in missing plain-English readings using an OpenAI-compatible model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, database, err := setup(cmd.Context(), flags, dbTarget{command: "verbalize", durable: true, mock: useMock})
			if err != nil {
				return err
			}

			client, err := newVerbalizerFunc(cfg.AI)
			if err != nil {
				return fmt.Errorf("build model client: %w", err)
			}

			filled, err := verbalizeMissing(cmd.Context(), database, client, concurrency)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Verbalized %d formulas\n", filled)
			return nil
		},
	}

	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "Model requests in flight at once")
	cmd.Flags().BoolVar(&useMock, "mock", false, "Write to the seeded in-memory database; changes are lost on exit")
	return cmd
}

// verbalizeMissing asks v for a reading of every formula without one. Model
// calls run concurrently; rows are written one at a time afterwards. A failed
// call leaves its formula untouched and is reported once the rest are stored.
func verbalizeMissing(ctx context.Context, database *gorm.DB, v verbalizer, concurrency int) (int, error) {
	var formulas []models.Formula
	err := database.WithContext(ctx).
		Where("english_verbalization IS NULL OR english_verbalization = ''").
		Order("id asc").
		Find(&formulas).Error
	if err != nil {
		return 0, fmt.Errorf("list formulas: %w", err)
	}
	if len(formulas) == 0 {
		applog.Info(ctx, "every formula already has a reading")
		return 0, nil
	}

	if concurrency <= 0 {
		concurrency = 1
	}

	readings := make([]string, len(formulas))
	failures := make([]error, len(formulas))

	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, formula := range formulas {
		g.Go(func() error {
			reading, err := v.Verbalize(ctx, formula.FormulaName, formula.Latex)
			if err != nil {
				failures[i] = fmt.Errorf("verbalize %q: %w", formula.FormulaName, err)
				return nil
			}
			readings[i] = reading
			return nil
		})
	}
	_ = g.Wait()

	filled := 0
	var firstErr error
	for i, formula := range formulas {
		if failures[i] != nil {
			applog.Warn(ctx, "formula left without a reading", "formula", formula.FormulaName, "error", failures[i])
			if firstErr == nil {
				firstErr = failures[i]
			}
			continue
		}
		if err := database.WithContext(ctx).Model(&formula).Update("english_verbalization", readings[i]).Error; err != nil {
			return filled, fmt.Errorf("store reading for %q: %w", formula.FormulaName, err)
		}
		filled++
	}

	applog.Info(ctx, "verbalization finished", "filled", filled, "failed", len(formulas)-filled)
	return filled, firstErr
}
