package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const verbalizeSystem = "You read mathematical notation aloud for students. Reply with one plain English sentence fragment and nothing else."

// Verbalize asks the model for a plain-English reading of a formula, such as
// "a squared plus b squared equals c squared".
func (c *Client) Verbalize(ctx context.Context, name, latex string) (string, error) {
	latex = strings.TrimSpace(latex)
	if latex == "" {
		return "", errors.New("ai: formula notation must not be empty")
	}

	content, err := c.complete(ctx, verbalizeSystem, buildVerbalizePrompt(name, latex))
	if err != nil {
		return "", err
	}

	reading := cleanReading(content)
	if reading == "" {
		return "", fmt.Errorf("ai: empty reading for %q", name)
	}
	return reading, nil
}

func buildVerbalizePrompt(name, latex string) string {
	return fmt.Sprintf(`Formula name: %s
LaTeX: %s

Write how an instructor would read this formula aloud. Use words for every symbol and operator.
Strict rules: no LaTeX, no Markdown, no quotes, no trailing period.`, strings.TrimSpace(name), latex)
}

func cleanReading(content string) string {
	reading := strings.TrimSpace(content)
	reading = strings.Trim(reading, `"'`)
	if idx := strings.IndexByte(reading, '\n'); idx >= 0 {
		reading = reading[:idx]
	}
	reading = strings.TrimSuffix(strings.TrimSpace(reading), ".")
	return strings.Join(strings.Fields(reading), " ")
}
