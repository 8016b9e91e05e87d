package catalog

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// ProblemPreviewLimit is the number of characters kept from a problem text.
	ProblemPreviewLimit = 200
	ellipsis            = "..."

	// UnknownDate is shown when an application carries no creation time.
	UnknownDate = "Unknown"
	// InvalidDate is shown when a creation time cannot be parsed.
	InvalidDate = "Invalid Date"

	// DefaultDateLayout mirrors the numeric month/day/year short date.
	DefaultDateLayout = "1/2/2006"
)

// TruncateProblemText shortens text to ProblemPreviewLimit characters and
// appends "..." when anything was cut. Word boundaries are ignored.
func TruncateProblemText(text string) string {
	if utf8.RuneCountInString(text) <= ProblemPreviewLimit {
		return text
	}
	runes := []rune(text)
	return string(runes[:ProblemPreviewLimit]) + ellipsis
}

// Color is a named display colour.
type Color struct {
	Name string
	Hex  string
}

var (
	ColorGreen = Color{Name: "green", Hex: "#28a745"}
	ColorAmber = Color{Name: "amber", Hex: "#ffc107"}
	ColorRed   = Color{Name: "red", Hex: "#dc3545"}
	ColorGray  = Color{Name: "gray", Hex: "#6c757d"}
)

// DifficultyColor maps a difficulty level to its badge colour. Matching is
// case-insensitive; unknown and absent levels fall back to gray.
func DifficultyColor(level Text) Color {
	value, ok := level.Get()
	if !ok {
		return ColorGray
	}
	switch strings.ToLower(value) {
	case "beginner":
		return ColorGreen
	case "intermediate":
		return ColorAmber
	case "advanced":
		return ColorRed
	default:
		return ColorGray
	}
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// DateFormatter renders creation timestamps as short dates in a fixed zone.
type DateFormatter struct {
	Location *time.Location
	Layout   string
}

// NewDateFormatter returns a formatter for the given zone and layout, falling
// back to UTC and DefaultDateLayout.
func NewDateFormatter(loc *time.Location, layout string) DateFormatter {
	if loc == nil {
		loc = time.UTC
	}
	if strings.TrimSpace(layout) == "" {
		layout = DefaultDateLayout
	}
	return DateFormatter{Location: loc, Layout: layout}
}

// Format renders value, returning UnknownDate when it is absent.
func (f DateFormatter) Format(value Text) string {
	raw, ok := value.Get()
	if !ok {
		return UnknownDate
	}
	instant, err := ParseTimestamp(raw, f.location())
	if err != nil {
		return InvalidDate
	}
	layout := f.Layout
	if layout == "" {
		layout = DefaultDateLayout
	}
	return instant.In(f.location()).Format(layout)
}

func (f DateFormatter) location() *time.Location {
	if f.Location == nil {
		return time.UTC
	}
	return f.Location
}

// ParseTimestamp reads an ISO-8601 timestamp. Date-only values are taken as
// UTC midnight, zone-less date-times as wall time in loc.
func ParseTimestamp(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	var lastErr error
	for _, layout := range timestampLayouts {
		var (
			parsed time.Time
			err    error
		)
		switch layout {
		case "2006-01-02", time.RFC3339Nano, "2006-01-02 15:04:05.999999999Z07:00":
			parsed, err = time.Parse(layout, raw)
		default:
			parsed, err = time.ParseInLocation(layout, raw, loc)
		}
		if err == nil {
			return parsed, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
