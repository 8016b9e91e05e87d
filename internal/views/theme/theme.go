package theme

import "strings"

// Option represents a selectable theme exposed to the UI.
type Option struct {
	Value string
	Label string
}

// Theme contains resolved styling primitives for the page shell.
type Theme struct {
	Key          string
	BodyClass    string
	SurfaceClass string
}

const (
	// DefaultKey defines the fallback theme when no preference exists.
	DefaultKey = "paper"
)

var catalogue = map[string]Theme{
	"paper": {
		Key:          "paper",
		BodyClass:    "min-h-screen bg-stone-50 text-stone-900",
		SurfaceClass: "surface light",
	},
	"chalkboard": {
		Key:          "chalkboard",
		BodyClass:    "min-h-screen bg-slate-900 text-slate-100",
		SurfaceClass: "surface dark",
	},
}

var options = []Option{
	{Value: "paper", Label: "Paper (Light)"},
	{Value: "chalkboard", Label: "Chalkboard (Dark)"},
}

// Valid reports whether key names a registered theme.
func Valid(key string) bool {
	_, ok := catalogue[strings.ToLower(strings.TrimSpace(key))]
	return ok
}

// Resolve returns the registered theme for key, falling back to the default.
func Resolve(key string) Theme {
	normalized := strings.ToLower(strings.TrimSpace(key))
	if value, ok := catalogue[normalized]; ok {
		return value
	}
	return catalogue[DefaultKey]
}

// Options exposes the available theme selections for rendering in a form control.
func Options() []Option {
	return options
}
