package fetch

import (
	"net/url"
	"strings"

	"formulary/internal/catalog"
)

// Endpoint labels.
const (
	EndpointFormulas     = "formulas"
	EndpointFormula      = "formula"
	EndpointApplications = "applications"
	EndpointApplication  = "application"
)

// FormulaList reads the ordered formula catalog.
func FormulaList(client *Client) *Unit[[]catalog.Formula] {
	return NewUnit[[]catalog.Formula](client, EndpointFormulas, Path("/api/formulas"), ListStatus)
}

// ApplicationList reads the ordered application catalog.
func ApplicationList(client *Client) *Unit[[]catalog.Application] {
	return NewUnit[[]catalog.Application](client, EndpointApplications, Path("/api/applications"), ListStatus)
}

// FormulaByID reads one formula. id is resolved on every activation so that
// a changed identifier is picked up by re-activating the same unit.
func FormulaByID(client *Client, id func() string) *Unit[catalog.Formula] {
	return NewUnit[catalog.Formula](client, EndpointFormula,
		entityPath("/api/formulas/", id, "Formula ID is missing."),
		NotFoundStatus("Formula"))
}

// ApplicationByID reads one application.
func ApplicationByID(client *Client, id func() string) *Unit[catalog.Application] {
	return NewUnit[catalog.Application](client, EndpointApplication,
		entityPath("/api/applications/", id, "Application ID is missing."),
		NotFoundStatus("Application"))
}

// StaticID adapts a fixed identifier for FormulaByID and ApplicationByID.
func StaticID(id string) func() string {
	return func() string { return id }
}

func entityPath(prefix string, id func() string, missing string) PathFunc {
	return func() (string, error) {
		value := ""
		if id != nil {
			value = strings.TrimSpace(id())
		}
		if value == "" {
			return "", MissingInput(missing)
		}
		return prefix + url.PathEscape(value), nil
	}
}
