package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/a-h/templ"

	"formulary/internal/fetch"
	"formulary/internal/views/pages"
)

// Catalog renders the formula catalog. ?preview={id} opens the hover preview
// of that formula.
func Catalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	preview := pages.ParseID(r.URL.Query().Get("preview"))
	respond(w, r, view{title: "Formula Viewer", section: "formulas", loading: "Loading formulas..."},
		func(ctx context.Context) templ.Component {
			state := activate(ctx, fetch.FormulaList(client))
			return pages.CatalogContent(renderer, state, preview)
		})
}

// FormulaDetail renders one formula addressed by the {id} path segment.
func FormulaDetail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	id := pathID(r)
	respond(w, r, view{title: "Formula", section: "formulas", loading: "Loading formula..."},
		func(ctx context.Context) templ.Component {
			state := activate(ctx, fetch.FormulaByID(client, fetch.StaticID(id)))
			return pages.FormulaDetailContent(renderer, state)
		})
}

// pathID returns the {id} path value when it is a positive integer and ""
// otherwise, so malformed ids fail as missing without a catalog call.
func pathID(r *http.Request) string {
	id := pages.ParseID(r.PathValue("id"))
	if id == 0 {
		return ""
	}
	return strconv.Itoa(id)
}
