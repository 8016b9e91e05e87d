package handlers

import (
	"context"
	"net/http"

	"github.com/a-h/templ"
	"github.com/alexedwards/scs/v2"

	"formulary/internal/catalog"
	"formulary/internal/fetch"
	applog "formulary/internal/log"
	"formulary/internal/render"
	"formulary/internal/views/components"
	"formulary/internal/views/layout"
	"formulary/internal/views/theme"
)

const (
	sessionThemeKey       = "preferences:theme"
	sessionFlashNoticeKey = "flash:notice"
	sessionFlashErrorKey  = "flash:error"
)

var (
	sessionManager *scs.SessionManager
	client         *fetch.Client
	renderer       render.Renderer       = render.NewMathJax("")
	dates          catalog.DateFormatter = catalog.NewDateFormatter(nil, "")
)

// Configure installs the shared dependencies used by the HTTP handlers. A nil
// renderer keeps the default MathJax renderer.
func Configure(sm *scs.SessionManager, c *fetch.Client, r render.Renderer, d catalog.DateFormatter) {
	sessionManager = sm
	client = c
	if r != nil {
		renderer = r
	}
	dates = d
}

// view describes the document chrome of one frontend route.
type view struct {
	title   string
	section string
	loading string
}

// respond renders the content fragment for HTMX requests. Full-page requests
// get the layout with a loading affordance that pulls the same URL as a
// fragment, so no catalog call is made for the shell itself.
func respond(w http.ResponseWriter, r *http.Request, v view, fragment func(ctx context.Context) templ.Component) {
	if isHTMX(r) {
		renderComponent(w, r, fragment(r.Context()))
		return
	}

	applog.Debug(r.Context(), "rendering page shell", "path", r.URL.Path)
	renderComponent(w, r, layout.Shell(layout.Page{
		Title:    v.title,
		Section:  v.section,
		Theme:    currentTheme(r),
		Renderer: renderer,
		Body:     components.Deferred(r.URL.RequestURI(), v.loading),
	}))
}

// activate runs unit for this request and logs each of its transitions.
func activate[T any](ctx context.Context, unit *fetch.Unit[T]) fetch.State[T] {
	unit.Subscribe(func(state fetch.State[T]) {
		applog.Debug(ctx, "catalog fetch transition",
			"endpoint", unit.Endpoint(), "phase", state.Phase.String(), "generation", state.Generation)
	})
	return unit.Activate(ctx)
}

func renderComponent(w http.ResponseWriter, r *http.Request, component templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := component.Render(r.Context(), w); err != nil {
		applog.Error(r.Context(), "failed to render component", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func currentTheme(r *http.Request) theme.Theme {
	if sessionManager == nil {
		return theme.Resolve("")
	}
	return theme.Resolve(sessionManager.GetString(r.Context(), sessionThemeKey))
}

func setSessionTheme(r *http.Request, key string) {
	if sessionManager == nil {
		return
	}
	sessionManager.Put(r.Context(), sessionThemeKey, key)
}

func putFlash(r *http.Request, message string, isError bool) {
	if sessionManager == nil {
		return
	}
	key := sessionFlashNoticeKey
	if isError {
		key = sessionFlashErrorKey
	}
	sessionManager.Put(r.Context(), key, message)
}

// popFlash returns the pending flash message, removing it from the session.
func popFlash(r *http.Request) components.Flash {
	if sessionManager == nil {
		return components.Flash{}
	}
	if message := sessionManager.PopString(r.Context(), sessionFlashErrorKey); message != "" {
		return components.Flash{Message: message, IsError: true}
	}
	return components.Flash{Message: sessionManager.PopString(r.Context(), sessionFlashNoticeKey)}
}

func redirect(w http.ResponseWriter, r *http.Request, target string) {
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
