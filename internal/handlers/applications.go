package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/a-h/templ"
	"golang.org/x/sync/errgroup"

	"formulary/internal/catalog"
	"formulary/internal/fetch"
	applog "formulary/internal/log"
	"formulary/internal/views/pages"
)

// Applications renders the problem application list with any pending flash.
func Applications(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	respond(w, r, view{title: "Problem Applications", section: "applications", loading: "Loading applications..."},
		func(ctx context.Context) templ.Component {
			flash := popFlash(r)
			state := activate(ctx, fetch.ApplicationList(client))
			return pages.ApplicationsContent(state, dates, flash)
		})
}

// ApplicationDetail renders one application addressed by the {id} path segment.
func ApplicationDetail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	id := pathID(r)
	respond(w, r, view{title: "Application", section: "applications", loading: "Loading application..."},
		func(ctx context.Context) templ.Component {
			state := activate(ctx, fetch.ApplicationByID(client, fetch.StaticID(id)))
			return pages.ApplicationDetailContent(state, dates)
		})
}

// CreateApplication explains where applications are authored.
func CreateApplication(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	respond(w, r, view{title: "Create Application", section: "applications", loading: "Loading..."},
		func(context.Context) templ.Component {
			return pages.CreateApplicationNotice()
		})
}

// LinkFormulas shows the linking form on GET and submits the selection on POST.
func LinkFormulas(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		respond(w, r, view{title: "Link Formulas", section: "applications", loading: "Loading formulas..."},
			func(ctx context.Context) templ.Component {
				return linkFormulasForm(ctx, r, pathID(r))
			})
	case http.MethodPost:
		submitLinkFormulas(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// linkFormulasForm activates the application and the formula list
// concurrently. Each unit keeps its own failure.
func linkFormulasForm(ctx context.Context, r *http.Request, id string) templ.Component {
	var (
		application fetch.State[catalog.Application]
		formulas    fetch.State[[]catalog.Formula]
	)

	var g errgroup.Group
	g.Go(func() error {
		application = activate(ctx, fetch.ApplicationByID(client, fetch.StaticID(id)))
		return nil
	})
	g.Go(func() error {
		formulas = activate(ctx, fetch.FormulaList(client))
		return nil
	})
	_ = g.Wait()

	return pages.LinkFormulasContent(renderer, application, formulas, popFlash(r))
}

func submitLinkFormulas(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		applog.Error(r.Context(), "failed to parse link formulas form", "error", err)
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}

	applicationID := pages.ParseID(r.PathValue("id"))
	formulaIDs := fetch.UniqueIDs(pages.ParseIDs(r.PostForm["formula_id"]))

	if err := client.LinkFormulas(r.Context(), applicationID, formulaIDs); err != nil {
		applog.Warn(r.Context(), "linking formulas failed",
			"applicationID", applicationID, "kind", fetch.Kind(err), "error", err)
		putFlash(r, err.Error(), true)
		if applicationID > 0 {
			redirect(w, r, pages.LinkFormulasPath(applicationID))
			return
		}
		redirect(w, r, "/applications")
		return
	}

	applog.Info(r.Context(), "formulas linked", "applicationID", applicationID, "formulas", len(formulaIDs))
	putFlash(r, linkedMessage(len(formulaIDs)), false)
	redirect(w, r, "/applications")
}

func linkedMessage(count int) string {
	if count == 1 {
		return "Linked 1 formula to the application."
	}
	return fmt.Sprintf("Linked %d formulas to the application.", count)
}
