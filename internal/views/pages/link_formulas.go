package pages

import (
	"github.com/a-h/templ"

	"formulary/internal/catalog"
	"formulary/internal/fetch"
	"formulary/internal/render"
	"formulary/internal/views/components"
)

// LinkFormulasForm is the minimal editor for the link-formulas write: every
// formula as a checkbox, submitted back to the same path.
func LinkFormulasForm(renderer render.Renderer, application catalog.Application, formulas []catalog.Formula) templ.Component {
	return components.Build(func(m *components.Writer) {
		m.Printf(`<form class="link-formulas-form" method="post" action="%s">`, LinkFormulasPath(application.ID))
		m.Printf(`<h2>Link formulas to %s</h2>`, application.Title)
		if len(formulas) == 0 {
			m.Raw(`<p class="empty-state" data-state="empty">No formulas found.</p>`)
		}
		m.Raw(`<ul class="formula-options">`)
		for _, formula := range formulas {
			m.Printf(`<li><label><input type="checkbox" name="formula_id" value="%d"> <strong>%s</strong></label> `,
				formula.ID, formula.FormulaName)
			m.Component(renderer.Notation(formula.Latex))
			m.Raw(`</li>`)
		}
		m.Raw(`</ul>`)
		m.Raw(`<button type="submit">Link Formulas</button> `)
		m.Raw(`<a href="/applications">Cancel</a>`)
		m.Raw(`</form>`)
	})
}

// LinkFormulasContent renders the form once both the application and the
// formula list are ready. The first failure is shown in place of the form.
func LinkFormulasContent(
	renderer render.Renderer,
	application fetch.State[catalog.Application],
	formulas fetch.State[[]catalog.Formula],
	flash components.Flash,
) templ.Component {
	return components.Join(
		components.FlashNotice(flash.Message, flash.IsError),
		Lifecycle(application, "Loading application...", "", func(app catalog.Application) templ.Component {
			return Lifecycle(formulas, "Loading formulas...", connectionHint, func(list []catalog.Formula) templ.Component {
				return LinkFormulasForm(renderer, app, list)
			})
		}),
	)
}
