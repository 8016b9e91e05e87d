package pages

import (
	"github.com/a-h/templ"

	"formulary/internal/catalog"
	"formulary/internal/fetch"
	"formulary/internal/render"
	"formulary/internal/views/components"
)

// FormulaDetail renders one formula's full record.
func FormulaDetail(renderer render.Renderer, formula catalog.Formula) templ.Component {
	return components.Build(func(m *components.Writer) {
		m.Printf(`<article class="formula-detail" data-formula-id="%d" style="padding: 20px;">`, formula.ID)
		m.Printf(`<h2 class="formula-name" style="font-size: 32px; font-weight: bold;">%s</h2>`, formula.FormulaName)

		m.Raw(`<p class="formula-description" style="margin-bottom: 24px;"><strong>Full Description:</strong> `)
		if description, ok := formula.FormulaDescription.Get(); ok {
			m.Component(renderer.Prose(description))
		}
		m.Raw(`</p>`)

		m.Raw(`<p class="formula-notation" style="font-size: 24px; margin-bottom: 20px;">`)
		m.Component(renderer.Notation(formula.Latex))
		m.Raw(`</p>`)

		if words, ok := formula.EnglishVerbalization.Get(); ok {
			m.Printf(`<p class="verbalization" style="margin-top: 16px; margin-bottom: 24px; font-style: italic; font-size: 18px;"><strong>In words:</strong> %s</p>`, words)
		}

		m.Raw(`<a href="/" style="text-decoration: underline; color: blue;">← Back to Home</a>`)
		m.Raw(`</article>`)
	})
}

// FormulaDetailContent renders the formula detail fragment for a fetch state.
func FormulaDetailContent(renderer render.Renderer, state fetch.State[catalog.Formula]) templ.Component {
	return Lifecycle(state, "Loading formula...", "", func(formula catalog.Formula) templ.Component {
		return FormulaDetail(renderer, formula)
	})
}

// ApplicationDetail renders one application with its full problem text.
func ApplicationDetail(application catalog.Application, dates catalog.DateFormatter) templ.Component {
	return components.Build(func(m *components.Writer) {
		m.Printf(`<article class="application-detail" data-application-id="%d">`, application.ID)
		m.Printf(`<h2 class="application-title">%s</h2>`, application.Title)
		m.Printf(`<p class="problem-text" style="white-space: pre-wrap;">%s</p>`, application.ProblemText)
		m.Component(applicationMeta(application, dates))
		m.Printf(`<p><a class="link-formulas" href="%s">Link Formulas</a></p>`, LinkFormulasPath(application.ID))
		m.Raw(`<a href="/applications" style="text-decoration: underline; color: blue;">← Back to Applications</a>`)
		m.Raw(`</article>`)
	})
}

// ApplicationDetailContent renders the application detail fragment for a fetch state.
func ApplicationDetailContent(state fetch.State[catalog.Application], dates catalog.DateFormatter) templ.Component {
	return Lifecycle(state, "Loading application...", "", func(application catalog.Application) templ.Component {
		return ApplicationDetail(application, dates)
	})
}
