package pages

import (
	"github.com/a-h/templ"

	"formulary/internal/catalog"
	"formulary/internal/fetch"
	"formulary/internal/views/components"
)

// CreateApplicationPath is where the empty state sends users to author a
// first application.
const CreateApplicationPath = "/applications/create"

// ApplicationBrowser renders application cards in service order.
type ApplicationBrowser struct {
	applications []catalog.Application
	dates        catalog.DateFormatter
}

// NewApplicationBrowser builds a browser over applications.
func NewApplicationBrowser(applications []catalog.Application, dates catalog.DateFormatter) *ApplicationBrowser {
	return &ApplicationBrowser{applications: applications, dates: dates}
}

// Component renders the cards, or the empty state when there are none.
func (b *ApplicationBrowser) Component() templ.Component {
	if len(b.applications) == 0 {
		return components.EmptyState("No applications found.", "Create the first application", CreateApplicationPath)
	}
	return components.Build(func(m *components.Writer) {
		m.Raw(`<div class="application-list">`)
		for _, application := range b.applications {
			m.Component(ApplicationCard(application, b.dates))
		}
		m.Raw(`</div>`)
	})
}

// ApplicationCard renders one application with its badges and the link action.
func ApplicationCard(application catalog.Application, dates catalog.DateFormatter) templ.Component {
	return components.Build(func(m *components.Writer) {
		m.Printf(`<article class="application-card" data-application-id="%d" style="margin-bottom: 25px; padding: 15px; border: 1px solid #ddd; border-radius: 8px;">`, application.ID)
		m.Raw(`<div class="card-body">`)
		m.Printf(`<a href="/applications/%d" style="text-decoration: none;"><h3 style="margin: 0 0 10px 0; color: blue;">%s</h3></a>`,
			application.ID, application.Title)
		m.Printf(`<p class="problem-text">%s</p>`, catalog.TruncateProblemText(application.ProblemText))
		m.Component(applicationMeta(application, dates))
		m.Raw(`</div>`)
		m.Printf(`<a class="link-formulas" href="%s" style="background-color: #007bff; color: white; padding: 8px 12px; text-decoration: none; border-radius: 4px;">Link Formulas</a>`,
			LinkFormulasPath(application.ID))
		m.Raw(`</article>`)
	})
}

func applicationMeta(application catalog.Application, dates catalog.DateFormatter) templ.Component {
	return components.Build(func(m *components.Writer) {
		m.Raw(`<div class="application-meta" style="display: flex; gap: 15px; font-size: 14px;">`)
		if subject, ok := application.SubjectArea.Get(); ok {
			m.Component(components.Badge("Subject: "+subject, catalog.Color{}))
		}
		if level, ok := application.DifficultyLevel.Get(); ok {
			m.Component(components.Badge(level, catalog.DifficultyColor(application.DifficultyLevel)))
		}
		m.Printf(`<span class="created-at">Created: %s</span>`, dates.Format(application.CreatedAt))
		m.Raw(`</div>`)
	})
}

// LinkFormulasPath is the frontend route of the linking form.
func LinkFormulasPath(applicationID int) string {
	return "/applications/" + itoa(applicationID) + "/link-formulas"
}

// ApplicationsContent renders the application list fragment for a fetch state.
func ApplicationsContent(state fetch.State[[]catalog.Application], dates catalog.DateFormatter, flash components.Flash) templ.Component {
	return components.Join(
		components.FlashNotice(flash.Message, flash.IsError),
		Lifecycle(state, "Loading applications...", connectionHint, func(applications []catalog.Application) templ.Component {
			return NewApplicationBrowser(applications, dates).Component()
		}),
	)
}

// CreateApplicationNotice is shown at the creation affordance. Authoring
// happens in the catalog service, not in this browser.
func CreateApplicationNotice() templ.Component {
	return components.Build(func(m *components.Writer) {
		m.Raw(`<p>Applications are authored in the catalog service. Once created there, they appear in the list.</p>`)
		m.Raw(`<a href="/applications" style="text-decoration: underline; color: blue;">← Back to Applications</a>`)
	})
}
