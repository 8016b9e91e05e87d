package components

import (
	"github.com/a-h/templ"

	"formulary/internal/catalog"
)

// NavLink is an entry in the page navigation bar.
type NavLink struct {
	Label   string
	Path    string
	Section string
}

// Loading renders the affordance shown while a fetch unit is in flight.
func Loading(label string) templ.Component {
	return Build(func(m *Writer) {
		m.Printf(`<p class="loading" data-state="loading" aria-busy="true">%s</p>`, label)
	})
}

// Deferred renders the loading affordance and asks HTMX to replace it with
// the content fragment at path as soon as it is on the page.
func Deferred(path, label string) templ.Component {
	return Build(func(m *Writer) {
		m.Printf(`<div class="deferred" hx-get="%s" hx-trigger="load" hx-swap="outerHTML">`, path)
		m.Component(Loading(label))
		m.Raw(`</div>`)
	})
}

// ErrorNotice renders a failure message verbatim, styled as an error. hint is
// appended after the message when not empty.
func ErrorNotice(message, hint string) templ.Component {
	return Build(func(m *Writer) {
		m.Raw(`<p class="error" role="alert" data-state="failed" style="color: red; font-weight: bold;">`)
		if hint != "" {
			m.Printf(`Error: %s. %s`, message, hint)
		} else {
			m.Text(message)
		}
		m.Raw(`</p>`)
	})
}

// Flash is a one-shot status message carried across a redirect.
type Flash struct {
	Message string
	IsError bool
}

// FlashNotice renders a one-shot status banner. Empty messages render nothing.
func FlashNotice(message string, isError bool) templ.Component {
	return Build(func(m *Writer) {
		if message == "" {
			return
		}
		kind := "notice"
		if isError {
			kind = "error"
		}
		m.Printf(`<div class="flash flash-%s" role="status">%s</div>`, kind, message)
	})
}

// Badge renders a small label. A zero colour uses the neutral badge style.
func Badge(label string, color catalog.Color) templ.Component {
	return Build(func(m *Writer) {
		if color.Hex == "" {
			m.Printf(`<span class="badge" style="background-color: #e9ecef; padding: 2px 8px; border-radius: 4px;">%s</span>`, label)
			return
		}
		m.Printf(`<span class="badge badge-%s" data-color="%s" style="background-color: %s; color: white; padding: 2px 8px; border-radius: 4px;">%s</span>`,
			color.Name, color.Name, color.Hex, label)
	})
}

// EmptyState renders a message with a call to action.
func EmptyState(message, actionLabel, actionPath string) templ.Component {
	return Build(func(m *Writer) {
		m.Raw(`<div class="empty-state" data-state="empty">`)
		m.Printf(`<p>%s</p>`, message)
		m.Printf(`<a href="%s" class="action" style="text-decoration: underline; color: green;">%s</a>`, actionPath, actionLabel)
		m.Raw(`</div>`)
	})
}

// Nav renders the top navigation, marking the active section.
func Nav(active string, links []NavLink) templ.Component {
	return Build(func(m *Writer) {
		m.Raw(`<nav class="site-nav">`)
		for _, link := range links {
			m.Printf(`<a href="%s" data-nav-section="%s" data-state="%s">%s</a>`,
				link.Path, link.Section, linkState(link.Section, active), link.Label)
		}
		m.Raw(`</nav>`)
	})
}

func linkState(section, active string) string {
	if section == active {
		return "active"
	}
	return "inactive"
}
