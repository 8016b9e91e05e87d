package layout

import (
	"github.com/a-h/templ"

	"formulary/internal/render"
	"formulary/internal/views/components"
	"formulary/internal/views/theme"
)

const htmxScriptURL = "https://unpkg.com/htmx.org@2.0.4"

// Page describes one full HTML document.
type Page struct {
	Title    string
	Section  string
	Theme    theme.Theme
	Renderer render.Renderer
	Body     templ.Component
}

var navigation = []components.NavLink{
	{Label: "Formulas", Path: "/", Section: "formulas"},
	{Label: "Problem Applications", Path: "/applications", Section: "applications"},
}

// Shell wraps a page body in the document chrome.
func Shell(p Page) templ.Component {
	return components.Build(func(m *components.Writer) {
		m.Raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		m.Raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		m.Printf(`<title>%s · Formulary</title>`, p.Title)
		m.Printf(`<script src="%s"></script>`, htmxScriptURL)
		if p.Renderer != nil {
			m.Component(p.Renderer.Head())
		}
		m.Raw(`</head>`)
		m.Printf(`<body class="%s %s" data-theme="%s">`, p.Theme.BodyClass, render.IgnoreClass, p.Theme.Key)
		m.Printf(`<div class="%s" style="margin: 20px;">`, p.Theme.SurfaceClass)
		m.Component(components.Nav(p.Section, navigation))
		m.Component(themePicker(p.Theme.Key))
		m.Printf(`<h1 style="margin-bottom: 20px; font-size: 32px; font-weight: bold;">%s</h1>`, p.Title)
		m.Raw(`<main id="content">`)
		m.Component(p.Body)
		m.Raw(`</main></div></body></html>`)
	})
}

func themePicker(active string) templ.Component {
	return components.Build(func(m *components.Writer) {
		m.Raw(`<form class="theme-picker" method="post" action="/preferences">`)
		m.Raw(`<label for="theme">Theme</label> <select id="theme" name="theme" onchange="this.form.submit()">`)
		for _, option := range theme.Options() {
			selected := ""
			if option.Value == active {
				selected = " selected"
			}
			m.Printf(`<option value="%s"`, option.Value)
			m.Raw(selected)
			m.Printf(`>%s</option>`, option.Label)
		}
		m.Raw(`</select></form>`)
	})
}
