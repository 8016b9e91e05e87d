package pages

import (
	"github.com/a-h/templ"

	"formulary/internal/catalog"
	"formulary/internal/fetch"
	"formulary/internal/render"
	"formulary/internal/views/components"
)

// CatalogBrowser renders the formula list. It owns the hover preview state:
// at most one interactive formula is previewed at a time.
type CatalogBrowser struct {
	renderer render.Renderer
	formulas []catalog.Formula

	previewed  int
	hasPreview bool
}

// NewCatalogBrowser builds a browser over formulas in service order.
func NewCatalogBrowser(renderer render.Renderer, formulas []catalog.Formula) *CatalogBrowser {
	return &CatalogBrowser{renderer: renderer, formulas: formulas}
}

// PointerEnter previews the formula with id when it is interactive.
// Entering a non-interactive or unknown formula changes nothing.
func (b *CatalogBrowser) PointerEnter(id int) {
	for _, formula := range b.formulas {
		if formula.ID == id && formula.Interactive() {
			b.previewed = id
			b.hasPreview = true
			return
		}
	}
}

// PointerLeave hides the preview of the formula with id.
func (b *CatalogBrowser) PointerLeave(id int) {
	if b.hasPreview && b.previewed == id {
		b.previewed = 0
		b.hasPreview = false
	}
}

// Previewed returns the currently previewed formula id.
func (b *CatalogBrowser) Previewed() (int, bool) {
	return b.previewed, b.hasPreview
}

// Component renders the list. Every interactive formula carries its preview
// panel; all but the previewed one are hidden, and the inline script moves
// the single previewed id as the pointer moves.
func (b *CatalogBrowser) Component() templ.Component {
	return components.Build(func(m *components.Writer) {
		previewed := ""
		if b.hasPreview {
			previewed = itoa(b.previewed)
		}
		m.Printf(`<ul id="formula-catalog" class="formula-catalog" data-previewed="%s">`, previewed)
		for _, formula := range b.formulas {
			b.renderFormula(m, formula)
		}
		m.Raw(`</ul>`)
		m.Raw(previewScript)
	})
}

func (b *CatalogBrowser) renderFormula(m *components.Writer, formula catalog.Formula) {
	m.Printf(`<li data-formula-id="%d" data-interactive="%t" style="margin-bottom: 15px; position: relative;">`,
		formula.ID, formula.Interactive())

	description, described := formula.FormulaDescription.Get()
	if described {
		m.Printf(`<a href="/formula/%d" target="_blank" data-preview-trigger="%d" style="text-decoration: underline; color: blue; cursor: pointer;"><strong>%s</strong></a>`,
			formula.ID, formula.ID, formula.FormulaName)
		hidden := " hidden"
		if b.hasPreview && b.previewed == formula.ID {
			hidden = ""
		}
		m.Printf(`<div class="formula-preview" role="tooltip" data-preview-for="%d"`, formula.ID)
		m.Raw(hidden)
		m.Raw(` style="position: absolute; top: 30px; left: 0; width: 250px; z-index: 10; background: white; padding: 10px; border: 1px solid gray; border-radius: 5px;">`)
		m.Component(b.renderer.Prose(description))
		m.Raw(`</div>`)
	} else {
		m.Printf(`<strong>%s</strong>`, formula.FormulaName)
	}

	m.Raw(` `)
	m.Component(b.renderer.Notation(formula.Latex))
	m.Raw(`</li>`)
}

const previewScript = `<script>(function(){var list=document.getElementById('formula-catalog');if(!list){return;}` +
	`function show(id){list.dataset.previewed=id;list.querySelectorAll('[data-preview-for]').forEach(function(p){p.hidden=p.dataset.previewFor!==id;});}` +
	`list.addEventListener('mouseover',function(e){var t=e.target.closest('[data-preview-trigger]');if(t){show(t.dataset.previewTrigger);}});` +
	`list.addEventListener('mouseout',function(e){var t=e.target.closest('[data-preview-trigger]');if(t&&!t.contains(e.relatedTarget)){show('');}});})();</script>`

// CatalogContent renders the catalog fragment for a fetch state. preview is
// applied as a pointer-enter on the ready list.
func CatalogContent(renderer render.Renderer, state fetch.State[[]catalog.Formula], preview int) templ.Component {
	return Lifecycle(state, "Loading formulas...", connectionHint, func(formulas []catalog.Formula) templ.Component {
		if len(formulas) == 0 {
			return components.Build(func(m *components.Writer) {
				m.Raw(`<p class="empty-state" data-state="empty">No formulas found.</p>`)
			})
		}
		browser := NewCatalogBrowser(renderer, formulas)
		if preview > 0 {
			browser.PointerEnter(preview)
		}
		return browser.Component()
	})
}
