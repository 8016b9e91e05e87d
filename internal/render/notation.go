// Package render turns notation source into markup typeset in the browser by
// MathJax.
package render

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/a-h/templ"
)

const (
	// DefaultScriptURL is the MathJax bundle loaded by pages.
	DefaultScriptURL = "https://cdn.jsdelivr.net/npm/mathjax@3/es5/tex-chtml.js"

	openDelimiter  = `\(`
	closeDelimiter = `\)`

	// ProcessClass marks elements MathJax should typeset; everything else is ignored.
	ProcessClass = "mathjax-process"
	// IgnoreClass is applied to the page body.
	IgnoreClass = "mathjax-ignore"
)

// Renderer produces typeset notation and prose components.
type Renderer interface {
	// Head returns the engine bootstrap, rendered once per page.
	Head() templ.Component
	// Notation renders notation source wrapped in math delimiters.
	Notation(source string) templ.Component
	// Prose renders free text that may embed delimited math.
	Prose(text string) templ.Component
}

// Delimit wraps source verbatim in the math delimiters.
func Delimit(source string) string {
	return openDelimiter + source + closeDelimiter
}

// MathJax renders for the MathJax v3 browser engine.
type MathJax struct {
	scriptURL string

	once sync.Once
	head string
}

// NewMathJax returns a renderer loading the engine from scriptURL.
func NewMathJax(scriptURL string) *MathJax {
	if strings.TrimSpace(scriptURL) == "" {
		scriptURL = DefaultScriptURL
	}
	return &MathJax{scriptURL: scriptURL}
}

// Head implements Renderer.
func (m *MathJax) Head() templ.Component {
	m.once.Do(m.init)
	return raw(m.head)
}

func (m *MathJax) init() {
	var b strings.Builder
	b.WriteString(`<script>window.MathJax={tex:{inlineMath:[['\\(','\\)']],displayMath:[['\\[','\\]']]},`)
	b.WriteString(`options:{ignoreHtmlClass:'` + IgnoreClass + `',processHtmlClass:'` + ProcessClass + `'},`)
	b.WriteString(`startup:{typeset:true}};`)
	b.WriteString(`document.addEventListener('htmx:afterSettle',function(e){if(window.MathJax&&MathJax.typesetPromise){MathJax.typesetPromise([e.target]);}});`)
	b.WriteString(`</script>`)
	b.WriteString(`<script id="MathJax-script" async src="` + templ.EscapeString(m.scriptURL) + `"></script>`)
	m.head = b.String()
}

// Notation implements Renderer.
func (m *MathJax) Notation(source string) templ.Component {
	return raw(`<span class="notation ` + ProcessClass + `" data-notation>` +
		templ.EscapeString(Delimit(source)) + `</span>`)
}

// Prose implements Renderer.
func (m *MathJax) Prose(text string) templ.Component {
	return raw(`<span class="prose ` + ProcessClass + `">` + templ.EscapeString(text) + `</span>`)
}

func raw(markup string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, markup)
		return err
	})
}
