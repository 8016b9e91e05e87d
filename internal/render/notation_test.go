package render

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func TestDelimitWrapsVerbatim(t *testing.T) {
	assert.Equal(t, `\(a^2+b^2=c^2\)`, Delimit("a^2+b^2=c^2"))
	assert.Equal(t, `\(\)`, Delimit(""))
	assert.Equal(t, `\(not \valid{ latex\)`, Delimit(`not \valid{ latex`))
}

func TestNotationEscapesMarkup(t *testing.T) {
	out := renderString(t, NewMathJax("").Notation(`x < y & <script>`))

	assert.Contains(t, out, `class="notation mathjax-process"`)
	assert.Contains(t, out, `\(x &lt; y &amp; &lt;script&gt;\)`)
	assert.NotContains(t, out, "<script>")
}

func TestProseIsProcessed(t *testing.T) {
	out := renderString(t, NewMathJax("").Prose(`Area is \(\pi r^2\)`))
	assert.Contains(t, out, ProcessClass)
	assert.Contains(t, out, `Area is \(\pi r^2\)`)
}

func TestHeadIsBuiltOnceAndLoadsScript(t *testing.T) {
	m := NewMathJax("https://example.test/mathjax.js")

	first := renderString(t, m.Head())
	second := renderString(t, m.Head())

	assert.Equal(t, first, second)
	assert.Contains(t, first, `src="https://example.test/mathjax.js"`)
	assert.Contains(t, first, "processHtmlClass:'mathjax-process'")
	assert.Equal(t, 1, strings.Count(first, `id="MathJax-script"`))
}

func TestNewMathJaxDefaultsScript(t *testing.T) {
	assert.Contains(t, renderString(t, NewMathJax("  ").Head()), DefaultScriptURL)
}
