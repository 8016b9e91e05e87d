package components

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// Writer accumulates markup and keeps the first write error.
type Writer struct {
	ctx context.Context
	w   io.Writer
	err error
}

// NewWriter wraps w for building markup inside a templ.ComponentFunc.
func NewWriter(ctx context.Context, w io.Writer) *Writer {
	return &Writer{ctx: ctx, w: w}
}

// Raw writes s unescaped.
func (m *Writer) Raw(s string) {
	if m.err != nil {
		return
	}
	_, m.err = io.WriteString(m.w, s)
}

// Text writes s HTML-escaped.
func (m *Writer) Text(s string) {
	m.Raw(templ.EscapeString(s))
}

// Printf formats markup. String arguments are HTML-escaped; everything else
// is formatted as is.
func (m *Writer) Printf(format string, args ...any) {
	escaped := make([]any, len(args))
	for i, arg := range args {
		if s, ok := arg.(string); ok {
			escaped[i] = templ.EscapeString(s)
			continue
		}
		escaped[i] = arg
	}
	m.Raw(fmt.Sprintf(format, escaped...))
}

// Component renders c in place.
func (m *Writer) Component(c templ.Component) {
	if m.err != nil || c == nil {
		return
	}
	m.err = c.Render(m.ctx, m.w)
}

// Err returns the first error encountered.
func (m *Writer) Err() error {
	return m.err
}

// Build adapts a markup-writing function into a templ.Component.
func Build(fn func(m *Writer)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		m := NewWriter(ctx, w)
		fn(m)
		return m.Err()
	})
}

// Join renders parts in order.
func Join(parts ...templ.Component) templ.Component {
	return Build(func(m *Writer) {
		for _, part := range parts {
			m.Component(part)
		}
	})
}
