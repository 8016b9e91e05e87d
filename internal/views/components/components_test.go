package components

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/a-h/templ"

	"formulary/internal/catalog"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	return buf.String()
}

func TestLinkState(t *testing.T) {
	if got := linkState("applications", "applications"); got != "active" {
		t.Fatalf("expected active state when sections match, got %q", got)
	}
	if got := linkState("formulas", "applications"); got != "inactive" {
		t.Fatalf("expected inactive state when sections differ, got %q", got)
	}
}

func TestNavRendersActiveSection(t *testing.T) {
	out := render(t, Nav("applications", []NavLink{
		{Label: "Formulas", Path: "/", Section: "formulas"},
		{Label: "Applications", Path: "/applications", Section: "applications"},
	}))
	if !strings.Contains(out, `data-nav-section="applications" data-state="active"`) {
		t.Fatalf("expected active applications link: %s", out)
	}
	if !strings.Contains(out, `data-nav-section="formulas" data-state="inactive"`) {
		t.Fatalf("expected inactive formulas link: %s", out)
	}
}

func TestErrorNoticeRendersMessageVerbatim(t *testing.T) {
	out := render(t, ErrorNotice("Formula not found (HTTP 404)", ""))
	if !strings.Contains(out, ">Formula not found (HTTP 404)</p>") {
		t.Fatalf("expected verbatim message: %s", out)
	}
	if !strings.Contains(out, `role="alert"`) {
		t.Fatalf("expected alert role: %s", out)
	}

	hinted := render(t, ErrorNotice("API URL is not set.", "Please check your API connection."))
	if !strings.Contains(hinted, "Error: API URL is not set.. Please check your API connection.") {
		t.Fatalf("expected hinted message: %s", hinted)
	}
}

func TestBadgeUsesColour(t *testing.T) {
	out := render(t, Badge("Advanced", catalog.ColorRed))
	if !strings.Contains(out, "background-color: #dc3545") || !strings.Contains(out, `data-color="red"`) {
		t.Fatalf("expected red badge: %s", out)
	}
	neutral := render(t, Badge("Subject: Geometry", catalog.Color{}))
	if !strings.Contains(neutral, "#e9ecef") {
		t.Fatalf("expected neutral badge: %s", neutral)
	}
}

func TestPrintfEscapesStrings(t *testing.T) {
	out := render(t, Build(func(m *Writer) {
		m.Printf(`<p data-id="%d">%s</p>`, 7, `<b>"bold"</b>`)
	}))
	if out != `<p data-id="7">&lt;b&gt;&#34;bold&#34;&lt;/b&gt;</p>` {
		t.Fatalf("unexpected markup: %s", out)
	}
}

func TestDeferredWrapsLoading(t *testing.T) {
	out := render(t, Deferred("/applications", "Loading applications..."))
	for _, token := range []string{`hx-get="/applications"`, `hx-trigger="load"`, "Loading applications...", `data-state="loading"`} {
		if !strings.Contains(out, token) {
			t.Fatalf("expected %q in %s", token, out)
		}
	}
}

func TestFlashNoticeEmptyRendersNothing(t *testing.T) {
	if out := render(t, FlashNotice("", false)); out != "" {
		t.Fatalf("expected empty output, got %q", out)
	}
	if out := render(t, FlashNotice("Linked.", false)); !strings.Contains(out, "flash-notice") {
		t.Fatalf("expected notice flash: %s", out)
	}
}

func TestWriterStopsAfterError(t *testing.T) {
	failing := templ.ComponentFunc(func(context.Context, io.Writer) error {
		return errors.New("boom")
	})
	var buf bytes.Buffer
	err := Join(failing, Loading("never")).Render(context.Background(), &buf)
	if err == nil || err.Error() != "boom" {
		t.Fatalf("expected boom error, got %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output after error, got %q", buf.String())
	}
}
