package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	applog "formulary/internal/log"
	"formulary/internal/views/theme"
)

type preferencesResponse struct {
	Theme string `json:"theme"`
}

// UpdatePreferences stores the selected theme in the session.
func UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		applog.Debug(r.Context(), "preferences update with unsupported method", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseForm(); err != nil {
		applog.Error(r.Context(), "failed to parse preferences form", "error", err)
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}

	themeValue := strings.TrimSpace(r.FormValue("theme"))
	if !theme.Valid(themeValue) {
		applog.Debug(r.Context(), "received invalid theme selection", "value", themeValue)
		http.Error(w, "invalid theme selection", http.StatusBadRequest)
		return
	}
	themeConfig := theme.Resolve(themeValue)
	setSessionTheme(r, themeConfig.Key)

	if isHTMX(r) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(preferencesResponse{Theme: themeConfig.Key}); err != nil {
			applog.Error(r.Context(), "failed to encode preferences response", "error", err)
		}
		return
	}
	http.Redirect(w, r, returnPath(r), http.StatusSeeOther)
}

// returnPath is the local page the preference form was submitted from.
func returnPath(r *http.Request) string {
	referer, err := url.Parse(r.Referer())
	if err != nil || referer.Path == "" || !strings.HasPrefix(referer.Path, "/") || strings.HasPrefix(referer.Path, "//") {
		return "/"
	}
	if referer.Host != "" && referer.Host != r.Host {
		return "/"
	}
	if referer.RawQuery != "" {
		return referer.Path + "?" + referer.RawQuery
	}
	return referer.Path
}
