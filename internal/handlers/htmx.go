package handlers

import "net/http"

// isHTMX reports whether the request asks for a content fragment. Boosted
// navigations expect a whole document and are treated as full-page requests.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true" && r.Header.Get("HX-Boosted") != "true"
}
