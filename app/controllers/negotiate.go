package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
)

// Mode is the representation a response is rendered in.
type Mode int

const (
	// PageMode renders HTML and answers outcomes with redirects.
	PageMode Mode = iota
	// DataMode renders JSON with status codes.
	DataMode
)

func (m Mode) String() string {
	if m == DataMode {
		return "data"
	}
	return "page"
}

// Negotiate picks the representation for r.
func Negotiate(r *http.Request) Mode {
	switch {
	case r.URL.Path == "/api" || strings.HasPrefix(r.URL.Path, "/api/"):
		return DataMode
	case r.URL.Query().Get("format") == "json":
		return DataMode
	case strings.HasSuffix(r.URL.Path, ".json"):
		return DataMode
	case strings.Contains(r.Header.Get("Accept"), "application/json"):
		return DataMode
	}
	return PageMode
}

// pathID reads a positive integer route variable. Anything else is
// reported as absent, which callers treat as not found.
func pathID(r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
