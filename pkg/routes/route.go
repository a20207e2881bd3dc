// Package routes declares HTTP route groups that domain handlers expose
// and a registrar that binds them onto a ServeMux.
package routes

import "net/http"

// Route binds an HTTP method and pattern to a handler.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
}
