// Package httpapi exposes the library over HTTP.
//
// It is a thin shell: every route decodes a request, calls one handler
// or service, and maps the resulting sentinel error to a status code
// and a stable error code. No business rule lives here.
package httpapi
