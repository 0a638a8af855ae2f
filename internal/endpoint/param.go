package endpoint

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// urlParam reads the route parameter named after the resource primary key.
func urlParam(r *http.Request, name string) string {
	return chi.URLParam(r, name)
}
