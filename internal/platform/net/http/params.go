package http

import (
	stdhttp "net/http"
	"strings"

	perr "reqrelay/internal/platform/errors"

	"github.com/go-chi/chi/v5"
)

// Param returns the trimmed path parameter name matched by the router
func Param(r *stdhttp.Request, name string) string {
	return strings.TrimSpace(chi.URLParam(r, name))
}

// RequireParam is Param that fails with a validation error when the value is empty
func RequireParam(r *stdhttp.Request, name string) (string, error) {
	v := Param(r, name)
	if v == "" {
		return "", perr.WithField(perr.Validationf("%s is required", name), name)
	}
	return v, nil
}
