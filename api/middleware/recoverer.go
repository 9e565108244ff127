package middleware

import (
	"fmt"
	"net/http"

	"github.com/wayplan/backend/api/responses"
	pkgerrors "github.com/wayplan/backend/pkg/errors"
	"github.com/wayplan/backend/pkg/logger"
)

// Recoverer turns handler panics into logged 500 responses so one bad
// request cannot take down the server.
func Recoverer(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				err := fmt.Errorf("panic: %v", rec)
				ctx := r.Context()
				if logg != nil {
					logg.Error(logg.WithFields(ctx, map[string]any{"panic": rec}), "panic.recovered", err)
				}
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "panic"))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
