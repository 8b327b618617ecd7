package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
)

// ErrorResponder writes the response for an error no handler dealt with.
type ErrorResponder func(w http.ResponseWriter, r *http.Request, err error)

// Recover turns panics into a call to respond.
func Recover(respond ErrorResponder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				slog.Error("panic recovered", "panic", rec, "stack", string(debug.Stack()))
				respond(w, r, fmt.Errorf("panic: %v", rec))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
