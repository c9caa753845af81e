package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/heartmarshall/quickdict/pkg/ctxutil"
)

// SessionID copies the named chi route parameter into the context. It must
// be installed inside the route that declares the parameter.
func SessionID(param string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if id := chi.URLParam(r, param); id != "" {
				r = r.WithContext(ctxutil.WithSessionID(r.Context(), id))
			}
			next.ServeHTTP(w, r)
		})
	}
}
