package server

import (
	"context"
	"net/http"
	"time"

	"github.com/emrgen/compliance/internal/auth"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// PrincipalHeader carries the authenticated principal id, injected by the
// identity proxy in front of this service.
const PrincipalHeader = "X-Principal-Id"

type principalKey struct{}

// PrincipalID returns the authenticated principal of the request.
func PrincipalID(ctx context.Context) string {
	id, _ := ctx.Value(principalKey{}).(string)
	return id
}

// principalMiddleware rejects unauthenticated requests and installs the
// resolver's per-request memoization scope.
func principalMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(PrincipalHeader)
		id, err := uuid.Parse(raw)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, errorResponse{
				Error:   "unauthenticated",
				Message: "missing or malformed principal",
			})
			return
		}

		ctx := context.WithValue(r.Context(), principalKey{}, id.String())
		ctx = auth.WithRequestScope(ctx)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requestTimeMiddleware logs the request time.
func requestTimeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logrus.Infof("request time: %s %s: %v", r.Method, r.URL.Path, time.Since(start))
	})
}
