package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"

	"max.ks1230/fintrack/internal/entity/user"
	"max.ks1230/fintrack/internal/model/customerr"
)

type ctxKey int

const identityKey ctxKey = iota

func identityFrom(ctx context.Context) (user.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(user.Identity)
	return identity, ok
}

// withAuth validates the bearer token and puts the embedded identity into
// the request context. Everything behind it trusts that identity.
func (s *Server) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			writeError(w, customerr.ErrInvalidToken)
			return
		}

		identity, err := s.auth.ValidateToken(parts[1])
		if err != nil {
			writeError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func withObservability(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		span, ctx := opentracing.StartSpanFromContext(r.Context(), r.Method+" "+r.URL.Path)
		defer span.Finish()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		start := time.Now()
		next.ServeHTTP(rec, r.WithContext(ctx))
		observeResponse(time.Since(start), rec.status)

		if rec.status >= http.StatusInternalServerError {
			ext.Error.Set(span, true)
		}
	})
}
