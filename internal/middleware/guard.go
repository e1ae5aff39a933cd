package middleware

import (
	"context"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"

	"github.com/raphskal/gymtracker/internal/auth"
	"github.com/raphskal/gymtracker/internal/telemetry/metrics"
	"github.com/raphskal/gymtracker/internal/telemetry/tracing"
)

const LoginPath = "/login"

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=middleware_test

type sessionResolver interface {
	CurrentSession(ctx context.Context, token string) (*auth.Session, error)
}

// Guard redirects requests to protected routes to the login page unless a
// session can be resolved for them. Identity state is resolved once per
// request and never cached.
type Guard struct {
	resolver          sessionResolver
	metricsManager    *metrics.Manager
	protectedPrefixes []string
}

func NewGuard(resolver sessionResolver, metricsManager *metrics.Manager) *Guard {
	return &Guard{
		resolver:       resolver,
		metricsManager: metricsManager,
		protectedPrefixes: []string{
			"/lifts",
		},
	}
}

func (g *Guard) RequiresAuth(path string) bool {
	for _, prefix := range g.protectedPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

func (g *Guard) Check() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !g.RequiresAuth(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			ctx, span := tracing.GlobalTracer.Start(r.Context(), "middleware.guard")
			defer span.End()

			if r.Method == http.MethodOptions {
				w.Header().Add("Allow", "GET, POST, OPTIONS")
				w.WriteHeader(http.StatusOK)
				span.SetStatus(codes.Ok, "options-ok")
				return
			}

			session, err := g.resolver.CurrentSession(ctx, auth.TokenFromRequest(r))
			if err != nil {
				log.Errorf("[guard] resolve session => %s: %s", r.URL.Path, err)
				span.RecordError(err)
				session = nil
			}

			if session == nil {
				log.Tracef("[guard] no session, redirecting => %s", r.URL.Path)
				if g.metricsManager != nil {
					g.metricsManager.CounterGuardRedirects.Inc()
				}
				span.SetStatus(codes.Error, "redirect-login")
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
				return
			}

			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r.WithContext(auth.WithSession(ctx, session)))
		})
	}
}
