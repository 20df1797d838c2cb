package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/sellforge/marketplace/internal/application"
	"github.com/sellforge/marketplace/internal/ports"
)

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	actorKey     contextKey = "actor"
)

// ReferralCookieName holds the most recent raw reference code for a visitor.
// Overwriting on every tagged visit gives last-click attribution.
const ReferralCookieName = "affiliate_ref"

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get("X-Request-Id"))
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

func authMiddleware(verifier ports.TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if !strings.HasPrefix(strings.ToLower(raw), "bearer ") {
				writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
				return
			}
			claims, err := verifier.Verify(strings.TrimSpace(raw[7:]))
			if err != nil {
				writeError(w, http.StatusUnauthorized, "unauthorized", "invalid token")
				return
			}
			actor := application.Actor{
				SubjectID: claims.UserID,
				Email:     claims.Email,
				Role:      claims.Role,
				RequestID: requestIDFromContext(r.Context()),
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), actorKey, actor)))
		})
	}
}

// referralCaptureMiddleware watches product-detail requests for a ref query
// parameter, tags the click and plants the attribution cookie. It must never
// turn a page view into a failure: the click write is best-effort and errors
// only reach the log.
func referralCaptureMiddleware(service *application.Service, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			refCode := strings.TrimSpace(r.URL.Query().Get("ref"))
			if refCode == "" {
				next.ServeHTTP(w, r)
				return
			}
			if err := service.TrackReferralClick(r.Context(), refCode); err != nil {
				logger.WarnContext(r.Context(), "referral click not recorded",
					"operation", "referral_capture",
					"ref_code", refCode,
					"error", err,
				)
			}
			http.SetCookie(w, &http.Cookie{
				Name:     ReferralCookieName,
				Value:    refCode,
				Path:     "/",
				MaxAge:   int(service.ReferralCookieTTL().Seconds()),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
			next.ServeHTTP(w, r)
		})
	}
}

func actorFromContext(ctx context.Context) application.Actor {
	if v := ctx.Value(actorKey); v != nil {
		if a, ok := v.(application.Actor); ok {
			return a
		}
	}
	return application.Actor{}
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(c.Value)
}
