package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sellforge/marketplace/internal/adapters/memory"
	"github.com/sellforge/marketplace/internal/application"
	"github.com/sellforge/marketplace/internal/domain"
	"github.com/sellforge/marketplace/internal/ports"
)

type stubTokenVerifier struct {
	claims ports.AuthClaims
	err    error
}

func (s *stubTokenVerifier) Verify(string) (ports.AuthClaims, error) {
	return s.claims, s.err
}

type nopProcessor struct{}

func (nopProcessor) CreateProduct(context.Context, ports.CreateProcessorProductParams) (ports.ProcessorProduct, error) {
	return ports.ProcessorProduct{ID: "sprod_1"}, nil
}
func (nopProcessor) CreatePrice(context.Context, ports.CreatePriceParams) (ports.ProcessorPrice, error) {
	return ports.ProcessorPrice{ID: "sprice_1", UnitAmount: 1000, Currency: "usd"}, nil
}
func (nopProcessor) CreateCheckoutSession(context.Context, ports.CreateCheckoutSessionParams) (ports.CheckoutSession, error) {
	return ports.CheckoutSession{ID: "cs_1"}, nil
}

type nopVerifier struct{}

func (nopVerifier) Verify([]byte, string) error { return nil }

func newTestService(t *testing.T) (*application.Service, memory.Repositories) {
	t.Helper()
	repos := memory.NewRepositories()
	service := application.NewService(application.Dependencies{
		Config:     application.Config{ReferralCookieTTL: 24 * time.Hour},
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		Affiliates: repos.Affiliates,
		Links:      repos.Links,
		Products:   repos.Products,
		Sales:      repos.Sales,
		Outbox:     repos.Outbox,
		Processor:  nopProcessor{},
		Verifier:   nopVerifier{},
	})
	return service, repos
}

func seedLink(t *testing.T, repos memory.Repositories, refCode string) {
	t.Helper()
	err := repos.Links.Create(context.Background(), domain.AffiliateLink{
		LinkID:      "link_1",
		AffiliateID: "aff_1",
		ProductID:   "prod_1",
		RefCode:     refCode,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("seed link: %v", err)
	}
}

func TestReferralCaptureSetsCookieAndCountsClick(t *testing.T) {
	service, repos := newTestService(t)
	seedLink(t, repos, "Ab3dEf9h")

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := referralCaptureMiddleware(service, slog.Default())(next)

	req := httptest.NewRequest(http.MethodGet, "/products/prod_1?ref=Ab3dEf9h", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == ReferralCookieName {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("referral cookie not set")
	}
	if cookie.Value != "Ab3dEf9h" {
		t.Fatalf("cookie value = %q", cookie.Value)
	}
	if cookie.MaxAge != int((24 * time.Hour).Seconds()) {
		t.Fatalf("cookie max age = %d", cookie.MaxAge)
	}
	if !cookie.HttpOnly {
		t.Fatal("cookie must be http-only")
	}
	if cookie.Path != "/" {
		t.Fatalf("cookie path = %q, want /", cookie.Path)
	}

	link, err := repos.Links.GetByRefCode(context.Background(), "Ab3dEf9h")
	if err != nil {
		t.Fatalf("get link: %v", err)
	}
	if link.Clicks != 1 {
		t.Fatalf("clicks = %d, want 1", link.Clicks)
	}
}

func TestReferralCaptureOverwritesPreviousCookie(t *testing.T) {
	service, repos := newTestService(t)
	seedLink(t, repos, "secondref")

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {})
	handler := referralCaptureMiddleware(service, slog.Default())(next)

	req := httptest.NewRequest(http.MethodGet, "/products/prod_1?ref=secondref", nil)
	req.AddCookie(&http.Cookie{Name: ReferralCookieName, Value: "firstref"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	for _, c := range rec.Result().Cookies() {
		if c.Name == ReferralCookieName && c.Value == "secondref" {
			return
		}
	}
	t.Fatal("cookie not overwritten with the newest ref code")
}

func TestReferralCapturePassthroughWithoutRef(t *testing.T) {
	service, _ := newTestService(t)

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := referralCaptureMiddleware(service, slog.Default())(next)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/prod_1", nil))

	if len(rec.Result().Cookies()) != 0 {
		t.Fatal("cookie set without a ref parameter")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestReferralCaptureNeverFailsThePage(t *testing.T) {
	service, _ := newTestService(t)

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := referralCaptureMiddleware(service, slog.Default())(next)

	// Unknown ref code: click write fails, page still renders and cookie is
	// still planted for the eventual checkout to resolve (or ignore).
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/prod_1?ref=unknown", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	handler := authMiddleware(&stubTokenVerifier{})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("next handler reached without credentials")
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/affiliate/dashboard", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAuthMiddlewareRejectsInvalidToken(t *testing.T) {
	verifier := &stubTokenVerifier{err: errors.New("expired")}
	handler := authMiddleware(verifier)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("next handler reached with invalid token")
	}))
	req := httptest.NewRequest(http.MethodGet, "/api/v1/affiliate/dashboard", nil)
	req.Header.Set("Authorization", "Bearer bad")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAuthMiddlewarePopulatesActor(t *testing.T) {
	verifier := &stubTokenVerifier{claims: ports.AuthClaims{UserID: "user_1", Email: "u@example.com", Role: "creator"}}
	var actor application.Actor
	handler := authMiddleware(verifier)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		actor = actorFromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/api/v1/affiliate/dashboard", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if actor.SubjectID != "user_1" || actor.Role != "creator" {
		t.Fatalf("actor = %+v", actor)
	}
}
