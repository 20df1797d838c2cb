package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sellforge/marketplace/internal/adapters/memory"
	stripeadapter "github.com/sellforge/marketplace/internal/adapters/stripe"
	"github.com/sellforge/marketplace/internal/application"
	"github.com/sellforge/marketplace/internal/contracts"
	"github.com/sellforge/marketplace/internal/domain"
)

const webhookSecret = "whsec_router_test"

func newTestRouter(t *testing.T) (http.Handler, memory.Repositories) {
	t.Helper()
	repos := memory.NewRepositories()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := application.NewService(application.Dependencies{
		Config:     application.Config{DefaultCurrency: "usd"},
		Logger:     logger,
		Affiliates: repos.Affiliates,
		Links:      repos.Links,
		Products:   repos.Products,
		Sales:      repos.Sales,
		Outbox:     repos.Outbox,
		Processor:  nopProcessor{},
		Verifier:   stripeadapter.NewSignatureVerifier(webhookSecret, 5*time.Minute),
	})
	return NewRouter(service, &stubTokenVerifier{}, logger), repos
}

func signedWebhookRequest(t *testing.T, payload []byte) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/payment", bytes.NewReader(payload))
	req.Header.Set("Stripe-Signature", stripeadapter.Sign(webhookSecret, time.Now().UTC(), payload))
	return req
}

func checkoutEventBody(t *testing.T, sessionID string, metadata map[string]string) []byte {
	t.Helper()
	object, _ := json.Marshal(map[string]any{
		"id":           sessionID,
		"amount_total": 10000,
		"currency":     "usd",
		"metadata":     metadata,
	})
	payload, err := json.Marshal(map[string]any{
		"id":   "evt_" + sessionID,
		"type": contracts.EventCheckoutCompleted,
		"data": map[string]any{"object": json.RawMessage(object)},
	})
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}
	return payload
}

func TestWebhookEndToEndRecordsSale(t *testing.T) {
	router, repos := newTestRouter(t)

	payload := checkoutEventBody(t, "cs_http", contracts.CheckoutMetadata{
		ProductID:      "prod_1",
		AffiliateID:    "aff_1",
		LinkID:         "link_1",
		CommissionRate: 3000,
	}.Encode())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, signedWebhookRequest(t, payload))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var ack contracts.WebhookAck
	if err := json.Unmarshal(rec.Body.Bytes(), &ack); err != nil || !ack.Received {
		t.Fatalf("unexpected ack body: %s", rec.Body.String())
	}

	sales, _ := repos.Sales.ListByAffiliateID(context.Background(), "aff_1")
	if len(sales) != 1 {
		t.Fatalf("expected 1 sale, got %d", len(sales))
	}
	if sales[0].Commission != 3000 {
		t.Fatalf("commission = %d, want 3000", sales[0].Commission)
	}
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	router, repos := newTestRouter(t)

	payload := checkoutEventBody(t, "cs_forged", contracts.CheckoutMetadata{
		AffiliateID:    "aff_1",
		CommissionRate: 3000,
	}.Encode())

	req := httptest.NewRequest(http.MethodPost, "/webhooks/payment", bytes.NewReader(payload))
	req.Header.Set("Stripe-Signature", stripeadapter.Sign("whsec_wrong", time.Now().UTC(), payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	sales, _ := repos.Sales.ListByAffiliateID(context.Background(), "aff_1")
	if len(sales) != 0 {
		t.Fatalf("forged webhook wrote %d sales", len(sales))
	}
}

func TestWebhookSignatureCoversExactBytes(t *testing.T) {
	router, _ := newTestRouter(t)

	payload := checkoutEventBody(t, "cs_tamper", map[string]string{})
	tampered := bytes.Replace(payload, []byte("10000"), []byte("99999"), 1)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/payment", bytes.NewReader(tampered))
	req.Header.Set("Stripe-Signature", stripeadapter.Sign(webhookSecret, time.Now().UTC(), payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestPublicProductListing(t *testing.T) {
	router, repos := newTestRouter(t)
	now := time.Now().UTC()
	seed := domain.Product{
		ProductID:      "prod_list",
		CreatorID:      "user_creator",
		Title:          "Listed",
		Currency:       "usd",
		CommissionRate: 3000,
		Status:         domain.ProductStatusActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := repos.Products.Create(context.Background(), seed); err != nil {
		t.Fatalf("seed product: %v", err)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var envelope struct {
		Status string                        `json:"status"`
		Data   contracts.ProductListResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if envelope.Status != "success" || len(envelope.Data.Items) != 1 {
		t.Fatalf("unexpected envelope: %s", rec.Body.String())
	}
	if envelope.Data.Items[0].CommissionRatePercent != "30.00" {
		t.Fatalf("commission_rate = %q, want 30.00", envelope.Data.Items[0].CommissionRatePercent)
	}
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/affiliate/dashboard", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestProductDetailWithRefSetsCookie(t *testing.T) {
	router, repos := newTestRouter(t)
	now := time.Now().UTC()
	_ = repos.Products.Create(context.Background(), domain.Product{
		ProductID: "prod_ref",
		CreatorID: "user_creator",
		Title:     "Tagged",
		Status:    domain.ProductStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	})
	_ = repos.Links.Create(context.Background(), domain.AffiliateLink{
		LinkID:      "link_ref",
		AffiliateID: "aff_ref",
		ProductID:   "prod_ref",
		RefCode:     "tagme123",
		CreatedAt:   now,
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/prod_ref?ref=tagme123", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var sawCookie bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == ReferralCookieName && c.Value == "tagme123" {
			sawCookie = true
		}
	}
	if !sawCookie {
		t.Fatal("product detail visit did not set the referral cookie")
	}
	link, _ := repos.Links.GetByRefCode(context.Background(), "tagme123")
	if link.Clicks != 1 {
		t.Fatalf("clicks = %d, want 1", link.Clicks)
	}
}
