package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sellforge/marketplace/internal/application"
	"github.com/sellforge/marketplace/internal/ports"
)

// NewRouter wires the public surface. Product detail sits behind the referral
// capture middleware so a tagged visit counts the click and plants the cookie
// before the page renders; the webhook route stays outside auth because the
// processor authenticates with its signature header instead.
func NewRouter(service *application.Service, verifier ports.TokenVerifier, logger *slog.Logger) http.Handler {
	h := NewHandler(service, logger)

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})

	r.Post("/webhooks/payment", h.handlePaymentWebhook)

	r.Get("/products", h.listProducts)
	r.Group(func(pub chi.Router) {
		pub.Use(referralCaptureMiddleware(service, logger))
		pub.Get("/products/{product_id}", h.getProduct)
	})
	r.Get("/affiliates", h.listAffiliates)
	r.Get("/affiliates/{affiliate_id}", h.getAffiliate)

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(authMiddleware(verifier))

		api.Post("/products", h.createProduct)
		api.Patch("/products/{product_id}", h.updateProduct)
		api.Post("/products/{product_id}/deactivate", h.deactivateProduct)
		api.Get("/products/{product_id}/sales", h.listProductSales)
		api.Post("/products/{product_id}/links", h.createAffiliateLink)

		api.Post("/affiliates", h.joinAffiliateProgram)
		api.Get("/affiliate/dashboard", h.getDashboard)
	})

	return r
}
