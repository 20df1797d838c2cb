package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sellforge/marketplace/internal/application"
	"github.com/sellforge/marketplace/internal/contracts"
	"github.com/sellforge/marketplace/internal/domain"
	"github.com/sellforge/marketplace/internal/ports"
)

// maxWebhookBody bounds how much of a notification body is read; processor
// payloads are small and anything larger is hostile.
const maxWebhookBody = 1 << 20

type Handler struct {
	service *application.Service
	logger  *slog.Logger
}

func NewHandler(service *application.Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) joinAffiliateProgram(w http.ResponseWriter, r *http.Request) {
	var req contracts.JoinAffiliateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", "invalid json body")
		return
	}
	row, err := h.service.JoinAffiliateProgram(r.Context(), actorFromContext(r.Context()), application.JoinAffiliateInput{
		Name:           req.Name,
		Company:        req.Company,
		Website:        req.Website,
		Bio:            req.Bio,
		PayoutEmail:    req.PayoutEmail,
		PayoutSchedule: req.PayoutSchedule,
		IsPublic:       req.IsPublic,
	})
	if err != nil {
		code, c := mapDomainError(err)
		writeError(w, code, c, err.Error())
		return
	}
	writeSuccess(w, http.StatusCreated, toAffiliateResponse(row))
}

func (h *Handler) listAffiliates(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.ListPublicAffiliates(r.Context())
	if err != nil {
		code, c := mapDomainError(err)
		writeError(w, code, c, err.Error())
		return
	}
	items := make([]contracts.AffiliateResponse, 0, len(rows))
	for _, row := range rows {
		items = append(items, toAffiliateResponse(row))
	}
	writeSuccess(w, http.StatusOK, items)
}

func (h *Handler) getAffiliate(w http.ResponseWriter, r *http.Request) {
	row, err := h.service.GetAffiliate(r.Context(), chi.URLParam(r, "affiliate_id"))
	if err != nil {
		code, c := mapDomainError(err)
		writeError(w, code, c, err.Error())
		return
	}
	writeSuccess(w, http.StatusOK, toAffiliateResponse(row))
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req contracts.CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", "invalid json body")
		return
	}
	prices := make([]application.PriceInput, 0, len(req.Prices))
	for _, p := range req.Prices {
		in := application.PriceInput{Currency: p.Currency, UnitAmount: p.UnitAmount}
		if p.Recurring != nil {
			in.Recurring = &ports.RecurringPrice{Interval: p.Recurring.Interval, IntervalCount: p.Recurring.IntervalCount}
		}
		prices = append(prices, in)
	}
	out, err := h.service.CreateProductCheckout(r.Context(), actorFromContext(r.Context()), application.CreateProductInput{
		Name:                    req.Name,
		Description:             req.Description,
		Images:                  req.Images,
		Prices:                  prices,
		IsSubscription:          req.Metadata.IsSaas,
		Category:                req.Metadata.Category,
		DownloadURL:             req.Metadata.DownloadURL,
		DemoURL:                 req.Metadata.DemoURL,
		RefundPolicy:            req.Metadata.RefundPolicy,
		SupportEmail:            req.Metadata.SupportEmail,
		CommissionRateOneTime:   req.Metadata.CommissionRateOneTime,
		CommissionRateRecurring: req.Metadata.CommissionRateRecurring,
	}, cookieValue(r, ReferralCookieName))
	if err != nil {
		code, c := mapDomainError(err)
		if code == http.StatusInternalServerError {
			// Partial processor-side creation is not rolled back; callers get a
			// generic failure and operators get the log line.
			h.logger.ErrorContext(r.Context(), "product creation failed", "error", err)
			writeError(w, code, c, "failed to create product")
			return
		}
		writeError(w, code, c, err.Error())
		return
	}
	writeSuccess(w, http.StatusCreated, contracts.CreateProductResponse{
		ProductID:       out.ProductID,
		StripeProductID: out.StripeProductID,
		StripePriceIDs:  out.StripePriceIDs,
		SessionID:       out.SessionID,
		SessionURL:      out.SessionURL,
	})
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	row, err := h.service.GetProduct(r.Context(), chi.URLParam(r, "product_id"))
	if err != nil {
		code, c := mapDomainError(err)
		writeError(w, code, c, err.Error())
		return
	}
	writeSuccess(w, http.StatusOK, toProductResponse(row))
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.ListProducts(r.Context())
	if err != nil {
		code, c := mapDomainError(err)
		writeError(w, code, c, err.Error())
		return
	}
	items := make([]contracts.ProductResponse, 0, len(rows))
	for _, row := range rows {
		items = append(items, toProductResponse(row))
	}
	writeSuccess(w, http.StatusOK, contracts.ProductListResponse{Items: items})
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var req contracts.UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", "invalid json body")
		return
	}
	row, err := h.service.UpdateProduct(r.Context(), actorFromContext(r.Context()), application.UpdateProductInput{
		ProductID:    chi.URLParam(r, "product_id"),
		Title:        req.Title,
		Description:  req.Description,
		ImageURL:     req.ImageURL,
		Category:     req.Category,
		DemoURL:      req.DemoURL,
		DownloadURL:  req.DownloadURL,
		RefundPolicy: req.RefundPolicy,
		SupportEmail: req.SupportEmail,
	})
	if err != nil {
		code, c := mapDomainError(err)
		writeError(w, code, c, err.Error())
		return
	}
	writeSuccess(w, http.StatusOK, toProductResponse(row))
}

func (h *Handler) deactivateProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeactivateProduct(r.Context(), actorFromContext(r.Context()), chi.URLParam(r, "product_id")); err != nil {
		code, c := mapDomainError(err)
		writeError(w, code, c, err.Error())
		return
	}
	writeSuccess(w, http.StatusOK, map[string]string{"status": domain.ProductStatusInactive})
}

func (h *Handler) listProductSales(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.ListProductSales(r.Context(), actorFromContext(r.Context()), chi.URLParam(r, "product_id"))
	if err != nil {
		code, c := mapDomainError(err)
		writeError(w, code, c, err.Error())
		return
	}
	writeSuccess(w, http.StatusOK, toSalesList(rows))
}

func (h *Handler) createAffiliateLink(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.CreateAffiliateLink(r.Context(), actorFromContext(r.Context()), chi.URLParam(r, "product_id"))
	if err != nil {
		code, c := mapDomainError(err)
		writeError(w, code, c, err.Error())
		return
	}
	writeSuccess(w, http.StatusCreated, contracts.CreateLinkResponse{
		LinkID:  out.LinkID,
		RefCode: out.RefCode,
		URL:     out.URL,
	})
}

func (h *Handler) getDashboard(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.GetDashboard(r.Context(), actorFromContext(r.Context()))
	if err != nil {
		code, c := mapDomainError(err)
		writeError(w, code, c, err.Error())
		return
	}
	links := make([]contracts.LinkStats, 0, len(out.Links))
	for _, l := range out.Links {
		links = append(links, contracts.LinkStats{
			LinkID:    l.LinkID,
			ProductID: l.ProductID,
			RefCode:   l.RefCode,
			Clicks:    l.Clicks,
			Sales:     l.Sales,
		})
	}
	writeSuccess(w, http.StatusOK, contracts.DashboardResponse{
		AffiliateID:         out.AffiliateID,
		TotalLinks:          out.TotalLinks,
		TotalClicks:         out.TotalClicks,
		TotalSales:          out.TotalSales,
		PendingCommission:   out.PendingCommission,
		CancelledCommission: out.CancelledCommission,
		Links:               links,
	})
}

// handlePaymentWebhook reads the raw body before any parsing: the signature is
// computed over exact bytes. Processing errors other than authentication and
// malformed payloads are swallowed inside the service so the processor stops
// redelivering.
func (h *Handler) handlePaymentWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", "unreadable body")
		return
	}
	if err := h.service.HandlePaymentEvent(r.Context(), payload, r.Header.Get("Stripe-Signature")); err != nil {
		code, c := mapDomainError(err)
		writeError(w, code, c, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, contracts.WebhookAck{Received: true})
}

func toAffiliateResponse(row domain.Affiliate) contracts.AffiliateResponse {
	return contracts.AffiliateResponse{
		AffiliateID:    row.AffiliateID,
		Name:           row.Name,
		Company:        row.Company,
		Website:        row.Website,
		Bio:            row.Bio,
		PayoutSchedule: row.PayoutSchedule,
		IsPublic:       row.IsPublic,
		Status:         row.Status,
		CreatedAt:      row.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toProductResponse(row domain.Product) contracts.ProductResponse {
	resp := contracts.ProductResponse{
		ProductID:             row.ProductID,
		Title:                 row.Title,
		Description:           row.Description,
		ImageURL:              row.ImageURL,
		Category:              row.Category,
		Price:                 row.Price,
		Currency:              row.Currency,
		IsSubscription:        row.IsSubscription,
		CommissionRatePercent: row.CommissionRate.Percent(),
		Status:                row.Status,
		SalesCount:            row.SalesCount,
		TotalRevenue:          row.TotalRevenue,
		CreatedAt:             row.CreatedAt.UTC().Format(time.RFC3339),
	}
	if row.RecurringRate > 0 {
		resp.RecurringRatePercent = row.RecurringRate.Percent()
	}
	return resp
}

func toSalesList(rows []domain.Sale) contracts.SalesListResponse {
	items := make([]contracts.SaleResponse, 0, len(rows))
	for _, row := range rows {
		items = append(items, contracts.SaleResponse{
			SaleID:          row.SaleID,
			ProductID:       row.ProductID,
			AffiliateID:     row.AffiliateID,
			SaleAmount:      row.SaleAmount,
			Commission:      row.Commission,
			Currency:        row.Currency,
			StripeSessionID: row.StripeSessionID,
			IsRecurring:     row.IsRecurring,
			Status:          string(row.Status),
			CreatedAt:       row.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return contracts.SalesListResponse{Items: items}
}
