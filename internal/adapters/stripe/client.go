// Package stripe is a thin client for the hosted payments API. It speaks the
// form-encoded REST surface directly so the request shape stays visible; only
// the three endpoints the marketplace needs are covered.
package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sellforge/marketplace/internal/domain"
	"github.com/sellforge/marketplace/internal/ports"
)

const defaultBaseURL = "https://api.stripe.com"

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type productEnvelope struct {
	ID string `json:"id"`
}

type priceEnvelope struct {
	ID         string `json:"id"`
	UnitAmount int64  `json:"unit_amount"`
	Currency   string `json:"currency"`
	Recurring  *struct {
		Interval      string `json:"interval"`
		IntervalCount int    `json:"interval_count"`
	} `json:"recurring"`
}

type sessionEnvelope struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type apiError struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) CreateProduct(ctx context.Context, params ports.CreateProcessorProductParams) (ports.ProcessorProduct, error) {
	form := url.Values{}
	form.Set("name", params.Name)
	if params.Description != "" {
		form.Set("description", params.Description)
	}
	for i, image := range params.Images {
		form.Set(fmt.Sprintf("images[%d]", i), image)
	}
	encodeMetadata(form, params.Metadata)

	var out productEnvelope
	if err := c.post(ctx, "/v1/products", form, &out); err != nil {
		return ports.ProcessorProduct{}, err
	}
	return ports.ProcessorProduct{ID: out.ID}, nil
}

func (c *Client) CreatePrice(ctx context.Context, params ports.CreatePriceParams) (ports.ProcessorPrice, error) {
	form := url.Values{}
	form.Set("product", params.ProductID)
	form.Set("unit_amount", strconv.FormatInt(params.UnitAmount, 10))
	form.Set("currency", params.Currency)
	if params.Recurring != nil {
		form.Set("recurring[interval]", params.Recurring.Interval)
		if params.Recurring.IntervalCount > 0 {
			form.Set("recurring[interval_count]", strconv.Itoa(params.Recurring.IntervalCount))
		}
	}

	var out priceEnvelope
	if err := c.post(ctx, "/v1/prices", form, &out); err != nil {
		return ports.ProcessorPrice{}, err
	}
	price := ports.ProcessorPrice{ID: out.ID, UnitAmount: out.UnitAmount, Currency: out.Currency}
	if out.Recurring != nil {
		price.Recurring = &ports.RecurringPrice{
			Interval:      out.Recurring.Interval,
			IntervalCount: out.Recurring.IntervalCount,
		}
	}
	return price, nil
}

func (c *Client) CreateCheckoutSession(ctx context.Context, params ports.CreateCheckoutSessionParams) (ports.CheckoutSession, error) {
	form := url.Values{}
	form.Set("mode", params.Mode)
	form.Set("line_items[0][price]", params.PriceID)
	form.Set("line_items[0][quantity]", "1")
	form.Set("success_url", params.SuccessURL)
	form.Set("cancel_url", params.CancelURL)
	encodeMetadata(form, params.Metadata)
	// Subscription metadata has to ride on the subscription itself so that
	// later invoice events carry the attribution keys.
	if params.Mode == "subscription" {
		for key, value := range params.Metadata {
			form.Set("subscription_data[metadata]["+key+"]", value)
		}
	}

	var out sessionEnvelope
	if err := c.post(ctx, "/v1/checkout/sessions", form, &out); err != nil {
		return ports.CheckoutSession{}, err
	}
	return ports.CheckoutSession{ID: out.ID, URL: out.URL}, nil
}

func encodeMetadata(form url.Values, metadata map[string]string) {
	for key, value := range metadata {
		form.Set("metadata["+key+"]", value)
	}
}

func (c *Client) post(ctx context.Context, path string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%w: read response: %v", domain.ErrUpstream, err)
	}
	if resp.StatusCode >= 400 {
		var apiErr apiError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("%w: %s %s: %s", domain.ErrUpstream, path, apiErr.Error.Code, apiErr.Error.Message)
		}
		return fmt.Errorf("%w: %s returned %d", domain.ErrUpstream, path, resp.StatusCode)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decode response: %v", domain.ErrUpstream, err)
	}
	return nil
}
