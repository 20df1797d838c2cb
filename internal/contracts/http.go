package contracts

type SuccessResponse struct {
	Status string `json:"status"`
	Data   any    `json:"data"`
}

type ErrorResponse struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type JoinAffiliateRequest struct {
	Name           string `json:"name"`
	Company        string `json:"company"`
	Website        string `json:"website"`
	Bio            string `json:"bio"`
	PayoutEmail    string `json:"payout_email"`
	PayoutSchedule string `json:"payout_schedule"`
	IsPublic       bool   `json:"is_public"`
}

type AffiliateResponse struct {
	AffiliateID    string `json:"affiliate_id"`
	Name           string `json:"name"`
	Company        string `json:"company,omitempty"`
	Website        string `json:"website,omitempty"`
	Bio            string `json:"bio,omitempty"`
	PayoutSchedule string `json:"payout_schedule"`
	IsPublic       bool   `json:"is_public"`
	Status         string `json:"status"`
	CreatedAt      string `json:"created_at"`
}

type PriceRequest struct {
	Currency   string `json:"currency"`
	UnitAmount int64  `json:"unit_amount"`
	Recurring  *struct {
		Interval      string `json:"interval"`
		IntervalCount int    `json:"interval_count"`
	} `json:"recurring,omitempty"`
}

type CreateProductRequest struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Images      []string       `json:"images"`
	Prices      []PriceRequest `json:"prices"`
	Metadata    struct {
		IsSaas                  bool   `json:"is_saas"`
		Category                string `json:"category"`
		DownloadURL             string `json:"download_url"`
		DemoURL                 string `json:"demo_url"`
		RefundPolicy            string `json:"refund_policy"`
		SupportEmail            string `json:"support_email"`
		CommissionRateOneTime   string `json:"commission_rate_one_time"`
		CommissionRateRecurring string `json:"commission_rate_recurring"`
	} `json:"metadata"`
}

type CreateProductResponse struct {
	ProductID       string   `json:"product_id"`
	StripeProductID string   `json:"stripe_product_id"`
	StripePriceIDs  []string `json:"stripe_price_ids"`
	SessionID       string   `json:"session_id"`
	SessionURL      string   `json:"session_url,omitempty"`
}

type UpdateProductRequest struct {
	Title        *string `json:"title,omitempty"`
	Description  *string `json:"description,omitempty"`
	ImageURL     *string `json:"image_url,omitempty"`
	Category     *string `json:"category,omitempty"`
	DemoURL      *string `json:"demo_url,omitempty"`
	DownloadURL  *string `json:"download_url,omitempty"`
	RefundPolicy *string `json:"refund_policy,omitempty"`
	SupportEmail *string `json:"support_email,omitempty"`
}

type ProductResponse struct {
	ProductID               string  `json:"product_id"`
	Title                   string  `json:"title"`
	Description             string  `json:"description"`
	ImageURL                string  `json:"image_url,omitempty"`
	Category                string  `json:"category,omitempty"`
	Price                   float64 `json:"price"`
	Currency                string  `json:"currency"`
	IsSubscription          bool    `json:"is_subscription"`
	CommissionRatePercent   string  `json:"commission_rate"`
	RecurringRatePercent    string  `json:"recurring_commission_rate,omitempty"`
	Status                  string  `json:"status"`
	SalesCount              int64   `json:"sales_count"`
	TotalRevenue            float64 `json:"total_revenue"`
	CreatedAt               string  `json:"created_at"`
}

type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
}

type CreateLinkResponse struct {
	LinkID  string `json:"link_id"`
	RefCode string `json:"ref_code"`
	URL     string `json:"url"`
}

type SaleResponse struct {
	SaleID          string `json:"sale_id"`
	ProductID       string `json:"product_id"`
	AffiliateID     string `json:"affiliate_id"`
	SaleAmount      int64  `json:"sale_amount"`
	Commission      int64  `json:"commission_amount"`
	Currency        string `json:"currency"`
	StripeSessionID string `json:"stripe_session_id"`
	IsRecurring     bool   `json:"is_recurring"`
	Status          string `json:"status"`
	CreatedAt       string `json:"created_at"`
}

type SalesListResponse struct {
	Items []SaleResponse `json:"items"`
}

type LinkStats struct {
	LinkID    string `json:"link_id"`
	ProductID string `json:"product_id"`
	RefCode   string `json:"ref_code"`
	Clicks    int64  `json:"clicks"`
	Sales     int    `json:"sales"`
}

type DashboardResponse struct {
	AffiliateID         string      `json:"affiliate_id"`
	TotalLinks          int         `json:"total_links"`
	TotalClicks         int64       `json:"total_clicks"`
	TotalSales          int         `json:"total_sales"`
	PendingCommission   int64       `json:"pending_commission"`
	CancelledCommission int64       `json:"cancelled_commission"`
	Links               []LinkStats `json:"links"`
}

type WebhookAck struct {
	Received bool `json:"received"`
}
