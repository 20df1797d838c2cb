package application

import (
	"crypto/rand"
	"log/slog"
	"time"

	"github.com/sellforge/marketplace/internal/ports"
)

type Config struct {
	ServiceName       string
	PublicBaseURL     string
	DefaultCurrency   string
	ReferralCookieTTL time.Duration
	LinkCacheTTL      time.Duration
	LinkCodeLength    int
	LinkCodeAttempts  int
}

type Actor struct {
	SubjectID string
	Email     string
	Role      string
	RequestID string
}

type JoinAffiliateInput struct {
	Name           string
	Company        string
	Website        string
	Bio            string
	PayoutEmail    string
	PayoutSchedule string
	IsPublic       bool
}

type PriceInput struct {
	Currency   string
	UnitAmount int64
	Recurring  *ports.RecurringPrice
}

type CreateProductInput struct {
	Name           string
	Description    string
	Images         []string
	Prices         []PriceInput
	IsSubscription bool
	Category       string
	DownloadURL    string
	DemoURL        string
	RefundPolicy   string
	SupportEmail   string
	// Rates arrive as percentage strings from the vendor form.
	CommissionRateOneTime   string
	CommissionRateRecurring string
}

type CreateProductResult struct {
	ProductID       string
	StripeProductID string
	StripePriceIDs  []string
	SessionID       string
	SessionURL      string
}

type UpdateProductInput struct {
	ProductID    string
	Title        *string
	Description  *string
	ImageURL     *string
	Category     *string
	DemoURL      *string
	DownloadURL  *string
	RefundPolicy *string
	SupportEmail *string
}

type CreateLinkResult struct {
	LinkID  string
	RefCode string
	URL     string
}

type LinkStats struct {
	LinkID    string
	ProductID string
	RefCode   string
	Clicks    int64
	Sales     int
}

type Dashboard struct {
	AffiliateID         string
	TotalLinks          int
	TotalClicks         int64
	TotalSales          int
	PendingCommission   int64
	CancelledCommission int64
	Links               []LinkStats
}

type Service struct {
	cfg    Config
	logger *slog.Logger

	affiliates ports.AffiliateRepository
	links      ports.LinkRepository
	products   ports.ProductRepository
	sales      ports.SaleRepository
	outbox     ports.OutboxRepository

	processor ports.PaymentProcessor
	verifier  ports.WebhookVerifier
	linkCache ports.LinkCache

	nowFn  func() time.Time
	codeFn func(length int) string
}

type Dependencies struct {
	Config Config
	Logger *slog.Logger

	Affiliates ports.AffiliateRepository
	Links      ports.LinkRepository
	Products   ports.ProductRepository
	Sales      ports.SaleRepository
	Outbox     ports.OutboxRepository

	Processor ports.PaymentProcessor
	Verifier  ports.WebhookVerifier
	LinkCache ports.LinkCache
}

func NewService(deps Dependencies) *Service {
	cfg := deps.Config
	if cfg.ServiceName == "" {
		cfg.ServiceName = "marketplace"
	}
	if cfg.PublicBaseURL == "" {
		cfg.PublicBaseURL = "http://localhost:8080"
	}
	if cfg.DefaultCurrency == "" {
		cfg.DefaultCurrency = "usd"
	}
	if cfg.ReferralCookieTTL <= 0 {
		cfg.ReferralCookieTTL = 24 * time.Hour
	}
	if cfg.LinkCacheTTL <= 0 {
		cfg.LinkCacheTTL = 5 * time.Minute
	}
	if cfg.LinkCodeLength <= 0 {
		cfg.LinkCodeLength = 8
	}
	if cfg.LinkCodeAttempts <= 0 {
		cfg.LinkCodeAttempts = 5
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		cfg:        cfg,
		logger:     logger,
		affiliates: deps.Affiliates,
		links:      deps.Links,
		products:   deps.Products,
		sales:      deps.Sales,
		outbox:     deps.Outbox,
		processor:  deps.Processor,
		verifier:   deps.Verifier,
		linkCache:  deps.LinkCache,
		nowFn:      func() time.Time { return time.Now().UTC() },
		codeFn:     randomRefCode,
	}
}

// ReferralCookieTTL is exposed so the HTTP layer sets the cookie lifetime the
// service was configured with.
func (s *Service) ReferralCookieTTL() time.Duration { return s.cfg.ReferralCookieTTL }

const refCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

// randomRefCode mints a fixed-length code from a URL-safe alphabet. 64 symbols
// over 8 positions gives 2^48 combinations; collisions are handled by the
// caller retrying, never by overwriting.
func randomRefCode(length int) string {
	buf := make([]byte, length)
	_, _ = rand.Read(buf)
	for i := range buf {
		buf[i] = refCodeAlphabet[int(buf[i])&63]
	}
	return string(buf)
}
