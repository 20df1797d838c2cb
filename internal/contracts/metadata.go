package contracts

import (
	"github.com/sellforge/marketplace/internal/domain"
)

// Checkout-session metadata keys. Attribution travels through the payment
// processor as untyped string key/value pairs because nothing else survives
// the hosted payment flow; this file is the single place that encoding lives.
const (
	MetaProductID      = "product_id"
	MetaAffiliateID    = "affiliate_id"
	MetaLinkID         = "affiliate_link_id"
	MetaRefCode        = "custom_ref_id"
	MetaCommissionRate = "commission_rate"
	MetaRecurringRate  = "recurring_commission_rate"
)

// CheckoutMetadata is the typed view of the attribution side channel. Empty
// attribution fields mean an organic (non-affiliate) sale, which is a normal
// case rather than an error.
type CheckoutMetadata struct {
	ProductID      string
	AffiliateID    string
	LinkID         string
	RefCode        string
	CommissionRate domain.RateBps
	RecurringRate  domain.RateBps
}

func (m CheckoutMetadata) Attributed() bool {
	return m.AffiliateID != ""
}

func (m CheckoutMetadata) Encode() map[string]string {
	recurring := ""
	if m.RecurringRate > 0 {
		recurring = m.RecurringRate.String()
	}
	return map[string]string{
		MetaProductID:      m.ProductID,
		MetaAffiliateID:    m.AffiliateID,
		MetaLinkID:         m.LinkID,
		MetaRefCode:        m.RefCode,
		MetaCommissionRate: m.CommissionRate.String(),
		MetaRecurringRate:  recurring,
	}
}

// DecodeCheckoutMetadata never fails: missing or malformed fields decode to
// their zero values, which downstream reads as "no attribution".
func DecodeCheckoutMetadata(raw map[string]string) CheckoutMetadata {
	m := CheckoutMetadata{
		ProductID:   raw[MetaProductID],
		AffiliateID: raw[MetaAffiliateID],
		LinkID:      raw[MetaLinkID],
		RefCode:     raw[MetaRefCode],
	}
	m.CommissionRate = decodeRate(raw[MetaCommissionRate])
	m.RecurringRate = decodeRate(raw[MetaRecurringRate])
	return m
}

// decodeRate reads the scaled-integer wire form ("3000" == 30.00%). Values the
// codec did not produce are dropped rather than guessed at.
func decodeRate(raw string) domain.RateBps {
	if raw == "" {
		return 0
	}
	for _, c := range raw {
		if c < '0' || c > '9' {
			return 0
		}
	}
	var bps int64
	for _, c := range raw {
		bps = bps*10 + int64(c-'0')
		if bps > 10000 {
			return 0
		}
	}
	return domain.RateBps(bps)
}
