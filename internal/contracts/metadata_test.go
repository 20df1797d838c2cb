package contracts

import (
	"testing"

	"github.com/sellforge/marketplace/internal/domain"
)

func TestCheckoutMetadataRoundTrip(t *testing.T) {
	in := CheckoutMetadata{
		ProductID:      "prod_1",
		AffiliateID:    "aff_1",
		LinkID:         "link_1",
		RefCode:        "Ab3dEf9h",
		CommissionRate: 3000,
		RecurringRate:  1500,
	}
	out := DecodeCheckoutMetadata(in.Encode())
	if out != in {
		t.Fatalf("round trip mismatch: got %+v, want %+v", out, in)
	}
	if !out.Attributed() {
		t.Fatal("expected attributed metadata")
	}
}

func TestDecodeCheckoutMetadataMissingKeys(t *testing.T) {
	out := DecodeCheckoutMetadata(map[string]string{})
	if out.Attributed() {
		t.Fatal("empty metadata must not be attributed")
	}
	if out.CommissionRate != 0 || out.RecurringRate != 0 {
		t.Fatalf("expected zero rates, got %d/%d", out.CommissionRate, out.RecurringRate)
	}

	out = DecodeCheckoutMetadata(nil)
	if out.Attributed() {
		t.Fatal("nil metadata must not be attributed")
	}
}

func TestDecodeRateRejectsMalformedValues(t *testing.T) {
	for _, raw := range []string{"30.00", "-5", "abc", "99999", "3000x"} {
		out := DecodeCheckoutMetadata(map[string]string{MetaCommissionRate: raw})
		if out.CommissionRate != 0 {
			t.Fatalf("rate %q decoded to %d, want 0", raw, out.CommissionRate)
		}
	}
	out := DecodeCheckoutMetadata(map[string]string{MetaCommissionRate: "3000"})
	if out.CommissionRate != domain.RateBps(3000) {
		t.Fatalf("rate decoded to %d, want 3000", out.CommissionRate)
	}
}
