package stripe

import (
	"testing"
	"time"
)

func TestVerifyAcceptsSignedPayload(t *testing.T) {
	const secret = "whsec_test"
	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed"}`)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	v := NewSignatureVerifier(secret, 5*time.Minute)
	v.nowFn = func() time.Time { return now }

	header := Sign(secret, now, payload)
	if err := v.Verify(payload, header); err != nil {
		t.Fatalf("valid signature rejected: %v", err)
	}
}

func TestVerifyRejectsTamperedPayload(t *testing.T) {
	const secret = "whsec_test"
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	v := NewSignatureVerifier(secret, 5*time.Minute)
	v.nowFn = func() time.Time { return now }

	header := Sign(secret, now, []byte(`{"amount_total":10000}`))
	if err := v.Verify([]byte(`{"amount_total":99999}`), header); err == nil {
		t.Fatal("tampered payload passed verification")
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	payload := []byte(`{}`)

	v := NewSignatureVerifier("whsec_real", 5*time.Minute)
	v.nowFn = func() time.Time { return now }

	header := Sign("whsec_other", now, payload)
	if err := v.Verify(payload, header); err == nil {
		t.Fatal("signature from wrong secret accepted")
	}
}

func TestVerifyRejectsStaleTimestamp(t *testing.T) {
	const secret = "whsec_test"
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	payload := []byte(`{}`)

	v := NewSignatureVerifier(secret, 5*time.Minute)
	v.nowFn = func() time.Time { return now }

	header := Sign(secret, now.Add(-10*time.Minute), payload)
	if err := v.Verify(payload, header); err == nil {
		t.Fatal("replayed signature outside tolerance accepted")
	}
}

func TestVerifyRejectsMalformedHeaders(t *testing.T) {
	v := NewSignatureVerifier("whsec_test", 5*time.Minute)
	for _, header := range []string{"", "v1=abc", "t=notanumber,v1=abc", "t=123"} {
		if err := v.Verify([]byte(`{}`), header); err == nil {
			t.Fatalf("malformed header %q accepted", header)
		}
	}
}

func TestVerifyAcceptsSecondDigest(t *testing.T) {
	const secret = "whsec_test"
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	payload := []byte(`{}`)

	v := NewSignatureVerifier(secret, 5*time.Minute)
	v.nowFn = func() time.Time { return now }

	// Secret rotation sends multiple v1 entries; any match passes.
	combined := Sign(secret, now, payload) + ",v1=deadbeef"
	if err := v.Verify(payload, combined); err != nil {
		t.Fatalf("header with extra digest rejected: %v", err)
	}
}
