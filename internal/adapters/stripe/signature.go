package stripe

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SignatureVerifier checks the processor's webhook signature scheme: the
// header carries a unix timestamp and one or more HMAC-SHA256 digests over
// "<timestamp>.<raw body>". The timestamp bounds replay of captured requests.
type SignatureVerifier struct {
	secret    []byte
	tolerance time.Duration
	nowFn     func() time.Time
}

func NewSignatureVerifier(secret string, tolerance time.Duration) *SignatureVerifier {
	if tolerance <= 0 {
		tolerance = 5 * time.Minute
	}
	return &SignatureVerifier{
		secret:    []byte(secret),
		tolerance: tolerance,
		nowFn:     func() time.Time { return time.Now().UTC() },
	}
}

func (v *SignatureVerifier) Verify(payload []byte, signatureHeader string) error {
	if signatureHeader == "" {
		return fmt.Errorf("missing signature header")
	}
	var timestamp int64
	var candidates []string
	for _, part := range strings.Split(signatureHeader, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		switch key {
		case "t":
			ts, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return fmt.Errorf("malformed timestamp in signature header")
			}
			timestamp = ts
		case "v1":
			candidates = append(candidates, value)
		}
	}
	if timestamp == 0 || len(candidates) == 0 {
		return fmt.Errorf("signature header missing timestamp or digest")
	}

	age := v.nowFn().Sub(time.Unix(timestamp, 0))
	if age > v.tolerance || age < -v.tolerance {
		return fmt.Errorf("signature timestamp outside tolerance")
	}

	expected := computeDigest(v.secret, timestamp, payload)
	for _, candidate := range candidates {
		raw, err := hex.DecodeString(candidate)
		if err != nil {
			continue
		}
		if hmac.Equal(raw, expected) {
			return nil
		}
	}
	return fmt.Errorf("no matching signature digest")
}

// Sign produces a header the verifier accepts; used by tests and local replay
// tooling.
func Sign(secret string, timestamp time.Time, payload []byte) string {
	digest := computeDigest([]byte(secret), timestamp.Unix(), payload)
	return fmt.Sprintf("t=%d,v1=%s", timestamp.Unix(), hex.EncodeToString(digest))
}

func computeDigest(secret []byte, timestamp int64, payload []byte) []byte {
	mac := hmac.New(sha256.New, secret)
	fmt.Fprintf(mac, "%d.", timestamp)
	mac.Write(payload)
	return mac.Sum(nil)
}
