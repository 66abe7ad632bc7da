package billing

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"strings"
)

// VerifyPaystackWebhookSignature checks the x-paystack-signature header:
// a hex-encoded HMAC-SHA512 of the exact raw request body keyed with the
// Paystack secret. Missing signature or secret never validates.
func VerifyPaystackWebhookSignature(payload []byte, signatureHeader, secret string) bool {
	sig := strings.TrimSpace(signatureHeader)
	key := strings.TrimSpace(secret)
	if sig == "" || key == "" {
		return false
	}

	decodedSig, err := hex.DecodeString(strings.ToLower(sig))
	if err != nil {
		return false
	}

	mac := hmac.New(sha512.New, []byte(key))
	mac.Write(payload)
	return hmac.Equal(mac.Sum(nil), decodedSig)
}
