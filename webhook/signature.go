package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Header names sent with every outbound delivery, letting a receiver
// deduplicate, verify, and log without parsing the envelope body first.
const (
	SignatureHeader       = "X-Signature"
	EventIDHeader         = "X-Event-Id"
	EventKindHeader       = "X-Event-Kind"
	WebhookIDHeader       = "X-Webhook-Id"
	DeliveryAttemptHeader = "X-Delivery-Attempt"
	TimestampHeader       = "X-Timestamp"
)

// signaturePrefix precedes the hex digest in the X-Signature header value,
// naming the algorithm the way GitHub/Stripe-style webhook schemes do.
const signaturePrefix = "sha256="

// Sign computes "sha256=" plus the hex-encoded HMAC-SHA256 of
// timestamp + "." + body under secret.
func Sign(secret, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(body)
	return signaturePrefix + hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether signature is the correct signature of
// timestamp+"."+body under secret, in constant time.
func Verify(secret, timestamp string, body []byte, signature string) bool {
	expected := Sign(secret, timestamp, body)
	return hmac.Equal([]byte(expected), []byte(signature))
}
