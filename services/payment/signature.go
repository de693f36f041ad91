package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Verdict is the outcome of checking a checkout signature.
type Verdict int

const (
	Rejected Verdict = iota
	Verified
)

func (v Verdict) String() string {
	if v == Verified {
		return "verified"
	}
	return "rejected"
}

// SignatureVerifier checks checkout results signed as
// hex(HMAC-SHA256(secret, order_id + "|" + payment_id)).
type SignatureVerifier struct {
	secret []byte
}

// NewSignatureVerifier fails only when the secret is missing, which is a deployment error.
func NewSignatureVerifier(secret string) (*SignatureVerifier, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	return &SignatureVerifier{secret: []byte(secret)}, nil
}

// Sign returns the signature the gateway would produce for the pair.
func (v *SignatureVerifier) Sign(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify never errors: any missing, malformed or mismatching input is Rejected.
func (v *SignatureVerifier) Verify(orderID, paymentID, signature string) Verdict {
	if orderID == "" || paymentID == "" || signature == "" {
		return Rejected
	}
	expected := v.Sign(orderID, paymentID)
	if hmac.Equal([]byte(expected), []byte(signature)) {
		return Verified
	}
	return Rejected
}
