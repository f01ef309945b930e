package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// SignaturePrefix is the scheme prefix GitHub-style senders put in the
// X-Hub-Signature-256 header.
const SignaturePrefix = "sha256="

// VerifySignature reports whether headerSignature is a valid
// HMAC-SHA256 of body under secret. The digest is computed over the
// raw, unparsed request body: re-serializing the parsed payload is not
// guaranteed to byte-match what the sender signed.
//
// Fails closed: a missing header, an unconfigured secret, or any
// mismatch returns false. The comparison is constant-time.
func VerifySignature(body []byte, headerSignature, secret string) bool {
	if secret == "" || headerSignature == "" {
		return false
	}
	if !strings.HasPrefix(headerSignature, SignaturePrefix) {
		return false
	}
	got, err := hex.DecodeString(strings.TrimPrefix(headerSignature, SignaturePrefix))
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hmac.Equal(got, mac.Sum(nil))
}

// Sign computes the header value a sender would attach for body.
func Sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return SignaturePrefix + hex.EncodeToString(mac.Sum(nil))
}
