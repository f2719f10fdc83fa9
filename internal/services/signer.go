package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strings"
)

// Signer authenticates session-cookie values so that a client cannot
// forge another user's session identifier.
type Signer struct {
	secret string
}

func NewSigner(secret string) *Signer {
	return &Signer{secret: secret}
}

// Sign returns "<value>.<signature>" suitable for a cookie.
func (s *Signer) Sign(value string) string {
	return fmt.Sprintf("%s.%s", value, s.compute(value))
}

// Parse splits and verifies a signed cookie value, returning the
// original value and whether the signature is valid.
func (s *Signer) Parse(signed string) (string, bool) {
	idx := strings.LastIndex(signed, ".")
	if idx <= 0 || idx == len(signed)-1 {
		return "", false
	}

	value := signed[:idx]
	signature := signed[idx+1:]
	if !hmac.Equal([]byte(signature), []byte(s.compute(value))) {
		return "", false
	}
	return value, true
}

func (s *Signer) compute(value string) string {
	h := hmac.New(sha256.New, []byte(s.secret))
	h.Write([]byte(value))
	sig := h.Sum(nil)
	return base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString(sig)
}
