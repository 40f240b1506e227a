package server

import (
	"crypto/subtle"
	"net/url"

	"github.com/teemow/sheetexport/internal/instrumentation"
)

// PasswordGate checks the shared secret presented by export requests.
type PasswordGate struct {
	secret []byte
}

// NewPasswordGate creates a gate for secret. An empty secret rejects every
// request.
func NewPasswordGate(secret string) *PasswordGate {
	return &PasswordGate{secret: []byte(secret)}
}

// Check reports whether query carries the secret. When it does not, reason is
// instrumentation.AuthReasonMissing or instrumentation.AuthReasonInvalid.
func (g *PasswordGate) Check(query url.Values) (reason string, ok bool) {
	given := query.Get(ParamPassword)
	if given == "" {
		return instrumentation.AuthReasonMissing, false
	}
	if len(g.secret) == 0 {
		return instrumentation.AuthReasonInvalid, false
	}
	if subtle.ConstantTimeCompare([]byte(given), g.secret) != 1 {
		return instrumentation.AuthReasonInvalid, false
	}
	return "", true
}
