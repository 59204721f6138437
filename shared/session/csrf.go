package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"

	"github.com/dracory/weequery/shared/constants"
)

// CSRFToken derives the token the page must echo back for this session.
func (s *Session) CSRFToken(secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(s.ID))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}

// VerifyCSRF checks the token from header or form against the session.
func (s *Session) VerifyCSRF(r *http.Request, secret string) bool {
	token := r.Header.Get(constants.CSRFHeaderKey)
	if token == "" {
		token = r.FormValue(constants.CSRFFormKey)
	}
	if token == "" {
		return false
	}
	return hmac.Equal([]byte(token), []byte(s.CSRFToken(secret)))
}
