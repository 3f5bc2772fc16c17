package controllers

import (
	"net"
	"net/http"
	"strings"

	"github.com/afigueroa/mailprov-backend/api/validators"
)

// clientIP resolves the caller address for audit rows, preferring the
// first forwarded hop when the proxy header is present and parseable.
func clientIP(r *http.Request) *string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first := strings.TrimSpace(strings.SplitN(forwarded, ",", 2)[0])
		if validators.IsIP(first) {
			return &first
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if !validators.IsIP(host) {
		return nil
	}
	return &host
}
