// Package security controls TLS verification for outbound HTTP.
//
// Verification is on unless the user explicitly opts out via
// TRACKLET_INSECURE_DISABLE_SSL=true. The env var name is deliberately
// alarming; there is no config-file equivalent.
package security

import (
	"crypto/tls"
	"net/http"
	"os"
	"strings"
)

// DisableSSLEnv is the opt-out switch for TLS certificate verification.
const DisableSSLEnv = "TRACKLET_INSECURE_DISABLE_SSL"

// SSLDisabled reports whether certificate verification has been turned
// off. Only the literal value "true" (case-insensitive) disables it;
// unset, empty, and any other value leave verification on.
func SSLDisabled() bool {
	return strings.EqualFold(os.Getenv(DisableSSLEnv), "true")
}

// TLSConfig returns the client TLS configuration honoring the opt-out.
func TLSConfig() *tls.Config {
	return &tls.Config{InsecureSkipVerify: SSLDisabled()}
}

// HTTPClient returns an http.Client whose transport honors the opt-out.
// When verification is enabled the default transport is used unchanged.
func HTTPClient() *http.Client {
	if !SSLDisabled() {
		return &http.Client{}
	}
	return &http.Client{
		Transport: &http.Transport{TLSClientConfig: TLSConfig()},
	}
}
