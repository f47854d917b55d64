package transport

import (
	"net/http"
	"strings"
)

// Authenticator applies authentication to HTTP requests.
type Authenticator interface {
	Apply(req *http.Request, apiKey string)
}

// NoAuth implements no authentication.
type NoAuth struct{}

// Apply implements the Authenticator interface for NoAuth.
func (a *NoAuth) Apply(_ *http.Request, _ string) {}

// BearerAuth implements Bearer token authentication.
type BearerAuth struct{}

// Apply implements the Authenticator interface for BearerAuth.
func (a *BearerAuth) Apply(req *http.Request, apiKey string) {
	req.Header.Set("Authorization", "Bearer "+apiKey)
}

// HeaderAuth sends the key verbatim in a header. The broker API expects the
// raw key in Authorization, which is the default when Header is empty.
type HeaderAuth struct {
	Header string
}

// Apply implements the Authenticator interface for HeaderAuth.
func (a *HeaderAuth) Apply(req *http.Request, apiKey string) {
	header := a.Header
	if header == "" {
		header = "Authorization"
	}
	req.Header.Set(header, apiKey)
}

// QueryAuth implements API key as query parameter authentication.
type QueryAuth struct {
	Param string
}

// Apply implements the Authenticator interface for QueryAuth.
func (a *QueryAuth) Apply(req *http.Request, apiKey string) {
	if req.URL == nil {
		return
	}
	query := req.URL.Query()
	query.Set(a.Param, apiKey)
	req.URL.RawQuery = query.Encode()
}

// Scheme names accepted by NewAuthenticator.
const (
	SchemeNone   = "none"
	SchemeBearer = "bearer"
	SchemeHeader = "header"
	SchemeQuery  = "query"
)

// NewAuthenticator returns the authenticator for scheme. The param names the
// header for SchemeHeader and the query parameter for SchemeQuery. Unknown
// schemes fall back to header authentication.
func NewAuthenticator(scheme, param string) Authenticator {
	switch strings.ToLower(strings.TrimSpace(scheme)) {
	case SchemeNone:
		return &NoAuth{}
	case SchemeBearer:
		return &BearerAuth{}
	case SchemeQuery:
		if param == "" {
			param = "api_key"
		}
		return &QueryAuth{Param: param}
	default:
		return &HeaderAuth{Header: param}
	}
}
