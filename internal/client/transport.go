package client

import "net/http"

// TokenSource supplies the current bearer token; empty means anonymous.
type TokenSource interface {
	Token() string
}

// bearerTransport sets "Authorization: Bearer <token>" on each request if
// and only if the source holds a token at send time.
type bearerTransport struct {
	base   http.RoundTripper
	tokens TokenSource
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token := t.tokens.Token()
	if token == "" {
		return t.base.RoundTrip(req)
	}
	// RoundTrippers must not modify the caller's request.
	r := req.Clone(req.Context())
	r.Header.Set("Authorization", "Bearer "+token)
	return t.base.RoundTrip(r)
}
