package gateway

import "net/http"

// BaseHeaders is the JSON header set without credentials: content negotiation
// plus the tenant scoping header every MedSyn request carries.
func (c *Client) BaseHeaders() http.Header {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	h.Set("Accept", "application/json")
	h.Set("hospital-id", c.hospitalID)
	return h
}

// AuthHeaders is the JSON header set with the stored bearer token attached.
// No Authorization entry is produced when no token is stored.
func (c *Client) AuthHeaders() http.Header {
	h := c.BaseHeaders()
	if token := c.tokens.Token(); token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

// MultipartHeaders is the auth header set minus Content-Type, so the
// transport can set the multipart boundary itself.
func (c *Client) MultipartHeaders() http.Header {
	h := c.AuthHeaders()
	h.Del("Content-Type")
	return h
}
