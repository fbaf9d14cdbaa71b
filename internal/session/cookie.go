package session

import (
	"net/http"
)

const (
	CookieName = "session_id"
	QueryParam = "sessionId"
)

// CookieOptions defines how session cookies are issued.
type CookieOptions struct {
	Path     string
	Secure   bool
	SameSite http.SameSite
	Domain   string
}

// normalize applies safe defaults without breaking callers
func (o CookieOptions) normalize() CookieOptions {
	if o.Path == "" {
		o.Path = "/"
	}
	if o.SameSite == 0 {
		o.SameSite = http.SameSiteLaxMode
	}
	// browsers reject SameSite=None without Secure
	if o.SameSite == http.SameSiteNoneMode {
		o.Secure = true
	}
	return o
}

// SetCookie issues the session cookie to the client. The cookie has no
// expiry of its own; the session lives as long as the store keeps it.
func SetCookie(w http.ResponseWriter, sessionID string, opts CookieOptions) {
	opts = opts.normalize()

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    sessionID,
		Path:     opts.Path,
		Domain:   opts.Domain,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: opts.SameSite,
	})
}

// ClearCookie removes the session cookie from the client.
func ClearCookie(w http.ResponseWriter, opts CookieOptions) {
	opts = opts.normalize()

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     opts.Path,
		Domain:   opts.Domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: opts.SameSite,
	})
}

// IDFromRequest returns the session id carried by r. The query parameter
// wins over the cookie so that redirects from the OAuth callback work even
// when third-party cookies are blocked.
func IDFromRequest(r *http.Request) string {
	if id := r.URL.Query().Get(QueryParam); id != "" {
		return id
	}
	if c, err := r.Cookie(CookieName); err == nil {
		return c.Value
	}
	return ""
}
