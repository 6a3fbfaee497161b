package cookie

import (
	"errors"
	"net/http"
	"time"
)

// Manager writes and reads cookies with a fixed set of default attributes.
// It is immutable after construction and safe for concurrent use.
type Manager struct {
	defaults Options
}

// New returns a Manager. Without options the defaults are path "/",
// HttpOnly and SameSite=Lax, the baseline for session cookies.
func New(opts ...Option) *Manager {
	defaults := Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &Manager{defaults: merge(defaults, opts)}
}

// Set writes a cookie with the manager defaults, overridden by opts.
func (m *Manager) Set(w http.ResponseWriter, name, value string, opts ...Option) {
	o := merge(m.defaults, opts)
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     o.Path,
		Domain:   o.Domain,
		MaxAge:   o.MaxAge,
		Secure:   o.Secure,
		HttpOnly: o.HttpOnly,
		SameSite: o.SameSite,
	})
}

// Get returns the named cookie's value. An absent cookie reports
// ErrCookieNotFound; callers treat that as "anonymous request".
func (m *Manager) Get(r *http.Request, name string) (string, error) {
	c, err := r.Cookie(name)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return "", ErrCookieNotFound
		}
		return "", err
	}
	return c.Value, nil
}

// Delete instructs the client to drop the cookie immediately. MaxAge -1 is
// the modern deletion signal; the epoch Expires covers clients that only
// honor the older attribute.
func (m *Manager) Delete(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     m.defaults.Path,
		Domain:   m.defaults.Domain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   m.defaults.Secure,
		HttpOnly: m.defaults.HttpOnly,
		SameSite: m.defaults.SameSite,
	})
}
