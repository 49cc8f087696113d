package incognito

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"golang.org/x/net/publicsuffix"
)

// session is one private-browsing window: its own cookie jar and its own
// connection pool. Nothing in it outlives a single Generate call.
type session struct {
	client    *http.Client
	transport *http.Transport
	jar       *cookiejar.Jar
	landing   []*http.Cookie
}

func newSession(timeout time.Duration) (*session, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}

	tr := http.DefaultTransport.(*http.Transport).Clone()

	return &session{
		client: &http.Client{
			Jar:       jar,
			Transport: tr,
			Timeout:   timeout,
		},
		transport: tr,
		jar:       jar,
	}, nil
}

// remember keeps the cookies set by a response. The jar only hands back
// cookies whose Path matches the URL asked for, so a cookie scoped to a
// deeper path would otherwise be invisible.
func (s *session) remember(cookies []*http.Cookie) {
	s.landing = append(s.landing, cookies...)
}

// cookies returns every cookie the session holds for u, keyed by name. Jar
// entries win over remembered ones with the same name.
func (s *session) cookies(u *url.URL) map[string]string {
	jarCookies := s.jar.Cookies(u)
	out := make(map[string]string, len(s.landing)+len(jarCookies))
	for _, c := range s.landing {
		if c.MaxAge < 0 || c.Value == "" {
			continue
		}
		out[c.Name] = c.Value
	}
	for _, c := range jarCookies {
		out[c.Name] = c.Value
	}
	return out
}

// Close drops every pooled connection so no state survives the session.
func (s *session) Close() {
	s.transport.CloseIdleConnections()
}
