package client

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// SessionCookie is the cookie the endpoint hands out from /xmlapi/session/begin.
const SessionCookie = "SessionId"

type XAPIClient struct {
	HTTP   *resty.Client
	Config ClientConfig

	session string
	owned   bool // session was opened by Login rather than restored
}

type ClientConfig struct {
	BaseURL  string
	Username string
	Password string
	Insecure bool          // Endpoints ship with self-signed certificates
	Timeout  time.Duration // Per request; zero means no timeout
}

func New(cfg ClientConfig) *XAPIClient {
	r := resty.New()
	r.SetBaseURL(cfg.BaseURL)
	r.SetHeader("Accept", "text/xml")

	if cfg.Insecure {
		r.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	if cfg.Timeout > 0 {
		r.SetTimeout(cfg.Timeout)
	}
	// Basic auth stays configured so commands still work when the
	// endpoint has session auth disabled.
	if cfg.Username != "" {
		r.SetBasicAuth(cfg.Username, cfg.Password)
	}

	return &XAPIClient{
		HTTP:   r,
		Config: cfg,
	}
}

// Login opens an xAPI HTTP session, attaches the session cookie to every
// later request and returns the session ID for persistence.
func (c *XAPIClient) Login() (string, error) {
	resp, err := c.HTTP.R().
		SetBasicAuth(c.Config.Username, c.Config.Password).
		Post("/xmlapi/session/begin")
	if err != nil {
		return "", err
	}

	if resp.IsError() {
		return "", &HTTPError{Op: "session begin", StatusCode: resp.StatusCode(), Body: resp.String()}
	}

	var sessionID string
	for _, ck := range resp.Cookies() {
		if ck.Name == SessionCookie {
			sessionID = ck.Value
		}
	}
	if sessionID == "" {
		return "", errors.New("login successful but no session cookie returned")
	}

	c.UseSession(sessionID)
	c.owned = true
	return sessionID, nil
}

// UseSession injects a previously saved session into all future requests.
func (c *XAPIClient) UseSession(sessionID string) {
	c.session = sessionID
	c.owned = false
	c.HTTP.SetCookie(&http.Cookie{Name: SessionCookie, Value: sessionID})
}

// Session returns the active session ID, if any.
func (c *XAPIClient) Session() string {
	return c.session
}

// OwnsSession reports whether the active session came from Login on this
// client. A session restored with UseSession belongs to whoever saved it.
func (c *XAPIClient) OwnsSession() bool {
	return c.session != "" && c.owned
}

// Logout closes the xAPI session. It is a no-op when no session is in use.
func (c *XAPIClient) Logout(ctx context.Context) error {
	if c.session == "" {
		return nil
	}
	resp, err := c.HTTP.R().SetContext(ctx).Post("/xmlapi/session/end")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("failed to end session: %s", resp.String())
	}
	c.session = ""
	c.owned = false
	c.HTTP.Cookies = nil
	return nil
}
