// Package jmap implements a JMAP (RFC 8620/8621) mail client for
// self-hosted servers that authenticate with HTTP Basic auth, such as
// Stalwart. The client is caller-owned: construct one per account with
// NewClient, establish a session with Authenticate, and release it with
// Logout. It keeps no cache of mailboxes or emails; callers own all
// result lists.
package jmap

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/klappstuhl/stalmail/internal/transport"
)

const (
	// SessionPath is the well-known path of the JMAP session resource.
	SessionPath = "/jmap/session"

	// DefaultHTTPTimeout bounds every request when no custom HTTP
	// client is supplied.
	DefaultHTTPTimeout = 30 * time.Second

	urnCore       = "urn:ietf:params:jmap:core"
	urnMail       = "urn:ietf:params:jmap:mail"
	urnSubmission = "urn:ietf:params:jmap:submission"
	urnWebSocket  = "urn:ietf:params:jmap:websocket"
)

// Session describes the server as discovered at Authenticate time. The
// endpoint URLs have already been rewritten to the origin the session
// request actually landed on, so they are safe to use behind reverse
// proxies that advertise internal hostnames.
type Session struct {
	APIURL       string             `json:"apiUrl"`
	UploadURL    string             `json:"uploadUrl"`
	DownloadURL  string             `json:"downloadUrl"`
	WebSocketURL string             `json:"webSocketUrl,omitempty"`
	AccountID    string             `json:"accountId"`
	Accounts     map[string]Account `json:"accounts"`
	Capabilities map[string]any     `json:"capabilities"`
}

// Account is the per-account metadata from the session resource.
type Account struct {
	Name       string `json:"name"`
	IsPersonal bool   `json:"isPersonal"`
	IsReadOnly bool   `json:"isReadOnly"`
}

// Client talks JMAP to a single server with a single set of credentials.
// All methods are safe for concurrent use; in-flight requests are
// independent and unordered.
type Client struct {
	http *http.Client

	mu      sync.RWMutex
	session *Session
	creds   string // base64(user:pass), empty when logged out

	pollMu   sync.Mutex
	pollStop chan struct{}

	listenerMu sync.Mutex
	listeners  map[string]func(ChangeEvent)
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout on the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// NewClient creates an unauthenticated client. Call Authenticate before
// any other operation.
func NewClient(opts ...Option) *Client {
	c := &Client{
		http:      &http.Client{Timeout: DefaultHTTPTimeout},
		listeners: make(map[string]func(ChangeEvent)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// sessionDoc is the wire shape of the session resource.
type sessionDoc struct {
	APIURL       string             `json:"apiUrl"`
	UploadURL    string             `json:"uploadUrl"`
	DownloadURL  string             `json:"downloadUrl"`
	Accounts     map[string]Account `json:"accounts"`
	Capabilities map[string]any     `json:"capabilities"`
}

// Authenticate fetches the session resource with Basic auth and replaces
// any previous session wholesale. Any non-2xx status is reported as an
// *AuthError; there is no refresh mechanism, callers re-authenticate to
// renew.
func (c *Client) Authenticate(ctx context.Context, username, password, serverURL string) (*Session, error) {
	base := strings.TrimRight(serverURL, "/")
	if base == "" {
		return nil, fmt.Errorf("server URL is required")
	}

	creds := base64.StdEncoding.EncodeToString([]byte(username + ":" + password))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+SessionPath, nil)
	if err != nil {
		return nil, fmt.Errorf("creating session request: %w", err)
	}
	req.Header.Set("Authorization", "Basic "+creds)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching session: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body) //nolint:errcheck // best-effort read for error message
		return nil, &AuthError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}

	var doc sessionDoc
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding session response: %w", err)
	}

	// The server may advertise internal endpoint origins; rewrite them to
	// the origin the request actually resolved to, accounting for
	// redirects.
	finalURL := resp.Request.URL
	origin := finalURL.Scheme + "://" + finalURL.Host
	wsOrigin := "ws://" + finalURL.Host
	if finalURL.Scheme == "https" {
		wsOrigin = "wss://" + finalURL.Host
	}

	session := &Session{
		APIURL:       rewriteOrigin(doc.APIURL, origin),
		UploadURL:    rewriteOrigin(doc.UploadURL, origin),
		DownloadURL:  rewriteOrigin(doc.DownloadURL, origin),
		Accounts:     doc.Accounts,
		Capabilities: doc.Capabilities,
	}

	// The WebSocket endpoint is discovered but never dialed: Basic auth
	// cannot be attached to a browser-style WebSocket handshake, so change
	// detection stays on polling.
	if ws, ok := doc.Capabilities[urnWebSocket].(map[string]any); ok {
		session.WebSocketURL = rewriteOrigin(getString(ws, "url"), wsOrigin)
	}

	ids := make([]string, 0, len(doc.Accounts))
	for id := range doc.Accounts {
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, ErrNoAccounts
	}
	sort.Strings(ids)
	session.AccountID = ids[0]

	c.mu.Lock()
	c.session = session
	c.creds = creds
	c.mu.Unlock()

	return session, nil
}

// Logout stops any active poller and clears session state. It is
// idempotent and never fails.
func (c *Client) Logout() {
	c.StopPolling()

	c.mu.Lock()
	c.session = nil
	c.creds = ""
	c.mu.Unlock()
}

// Session returns the current session, or nil when not authenticated.
func (c *Client) Session() *Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

// currentSession returns the session and credentials, or
// ErrNotAuthenticated when Authenticate has not succeeded yet.
func (c *Client) currentSession() (*Session, string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil || c.creds == "" {
		return nil, "", ErrNotAuthenticated
	}
	return c.session, c.creds, nil
}

// Request is the fixed JMAP request envelope.
type Request struct {
	Using       []string     `json:"using"`
	MethodCalls []MethodCall `json:"methodCalls"`
}

// MethodCall is one [name, arguments, callId] tuple.
type MethodCall [3]any

// Response is the JMAP response envelope.
type Response struct {
	MethodResponses []MethodResponse `json:"methodResponses"`
	SessionState    string           `json:"sessionState"`
}

// MethodResponse is one [name, result, callId] tuple.
type MethodResponse [3]any

// Name returns the method name of the response tuple.
func (mr MethodResponse) Name() string {
	if len(mr) > 0 {
		if s, ok := mr[0].(string); ok {
			return s
		}
	}
	return ""
}

// CallID returns the caller-supplied tag of the response tuple.
func (mr MethodResponse) CallID() string {
	if len(mr) > 2 {
		if s, ok := mr[2].(string); ok {
			return s
		}
	}
	return ""
}

// MakeRequest posts the method calls as a single batched envelope
// declaring the core, mail and submission capabilities, and returns the
// raw methodResponses array. Per-method errors are left to the caller;
// only HTTP-level failures are surfaced here, as *transport.HTTPError.
// Batched calls may reference each other's results with a resultOf/path
// back-reference; ordering and tags are preserved exactly as given.
func (c *Client) MakeRequest(ctx context.Context, calls []MethodCall) ([]MethodResponse, error) {
	session, creds, err := c.currentSession()
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(Request{
		Using:       []string{urnCore, urnMail, urnSubmission},
		MethodCalls: calls,
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, session.APIURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Basic "+creds)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body) //nolint:errcheck // best-effort read for error message
		return nil, transport.NewHTTPError("JMAP request", resp, respBody)
	}

	var response Response
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return response.MethodResponses, nil
}

// findResponse returns the first response whose method name matches.
// Responses are matched by name, not position, because a batch may
// reorder or collapse calls that share a name.
func findResponse(responses []MethodResponse, name string) (MethodResponse, bool) {
	for _, mr := range responses {
		if mr.Name() == name {
			return mr, true
		}
	}
	return MethodResponse{}, false
}

// rewriteOrigin swaps the scheme://host prefix of raw for origin,
// leaving the path (including RFC 6570 template placeholders) untouched.
func rewriteOrigin(raw, origin string) string {
	if raw == "" {
		return ""
	}
	i := strings.Index(raw, "://")
	if i < 0 {
		return raw
	}
	rest := raw[i+3:]
	slash := strings.Index(rest, "/")
	if slash < 0 {
		return origin
	}
	return origin + rest[slash:]
}
