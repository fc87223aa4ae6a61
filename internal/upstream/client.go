// Package upstream is the typed client for the ticketing backend's REST API.
// The backend owns all persistent state; this client only reads snapshots and
// submits payments, classifying every failure into the transport/domain/auth
// taxonomy the handlers act on.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const defaultTimeout = 10 * time.Second

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(baseURL, token string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// WithToken returns a client bound to a caller-supplied bearer token, used
// for self-service flows where the browser session carries its own upstream
// credentials instead of the counter account.
func (c *Client) WithToken(token string) *Client {
	clone := *c
	clone.token = token

	return &clone
}

type ctxKey int

const tokenContextKey ctxKey = iota

// ContextWithToken overrides the client's configured bearer token for calls
// made with the returned context. Used by self-service flows whose sessions
// carry their own upstream credentials.
func ContextWithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenContextKey, token)
}

func (c *Client) effectiveToken(ctx context.Context) string {
	if token, ok := ctx.Value(tokenContextKey).(string); ok && token != "" {
		return token
	}

	return c.token
}

// envelope is the backend's conventional response wrapper. success:false is
// a domain error even when the HTTP status is 200.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	token := c.effectiveToken(ctx)

	if err := checkToken(token); err != nil {
		return err
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrSessionExpired
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return &TransportError{Op: method + " " + path, Err: err}
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode >= 500 {
			return &TransportError{Op: method + " " + path, Err: fmt.Errorf("status %d with unreadable body", resp.StatusCode)}
		}
		return fmt.Errorf("failed to decode response envelope: %w", err)
	}

	if !env.Success || resp.StatusCode >= 400 {
		message := env.Message
		if message == "" {
			message = fmt.Sprintf("request rejected with status %d", resp.StatusCode)
		}

		return &DomainError{Message: message, StatusCode: resp.StatusCode}
	}

	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to decode response data: %w", err)
		}
	}

	return nil
}

// checkToken inspects the bearer token's exp claim before spending a round
// trip on a call the backend will reject anyway. Opaque (non-JWT) tokens are
// passed through untouched; the backend stays the authority.
func checkToken(token string) error {
	if token == "" {
		return nil
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}

	if time.Now().After(exp.Time) {
		return ErrSessionExpired
	}

	return nil
}
