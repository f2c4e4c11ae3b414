// Package api is the remote data gateway. It issues authenticated requests
// against the rental-management API, normalizes error and empty responses,
// and validates every response body against a JSON schema before decoding.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/mkante/gestloc/internal/session"
)

// ErrSessionExpired is returned when no token is stored or the server
// answered 401. The persisted token is already cleared when the caller
// sees this; the UI routes to the login view.
var ErrSessionExpired = errors.New("session expirée, veuillez vous reconnecter")

// Error is a non-2xx API response. Message is the server-provided message
// when the body carried one.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}

	return fmt.Sprintf("Erreur %d", e.Status)
}

// Client talks to the remote API. All calls are single-attempt; resilience
// is a caller concern.
type Client struct {
	baseURL string
	http    *http.Client
	session *session.Session
}

func New(baseURL string, timeout time.Duration, sess *session.Session) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		session: sess,
	}
}

// request performs an authenticated JSON call and returns the raw body.
// A 204 yields an empty JSON object rather than a decode attempt.
func (c *Client) request(ctx context.Context, method, path string, body any, header http.Header) (json.RawMessage, error) {
	token := c.session.Token()
	if token == "" {
		return nil, ErrSessionExpired
	}

	var reader io.Reader

	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}

		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

// requestAnon is request without the bearer token, for the login endpoint.
func (c *Client) requestAnon(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	return c.doAnon(req)
}

// requestMultipart sends multipart form data (profile update with avatar).
// It deliberately omits the JSON content type.
func (c *Client) requestMultipart(ctx context.Context, method, path string, fields map[string]string, fileName string, file []byte) (json.RawMessage, error) {
	token := c.session.Token()
	if token == "" {
		return nil, ErrSessionExpired
	}

	var buf bytes.Buffer

	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("writing form field %s: %w", k, err)
		}
	}

	if len(file) > 0 {
		fw, err := w.CreateFormFile("avatar", fileName)
		if err != nil {
			return nil, fmt.Errorf("creating form file: %w", err)
		}

		if _, err := fw.Write(file); err != nil {
			return nil, fmt.Errorf("writing form file: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("closing multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", w.FormDataContentType())

	return c.do(req)
}

func (c *Client) do(req *http.Request) (json.RawMessage, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		// Invalidate the stored session; the user must log in again.
		_ = c.session.Clear()
		return nil, ErrSessionExpired
	}

	return readBody(resp)
}

func (c *Client) doAnon(req *http.Request) (json.RawMessage, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	return readBody(resp)
}

func readBody(resp *http.Response) (json.RawMessage, error) {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{Status: resp.StatusCode}

		var body struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
			apiErr.Message = body.Message
		}

		return nil, apiErr
	}

	if resp.StatusCode == http.StatusNoContent {
		return json.RawMessage(`{}`), nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return json.RawMessage(`{}`), nil
	}

	return data, nil
}
