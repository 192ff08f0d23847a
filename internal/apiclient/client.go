package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/turnosuite/turnos-panel/internal/notify"
)

// DefaultPort is where the turnos backend listens, local or LAN.
const DefaultPort = "8080"

const requestTimeout = 15 * time.Second

// ResolveBaseURL picks the backend base URL for a given panel host. An
// explicit override always wins; a loopback host targets the fixed local
// port; any other host assumes the backend runs next to the panel.
func ResolveBaseURL(override, hostname string) string {
	if override != "" {
		return override
	}
	if hostname == "" || hostname == "localhost" || hostname == "127.0.0.1" {
		return fmt.Sprintf("http://127.0.0.1:%s/api", DefaultPort)
	}
	return fmt.Sprintf("http://%s:%s/api", hostname, DefaultPort)
}

// Client talks to the turnos backend. Every failed call is logged and
// surfaced as a user-visible notification before being returned to the
// caller; there is no retry logic anywhere.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
	notify  *notify.Center
}

func New(baseURL string, center *notify.Center, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout:   requestTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		log:    logger.With().Str("component", "apiclient").Logger(),
		notify: center,
	}
}

// BaseURL returns the resolved backend base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// backendError is the error envelope the backend uses on failures.
type backendError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// request performs one backend call and returns the raw JSON body.
func (c *Client) request(ctx context.Context, method, endpoint string, body any) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.connectionFailed(endpoint, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.connectionFailed(endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.requestFailed(endpoint, resp.StatusCode, raw)
	}

	return raw, nil
}

// doJSON runs a request and decodes the response into out (when non-nil).
func (c *Client) doJSON(ctx context.Context, method, endpoint string, body, out any) error {
	raw, err := c.request(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		c.log.Error().Err(err).Str("endpoint", endpoint).Msg("respuesta ilegible")
		return err
	}
	return nil
}

// download fetches a binary resource (QR images) from the backend.
func (c *Client) download(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.connectionFailed(endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		return nil, c.requestFailed(endpoint, resp.StatusCode, raw)
	}

	return io.ReadAll(resp.Body)
}

// uploadMultipart sends a file under the given form field.
func (c *Client) uploadMultipart(ctx context.Context, endpoint, field, filename string, file io.Reader, out any) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, file); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return c.connectionFailed(endpoint, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.connectionFailed(endpoint, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.requestFailed(endpoint, resp.StatusCode, raw)
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(raw, out)
}

func (c *Client) connectionFailed(endpoint string, err error) error {
	cerr := &ConnectionError{Endpoint: endpoint, Err: err}
	c.log.Error().Err(err).Str("endpoint", endpoint).Msg("fallo de conexión")
	if c.notify != nil {
		c.notify.Error("Error de conexión con el servidor")
	}
	return cerr
}

func (c *Client) requestFailed(endpoint string, status int, raw []byte) error {
	var envelope backendError
	_ = json.Unmarshal(raw, &envelope)

	msg := envelope.Error
	if msg == "" {
		msg = envelope.Message
	}

	rerr := &RequestError{Endpoint: endpoint, Status: status, Message: msg}
	c.log.Warn().Int("status", status).Str("endpoint", endpoint).Str("detalle", msg).
		Msg("respuesta de error del backend")
	if c.notify != nil && status != http.StatusNotFound {
		c.notify.Error(fmt.Sprintf("El servidor respondió con un error (HTTP %d)", status))
	}
	return rerr
}
