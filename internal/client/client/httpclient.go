package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/embauco/internal/logging"
)

const (
	RequestIDHeader     = "X-Request-ID"
	AuthorizationHeader = "Authorization"

	bearerPrefix = "Bearer "
	maxBodyBytes = 32 << 20
)

// Config holds the gateway settings.
type Config struct {
	// BaseURL is prefixed to every path, e.g. http://127.0.0.1:8001.
	BaseURL string
	// Timeout bounds a single call. Zero means no limit beyond ctx.
	Timeout   time.Duration
	UserAgent string
}

// Credentials is the gateway's view of the session.
type Credentials interface {
	// Token returns the current bearer credential or "".
	Token() string
	// Expire ends the session if it still holds token.
	Expire(ctx context.Context, token string) error
}

// CallOptions configures a single call.
type CallOptions struct {
	// Method defaults to GET.
	Method string
	// Body is sent raw when it is an io.Reader and as JSON otherwise.
	Body    any
	Headers map[string]string
	Query   url.Values
	// OmitAuth sends the request without the session credential.
	OmitAuth bool
}

// Caller is implemented by *HTTPClient; services depend on it.
type Caller interface {
	Call(ctx context.Context, path string, opts CallOptions) (json.RawMessage, error)
}

type HTTPClient struct {
	cfg        Config
	creds      Credentials
	httpClient *http.Client
	log        logging.Logger
}

var _ Caller = (*HTTPClient)(nil)

// NewHTTPClient creates the gateway. If httpClient is nil,
// http.DefaultClient is used. creds may be nil for unauthenticated use.
func NewHTTPClient(cfg Config, creds Credentials, httpClient *http.Client, logger logging.Logger) *HTTPClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPClient{
		cfg:        cfg,
		creds:      creds,
		httpClient: httpClient,
		log:        logger.With("component", "gateway"),
	}
}

// Call performs one request and returns the raw JSON payload of a 2xx
// response. Any other outcome is an *Error.
func (c *HTTPClient) Call(ctx context.Context, path string, opts CallOptions) (json.RawMessage, error) {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	body, contentType, err := encodeBody(opts.Body)
	if err != nil {
		return nil, &Error{Kind: KindValidation, Path: path, Message: "request body cannot be encoded", Cause: err}
	}

	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, opts.Query), body)
	if err != nil {
		return nil, &Error{Kind: KindValidation, Path: path, Message: "invalid request", Cause: err}
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if !opts.OmitAuth && c.creds != nil {
		if token := c.creds.Token(); token != "" {
			req.Header.Set(AuthorizationHeader, bearerPrefix+token)
		}
	}
	for k, v := range opts.Headers {
		if http.CanonicalHeaderKey(k) == AuthorizationHeader && v == "" {
			continue
		}
		req.Header.Set(k, v)
	}
	sent := bearerToken(req.Header.Get(AuthorizationHeader))

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug(ctx, "request failed", "method", method, "path", path, "request_id", requestID, "error", err)
		return nil, &Error{Kind: KindNetwork, Path: path, Message: unreachableMessage, Cause: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Status: resp.StatusCode, Path: path, Message: unreachableMessage, Cause: err}
	}

	c.log.Debug(ctx, "request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start),
	)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		payload = bytes.TrimSpace(payload)
		if len(payload) == 0 {
			return json.RawMessage("null"), nil
		}
		if !json.Valid(payload) {
			return nil, &Error{Kind: KindAPI, Status: resp.StatusCode, Path: path, Message: "malformed response"}
		}
		return json.RawMessage(payload), nil
	}

	apiErr := &Error{Kind: KindAPI, Status: resp.StatusCode, Path: path, Message: errorMessage(payload)}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		apiErr.Kind = KindAuthentication
		if c.creds != nil && sent != "" {
			c.log.Warn(ctx, "credential rejected, expiring session", "path", path, "status", resp.StatusCode)
			if err := c.creds.Expire(context.WithoutCancel(ctx), sent); err != nil {
				c.log.Error(ctx, "failed to expire session", "error", err)
			}
		}
	}

	return nil, apiErr
}

// Ping checks that the backend is reachable.
func (c *HTTPClient) Ping(ctx context.Context) error {
	_, err := c.Call(ctx, "/api/health", CallOptions{OmitAuth: true})
	return err
}

func (c *HTTPClient) endpoint(path string, query url.Values) string {
	u := strings.TrimRight(c.cfg.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		sep := "?"
		if strings.Contains(u, "?") {
			sep = "&"
		}
		u += sep + query.Encode()
	}
	return u
}

func encodeBody(body any) (io.Reader, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, "", nil
	case io.Reader:
		return b, "", nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(data), "application/json", nil
	}
}

// BearerHeader formats token as an Authorization header value.
func BearerHeader(token string) string {
	return bearerPrefix + token
}

func bearerToken(header string) string {
	if len(header) > len(bearerPrefix) && strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return header[len(bearerPrefix):]
	}
	return ""
}

// errorMessage extracts a human-readable message from an error payload.
// Understood shapes: {"detail": "..."}, {"detail": [{"msg": "..."}]},
// {"message": "..."} and {"error": "..."}.
func errorMessage(payload []byte) string {
	var p struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
		Error   string          `json:"error"`
	}
	if err := json.Unmarshal(payload, &p); err != nil {
		return FallbackMessage
	}

	if len(p.Detail) > 0 {
		var s string
		if err := json.Unmarshal(p.Detail, &s); err == nil && s != "" {
			return s
		}
		var items []struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(p.Detail, &items); err == nil {
			msgs := make([]string, 0, len(items))
			for _, it := range items {
				if it.Msg != "" {
					msgs = append(msgs, it.Msg)
				}
			}
			if len(msgs) > 0 {
				return strings.Join(msgs, "; ")
			}
		}
	}
	if p.Message != "" {
		return p.Message
	}
	if p.Error != "" {
		return p.Error
	}
	return FallbackMessage
}
