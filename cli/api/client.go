// Package api is the Class Helper REST binding: one resty client shared by
// every entity family, plus the typed resources the list screens drive.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/MLinh204/Class-Helper-Admin/cli/helpers"
	"github.com/MLinh204/Class-Helper-Admin/pkg/config"
	"github.com/MLinh204/Class-Helper-Admin/pkg/logger"
	"github.com/MLinh204/Class-Helper-Admin/pkg/version"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

const (
	headerRequestID = "X-Request-ID"
	maxRetryWait    = 5
)

// TokenStore is where the session token lives between runs.
type TokenStore interface {
	Token() string
	Clear(ctx context.Context) error
}

// Client sends authenticated requests to the API. The bearer token is read
// from the store on every request, so a login in another process is picked
// up without restarting.
type Client struct {
	http     *resty.Client
	store    TokenStore
	override string
	timeout  time.Duration
}

// NewClient builds a client from the resolved configuration. A non-empty
// api.token takes precedence over the stored session.
func NewClient(cfg *config.Config, store TokenStore) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if cfg.API.BaseURL == "" {
		return nil, helpers.NewCliError("CONFIG_ERROR",
			"API URL is not configured",
			"set api.base_url, CLASSHELPER_API_URL or --api-url")
	}
	c := &Client{
		store:    store,
		override: cfg.API.Token.Value(),
		timeout:  cfg.API.Timeout,
	}
	c.http = resty.New().
		SetBaseURL(strings.TrimRight(cfg.API.BaseURL, "/")).
		SetTimeout(cfg.API.Timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", version.UserAgent()).
		SetRetryCount(cfg.API.RetryCount).
		SetRetryWaitTime(cfg.API.RetryWait).
		SetRetryMaxWaitTime(maxRetryWait * cfg.API.RetryWait).
		AddRetryCondition(retryCondition).
		OnBeforeRequest(c.authorize)
	return c, nil
}

// retryCondition retries network failures and transient server statuses of
// reads only. A write that timed out at a gateway may already be committed,
// so sending it again could create a duplicate record.
func retryCondition(r *resty.Response, err error) bool {
	if r == nil || r.Request == nil || !idempotent(r.Request.Method) {
		return false
	}
	if err != nil {
		return !errors.Is(err, context.Canceled)
	}
	code := r.StatusCode()
	return code >= 500 || code == http.StatusTooManyRequests || code == http.StatusRequestTimeout
}

func idempotent(method string) bool {
	return method == http.MethodGet || method == http.MethodHead
}

func (c *Client) authorize(_ *resty.Client, req *resty.Request) error {
	if token := c.token(); token != "" {
		req.SetAuthToken(token)
	}
	if req.Header.Get(headerRequestID) == "" {
		req.SetHeader(headerRequestID, uuid.NewString())
	}
	return nil
}

func (c *Client) token() string {
	if c.override != "" {
		return c.override
	}
	if c.store == nil {
		return ""
	}
	return c.store.Token()
}

// HasToken reports whether requests will carry a bearer token.
func (c *Client) HasToken() bool {
	return c.token() != ""
}

// request describes one API call.
type request struct {
	op     string
	method string
	path   string
	query  map[string]string
	body   any
}

// do executes req and decodes a successful body into result when result is
// non-nil.
func (c *Client) do(ctx context.Context, req request, result any) error {
	log := logger.FromContext(ctx)
	r := c.http.R().SetContext(ctx)
	if len(req.query) > 0 {
		r.SetQueryParams(req.query)
	}
	if req.body != nil {
		r.SetHeader("Content-Type", "application/json").SetBody(req.body)
	}
	resp, err := r.Execute(req.method, req.path)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return &TransportError{Op: req.op, Err: ctxErr}
		}
		if isTimeout(err) {
			return &TransportError{Op: req.op, Err: helpers.NewTimeoutError(req.op, c.timeout)}
		}
		return &TransportError{Op: req.op, Err: helpers.NewNetworkError(req.op, err)}
	}
	log.Debug("api request",
		"op", req.op,
		"method", req.method,
		"path", req.path,
		"status", resp.StatusCode(),
		"request_id", resp.Request.Header.Get(headerRequestID),
		"duration", resp.Time(),
	)
	if resp.StatusCode() == http.StatusUnauthorized {
		return c.unauthorized(ctx, req.op, resp)
	}
	if resp.IsError() {
		return &TransportError{
			Op:         req.op,
			StatusCode: resp.StatusCode(),
			Message:    errorMessage(resp.Body()),
		}
	}
	if result == nil {
		return nil
	}
	if err := decode(resp.Body(), result); err != nil {
		return &TransportError{Op: req.op, StatusCode: resp.StatusCode(), Message: "malformed response", Err: err}
	}
	return nil
}

// isTimeout reports whether the HTTP client gave up waiting for the server.
func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// unauthorized logs the session out. The stored token is cleared even when
// the rejected token came from an override, since the server no longer
// accepts this user.
func (c *Client) unauthorized(ctx context.Context, op string, resp *resty.Response) error {
	log := logger.FromContext(ctx)
	if c.store != nil {
		if err := c.store.Clear(ctx); err != nil {
			log.Warn("failed to clear stored token", "error", err)
		} else {
			log.Info("session expired, stored token cleared")
		}
	}
	reason := errorMessage(resp.Body())
	if reason == "" {
		reason = "session expired, run `classhelper auth login`"
	}
	return &TransportError{
		Op:         op,
		StatusCode: http.StatusUnauthorized,
		Message:    reason,
		Err:        helpers.NewAuthError(reason),
	}
}

// decode accepts a bare payload or one wrapped in a {"data": ...} envelope.
func decode(body []byte, result any) error {
	if !gjson.ValidBytes(body) {
		return fmt.Errorf("response is not valid JSON")
	}
	parsed := gjson.ParseBytes(body)
	if parsed.IsObject() {
		if data := parsed.Get("data"); data.Exists() && (data.IsArray() || data.IsObject()) {
			body = []byte(data.Raw)
		}
	}
	return json.Unmarshal(body, result)
}
