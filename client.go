package shopkit

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/goliatone/go-errors"
)

// Response is the normalized success shape for an authorized fetch.
type Response struct {
	Data   json.RawMessage
	Status int
}

// AuthorizedClient executes FetchRequests with the current bearer token
// attached, uniformly for every verb. It classifies failures into the shared
// taxonomy and performs no retries; retry policy belongs to the caller, and
// only for idempotent reads.
type AuthorizedClient struct {
	baseURL   string
	transport Doer
	tokens    TokenProvider
	logger    Logger
}

func NewAuthorizedClient(baseURL string, tokens TokenProvider) *AuthorizedClient {
	return &AuthorizedClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		transport: http.DefaultClient,
		tokens:    tokens,
		logger:    defLogger{},
	}
}

func (c *AuthorizedClient) WithTransport(transport Doer) *AuthorizedClient {
	if transport != nil {
		c.transport = transport
	}
	return c
}

func (c *AuthorizedClient) WithLogger(logger Logger) *AuthorizedClient {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// Execute runs one FetchRequest. When the request requires auth and no token
// is available it fails fast without touching the transport. The bearer token
// only ever travels in the Authorization header, never in the query string.
func (c *AuthorizedClient) Execute(ctx context.Context, req FetchRequest) (*Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	token, hasToken := "", false
	if c.tokens != nil {
		token, hasToken = c.tokens.CurrentToken()
	}

	if req.RequiresAuth && !hasToken {
		c.logger.Debug("authorized fetch rejected before transport", "path", req.Path)
		return nil, ErrNoToken
	}

	httpReq, err := c.buildRequest(ctx, req, token, hasToken)
	if err != nil {
		return nil, err
	}

	res, err := c.transport.Do(httpReq)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil || errors.Is(err, context.Canceled) {
			return nil, NewCancelledError(err)
		}
		c.logger.Warn("transport failure", "method", req.Method, "path", req.Path, "error", err)
		return nil, NewNetworkError(err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		if ctx.Err() != nil {
			return nil, NewCancelledError(err)
		}
		return nil, NewNetworkError(err)
	}

	switch {
	case res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden:
		return nil, NewAuthRejectedError(res.StatusCode)
	case res.StatusCode < 200 || res.StatusCode >= 300:
		return nil, NewServerError(res.StatusCode, body)
	}

	return &Response{
		Data:   unwrapEnvelope(body),
		Status: res.StatusCode,
	}, nil
}

// Do executes the request and decodes the unwrapped payload into out.
// Pass nil for operations that return no body (204 deletes, role mutations).
func (c *AuthorizedClient) Do(ctx context.Context, req FetchRequest, out any) error {
	res, err := c.Execute(ctx, req)
	if err != nil {
		return err
	}
	if out == nil || len(res.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(res.Data, out); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to decode response payload")
	}
	return nil
}

func (c *AuthorizedClient) buildRequest(ctx context.Context, req FetchRequest, token string, hasToken bool) (*http.Request, error) {
	target := c.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	if _, err := url.Parse(target); err != nil {
		return nil, NewValidationError(err, "invalid request URL")
	}

	var body io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, NewValidationError(err, "failed to serialize request body")
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, NewValidationError(err, "failed to build request")
	}

	httpReq.Header.Set("Accept", "application/json")
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.RequiresAuth && hasToken {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	return httpReq, nil
}

// unwrapEnvelope accepts both framed ({"data": ...}) and bare payloads so
// callers never special-case transport framing.
func unwrapEnvelope(body []byte) json.RawMessage {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}

	var probe struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &probe); err == nil && probe.Data != nil {
		return probe.Data
	}

	return json.RawMessage(body)
}
