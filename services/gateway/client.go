package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"guidewizard/models"
	"guidewizard/utils"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxResponseBytes caps how much of an upstream body is read.
const maxResponseBytes = 1 << 20

// Options configures DefaultGuideAPIClient.
type Options struct {
	BaseURL    string
	AreaCode   string
	StaticOTP  string
	DeviceType string
	AppVersion string
	// Timeout of zero leaves the transport default in place.
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
	NewTraceID func() string
}

// DefaultGuideAPIClient implements GuideAPI over HTTP.
type DefaultGuideAPIClient struct {
	baseURL    string
	areaCode   string
	staticOTP  string
	deviceType string
	appVersion string
	httpClient *http.Client
	logger     *zap.Logger
	newTraceID func() string
}

// NewGuideAPIClient builds a client for the API rooted at opts.BaseURL.
func NewGuideAPIClient(opts Options) *DefaultGuideAPIClient {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	newTraceID := opts.NewTraceID
	if newTraceID == nil {
		newTraceID = uuid.NewString
	}
	return &DefaultGuideAPIClient{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		areaCode:   opts.AreaCode,
		staticOTP:  opts.StaticOTP,
		deviceType: opts.DeviceType,
		appVersion: opts.AppVersion,
		httpClient: client,
		logger:     logger,
		newTraceID: newTraceID,
	}
}

// request describes one upstream call.
type request struct {
	op          string
	method      string
	path        string
	body        []byte
	contentType string
	creds       *models.Credentials
}

func (c *DefaultGuideAPIClient) postJSON(ctx context.Context, op, path string, payload interface{}, creds *models.Credentials, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%s: encode request: %w", op, err)
	}
	return c.do(ctx, request{
		op:          op,
		method:      http.MethodPost,
		path:        path,
		body:        body,
		contentType: "application/json",
		creds:       creds,
	}, out)
}

// do sends the request and decodes a 2xx JSON body into out when out is non-nil.
func (c *DefaultGuideAPIClient) do(ctx context.Context, r request, out interface{}) error {
	var body io.Reader
	if r.body != nil {
		body = bytes.NewReader(r.body)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", r.op, err)
	}

	traceID := c.newTraceID()
	req.Header.Set("X-Trace-Id", traceID)
	req.Header.Set("Accept", "application/json")
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if r.creds != nil {
		req.Header.Set("Authorization", "Bearer "+r.creds.AccessToken)
		req.Header.Set("X-Auth-Id", r.creds.AuthUserID)
	}

	logger := c.logger.With(
		zap.String("operation", r.op),
		zap.String("method", r.method),
		zap.String("path", r.path),
		zap.String("trace_id", traceID),
	)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	utils.GatewayDuration.WithLabelValues(r.op).Observe(time.Since(start).Seconds())
	if err != nil {
		utils.GatewayRequests.WithLabelValues(r.op, "network_error").Inc()
		logger.Warn("upstream call failed", zap.Error(err))
		return &NetworkError{Op: r.op, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		utils.GatewayRequests.WithLabelValues(r.op, "network_error").Inc()
		return &NetworkError{Op: r.op, Err: fmt.Errorf("read response: %w", err)}
	}

	logger.Debug("upstream call",
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		utils.GatewayRequests.WithLabelValues(r.op, "http_error").Inc()
		return &HTTPError{Op: r.op, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}
	utils.GatewayRequests.WithLabelValues(r.op, "ok").Inc()

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%s: %w: %v", r.op, ErrMalformedResponse, err)
	}
	return nil
}

// flexString accepts a JSON string or number.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	*f = flexString(b)
	return nil
}
