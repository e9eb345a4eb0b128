package datasource

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/runtara-monitor/internal/model"
	"go.uber.org/zap"
)

const (
	defaultConnectTimeout = 5 * time.Second
	defaultRequestTimeout = 10 * time.Second
	requestIDHeader       = "X-Request-ID"
)

// ClientConfig configures an HTTPClient
type ClientConfig struct {
	Address              string // host:port, or a full URL with scheme
	SkipCertVerification bool
	ConnectTimeout       time.Duration
	RequestTimeout       time.Duration
}

// HTTPClient talks to the Runtara management API over HTTPS
type HTTPClient struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewHTTPClient creates a client for the environment at cfg.Address
func NewHTTPClient(cfg ClientConfig, logger *zap.Logger) (*HTTPClient, error) {
	baseURL, err := normalizeAddress(cfg.Address)
	if err != nil {
		return nil, err
	}

	connectTimeout := cfg.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = defaultConnectTimeout
	}
	requestTimeout := cfg.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = defaultRequestTimeout
	}

	tlsConfig := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: cfg.SkipCertVerification, //nolint:gosec // self-signed dev environments
	}
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         (&net.Dialer{Timeout: connectTimeout}).DialContext,
		TLSClientConfig:     tlsConfig,
		TLSHandshakeTimeout: connectTimeout,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     90 * time.Second,
	}

	logger.Info("Created Runtara client",
		zap.String("address", baseURL),
		zap.Bool("skipCertVerification", cfg.SkipCertVerification),
		zap.Duration("connectTimeout", connectTimeout),
		zap.Duration("requestTimeout", requestTimeout))

	return &HTTPClient{
		baseURL: baseURL,
		http: &http.Client{
			Transport: transport,
			Timeout:   requestTimeout,
		},
		logger: logger,
	}, nil
}

// normalizeAddress turns host:port into an https base URL
func normalizeAddress(address string) (string, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return "", fmt.Errorf("server address is empty")
	}
	if !strings.Contains(address, "://") {
		address = "https://" + address
	}
	u, err := url.Parse(address)
	if err != nil {
		return "", fmt.Errorf("invalid server address %q: %w", address, err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid server address %q: missing host", address)
	}
	return strings.TrimRight(u.String(), "/"), nil
}

// BaseURL returns the API root the client talks to
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// ListInstances retrieves workflow instances
func (c *HTTPClient) ListInstances(ctx context.Context, q InstanceQuery) ([]model.Instance, error) {
	params := url.Values{}
	if q.TenantID != "" {
		params.Set("tenant_id", q.TenantID)
	}
	if q.Status != "" {
		params.Set("status", strings.ToLower(string(q.Status)))
	}
	params.Set("limit", strconv.Itoa(limitOrDefault(q.Limit)))

	var resp listInstancesResponse
	if err := c.getJSON(ctx, "list instances", "/api/v1/instances", params, &resp); err != nil {
		return nil, err
	}

	instances := make([]model.Instance, 0, len(resp.Instances))
	for _, dto := range resp.Instances {
		instances = append(instances, ConvertInstance(dto))
	}
	return instances, nil
}

// ListImages retrieves registered images
func (c *HTTPClient) ListImages(ctx context.Context, tenantID string) ([]model.Image, error) {
	params := url.Values{}
	if tenantID != "" {
		params.Set("tenant_id", tenantID)
	}
	params.Set("limit", strconv.Itoa(DefaultListLimit))

	var resp listImagesResponse
	if err := c.getJSON(ctx, "list images", "/api/v1/images", params, &resp); err != nil {
		return nil, err
	}

	images := make([]model.Image, 0, len(resp.Images))
	for _, dto := range resp.Images {
		images = append(images, ConvertImage(dto))
	}
	return images, nil
}

// GetMetrics retrieves the metric buckets of one tenant
func (c *HTTPClient) GetMetrics(ctx context.Context, tenantID string, granularity model.Granularity) (*model.MetricSeries, error) {
	if tenantID == "" {
		return nil, NewServerError("get metrics", http.StatusBadRequest, "tenant is required")
	}
	params := url.Values{}
	params.Set("granularity", string(granularity))

	var resp metricsResponse
	path := "/api/v1/tenants/" + url.PathEscape(tenantID) + "/metrics"
	if err := c.getJSON(ctx, "get metrics", path, params, &resp); err != nil {
		return nil, err
	}
	return ConvertMetrics(resp, tenantID, granularity), nil
}

// GetHealth retrieves the service health
func (c *HTTPClient) GetHealth(ctx context.Context) (*model.HealthSnapshot, error) {
	var resp healthResponse
	if err := c.getJSON(ctx, "get health", "/api/v1/health", nil, &resp); err != nil {
		return nil, err
	}
	return ConvertHealth(resp), nil
}

// ListCheckpoints retrieves the checkpoints of one instance
func (c *HTTPClient) ListCheckpoints(ctx context.Context, instanceID string) ([]model.Checkpoint, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(DefaultListLimit))

	var resp listCheckpointsResponse
	path := "/api/v1/instances/" + url.PathEscape(instanceID) + "/checkpoints"
	if err := c.getJSON(ctx, "list checkpoints", path, params, &resp); err != nil {
		return nil, err
	}

	checkpoints := make([]model.Checkpoint, 0, len(resp.Checkpoints))
	for _, dto := range resp.Checkpoints {
		checkpoints = append(checkpoints, ConvertCheckpoint(dto, instanceID))
	}
	return checkpoints, nil
}

// GetCheckpointData retrieves the raw state blob of one checkpoint
func (c *HTTPClient) GetCheckpointData(ctx context.Context, instanceID, checkpointID string) ([]byte, error) {
	path := "/api/v1/instances/" + url.PathEscape(instanceID) + "/checkpoints/" + url.PathEscape(checkpointID) + "/data"
	body, err := c.get(ctx, "get checkpoint data", path, nil)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, classify("get checkpoint data", err)
	}
	return data, nil
}

// Close releases idle connections
func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// getJSON performs a GET and decodes the JSON body into out
func (c *HTTPClient) getJSON(ctx context.Context, op, path string, params url.Values, out any) error {
	body, err := c.get(ctx, op, path, params)
	if err != nil {
		return err
	}
	defer body.Close()

	if err := json.NewDecoder(body).Decode(out); err != nil {
		// A truncated body is a transport problem, anything else is the server's
		if isTransportError(err) {
			return classify(op, err)
		}
		return &Error{Kind: KindServer, Op: op, Code: http.StatusOK, Message: "decode response: " + err.Error(), Cause: err}
	}
	return nil
}

// get performs a GET and returns the body of a successful response
func (c *HTTPClient) get(ctx context.Context, op, path string, params url.Values) (io.ReadCloser, error) {
	target := c.baseURL + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", op, err)
	}
	requestID := uuid.NewString()
	req.Header.Set(requestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("Request failed",
			zap.String("op", op),
			zap.String("requestID", requestID),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return nil, classify(op, err)
	}

	c.logger.Debug("Request completed",
		zap.String("op", op),
		zap.String("requestID", requestID),
		zap.Int("status", res.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if res.StatusCode >= http.StatusBadRequest {
		defer res.Body.Close()
		return nil, decodeServerError(op, res)
	}
	return res.Body, nil
}

// decodeServerError reads the {"error": "..."} body of a failed response
func decodeServerError(op string, res *http.Response) error {
	var apiError struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	raw, _ := io.ReadAll(io.LimitReader(res.Body, 64*1024))
	_ = json.Unmarshal(raw, &apiError)

	message := strings.TrimSpace(apiError.Error)
	if message == "" {
		message = strings.TrimSpace(apiError.Message)
	}
	if message == "" {
		message = strings.TrimSpace(http.StatusText(res.StatusCode))
	}
	return NewServerError(op, res.StatusCode, message)
}

func isTransportError(err error) bool {
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

func limitOrDefault(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
