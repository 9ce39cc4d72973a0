package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/psycho-70/Eservice-frontend/internal/config"
	"github.com/psycho-70/Eservice-frontend/internal/logging"
	"github.com/psycho-70/Eservice-frontend/internal/models"
	"github.com/psycho-70/Eservice-frontend/internal/observability"
	"github.com/psycho-70/Eservice-frontend/internal/session"
	"github.com/psycho-70/Eservice-frontend/internal/utils"
	"github.com/psycho-70/Eservice-frontend/internal/utils/httpclient"
	"go.uber.org/zap"
)

const upstreamServiceName = "verification-api"

// maxErrorBody caps how much of a failed response is read for its message
const maxErrorBody = 64 << 10

var errEmptyToken = errors.New("login response carried no token")

// APIClient talks to the remote verification API. The session token carried
// by the request context, if any, is forwarded as a bearer token.
type APIClient struct {
	baseURL string
	pool    *httpclient.HTTPClientPool
	logger  *logging.SafeLogger
}

// NewAPIClient creates a client for cfg.APIBaseURL
func NewAPIClient(cfg *config.Config, logger *logging.SafeLogger) *APIClient {
	return &APIClient{
		baseURL: cfg.APIBaseURL,
		pool:    httpclient.NewHTTPClientPool(cfg.APIMaxClients, cfg.APITimeout),
		logger:  logger,
	}
}

// Close releases the pooled HTTP clients
func (c *APIClient) Close() {
	c.pool.Close()
}

// BaseURL returns the API base URL without a trailing slash
func (c *APIClient) BaseURL() string {
	return c.baseURL
}

type apiErrorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// do sends one request and decodes a JSON success body into out (when non-nil)
func (c *APIClient) do(ctx context.Context, operation, method, path string, body io.Reader, contentType string, out interface{}) error {
	ctx, span, cleanup := utils.TraceExternalService(ctx, upstreamServiceName, operation)
	defer cleanup()

	utils.AddSpanAttribute(span, "http.method", method)
	utils.AddSpanAttribute(span, "http.path", path)

	start := time.Now()
	status := "error"
	defer func() {
		utils.AddTimingToSpan(span, start)
		observability.UpstreamRequests.WithLabelValues(operation, status).Inc()
		observability.UpstreamDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		utils.RecordErrorInSpan(span, err, map[string]interface{}{"error.stage": "build_request"})
		return fmt.Errorf("failed to create %s request: %w", operation, err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := session.Token(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.pool.Do(req)
	if err != nil {
		utils.RecordErrorInSpan(span, err, map[string]interface{}{"error.stage": "transport"})
		c.logger.Warn("verification api call failed",
			zap.String("operation", operation),
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return fmt.Errorf("failed to call %s: %w", operation, err)
	}
	defer resp.Body.Close()

	status = strconv.Itoa(resp.StatusCode)
	utils.AddSpanAttribute(span, "http.status_code", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &models.APIError{Status: resp.StatusCode}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		var eb apiErrorBody
		if json.Unmarshal(raw, &eb) == nil {
			apiErr.Message = eb.Message
			if apiErr.Message == "" {
				apiErr.Message = eb.Error
			}
		}
		utils.RecordErrorInSpan(span, apiErr, nil)
		c.logger.Debug("verification api returned error status",
			zap.String("operation", operation),
			zap.Int("status", resp.StatusCode),
			zap.String("message", apiErr.Message))
		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		utils.RecordErrorInSpan(span, err, map[string]interface{}{"error.stage": "decode"})
		return fmt.Errorf("failed to decode %s response: %w", operation, err)
	}
	return nil
}

func (c *APIClient) doJSON(ctx context.Context, operation, method, path string, in, out interface{}) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal %s request: %w", operation, err)
	}
	return c.do(ctx, operation, method, path, bytes.NewReader(payload), "application/json", out)
}

func formPath(id string) string {
	return "/qr-forms/" + url.PathEscape(id)
}

// ListForms fetches every record
func (c *APIClient) ListForms(ctx context.Context) ([]models.VerificationRecord, error) {
	var list models.FormList
	if err := c.do(ctx, "list_forms", http.MethodGet, "/qr-forms", nil, "", &list); err != nil {
		return nil, err
	}
	if list.Forms == nil {
		list.Forms = []models.VerificationRecord{}
	}
	return list.Forms, nil
}

// GetForm fetches one record by identifier
func (c *APIClient) GetForm(ctx context.Context, id string) (*models.VerificationRecord, error) {
	if id == "" {
		return nil, models.ErrMissingID
	}
	var rec models.VerificationRecord
	if err := c.do(ctx, "get_form", http.MethodGet, formPath(id), nil, "", &rec); err != nil {
		return nil, err
	}
	if rec.ID == "" {
		return nil, models.ErrNotFound
	}
	return &rec, nil
}

// SearchForm resolves a public reference number to its record
func (c *APIClient) SearchForm(ctx context.Context, referenceNumber string) (*models.VerificationRecord, error) {
	if referenceNumber == "" {
		return nil, models.ErrNotFound
	}
	var rec models.VerificationRecord
	path := "/qr-forms/search/" + url.PathEscape(referenceNumber)
	if err := c.do(ctx, "search_form", http.MethodGet, path, nil, "", &rec); err != nil {
		return nil, err
	}
	if rec.ID == "" {
		return nil, models.ErrNotFound
	}
	return &rec, nil
}

type createFormResponse struct {
	models.VerificationRecord
	Form *models.VerificationRecord `json:"form"`
}

// CreateForm runs the initial creation step
func (c *APIClient) CreateForm(ctx context.Context, in models.CreateFormInput) (*models.VerificationRecord, error) {
	var resp createFormResponse
	if err := c.doJSON(ctx, "create_form", http.MethodPost, "/qr-forms", in, &resp); err != nil {
		return nil, err
	}
	if resp.Form != nil {
		return resp.Form, nil
	}
	return &resp.VerificationRecord, nil
}

// UpdateVerification sends the verification step as a multipart body
func (c *APIClient) UpdateVerification(ctx context.Context, id string, body io.Reader, contentType string) error {
	if id == "" {
		return models.ErrMissingID
	}
	return c.do(ctx, "update_verification", http.MethodPut, formPath(id)+"/verification", body, contentType, nil)
}

// DeleteForm deletes one record
func (c *APIClient) DeleteForm(ctx context.Context, id string) error {
	if id == "" {
		return models.ErrMissingID
	}
	return c.do(ctx, "delete_form", http.MethodDelete, formPath(id), nil, "", nil)
}

// DownloadURL is where the browser is sent to fetch a record's attachment
func (c *APIClient) DownloadURL(id string) string {
	return c.baseURL + formPath(id) + "/download"
}

// DashboardStats fetches the dashboard counters
func (c *APIClient) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	var stats models.DashboardStats
	if err := c.do(ctx, "dashboard_stats", http.MethodGet, "/dashboard/stats", nil, "", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Login exchanges credentials for a session token
func (c *APIClient) Login(ctx context.Context, in models.LoginRequest) (*models.LoginResponse, error) {
	var resp models.LoginResponse
	if err := c.doJSON(ctx, "login", http.MethodPost, "/users/login", in, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, errEmptyToken
	}
	return &resp, nil
}

// ChangePassword changes an account password
func (c *APIClient) ChangePassword(ctx context.Context, in models.ChangePasswordRequest) error {
	return c.doJSON(ctx, "change_password", http.MethodPost, "/users/change-password", in, nil)
}
