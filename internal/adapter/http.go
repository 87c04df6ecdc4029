package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-finance-keeper/internal/config"
	"github.com/MKhiriev/go-finance-keeper/internal/logger"
	"github.com/MKhiriev/go-finance-keeper/internal/utils"
	"github.com/MKhiriev/go-finance-keeper/models"
)

const (
	pathRegister    = "/auth/register"
	pathLogin       = "/auth/login"
	pathCurrentUser = "/auth/user"
	pathSyncStatus  = "/sync/status"
	pathSyncAll     = "/sync/all"
	pathHealth      = "/health"

	pathReportCategories = "/reports/expenses-by-category"
	pathReportBudgets    = "/reports/budget-adherence"
	pathReportSavings    = "/reports/savings-trends"
	pathReportGoals      = "/reports/savings-goals-progress"
)

type httpServerAdapter struct {
	client         *utils.HTTPClient
	requestTimeout time.Duration

	mu    sync.RWMutex
	token string

	logger *logger.Logger
}

// NewHTTPServerAdapter constructs the REST implementation of [ServerAdapter].
// It normalises and validates the base URL from adapterCfg.HTTPAddress.
//
// adapterCfg.RequestTimeout bounds every request except SyncAll, whose
// deadline is owned by the caller's context.
func NewHTTPServerAdapter(adapterCfg config.Adapter, logger *logger.Logger) (ServerAdapter, error) {
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	client := utils.NewHTTPClient()
	client.
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json")

	return &httpServerAdapter{
		client:         client,
		requestTimeout: adapterCfg.RequestTimeout,
		logger:         logger,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// SetToken implements [ServerAdapter].
func (h *httpServerAdapter) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

// Token implements [ServerAdapter].
func (h *httpServerAdapter) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// Register implements [ServerAdapter].
func (h *httpServerAdapter) Register(ctx context.Context, req models.RegisterRequest) (models.AuthResponse, error) {
	return h.authenticate(ctx, "register", pathRegister, req)
}

// Login implements [ServerAdapter].
func (h *httpServerAdapter) Login(ctx context.Context, creds models.Credentials) (models.AuthResponse, error) {
	return h.authenticate(ctx, "login", pathLogin, creds)
}

func (h *httpServerAdapter) authenticate(ctx context.Context, op, path string, body any) (models.AuthResponse, error) {
	ctx, cancel := h.bounded(ctx)
	defer cancel()

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(path)
	if err != nil {
		return models.AuthResponse{}, wrapTransportError(op+" request", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.AuthResponse{}, err
	}

	var auth models.AuthResponse
	if err = decodeBody(resp, &auth); err != nil {
		return models.AuthResponse{}, err
	}
	if auth.Token == "" {
		return models.AuthResponse{}, fmt.Errorf("%s response: %w: missing token", op, ErrInvalidResponse)
	}

	h.SetToken(auth.Token)
	return auth, nil
}

// CurrentUser implements [ServerAdapter].
func (h *httpServerAdapter) CurrentUser(ctx context.Context) (models.User, error) {
	var user models.User
	if err := h.getJSON(ctx, "current user", pathCurrentUser, &user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// List implements [ServerAdapter].
func (h *httpServerAdapter) List(ctx context.Context, c models.Collection) (json.RawMessage, error) {
	var items json.RawMessage
	if err := h.getJSON(ctx, "list "+c.String(), c.Resource(), &items); err != nil {
		return nil, err
	}
	if len(items) == 0 || string(items) == "null" {
		items = json.RawMessage("[]")
	}
	return items, nil
}

// Create implements [ServerAdapter].
func (h *httpServerAdapter) Create(ctx context.Context, c models.Collection, payload json.RawMessage) (json.RawMessage, error) {
	ctx, cancel := h.bounded(ctx)
	defer cancel()

	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody([]byte(payload)).
		Post(c.Resource())
	if err != nil {
		return nil, wrapTransportError("create "+c.String()+" request", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	return rawBody(resp)
}

// Update implements [ServerAdapter].
func (h *httpServerAdapter) Update(ctx context.Context, c models.Collection, id string, payload json.RawMessage) (json.RawMessage, error) {
	ctx, cancel := h.bounded(ctx)
	defer cancel()

	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody([]byte(payload)).
		SetPathParam("id", id).
		Put(c.Resource() + "/{id}")
	if err != nil {
		return nil, wrapTransportError("update "+c.String()+" request", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	return rawBody(resp)
}

// Delete implements [ServerAdapter].
func (h *httpServerAdapter) Delete(ctx context.Context, c models.Collection, id string) error {
	ctx, cancel := h.bounded(ctx)
	defer cancel()

	resp, err := h.authedRequest(ctx).
		SetPathParam("id", id).
		Delete(c.Resource() + "/{id}")
	if err != nil {
		return wrapTransportError("delete "+c.String()+" request", err)
	}

	return mapHTTPError(resp)
}

// SyncStatus implements [ServerAdapter].
func (h *httpServerAdapter) SyncStatus(ctx context.Context) (models.SyncStatusSummary, error) {
	var summary models.SyncStatusSummary
	if err := h.getJSON(ctx, "sync status", pathSyncStatus, &summary); err != nil {
		return models.SyncStatusSummary{}, err
	}
	return summary, nil
}

// SyncAll implements [ServerAdapter].
func (h *httpServerAdapter) SyncAll(ctx context.Context, req models.SyncAllRequest) (models.SyncResult, error) {
	req.Length = len(req.Changes)
	if req.Changes == nil {
		req.Changes = []models.Change{}
	}

	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post(pathSyncAll)
	if err != nil {
		return models.SyncResult{}, wrapTransportError("sync request", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.SyncResult{}, err
	}

	var result models.SyncResult
	if err = decodeBody(resp, &result); err != nil {
		return models.SyncResult{}, err
	}
	if !result.Success {
		message := result.Message
		if message == "" {
			message = "synchronization failed"
		}
		return result, &HTTPError{StatusCode: resp.StatusCode(), Message: message, kind: ErrServerRejected}
	}

	h.logger.Debug().
		Str("func", "httpServerAdapter.SyncAll").
		Int("sent", req.Length).
		Int("applied", result.Applied).
		Msg("sync accepted by server")
	return result, nil
}

// ExpensesByCategory implements [ServerAdapter].
func (h *httpServerAdapter) ExpensesByCategory(ctx context.Context) ([]models.CategoryTotal, error) {
	var series []models.CategoryTotal
	if err := h.getJSON(ctx, "expenses by category", pathReportCategories, &series); err != nil {
		return nil, err
	}
	return series, nil
}

// BudgetAdherence implements [ServerAdapter].
func (h *httpServerAdapter) BudgetAdherence(ctx context.Context) ([]models.BudgetAdherence, error) {
	var series []models.BudgetAdherence
	if err := h.getJSON(ctx, "budget adherence", pathReportBudgets, &series); err != nil {
		return nil, err
	}
	return series, nil
}

// SavingsTrends implements [ServerAdapter].
func (h *httpServerAdapter) SavingsTrends(ctx context.Context) ([]models.SavingsPoint, error) {
	var series []models.SavingsPoint
	if err := h.getJSON(ctx, "savings trends", pathReportSavings, &series); err != nil {
		return nil, err
	}
	return series, nil
}

// SavingsGoalsProgress implements [ServerAdapter].
func (h *httpServerAdapter) SavingsGoalsProgress(ctx context.Context) ([]models.GoalProgress, error) {
	var series []models.GoalProgress
	if err := h.getJSON(ctx, "savings goals progress", pathReportGoals, &series); err != nil {
		return nil, err
	}
	return series, nil
}

// Health implements [ServerAdapter].
func (h *httpServerAdapter) Health(ctx context.Context) error {
	ctx, cancel := h.bounded(ctx)
	defer cancel()

	resp, err := h.client.R().SetContext(ctx).Get(pathHealth)
	if err != nil {
		return wrapTransportError("health request", err)
	}
	if resp.StatusCode() >= http.StatusInternalServerError {
		h.logger.Debug().
			Str("func", "httpServerAdapter.Health").
			Int("status", resp.StatusCode()).
			Msg("backend reachable but unhealthy")
	}
	return nil
}

func (h *httpServerAdapter) getJSON(ctx context.Context, op, path string, dst any) error {
	ctx, cancel := h.bounded(ctx)
	defer cancel()

	resp, err := h.authedRequest(ctx).Get(path)
	if err != nil {
		return wrapTransportError(op+" request", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return err
	}

	return decodeBody(resp, dst)
}

func (h *httpServerAdapter) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetAuthToken(token)
	}
	return req
}

func (h *httpServerAdapter) bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.requestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, h.requestTimeout)
}

func decodeBody(resp *resty.Response, dst any) error {
	if err := json.Unmarshal(resp.Body(), dst); err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrInvalidResponse, resp.Request.Method, resp.Request.URL, err)
	}
	return nil
}

func rawBody(resp *resty.Response) (json.RawMessage, error) {
	body := resp.Body()
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: %s %s", ErrInvalidResponse, resp.Request.Method, resp.Request.URL)
	}
	return json.RawMessage(body), nil
}
