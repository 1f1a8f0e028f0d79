package adapter

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/MKhiriev/go-task-keeper/internal/config"
	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/utils"
	"github.com/MKhiriev/go-task-keeper/models"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

const traceIDHeader = "X-Trace-ID"

type httpServerAdapter struct {
	client *utils.HTTPClient

	mu    sync.RWMutex
	token string

	logger *logger.Logger
}

// NewHTTPServerAdapter constructs an HTTP/REST implementation of [ServerAdapter].
// It normalises and validates the base URL from cfg.HTTPAddress, configures
// the underlying HTTP client with the resolved base URL and request timeout
// and preloads cfg.Token.
//
// Returns an error if cfg.HTTPAddress is empty or cannot be parsed as a
// valid URL.
func NewHTTPServerAdapter(cfg config.Adapter, logger *logger.Logger) (ServerAdapter, error) {
	baseURL, err := normalizeBaseURL(cfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}

	adapter := &httpServerAdapter{
		client: utils.NewHTTPClient(baseURL, cfg.RequestTimeout),
		logger: logger,
	}
	adapter.SetToken(cfg.Token)

	return adapter, nil
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

// SetToken implements [ServerAdapter]. It stores token (whitespace-trimmed) for
// use in the Authorization header of all subsequent authenticated requests.
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

func (h *httpServerAdapter) Health(ctx context.Context) (models.HealthResponse, error) {
	var health models.HealthResponse

	resp, err := h.request(ctx).SetResult(&health).SetError(&health).Get("/api/health")
	if err != nil {
		return models.HealthResponse{}, fmt.Errorf("health request: %w", err)
	}
	// a 503 body still carries status and timestamp
	return health, mapHTTPError(resp)
}

func (h *httpServerAdapter) Version(ctx context.Context) (string, error) {
	resp, err := h.request(ctx).SetHeader("Accept", "text/plain").Get("/api/version")
	if err != nil {
		return "", fmt.Errorf("version request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.String()), nil
}

func (h *httpServerAdapter) StoreStatus(ctx context.Context) (models.StoreStatusResponse, error) {
	var status models.StoreStatusResponse

	resp, err := h.request(ctx).SetResult(&status).Get("/api/auth/status")
	if err != nil {
		return models.StoreStatusResponse{}, fmt.Errorf("store status request: %w", err)
	}
	return status, mapHTTPError(resp)
}

// Register implements [ServerAdapter]. It POSTs the request to
// POST /api/auth/register and stores the issued token.
func (h *httpServerAdapter) Register(ctx context.Context, request models.RegisterRequest) (models.AuthResponse, error) {
	return h.authenticate(ctx, "/api/auth/register", request)
}

// Login implements [ServerAdapter]. It POSTs the credentials to
// POST /api/auth/login and stores the issued token.
func (h *httpServerAdapter) Login(ctx context.Context, request models.LoginRequest) (models.AuthResponse, error) {
	return h.authenticate(ctx, "/api/auth/login", request)
}

func (h *httpServerAdapter) authenticate(ctx context.Context, path string, body any) (models.AuthResponse, error) {
	var auth models.AuthResponse

	resp, err := h.request(ctx).SetBody(body).SetResult(&auth).Post(path)
	if err != nil {
		return models.AuthResponse{}, fmt.Errorf("%s request: %w", path, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.AuthResponse{}, err
	}

	token := auth.Token
	if token == "" {
		if token, err = utils.ParseBearerToken(resp.Header().Get("Authorization")); err != nil {
			return models.AuthResponse{}, fmt.Errorf("%s parse bearer token: %w", path, err)
		}
		auth.Token = token
	}

	h.SetToken(token)
	return auth, nil
}

func (h *httpServerAdapter) ResetPassword(ctx context.Context, request models.ResetPasswordRequest) error {
	resp, err := h.request(ctx).SetBody(request).Post("/api/auth/reset-password")
	if err != nil {
		return fmt.Errorf("reset password request: %w", err)
	}
	return mapHTTPError(resp)
}

func (h *httpServerAdapter) Profile(ctx context.Context) (models.PublicUser, error) {
	var profile models.ProfileResponse

	req, err := h.authedRequest(ctx)
	if err != nil {
		return models.PublicUser{}, err
	}
	resp, err := req.SetResult(&profile).Get("/api/auth/me")
	if err != nil {
		return models.PublicUser{}, fmt.Errorf("profile request: %w", err)
	}
	return profile.User, mapHTTPError(resp)
}

func (h *httpServerAdapter) UpdateProfile(ctx context.Context, request models.ProfileUpdateRequest) (models.PublicUser, error) {
	var profile models.ProfileResponse

	req, err := h.authedRequest(ctx)
	if err != nil {
		return models.PublicUser{}, err
	}
	resp, err := req.SetBody(request).SetResult(&profile).Put("/api/auth/me")
	if err != nil {
		return models.PublicUser{}, fmt.Errorf("update profile request: %w", err)
	}
	return profile.User, mapHTTPError(resp)
}

func (h *httpServerAdapter) ListTasks(ctx context.Context, userID string) (models.TaskListResponse, error) {
	var tasks models.TaskListResponse

	req, err := h.authedRequest(ctx)
	if err != nil {
		return models.TaskListResponse{}, err
	}
	if userID != "" {
		req.SetQueryParam("userId", userID)
	}
	resp, err := req.SetResult(&tasks).Get("/api/tasks")
	if err != nil {
		return models.TaskListResponse{}, fmt.Errorf("list tasks request: %w", err)
	}
	return tasks, mapHTTPError(resp)
}

func (h *httpServerAdapter) CreateTask(ctx context.Context, request models.CreateTaskRequest) (models.Task, error) {
	var created models.TaskResponse

	req, err := h.authedRequest(ctx)
	if err != nil {
		return models.Task{}, err
	}
	resp, err := req.SetBody(request).SetResult(&created).Post("/api/tasks")
	if err != nil {
		return models.Task{}, fmt.Errorf("create task request: %w", err)
	}
	return created.Task, mapHTTPError(resp)
}

func (h *httpServerAdapter) UpdateTaskStatus(ctx context.Context, taskID string, request models.UpdateTaskStatusRequest) (models.Task, error) {
	var updated models.TaskResponse

	req, err := h.authedRequest(ctx)
	if err != nil {
		return models.Task{}, err
	}
	resp, err := req.
		SetPathParam("taskId", taskID).
		SetBody(request).
		SetResult(&updated).
		Patch("/api/tasks/{taskId}")
	if err != nil {
		return models.Task{}, fmt.Errorf("update task status request: %w", err)
	}
	return updated.Task, mapHTTPError(resp)
}

func (h *httpServerAdapter) TeamSnapshot(ctx context.Context) ([]models.TeamMemberSummary, error) {
	var snapshot models.TeamSnapshotResponse

	req, err := h.authedRequest(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := req.SetResult(&snapshot).Get("/api/tasks/team/snapshot")
	if err != nil {
		return nil, fmt.Errorf("team snapshot request: %w", err)
	}
	return snapshot.Team, mapHTTPError(resp)
}

// request starts a request carrying a fresh trace id, so server logs of one
// taskctl invocation can be correlated.
func (h *httpServerAdapter) request(ctx context.Context) *resty.Request {
	traceID := uuid.NewString()
	h.logger.Debug().Str("trace_id", traceID).Msg("sending request")
	return h.client.R().SetContext(ctx).SetHeader(traceIDHeader, traceID)
}

func (h *httpServerAdapter) authedRequest(ctx context.Context) (*resty.Request, error) {
	token := h.Token()
	if token == "" {
		return nil, ErrNoToken
	}
	return h.request(ctx).SetAuthToken(token), nil
}
