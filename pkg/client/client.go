package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fidd-app/fidd/pkg/domain"
)

// basePath is the versioned prefix for every FIDD web endpoint.
const basePath = "/api/web/v1"

// TokenSource supplies the bearer token for outbound calls. It is read on
// every request so that a login or logout elsewhere in the process takes
// effect immediately.
type TokenSource interface {
	Token() string
}

// LoginRequest is the payload for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the payload for registering a new store.
type RegisterRequest struct {
	TradeName string `json:"tradeName"`
	TaxID     string `json:"taxId"`
	TaxIDType string `json:"taxIdType"` // "CNPJ" or "CPF"
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// CreateCampaignRequest is the payload for creating a campaign.
type CreateCampaignRequest struct {
	Name           string `json:"name"`
	PointsRequired int    `json:"pointsRequired"`
	ExpirationDate string `json:"expirationDate"` // YYYY-MM-DD
}

// UpdateCampaignRequest is the payload for updating an existing campaign.
type UpdateCampaignRequest struct {
	Name           string `json:"name"`
	PointsRequired int    `json:"pointsRequired"`
	ExpirationDate string `json:"expirationDate"` // YYYY-MM-DD
	IsActive       bool   `json:"isActive"`
}

// GenerateInvitationsRequest is the payload for generating an invitation batch.
type GenerateInvitationsRequest struct {
	CampaignID          int64 `json:"campaignId"`
	Quantity            int   `json:"quantity"`
	PointsPerInvitation int   `json:"pointsPerInvitation"`
	ExpirationMinutes   int   `json:"expirationMinutes"`
}

// Client is the FIDD API client.
type Client struct {
	baseURL        string
	tokens         TokenSource
	httpClient     *http.Client
	onUnauthorized func()
	log            zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithLogger routes request/response logging to the given logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithUnauthorizedHook registers a callback invoked whenever the server
// answers 401. This is the single place authorization expiry is handled:
// the hook clears stored credentials regardless of which call tripped it.
func WithUnauthorizedHook(fn func()) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// New creates a new API client. tokens may be nil for unauthenticated use.
func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Login authenticates a store owner with email and password.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*domain.AuthResponse, error) {
	var resp domain.AuthResponse
	if err := c.post(ctx, basePath+"/auth/login", req, &resp); err != nil {
		return nil, fmt.Errorf("client.Login: %w", err)
	}
	return &resp, nil
}

// Register creates a new store account and returns the same shape as Login.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*domain.AuthResponse, error) {
	var resp domain.AuthResponse
	if err := c.post(ctx, basePath+"/auth/register", req, &resp); err != nil {
		return nil, fmt.Errorf("client.Register: %w", err)
	}
	return &resp, nil
}

// Me returns the authenticated store profile.
func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	var u domain.User
	if err := c.get(ctx, basePath+"/auth/me", &u); err != nil {
		return nil, fmt.Errorf("client.Me: %w", err)
	}
	return &u, nil
}

// ListCampaigns fetches all campaigns for the authenticated store.
func (c *Client) ListCampaigns(ctx context.Context) ([]domain.Campaign, error) {
	var campaigns []domain.Campaign
	if err := c.get(ctx, basePath+"/campaigns", &campaigns); err != nil {
		return nil, fmt.Errorf("client.ListCampaigns: %w", err)
	}
	return campaigns, nil
}

// CreateCampaign creates a new campaign.
func (c *Client) CreateCampaign(ctx context.Context, req CreateCampaignRequest) (*domain.Campaign, error) {
	var created domain.Campaign
	if err := c.post(ctx, basePath+"/campaigns", req, &created); err != nil {
		return nil, fmt.Errorf("client.CreateCampaign: %w", err)
	}
	return &created, nil
}

// UpdateCampaign updates an existing campaign by id.
func (c *Client) UpdateCampaign(ctx context.Context, id int64, req UpdateCampaignRequest) (*domain.Campaign, error) {
	var updated domain.Campaign
	if err := c.doRequest(ctx, http.MethodPut, basePath+"/campaigns/"+strconv.FormatInt(id, 10), req, &updated); err != nil {
		return nil, fmt.Errorf("client.UpdateCampaign: %w", err)
	}
	return &updated, nil
}

// DeleteCampaign removes a campaign by id.
func (c *Client) DeleteCampaign(ctx context.Context, id int64) error {
	if err := c.doRequest(ctx, http.MethodDelete, basePath+"/campaigns/"+strconv.FormatInt(id, 10), nil, nil); err != nil {
		return fmt.Errorf("client.DeleteCampaign: %w", err)
	}
	return nil
}

// GenerateInvitations produces a batch of redemption tokens in one atomic call.
func (c *Client) GenerateInvitations(ctx context.Context, req GenerateInvitationsRequest) (*domain.InvitationBatch, error) {
	var batch domain.InvitationBatch
	if err := c.post(ctx, basePath+"/invitations/generate", req, &batch); err != nil {
		return nil, fmt.Errorf("client.GenerateInvitations: %w", err)
	}
	return &batch, nil
}

// DashboardHome returns the dashboard metric summary.
func (c *Client) DashboardHome(ctx context.Context) (*domain.Metrics, error) {
	var m domain.Metrics
	if err := c.get(ctx, basePath+"/dashboard/home", &m); err != nil {
		return nil, fmt.Errorf("client.DashboardHome: %w", err)
	}
	return &m, nil
}

// DeleteStatus returns the account's current deletion lifecycle state.
func (c *Client) DeleteStatus(ctx context.Context) (*domain.DeleteStatus, error) {
	var s domain.DeleteStatus
	if err := c.get(ctx, basePath+"/account/delete", &s); err != nil {
		return nil, fmt.Errorf("client.DeleteStatus: %w", err)
	}
	return &s, nil
}

// RequestAccountDeletion schedules the account for deletion after the grace
// period. The call is idempotent; the password is re-checked server-side.
func (c *Client) RequestAccountDeletion(ctx context.Context, password string) (*domain.DeleteStatus, error) {
	var s domain.DeleteStatus
	if err := c.doRequest(ctx, http.MethodPut, basePath+"/account/delete", map[string]string{"password": password}, &s); err != nil {
		return nil, fmt.Errorf("client.RequestAccountDeletion: %w", err)
	}
	return &s, nil
}

// CancelAccountDeletion cancels a pending deletion, reactivating the account.
func (c *Client) CancelAccountDeletion(ctx context.Context) (*domain.DeleteStatus, error) {
	var s domain.DeleteStatus
	if err := c.doRequest(ctx, http.MethodDelete, basePath+"/account/delete", nil, &s); err != nil {
		return nil, fmt.Errorf("client.CancelAccountDeletion: %w", err)
	}
	return &s, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.doRequest(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	return c.doRequest(ctx, http.MethodPost, path, body, out)
}

func (c *Client) doRequest(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}
	reqID := uuid.NewString()
	req.Header.Set("X-Request-ID", reqID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn().Str("request_id", reqID).Str("method", method).Str("path", path).Err(err).Msg("request failed")
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	c.log.Debug().
		Str("request_id", reqID).
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("api call")

	if resp.StatusCode == http.StatusUnauthorized && c.onUnauthorized != nil {
		c.onUnauthorized()
	}

	if resp.StatusCode >= 400 {
		return c.apiError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// apiError builds a typed error from an error response body. The backend
// answers {"status": n, "message": "...", "errors": {field: [msgs]}}; plain
// bodies are carried through verbatim.
func (c *Client) apiError(resp *http.Response) error {
	respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB max error body
	if readErr != nil {
		return &APIError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to read body: %v", readErr)}
	}
	var apiErr struct {
		Message string              `json:"message"`
		Errors  map[string][]string `json:"errors"`
	}
	if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Message != "" {
		return &APIError{StatusCode: resp.StatusCode, Message: apiErr.Message, Fields: apiErr.Errors}
	}
	return &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
}
