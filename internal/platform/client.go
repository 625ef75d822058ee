// Package platform is the client for the trading-strategy platform
// API. Symphony payloads travel through it verbatim in both
// directions; the platform owns persistence, backtesting and
// deployment.
package platform

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"symphony-copilot/internal/api"
	"symphony-copilot/internal/logger"
	"symphony-copilot/internal/sessionlog"
)

// ErrConfirmationRequired is returned when a deploy is attempted
// without an explicit confirmation flag.
var ErrConfirmationRequired = errors.New("deploy requires explicit confirmation")

// Client talks to the trading-strategy platform.
type Client struct {
	api    *api.Client
	dryRun bool
}

// Config for the platform client.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
	DryRun  bool
}

// NewClient creates a platform client.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	opts := []api.ClientOption{
		api.WithBaseURL(cfg.BaseURL),
		api.WithTimeout(timeout),
		api.WithLogging(true),
	}
	if cfg.Token != "" {
		opts = append(opts, api.WithBearerToken(cfg.Token))
	}

	return &Client{
		api:    api.NewClient(opts...),
		dryRun: cfg.DryRun,
	}
}

// CreateSymphony saves a new symphony and returns the platform
// response verbatim.
func (c *Client) CreateSymphony(ctx context.Context, symphony json.RawMessage) ([]byte, error) {
	resp, err := c.api.POST(ctx, "/api/v1/symphonies", symphony, api.JSONHeaders())
	if err != nil {
		return nil, fmt.Errorf("create symphony failed: %w", err)
	}
	return resp.Body, nil
}

// UpdateSymphony replaces a saved symphony and returns the platform
// response verbatim.
func (c *Client) UpdateSymphony(ctx context.Context, id string, symphony json.RawMessage) ([]byte, error) {
	if id == "" {
		return nil, errors.New("symphony id is required")
	}
	resp, err := c.api.PUT(ctx, "/api/v1/symphonies/"+url.PathEscape(id), symphony, api.JSONHeaders())
	if err != nil {
		return nil, fmt.Errorf("update symphony failed: %w", err)
	}
	return resp.Body, nil
}

// GetSymphony fetches a saved symphony by id.
func (c *Client) GetSymphony(ctx context.Context, id string) ([]byte, error) {
	if id == "" {
		return nil, errors.New("symphony id is required")
	}
	resp, err := c.api.GET(ctx, "/api/v1/symphonies/"+url.PathEscape(id), api.JSONHeaders())
	if err != nil {
		return nil, fmt.Errorf("get symphony failed: %w", err)
	}
	return resp.Body, nil
}

// ListSymphonies lists the account's saved symphonies.
func (c *Client) ListSymphonies(ctx context.Context) ([]byte, error) {
	resp, err := c.api.GET(ctx, "/api/v1/symphonies", api.JSONHeaders())
	if err != nil {
		return nil, fmt.Errorf("list symphonies failed: %w", err)
	}
	return resp.Body, nil
}

// BacktestRequest runs a platform backtest over either a saved
// symphony (by id) or an inline symphony document.
type BacktestRequest struct {
	SymphonyID string          `json:"symphony_id,omitempty"`
	Symphony   json.RawMessage `json:"symphony,omitempty"`
	Start      string          `json:"start_date,omitempty"`
	End        string          `json:"end_date,omitempty"`
	Capital    float64         `json:"capital,omitempty"`
}

// BacktestSymphony submits a backtest and returns the platform
// results verbatim. All performance numbers come from the platform.
func (c *Client) BacktestSymphony(ctx context.Context, req BacktestRequest) ([]byte, error) {
	if req.SymphonyID == "" && len(req.Symphony) == 0 {
		return nil, errors.New("backtest needs a symphony id or an inline symphony")
	}
	resp, err := c.api.POST(ctx, "/api/v1/backtests", req, api.JSONHeaders())
	if err != nil {
		return nil, fmt.Errorf("backtest failed: %w", err)
	}
	return resp.Body, nil
}

// DeployRequest allocates real capital to a saved symphony.
type DeployRequest struct {
	SymphonyID string  `json:"symphony_id"`
	AccountID  string  `json:"account_id"`
	Capital    float64 `json:"capital"`
	Confirm    bool    `json:"-"`
}

// DeploySymphony deploys a saved symphony. The Confirm flag must be
// set; in dry-run mode the deploy is simulated and never reaches the
// platform.
func (c *Client) DeploySymphony(ctx context.Context, req DeployRequest) ([]byte, error) {
	if req.SymphonyID == "" {
		return nil, errors.New("symphony id is required")
	}
	if !req.Confirm {
		return nil, ErrConfirmationRequired
	}

	if c.dryRun {
		logger.DeployEvent(ctx, req.SymphonyID, req.AccountID, req.Capital, "simulated", true)
		c.auditDeploy(ctx, req, true)
		sim := map[string]any{
			"deploy_id":   "dry-" + uuid.New().String(),
			"symphony_id": req.SymphonyID,
			"account_id":  req.AccountID,
			"capital":     req.Capital,
			"status":      "SIMULATED",
			"deployed_at": time.Now().UTC().Format(time.RFC3339),
		}
		return json.Marshal(sim)
	}

	path := "/api/v1/symphonies/" + url.PathEscape(req.SymphonyID) + "/deploy"
	resp, err := c.api.POST(ctx, path, req, api.JSONHeaders())
	if err != nil {
		return nil, fmt.Errorf("deploy failed: %w", err)
	}
	logger.DeployEvent(ctx, req.SymphonyID, req.AccountID, req.Capital,
		"simulated", false, "status", strconv.Itoa(resp.StatusCode))
	c.auditDeploy(ctx, req, false)
	return resp.Body, nil
}

// auditDeploy appends the deploy to the audit trail. Money moved (or
// would have); a failed audit write must not fail the deploy itself.
func (c *Client) auditDeploy(ctx context.Context, req DeployRequest, simulated bool) {
	err := sessionlog.AppendDeploy(sessionlog.DeployEntry{
		SymphonyID: req.SymphonyID,
		AccountID:  req.AccountID,
		Capital:    req.Capital,
		Simulated:  simulated,
	})
	if err != nil {
		logger.Warn(ctx, "Failed to write deploy audit entry", "error", err.Error())
	}
}
