// Package bankapi provides an HTTP client for the remote bank APIs:
// OAuth password-grant token exchange plus authenticated account and
// transaction fetches, with proactive request throttling.
package bankapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/finassist-cli/internal/core/domain"
	"github.com/custodia-labs/finassist-cli/internal/core/ports/driven"
)

// Ensure Client implements the interface.
var _ driven.BankAPI = (*Client)(nil)

// Default configuration values.
const (
	DefaultTimeout = 30 * time.Second

	// DefaultRequestsPerSecond is the proactive throttle rate for
	// resource endpoint calls.
	DefaultRequestsPerSecond = 5.0
)

// Config holds configuration for the bank API client.
type Config struct {
	// Timeout is the per-request timeout (default: 30s).
	Timeout time.Duration

	// RequestsPerSecond is the proactive throttle rate (default: 5).
	RequestsPerSecond float64
}

// Client calls the remote bank APIs.
type Client struct {
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a new bank API client.
func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}

	return &Client{
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
	}
}

// FetchToken performs the OAuth password-grant exchange and returns the
// access token.
func (c *Client) FetchToken(ctx context.Context, req driven.TokenRequest) (string, error) {
	if req.TokenURL == "" {
		return "", fmt.Errorf("%w: token URL is required", domain.ErrInvalidInput)
	}

	conf := &oauth2.Config{
		ClientID:     req.ClientID,
		ClientSecret: req.ClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  req.TokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
	if req.Scope != "" {
		conf.Scopes = strings.Fields(req.Scope)
	}

	// Route the token exchange through our own HTTP client so the
	// configured timeout applies.
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.http)

	token, err := conf.PasswordCredentialsToken(ctx, req.Username, req.Password)
	if err != nil {
		return "", fmt.Errorf("token exchange: %w", err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("token exchange: empty access token: %w", domain.ErrUpstream)
	}
	return token.AccessToken, nil
}

// FetchAccounts retrieves all accounts.
func (c *Client) FetchAccounts(ctx context.Context, url, accessToken string) ([]driven.Account, error) {
	var accounts []driven.Account
	if err := c.getJSON(ctx, url, accessToken, &accounts); err != nil {
		return nil, fmt.Errorf("fetch accounts: %w", err)
	}
	return accounts, nil
}

// FetchTransactions retrieves all transactions.
func (c *Client) FetchTransactions(ctx context.Context, url, accessToken string) ([]driven.Transaction, error) {
	var txns []driven.Transaction
	if err := c.getJSON(ctx, url, accessToken, &txns); err != nil {
		return nil, fmt.Errorf("fetch transactions: %w", err)
	}
	return txns, nil
}

// getJSON performs a throttled authenticated GET and decodes the JSON
// response into out.
func (c *Client) getJSON(ctx context.Context, url, accessToken string, out any) error {
	if url == "" {
		return fmt.Errorf("%w: URL is required", domain.ErrInvalidInput)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status %d: %s: %w", resp.StatusCode, strings.TrimSpace(string(body)), domain.ErrUpstream)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
