package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// ErrFetchFailure marks a failed source-document request. It aborts a reconciliation run.
var ErrFetchFailure = errors.New("fetch failure")

// APIError is a non-2xx response from the ledger API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("ledger API error (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("ledger API error (status %d): %s", e.StatusCode, e.Message)
}

// ClientConfig represents the configuration for the ledger API client.
type ClientConfig struct {
	APIURL           string
	Token            string
	Timeout          time.Duration // Default: 30 seconds
	PerPage          int           // Default: 100
	JournalPageLimit int           // Default: 10
	RateLimit        float64       // Requests per second, 0 disables limiting
	AccountsCacheTTL time.Duration // Default: 5 minutes
	HTTPClient       *http.Client
	Logger           *slog.Logger
}

// Client is a ledger API client. The bearer token lives on the client, never in ambient state.
type Client struct {
	httpClient       *http.Client
	baseURL          string
	token            string
	perPage          int
	journalPageLimit int
	limiter          *rate.Limiter
	accounts         *cache.Cache
	logger           *slog.Logger
}

// NewClient creates a new ledger API client.
func NewClient(config ClientConfig) *Client {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	perPage := config.PerPage
	if perPage <= 0 {
		perPage = 100
	}

	pageLimit := config.JournalPageLimit
	if pageLimit <= 0 {
		pageLimit = 10
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if config.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(config.RateLimit), 1)
	}

	ttl := config.AccountsCacheTTL
	if ttl == 0 {
		ttl = 5 * time.Minute
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		httpClient:       httpClient,
		baseURL:          strings.TrimSuffix(config.APIURL, "/"),
		token:            config.Token,
		perPage:          perPage,
		journalPageLimit: pageLimit,
		limiter:          limiter,
		accounts:         cache.New(ttl, 2*ttl),
		logger:           logger,
	}
}

// SetToken replaces the bearer token used for API requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

// ListInvoices fetches invoices in a single request.
func (c *Client) ListInvoices(ctx context.Context) ([]Invoice, error) {
	var page Page[Invoice]
	params := url.Values{}
	params.Set("per_page", strconv.Itoa(c.perPage))

	if err := c.get(ctx, "/invoices", params, &page); err != nil {
		return nil, fmt.Errorf("%w: failed to list invoices: %w", ErrFetchFailure, err)
	}
	return page.Data, nil
}

// ListBills fetches bills in a single request.
func (c *Client) ListBills(ctx context.Context) ([]Bill, error) {
	var page Page[Bill]
	params := url.Values{}
	params.Set("per_page", strconv.Itoa(c.perPage))

	if err := c.get(ctx, "/bills", params, &page); err != nil {
		return nil, fmt.Errorf("%w: failed to list bills: %w", ErrFetchFailure, err)
	}
	return page.Data, nil
}

// ListJournalEntries fetches one page of journal entries.
func (c *Client) ListJournalEntries(ctx context.Context, page int) (Page[JournalEntry], error) {
	var result Page[JournalEntry]
	params := url.Values{}
	params.Set("per_page", strconv.Itoa(c.perPage))
	params.Set("page", strconv.Itoa(page))

	if err := c.get(ctx, "/journal-entries", params, &result); err != nil {
		return Page[JournalEntry]{}, fmt.Errorf("failed to list journal entries (page=%d): %w", page, err)
	}
	return result, nil
}

// FetchJournalEntries walks journal-entry pages sequentially, up to the configured page limit.
// A failed page ends pagination; entries collected so far are returned without error.
func (c *Client) FetchJournalEntries(ctx context.Context) []JournalEntry {
	var all []JournalEntry

	for page := 1; page <= c.journalPageLimit; page++ {
		result, err := c.ListJournalEntries(ctx, page)
		if err != nil {
			c.logger.Debug("journal entry pagination stopped early", "page", page, "error", err)
			break
		}

		all = append(all, result.Data...)

		if len(result.Data) == 0 || result.LastPage == 0 || page >= result.LastPage {
			break
		}
		if page == c.journalPageLimit {
			c.logger.Debug("journal entry page limit reached", "limit", c.journalPageLimit, "last_page", result.LastPage)
		}
	}

	return all
}

// ListAccounts fetches active chart-of-accounts entries, optionally restricted to one category.
// Results are cached per category.
func (c *Client) ListAccounts(ctx context.Context, category string) ([]Account, error) {
	cacheKey := "accounts:" + category
	if cached, found := c.accounts.Get(cacheKey); found {
		return cached.([]Account), nil
	}

	params := url.Values{}
	params.Set("active_only", "true")
	if category != "" {
		params.Set("category", category)
	}

	var page Page[Account]
	if err := c.get(ctx, "/chart-of-accounts", params, &page); err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	c.accounts.SetDefault(cacheKey, page.Data)
	return page.Data, nil
}

// get issues a GET request and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.parseError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// parseError parses an error response from the ledger API.
func (c *Client) parseError(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{StatusCode: resp.StatusCode, Message: "failed to read error response"}
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil {
		return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}

	switch {
	case errResp.Message != "":
		return &APIError{StatusCode: resp.StatusCode, Message: errResp.Message}
	case errResp.ErrorDescription != "":
		return &APIError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("%s - %s", errResp.Error, errResp.ErrorDescription)}
	default:
		return &APIError{StatusCode: resp.StatusCode, Message: errResp.Error}
	}
}
