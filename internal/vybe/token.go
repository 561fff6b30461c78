package vybe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"solana-trade-stream/internal/solana"
)

// DefaultAPIBaseURL is the REST root of the venue.
const DefaultAPIBaseURL = "https://api.vybenetwork.xyz"

// DefaultAPITimeout bounds a single REST call.
const DefaultAPITimeout = 30 * time.Second

const tokenService = "token"

// TokenDetails is the venue's summary of one SPL token.
type TokenDetails struct {
	Symbol        string          `json:"symbol"`
	MintAddress   string          `json:"mintAddress"`
	Price         decimal.Decimal `json:"price"`
	Price1d       decimal.Decimal `json:"price1d"`
	Price7d       decimal.Decimal `json:"price7d"`
	Decimal       int32           `json:"decimal"`
	Verified      bool            `json:"verified"`
	UpdateTime    int64           `json:"updateTime"`
	CurrentSupply decimal.Decimal `json:"currentSupply"`
	MarketCap     decimal.Decimal `json:"marketCap"`

	Category             *string             `json:"category"`
	LogoURL              *string             `json:"logoUrl"`
	Name                 *string             `json:"name"`
	Subcategory          *string             `json:"subcategory"`
	TokenAmountVolume24h decimal.NullDecimal `json:"tokenAmountVolume24h"`
	USDValueVolume24h    decimal.NullDecimal `json:"usdValueVolume24h"`
}

// Updated returns UpdateTime as a UTC timestamp.
func (t TokenDetails) Updated() time.Time {
	return time.Unix(t.UpdateTime, 0).UTC()
}

// APIError is a non-2xx REST response.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("vybe api: status %d: %s", e.StatusCode, e.Body)
}

// TokenAPI queries the REST token service.
type TokenAPI struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// TokenAPIOption configures TokenAPI.
type TokenAPIOption func(*TokenAPI)

// WithBaseURL overrides DefaultAPIBaseURL.
func WithBaseURL(u string) TokenAPIOption {
	return func(a *TokenAPI) {
		a.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(client *http.Client) TokenAPIOption {
	return func(a *TokenAPI) {
		a.client = client
	}
}

// NewTokenAPI creates a TokenAPI authenticated with apiKey.
func NewTokenAPI(apiKey string, opts ...TokenAPIOption) *TokenAPI {
	a := &TokenAPI{
		baseURL: DefaultAPIBaseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: DefaultAPITimeout},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// TokenDetails fetches GET /token/{mint}. The mint is validated locally first.
func (a *TokenAPI) TokenDetails(ctx context.Context, mint string) (*TokenDetails, error) {
	if err := solana.ValidateAddress(mint); err != nil {
		return nil, fmt.Errorf("token mint: %w", err)
	}

	endpoint := a.baseURL + "/" + tokenService + "/" + url.PathEscape(mint)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(APIKeyHeader, a.apiKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var details TokenDetails
	if err := json.Unmarshal(body, &details); err != nil {
		return nil, fmt.Errorf("%w: token details: %v", ErrDecode, err)
	}
	return &details, nil
}
