package payments

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"ktcomp_payments/internal/usecase/interfaces"
)

const (
	defaultBaseURL        = "https://payments.paypack.rw/api"
	defaultRequestTimeout = 30 * time.Second

	// Tokens are refreshed slightly before the provider-reported expiry to
	// avoid racing an in-flight request against an expiring token.
	tokenExpirySlack = 30 * time.Second
)

var ErrMissingPaypackCredentials = errors.New("missing PAYPACK_CLIENT_ID / PAYPACK_CLIENT_SECRET")
var ErrPaypackAuthFailed = errors.New("paypack authentication failed")

// GatewayError carries the provider's non-2xx response for diagnostics.
type GatewayError struct {
	StatusCode int
	Body       string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("paypack gateway error status=%d body=%s", e.StatusCode, e.Body)
}

// PaypackGateway talks to the Paypack mobile-money API.
//
// Outbound: short-lived bearer token from the agent-authorize endpoint,
// cached until near expiry, then a cash-in request per charge. Inbound: the
// webhook signature check, an HMAC-SHA256 over the raw body with the shared
// webhook secret.

type PaypackGateway struct {
	httpClient    *http.Client
	baseURL       string
	clientID      string
	clientSecret  string
	webhookSecret string

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

var _ interfaces.IPaymentGateway = (*PaypackGateway)(nil)

func NewPaypackGateway(baseURL, clientID, clientSecret, webhookSecret string) (*PaypackGateway, error) {
	if strings.TrimSpace(clientID) == "" || strings.TrimSpace(clientSecret) == "" {
		log.Printf("[payment][gateway] missing paypack credentials")
		return nil, ErrMissingPaypackCredentials
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	log.Printf("[payment][gateway] paypack client initialized base_url=%s", baseURL)
	return &PaypackGateway{
		httpClient:    &http.Client{Timeout: defaultRequestTimeout},
		baseURL:       strings.TrimRight(baseURL, "/"),
		clientID:      clientID,
		clientSecret:  clientSecret,
		webhookSecret: webhookSecret,
	}, nil
}

type authorizeRequest struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

type authorizeResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	Expires int64  `json:"expires"`
}

// Authenticate exchanges the configured credentials for a short-lived access
// token. Failures are never cached: the next call re-authenticates.
func (g *PaypackGateway) Authenticate(ctx context.Context) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.authenticateLocked(ctx)
}

func (g *PaypackGateway) authenticateLocked(ctx context.Context) (string, error) {
	if g.accessToken != "" && time.Now().Before(g.tokenExpiry) {
		return g.accessToken, nil
	}

	log.Printf("[payment][gateway] authenticating")
	body, err := json.Marshal(authorizeRequest{ClientID: g.clientID, ClientSecret: g.clientSecret})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/auth/agents/authorize", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("[payment][gateway] authorize rejected status=%d", resp.StatusCode)
		return "", fmt.Errorf("%w: status=%d body=%s", ErrPaypackAuthFailed, resp.StatusCode, respBody)
	}

	var auth authorizeResponse
	if err := json.Unmarshal(respBody, &auth); err != nil {
		return "", fmt.Errorf("%w: %v", ErrPaypackAuthFailed, err)
	}
	if auth.Access == "" {
		return "", fmt.Errorf("%w: empty access token", ErrPaypackAuthFailed)
	}

	expiresIn := time.Duration(auth.Expires) * time.Second
	if expiresIn <= tokenExpirySlack {
		expiresIn = 15 * time.Minute
	}
	g.accessToken = auth.Access
	g.tokenExpiry = time.Now().Add(expiresIn - tokenExpirySlack)
	log.Printf("[payment][gateway] authenticated token_ttl=%s", expiresIn)
	return g.accessToken, nil
}

type cashinRequest struct {
	Amount int64  `json:"amount"`
	Number string `json:"number"`
}

type cashinResponse struct {
	Ref    string `json:"ref"`
	Status string `json:"status"`
	Kind   string `json:"kind"`
}

// Cashin submits a mobile-money charge. The returned Ref is the provider
// transaction reference the webhook later reports against.
func (g *PaypackGateway) Cashin(ctx context.Context, in interfaces.CashinRequest) (interfaces.CashinResponse, error) {
	log.Printf("[payment][gateway] cashin start amount=%d", in.Amount)

	token, err := g.Authenticate(ctx)
	if err != nil {
		return interfaces.CashinResponse{}, err
	}

	body, err := json.Marshal(cashinRequest{Amount: in.Amount, Number: in.Number})
	if err != nil {
		return interfaces.CashinResponse{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/transactions/cashin", bytes.NewReader(body))
	if err != nil {
		return interfaces.CashinResponse{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return interfaces.CashinResponse{}, err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("[payment][gateway] cashin rejected status=%d body=%s", resp.StatusCode, respBody)
		return interfaces.CashinResponse{}, &GatewayError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var out cashinResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return interfaces.CashinResponse{}, err
	}
	if out.Ref == "" {
		return interfaces.CashinResponse{}, &GatewayError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	log.Printf("[payment][gateway] cashin accepted ref=%s status=%s", out.Ref, out.Status)
	return interfaces.CashinResponse{Ref: out.Ref, Status: out.Status}, nil
}

// VerifyWebhookSignature recomputes the HMAC-SHA256 of the raw body with the
// shared webhook secret and compares it to the header value in constant time.
// Any missing or malformed input yields false, never an error: an unverifiable
// delivery is simply untrusted.
func (g *PaypackGateway) VerifyWebhookSignature(signature string, rawBody []byte) bool {
	if g.webhookSecret == "" {
		return false
	}
	signature = strings.TrimSpace(signature)
	if signature == "" || len(rawBody) == 0 {
		return false
	}

	provided, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(g.webhookSecret))
	mac.Write(rawBody)
	return hmac.Equal(provided, mac.Sum(nil))
}
