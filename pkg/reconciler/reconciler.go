// Package reconciler is a client for the payment confirmation flow: it races
// the pushed websocket event against the status-poll endpoint and returns the
// first terminal status either path observes.
//
// Both paths read the same persisted ground truth, so the push channel is
// treated as an optimization only. A failed websocket dial, a dropped
// connection, or a push that never arrives all degrade to polling.
package reconciler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// Status mirrors the server's payment status values.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusSuccessful Status = "SUCCESSFUL"
	StatusFailed     Status = "FAILED"
)

func (s Status) IsTerminal() bool {
	return s == StatusSuccessful || s == StatusFailed
}

var (
	ErrTimeout         = errors.New("reconciler: payment did not resolve before the deadline")
	ErrPaymentNotFound = errors.New("reconciler: payment not found")
)

const (
	defaultPollInterval = 2 * time.Second
	defaultTimeout      = 2 * time.Minute
)

type Option func(*Reconciler)

func WithPollInterval(d time.Duration) Option {
	return func(r *Reconciler) { r.pollInterval = d }
}

func WithTimeout(d time.Duration) Option {
	return func(r *Reconciler) { r.timeout = d }
}

func WithHTTPClient(c *http.Client) Option {
	return func(r *Reconciler) { r.httpClient = c }
}

// Reconciler waits for a payment to reach a terminal status.

type Reconciler struct {
	baseURL      string
	httpClient   *http.Client
	dialer       *websocket.Dialer
	pollInterval time.Duration
	timeout      time.Duration
}

// New builds a reconciler against a server base URL, e.g.
// "http://localhost:8080".
func New(baseURL string, opts ...Option) *Reconciler {
	r := &Reconciler{
		baseURL:      strings.TrimRight(baseURL, "/"),
		httpClient:   http.DefaultClient,
		dialer:       websocket.DefaultDialer,
		pollInterval: defaultPollInterval,
		timeout:      defaultTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type resolution struct {
	status Status
	err    error
}

// Await blocks until the payment resolves, the unknown-payment error is
// observed, or the overall timeout elapses.
func (r *Reconciler) Await(ctx context.Context, paymentID string) (Status, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	results := make(chan resolution, 2)

	go r.watchPush(ctx, paymentID, results)
	go r.poll(ctx, paymentID, results)

	for {
		select {
		case res := <-results:
			if res.err != nil {
				return "", res.err
			}
			return res.status, nil
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return "", ErrTimeout
			}
			return "", ctx.Err()
		}
	}
}

// watchPush registers interest over the websocket and waits for the resolved
// event. Errors are swallowed: the poll path is authoritative.
func (r *Reconciler) watchPush(ctx context.Context, paymentID string, results chan<- resolution) {
	wsURL := strings.Replace(r.baseURL, "http", "ws", 1) + "/v1/payments/events"

	conn, resp, err := r.dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	defer conn.Close()

	register := map[string]any{
		"action": "register",
		"data":   map[string]string{"payment_id": paymentID},
	}
	if err := conn.WriteJSON(register); err != nil {
		return
	}

	// Unblock the read when the poll path wins or the deadline passes.
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		var push struct {
			Type      string `json:"type"`
			PaymentID string `json:"payment_id"`
			Status    Status `json:"status"`
		}
		if err := conn.ReadJSON(&push); err != nil {
			return
		}
		if push.PaymentID != paymentID || !push.Status.IsTerminal() {
			continue
		}
		select {
		case results <- resolution{status: push.Status}:
		default:
		}
		return
	}
}

func (r *Reconciler) poll(ctx context.Context, paymentID string, results chan<- resolution) {
	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		status, err := r.fetchStatus(ctx, paymentID)
		// Transient poll failures are retried on the next tick; an unknown
		// payment will not become known, so that one fails fast.
		if errors.Is(err, ErrPaymentNotFound) || (err == nil && status.IsTerminal()) {
			select {
			case results <- resolution{status: status, err: err}:
			default:
			}
			return
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return
		}
	}
}

func (r *Reconciler) fetchStatus(ctx context.Context, paymentID string) (Status, error) {
	url := fmt.Sprintf("%s/v1/payments/%s", r.baseURL, paymentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return "", ErrPaymentNotFound
	default:
		return "", fmt.Errorf("reconciler: status endpoint answered %d", resp.StatusCode)
	}

	var body struct {
		Status Status `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	return body.Status, nil
}
