package payments

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/flipcash/partner-portal/pkg/flipcash"
)

// ErrMissingOrderID means the callback URL carried no recognizable order
// identifier. This is a terminal client-side error: no verification call is
// possible and none may be attempted.
var ErrMissingOrderID = errors.New("no order identifier found in callback parameters")

// orderIDParams are the query-parameter spellings seen across gateway
// redirect versions, checked in order
var orderIDParams = []string{"order_id", "cf_order_id", "orderId"}

// State is the UI-facing outcome of a payment verification
type State string

const (
	StateSuccess State = "success"
	StateFailed  State = "failed"
	StatePending State = "pending"
	StateError   State = "error"
)

// Verifier asks the backend for the authoritative gateway order status
type Verifier interface {
	VerifyPayment(ctx context.Context, orderID string) (*flipcash.PaymentVerification, error)
}

// Result is the outcome of a verification poll
type Result struct {
	State            State                         `json:"state"`
	OrderID          string                        `json:"order_id"`
	Attempts         int                           `json:"attempts"`
	RetriesExhausted bool                          `json:"retries_exhausted,omitempty"`
	Verification     *flipcash.PaymentVerification `json:"verification,omitempty"`
	Message          string                        `json:"message,omitempty"`
}

// Poller verifies a gateway order after the checkout redirect. A pending
// status is retried a bounded number of times at a fixed interval, then the
// caller falls back to a manual re-check.
type Poller struct {
	verifier Verifier
	retries  int
	interval time.Duration

	// sleep is replaceable in tests
	sleep func(ctx context.Context, d time.Duration) error
}

// NewPoller creates a poller with the given retry budget and fixed interval
func NewPoller(verifier Verifier, retries int, interval time.Duration) *Poller {
	if retries < 0 {
		retries = 0
	}
	return &Poller{
		verifier: verifier,
		retries:  retries,
		interval: interval,
		sleep:    sleepContext,
	}
}

// ExtractOrderID pulls the gateway order identifier out of the callback
// query parameters, tolerating the gateway's inconsistent naming
func ExtractOrderID(query url.Values) (string, error) {
	for _, param := range orderIDParams {
		if id := strings.TrimSpace(query.Get(param)); id != "" {
			return id, nil
		}
	}
	return "", ErrMissingOrderID
}

// NormalizeStatus case-normalizes a gateway status string into one of the
// four UI states
func NormalizeStatus(status string) State {
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case "PAID", "SUCCESS", "COMPLETED", "OK":
		return StateSuccess
	case "FAILED", "CANCELLED", "VOID", "EXPIRED", "TERMINATED", "USER_DROPPED":
		return StateFailed
	case "ACTIVE", "PENDING", "IN_PROGRESS", "NOT_ATTEMPTED":
		return StatePending
	default:
		return StateError
	}
}

// Poll verifies the order once, then retries pending results up to the
// configured budget. Verification errors are not retried; only a pending
// gateway status is.
func (p *Poller) Poll(ctx context.Context, orderID string) Result {
	result := Result{OrderID: orderID}

	for attempt := 0; ; attempt++ {
		result.Attempts = attempt + 1

		verification, err := p.verifier.VerifyPayment(ctx, orderID)
		if err != nil {
			result.State = StateError
			result.Message = err.Error()
			return result
		}

		result.Verification = verification
		result.State = NormalizeStatus(verification.OrderStatus)
		if result.State != StatePending {
			return result
		}

		if attempt >= p.retries {
			result.RetriesExhausted = true
			result.Message = "payment is still processing; check status manually"
			return result
		}

		if err := p.sleep(ctx, p.interval); err != nil {
			result.State = StateError
			result.Message = err.Error()
			return result
		}
	}
}

// Verify runs a single verification with no retries, for the manual
// "check status" escape hatch
func (p *Poller) Verify(ctx context.Context, orderID string) Result {
	result := Result{OrderID: orderID, Attempts: 1}

	verification, err := p.verifier.VerifyPayment(ctx, orderID)
	if err != nil {
		result.State = StateError
		result.Message = err.Error()
		return result
	}

	result.Verification = verification
	result.State = NormalizeStatus(verification.OrderStatus)
	return result
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
