package payments

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flipcash/partner-portal/pkg/flipcash"
)

// fakeVerifier returns a scripted sequence of statuses, then repeats the last
type fakeVerifier struct {
	statuses []string
	err      error
	calls    int
}

func (f *fakeVerifier) VerifyPayment(ctx context.Context, orderID string) (*flipcash.PaymentVerification, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	idx := f.calls - 1
	if idx >= len(f.statuses) {
		idx = len(f.statuses) - 1
	}
	return &flipcash.PaymentVerification{
		OrderID:     orderID,
		OrderStatus: f.statuses[idx],
	}, nil
}

// instantSleep records requested delays without waiting
func instantSleep(delays *[]time.Duration) func(ctx context.Context, d time.Duration) error {
	return func(ctx context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return nil
	}
}

func TestExtractOrderID(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    string
		wantErr bool
	}{
		{"canonical", "order_id=ord_123", "ord_123", false},
		{"gateway spelling", "cf_order_id=ord_456", "ord_456", false},
		{"camel case", "orderId=ord_789", "ord_789", false},
		{"canonical wins", "orderId=late&order_id=first", "first", false},
		{"whitespace only", "order_id=%20%20", "", true},
		{"missing", "status=PAID", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, err := url.ParseQuery(tt.query)
			require.NoError(t, err)

			id, err := ExtractOrderID(query)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMissingOrderID)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		status string
		want   State
	}{
		{"PAID", StateSuccess},
		{"paid", StateSuccess},
		{"SUCCESS", StateSuccess},
		{"COMPLETED", StateSuccess},
		{"OK", StateSuccess},
		{"FAILED", StateFailed},
		{"CANCELLED", StateFailed},
		{"VOID", StateFailed},
		{"EXPIRED", StateFailed},
		{"TERMINATED", StateFailed},
		{"USER_DROPPED", StateFailed},
		{"ACTIVE", StatePending},
		{"PENDING", StatePending},
		{"IN_PROGRESS", StatePending},
		{"NOT_ATTEMPTED", StatePending},
		{"  active  ", StatePending},
		{"SOMETHING_NEW", StateError},
		{"", StateError},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeStatus(tt.status))
		})
	}
}

func TestPoll_SuccessShortCircuits(t *testing.T) {
	verifier := &fakeVerifier{statuses: []string{"PAID"}}
	var delays []time.Duration

	poller := NewPoller(verifier, 3, 3*time.Second)
	poller.sleep = instantSleep(&delays)

	result := poller.Poll(context.Background(), "ord_1")

	assert.Equal(t, StateSuccess, result.State)
	assert.Equal(t, 1, result.Attempts)
	assert.Equal(t, 1, verifier.calls)
	assert.Empty(t, delays, "a settled order must not wait")
	assert.False(t, result.RetriesExhausted)
}

func TestPoll_PendingRetriesExactBudget(t *testing.T) {
	// Order stays ACTIVE forever: 1 initial call + 3 retries, each after a
	// fixed 3s wait, then the manual fallback is signalled
	verifier := &fakeVerifier{statuses: []string{"ACTIVE"}}
	var delays []time.Duration

	poller := NewPoller(verifier, 3, 3*time.Second)
	poller.sleep = instantSleep(&delays)

	result := poller.Poll(context.Background(), "ord_1")

	assert.Equal(t, StatePending, result.State)
	assert.Equal(t, 4, result.Attempts)
	assert.Equal(t, 4, verifier.calls)
	assert.Equal(t, []time.Duration{3 * time.Second, 3 * time.Second, 3 * time.Second}, delays)
	assert.True(t, result.RetriesExhausted)
	assert.NotEmpty(t, result.Message)
}

func TestPoll_PendingThenSettled(t *testing.T) {
	verifier := &fakeVerifier{statuses: []string{"ACTIVE", "PAID"}}
	var delays []time.Duration

	poller := NewPoller(verifier, 3, 3*time.Second)
	poller.sleep = instantSleep(&delays)

	result := poller.Poll(context.Background(), "ord_1")

	assert.Equal(t, StateSuccess, result.State)
	assert.Equal(t, 2, result.Attempts)
	assert.Len(t, delays, 1)
	assert.False(t, result.RetriesExhausted)
}

func TestPoll_FailedIsTerminal(t *testing.T) {
	verifier := &fakeVerifier{statuses: []string{"USER_DROPPED"}}
	var delays []time.Duration

	poller := NewPoller(verifier, 3, 3*time.Second)
	poller.sleep = instantSleep(&delays)

	result := poller.Poll(context.Background(), "ord_1")

	assert.Equal(t, StateFailed, result.State)
	assert.Equal(t, 1, result.Attempts)
	assert.Empty(t, delays)
}

func TestPoll_VerificationErrorNotRetried(t *testing.T) {
	verifier := &fakeVerifier{err: errors.New("upstream unavailable")}
	var delays []time.Duration

	poller := NewPoller(verifier, 3, 3*time.Second)
	poller.sleep = instantSleep(&delays)

	result := poller.Poll(context.Background(), "ord_1")

	assert.Equal(t, StateError, result.State)
	assert.Equal(t, 1, verifier.calls)
	assert.Empty(t, delays)
	assert.Contains(t, result.Message, "upstream unavailable")
}

func TestPoll_ContextCancelledMidWait(t *testing.T) {
	verifier := &fakeVerifier{statuses: []string{"ACTIVE"}}

	poller := NewPoller(verifier, 3, 3*time.Second)
	poller.sleep = func(ctx context.Context, d time.Duration) error {
		return context.Canceled
	}

	result := poller.Poll(context.Background(), "ord_1")

	assert.Equal(t, StateError, result.State)
	assert.Equal(t, 1, verifier.calls)
}

func TestVerify_SingleShot(t *testing.T) {
	verifier := &fakeVerifier{statuses: []string{"ACTIVE"}}

	poller := NewPoller(verifier, 3, 3*time.Second)
	result := poller.Verify(context.Background(), "ord_1")

	assert.Equal(t, StatePending, result.State)
	assert.Equal(t, 1, result.Attempts)
	assert.Equal(t, 1, verifier.calls, "manual check never retries")
}

func TestNewPoller_NegativeRetriesClamped(t *testing.T) {
	verifier := &fakeVerifier{statuses: []string{"ACTIVE"}}
	var delays []time.Duration

	poller := NewPoller(verifier, -1, time.Second)
	poller.sleep = instantSleep(&delays)

	result := poller.Poll(context.Background(), "ord_1")
	assert.Equal(t, 1, result.Attempts)
	assert.True(t, result.RetriesExhausted)
}
