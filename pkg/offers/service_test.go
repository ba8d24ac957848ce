package offers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flipcash/partner-portal/pkg/flipcash"
)

func setupService(t *testing.T, handler http.Handler) *Service {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewService(flipcash.NewClient(server.URL, 5*time.Second, flipcash.StaticTokenSource("t")))
}

func TestRespond_ExpiredOfferNeverReachesBackend(t *testing.T) {
	respondCalls := 0
	service := setupService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			respondCalls++
			w.Write([]byte(`{}`))
			return
		}
		w.Write([]byte(`{"id":"o1","status":"pending","is_expired":true}`))
	}))

	_, err := service.Respond(context.Background(), "o1", flipcash.OfferResponse{Action: flipcash.OfferActionAccept})
	assert.ErrorIs(t, err, flipcash.ErrOfferExpired)
	assert.Zero(t, respondCalls)
}

func TestRespond_NonPendingForwardedToBackend(t *testing.T) {
	// The backend owns the state machine; its rejection of a double-respond
	// comes back verbatim instead of being guessed locally
	service := setupService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusConflict)
			w.Write([]byte(`{"detail":"Offer has already been accepted"}`))
			return
		}
		w.Write([]byte(`{"id":"o1","status":"accepted","is_expired":false}`))
	}))

	_, err := service.Respond(context.Background(), "o1", flipcash.OfferResponse{Action: flipcash.OfferActionReject})
	require.Error(t, err)

	var apiErr *flipcash.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "Offer has already been accepted", apiErr.Message)
}

func TestView_RespondabilityAndSuggestedCounter(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		respondable bool
	}{
		{"pending live", `{"id":"o1","status":"pending","is_expired":false,"system_calculated_price":15000,"partner_offered_price":11000}`, true},
		{"pending but expired", `{"id":"o1","status":"pending","is_expired":true,"system_calculated_price":15000,"partner_offered_price":11000}`, false},
		{"already accepted", `{"id":"o1","status":"accepted","is_expired":false,"system_calculated_price":15000,"partner_offered_price":11000}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := setupService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))

			view, err := service.View(context.Background(), "o1")
			require.NoError(t, err)
			assert.Equal(t, tt.respondable, view.Respondable)
			assert.InDelta(t, 13000.0, view.SuggestedCounter, 0.001)
		})
	}
}
