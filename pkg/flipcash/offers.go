package flipcash

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// Offer response actions
const (
	OfferActionAccept  = "accept"
	OfferActionReject  = "reject"
	OfferActionCounter = "counter"
)

// OfferResponse is the customer's reply to a partner offer
type OfferResponse struct {
	Action        string   `json:"action" validate:"required,oneof=accept reject counter"`
	CounterPrice  *float64 `json:"counter_price,omitempty"`
	ResponseNotes string   `json:"response_notes,omitempty" validate:"omitempty,max=2000"`
}

// OfferFilters filter the offer list server-side
type OfferFilters struct {
	LeadID   string
	Status   OfferStatus
	Page     int
	PageSize int
}

func (f OfferFilters) query() url.Values {
	q := url.Values{}
	if f.LeadID != "" {
		q.Set("lead_id", f.LeadID)
	}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.PageSize > 0 {
		q.Set("page_size", strconv.Itoa(f.PageSize))
	}
	return q
}

// ListOffers lists lead offers
func (c *Client) ListOffers(ctx context.Context, filters OfferFilters) (Page[LeadOffer], error) {
	data, err := c.do(ctx, http.MethodGet, "/partner-leads/offers/", filters.query(), nil)
	if err != nil {
		return Page[LeadOffer]{}, err
	}
	return decodePage[LeadOffer](data)
}

// GetOffer fetches a single offer
func (c *Client) GetOffer(ctx context.Context, offerID string) (*LeadOffer, error) {
	var offer LeadOffer
	if err := c.getJSON(ctx, "/partner-leads/offers/"+offerID+"/", nil, &offer); err != nil {
		return nil, err
	}
	return &offer, nil
}

// RespondToOffer submits an accept/reject/counter response. A counter with a
// non-positive price is rejected locally before any network call; the
// backend remains the sole authority on acceptable counter ranges.
func (c *Client) RespondToOffer(ctx context.Context, offerID string, resp OfferResponse) (*LeadOffer, error) {
	if resp.Action == OfferActionCounter {
		if resp.CounterPrice == nil || *resp.CounterPrice <= 0 {
			return nil, ErrInvalidCounterPrice
		}
	}

	var offer LeadOffer
	if err := c.sendJSON(ctx, http.MethodPost, "/partner-leads/offers/"+offerID+"/respond/", resp, &offer); err != nil {
		return nil, err
	}
	return &offer, nil
}

// SuggestedCounter returns the midpoint between the system-calculated and
// partner-offered price. It is a convenience default for the counter form,
// never a validated bound.
func SuggestedCounter(offer *LeadOffer) float64 {
	return (offer.SystemCalculatedPrice + offer.PartnerOfferedPrice) / 2
}
