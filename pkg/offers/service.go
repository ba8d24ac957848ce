package offers

import (
	"context"

	"github.com/flipcash/partner-portal/pkg/flipcash"
	"github.com/flipcash/partner-portal/pkg/models"
)

// Service drives the customer-facing offer negotiation flow. The state
// machine (pending -> accepted|rejected|countered|expired) is backend-owned;
// the portal only reads it and forwards the single respond action.
type Service struct {
	api *flipcash.Client
}

// NewService creates a new offer service
func NewService(api *flipcash.Client) *Service {
	return &Service{api: api}
}

// View fetches an offer in its negotiation-view shape. Respondable is false
// once the backend marks the offer expired, whatever its status says.
func (s *Service) View(ctx context.Context, offerID string) (*models.OfferViewResponse, error) {
	offer, err := s.api.GetOffer(ctx, offerID)
	if err != nil {
		return nil, err
	}

	return &models.OfferViewResponse{
		Offer:            *offer,
		Respondable:      isRespondable(offer),
		SuggestedCounter: flipcash.SuggestedCounter(offer),
	}, nil
}

// List lists offers
func (s *Service) List(ctx context.Context, filters flipcash.OfferFilters) (flipcash.Page[flipcash.LeadOffer], error) {
	return s.api.ListOffers(ctx, filters)
}

// Respond submits the customer's accept/reject/counter reply. Expired
// offers are rejected locally before any network call; so are counter
// responses without a positive price. The backend remains the authority on
// everything else, including acceptable counter ranges.
func (s *Service) Respond(ctx context.Context, offerID string, resp flipcash.OfferResponse) (*flipcash.LeadOffer, error) {
	offer, err := s.api.GetOffer(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if offer.IsExpired {
		return nil, flipcash.ErrOfferExpired
	}

	// Non-pending statuses are forwarded; the backend is the authority on
	// the negotiation state machine and its rejection is surfaced verbatim.
	return s.api.RespondToOffer(ctx, offerID, resp)
}

func isRespondable(offer *flipcash.LeadOffer) bool {
	return !offer.IsExpired && offer.Status == flipcash.OfferPending
}
