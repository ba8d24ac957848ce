package flipcash

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// TransactionFilters filter the wallet ledger server-side
type TransactionFilters struct {
	Type     string // credit | debit
	Category string
	Page     int
	PageSize int
}

func (f TransactionFilters) query() url.Values {
	q := url.Values{}
	if f.Type != "" {
		q.Set("type", f.Type)
	}
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.PageSize > 0 {
		q.Set("page_size", strconv.Itoa(f.PageSize))
	}
	return q
}

// CreatePaymentOrderRequest tops up the partner wallet through the gateway
type CreatePaymentOrderRequest struct {
	Amount  float64 `json:"amount" validate:"required,gt=0"`
	Purpose string  `json:"purpose,omitempty" validate:"omitempty,max=200"`
}

// GetWallet fetches the partner's wallet balance. The portal never mutates
// balances; all changes arrive through backend-confirmed gateway webhooks.
func (c *Client) GetWallet(ctx context.Context) (*Wallet, error) {
	var wallet Wallet
	if err := c.getJSON(ctx, "/partner-wallet/wallet/", nil, &wallet); err != nil {
		return nil, err
	}
	return &wallet, nil
}

// ListTransactions lists wallet ledger entries
func (c *Client) ListTransactions(ctx context.Context, filters TransactionFilters) (Page[Transaction], error) {
	data, err := c.do(ctx, http.MethodGet, "/partner-wallet/transactions/", filters.query(), nil)
	if err != nil {
		return Page[Transaction]{}, err
	}
	return decodePage[Transaction](data)
}

// CreatePaymentOrder creates a gateway checkout order. The returned Mode and
// PaymentSessionID are handed to the checkout SDK as-is.
func (c *Client) CreatePaymentOrder(ctx context.Context, req CreatePaymentOrderRequest) (*PaymentOrder, error) {
	var order PaymentOrder
	if err := c.sendJSON(ctx, http.MethodPost, "/partner-wallet/payments/create-order/", req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// VerifyPayment asks the backend for the authoritative gateway order status
func (c *Client) VerifyPayment(ctx context.Context, orderID string) (*PaymentVerification, error) {
	q := url.Values{}
	q.Set("order_id", orderID)

	var verification PaymentVerification
	if err := c.getJSON(ctx, "/partner-wallet/payments/verify/", q, &verification); err != nil {
		return nil, err
	}
	return &verification, nil
}
