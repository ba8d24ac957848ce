package models

import "github.com/flipcash/partner-portal/pkg/flipcash"

// ErrorResponse represents an error response. Fields carries the upstream
// field-keyed validation map, when present, so the dashboard can render
// field-level errors without guessing from message text.
type ErrorResponse struct {
	Error   string              `json:"error"`
	Message string              `json:"message,omitempty"`
	Fields  map[string][]string `json:"fields,omitempty"`
}

// SuccessResponse represents a success response
type SuccessResponse struct {
	Message string `json:"message"`
}

// LoginRequest authenticates a partner
type LoginRequest struct {
	Phone    string `json:"phone" validate:"required,inphone"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginResponse carries the portal session token
type LoginResponse struct {
	Token   string           `json:"token"`
	Partner flipcash.Partner `json:"partner"`
}

// PaginationInfo contains pagination metadata for list responses
type PaginationInfo struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// DirectoryResponse is the agent directory page
type DirectoryResponse struct {
	Agents     []flipcash.AgentProfile `json:"agents"`
	Total      int                     `json:"total"`
	Paginated  bool                    `json:"paginated"`
	Next       string                  `json:"next,omitempty"`
	Previous   string                  `json:"previous,omitempty"`
	FromCache  bool                    `json:"-"`
}

// AvailableAgentsResponse lists agents eligible for a lead assignment
type AvailableAgentsResponse struct {
	LeadID string                  `json:"lead_id"`
	Agents []flipcash.AgentProfile `json:"agents"`
	Total  int                     `json:"total"`
}

// OfferViewResponse is the customer-facing negotiation view. Respondable is
// false for expired offers regardless of status, and the dashboard disables
// all three response actions on it.
type OfferViewResponse struct {
	Offer            flipcash.LeadOffer `json:"offer"`
	Respondable      bool               `json:"respondable"`
	SuggestedCounter float64            `json:"suggested_counter"`
}

// WalletSummaryResponse is the wallet overview
type WalletSummaryResponse struct {
	Wallet             flipcash.Wallet        `json:"wallet"`
	RecentTransactions []flipcash.Transaction `json:"recent_transactions"`
}

// StatementExportResponse describes a generated statement file
type StatementExportResponse struct {
	FileID    string `json:"file_id"`
	FileName  string `json:"file_name"`
	Format    string `json:"format"`
	Rows      int    `json:"rows"`
	CreatedAt string `json:"created_at"`
}

// ContentSection is one block of a marketing page
type ContentSection struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// ContentPage is a marketing/legal content payload
type ContentPage struct {
	Slug     string           `json:"slug"`
	Title    string           `json:"title"`
	Sections []ContentSection `json:"sections"`
}
