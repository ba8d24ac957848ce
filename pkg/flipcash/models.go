package flipcash

import "time"

// AgentStatus is the lifecycle status of a field agent
type AgentStatus string

const (
	AgentActive    AgentStatus = "active"
	AgentInactive  AgentStatus = "inactive"
	AgentSuspended AgentStatus = "suspended"
	AgentPending   AgentStatus = "pending"
)

// VerificationStatus is the KYC verification state of an agent
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

// AssignmentStatus tracks an assignment through its lifecycle. Transitions
// are computed by the backend; the portal only displays and requests them.
type AssignmentStatus string

const (
	AssignmentAssigned            AssignmentStatus = "assigned"
	AssignmentAccepted            AssignmentStatus = "accepted"
	AssignmentEnRoute             AssignmentStatus = "en_route"
	AssignmentArrived             AssignmentStatus = "arrived"
	AssignmentInspectionStarted   AssignmentStatus = "inspection_started"
	AssignmentInspectionCompleted AssignmentStatus = "inspection_completed"
	AssignmentCompleted           AssignmentStatus = "completed"
	AssignmentCancelled           AssignmentStatus = "cancelled"
	AssignmentRejected            AssignmentStatus = "rejected"
)

// AssignmentPriority is the partner-chosen priority of an assignment
type AssignmentPriority string

const (
	PriorityLow    AssignmentPriority = "low"
	PriorityNormal AssignmentPriority = "normal"
	PriorityHigh   AssignmentPriority = "high"
	PriorityUrgent AssignmentPriority = "urgent"
)

// OfferStatus is the backend-owned negotiation state of a lead offer
type OfferStatus string

const (
	OfferPending   OfferStatus = "pending"
	OfferAccepted  OfferStatus = "accepted"
	OfferRejected  OfferStatus = "rejected"
	OfferCountered OfferStatus = "countered"
	OfferExpired   OfferStatus = "expired"
)

// AgentProfile is a partner-owned field agent as reported by the backend.
// Capacity (can_accept_leads) is server-computed and must never be derived
// locally from the counters.
type AgentProfile struct {
	ID                        string             `json:"id"`
	Name                      string             `json:"name"`
	Phone                     string             `json:"phone"`
	Email                     string             `json:"email,omitempty"`
	EmployeeCode              string             `json:"employee_code,omitempty"`
	Status                    AgentStatus        `json:"status"`
	VerificationStatus        VerificationStatus `json:"verification_status"`
	IsAvailable               bool               `json:"is_available"`
	MaxConcurrentLeads        int                `json:"max_concurrent_leads"`
	CurrentAssignedLeadsCount int                `json:"current_assigned_leads_count"`
	CanAcceptLeads            bool               `json:"can_accept_leads"`
	TotalLeadsCompleted       int                `json:"total_leads_completed"`
	TotalVisitsCompleted      int                `json:"total_visits_completed"`
	AverageRating             float64            `json:"average_rating"`
	LastLatitude              *float64           `json:"last_latitude,omitempty"`
	LastLongitude             *float64           `json:"last_longitude,omitempty"`
	LastSeenAt                *time.Time         `json:"last_seen_at,omitempty"`
	CreatedAt                 time.Time          `json:"created_at"`
	UpdatedAt                 time.Time          `json:"updated_at"`
}

// AgentLeadAssignment binds one agent to one claimed lead
type AgentLeadAssignment struct {
	ID              string             `json:"id"`
	AgentID         string             `json:"agent_id"`
	AgentName       string             `json:"agent_name,omitempty"`
	LeadID          string             `json:"lead_id"`
	Status          AssignmentStatus   `json:"status"`
	Priority        AssignmentPriority `json:"priority"`
	AssignmentNotes string             `json:"assignment_notes,omitempty"`
	AssignedAt      time.Time          `json:"assigned_at"`
	AcceptedAt      *time.Time         `json:"accepted_at,omitempty"`
	CompletedAt     *time.Time         `json:"completed_at,omitempty"`
	CancelledAt     *time.Time         `json:"cancelled_at,omitempty"`
}

// ActivityLog is a single entry of an agent's activity trail
type ActivityLog struct {
	ID           string    `json:"id"`
	AgentID      string    `json:"agent_id"`
	ActivityType string    `json:"activity_type"`
	Description  string    `json:"description,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// AssignableLead is a claimed lead eligible for agent assignment
type AssignableLead struct {
	ID           string    `json:"id"`
	CustomerName string    `json:"customer_name"`
	DeviceModel  string    `json:"device_model"`
	Pincode      string    `json:"pincode,omitempty"`
	QuotedPrice  float64   `json:"quoted_price"`
	ClaimedAt    time.Time `json:"claimed_at"`
}

// LeadOffer is a partner-submitted price quote for a lead. The negotiation
// state machine is backend-owned; an offer with IsExpired set is immutable
// regardless of Status.
type LeadOffer struct {
	ID                    string      `json:"id"`
	LeadID                string      `json:"lead_id"`
	SystemCalculatedPrice float64     `json:"system_calculated_price"`
	PartnerOfferedPrice   float64     `json:"partner_offered_price"`
	DeviationPercentage   float64     `json:"deviation_percentage"`
	InspectionFindings    []string    `json:"inspection_findings,omitempty"`
	InspectionPhotos      []string    `json:"inspection_photos,omitempty"`
	Status                OfferStatus `json:"status"`
	CounterPrice          *float64    `json:"counter_price,omitempty"`
	ResponseNotes         string      `json:"response_notes,omitempty"`
	ExpiresAt             time.Time   `json:"expires_at"`
	IsExpired             bool        `json:"is_expired"`
	CreatedAt             time.Time   `json:"created_at"`
}

// Wallet is the partner's ledger balance. Balances are mutated only by
// backend-confirmed payment webhooks, never by the portal.
type Wallet struct {
	ID             string    `json:"id"`
	Balance        float64   `json:"balance"`
	BlockedBalance float64   `json:"blocked_balance"`
	Currency       string    `json:"currency"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Transaction is a single wallet ledger entry
type Transaction struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"` // credit | debit
	Category    string    `json:"category"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description,omitempty"`
	ReferenceID string    `json:"reference_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// PaymentOrder is a gateway checkout order created through the backend.
// Mode is supplied per-order by the backend and must never be hardcoded.
type PaymentOrder struct {
	OrderID          string    `json:"order_id"`
	Status           string    `json:"order_status"`
	PaymentSessionID string    `json:"payment_session_id"`
	Mode             string    `json:"mode"`
	Amount           float64   `json:"order_amount"`
	Currency         string    `json:"order_currency"`
	CreatedAt        time.Time `json:"created_at"`
}

// PaymentVerification is the backend's view of a gateway order after a
// callback redirect
type PaymentVerification struct {
	OrderID          string  `json:"order_id"`
	OrderStatus      string  `json:"order_status"`
	PaymentSessionID string  `json:"payment_session_id,omitempty"`
	Amount           float64 `json:"order_amount"`
	Currency         string  `json:"order_currency,omitempty"`
	Mode             string  `json:"mode,omitempty"`
}

// AgentStats summarizes an agent's assignment outcomes
type AgentStats struct {
	AgentID              string  `json:"agent_id"`
	TotalAssignments     int     `json:"total_assignments"`
	ActiveAssignments    int     `json:"active_assignments"`
	CompletedAssignments int     `json:"completed_assignments"`
	CancelledAssignments int     `json:"cancelled_assignments"`
	CompletionRate       float64 `json:"completion_rate"`
	Approximate          bool    `json:"approximate,omitempty"`
}

// Partner is the authenticated partner account returned by login
type Partner struct {
	ID           string `json:"id"`
	BusinessName string `json:"business_name"`
	Phone        string `json:"phone"`
	Email        string `json:"email,omitempty"`
	KYCStatus    string `json:"kyc_status,omitempty"`
}
