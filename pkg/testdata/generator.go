package testdata

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"

	"github.com/flipcash/partner-portal/pkg/flipcash"
)

// indianCities back the fake agent and lead locations
var indianCities = []struct {
	City    string
	Pincode string
}{
	{"Mumbai", "400001"},
	{"Delhi", "110001"},
	{"Bengaluru", "560001"},
	{"Hyderabad", "500001"},
	{"Chennai", "600001"},
	{"Pune", "411001"},
	{"Kolkata", "700001"},
	{"Ahmedabad", "380001"},
	{"Jaipur", "302001"},
	{"Lucknow", "226001"},
}

var deviceModels = []string{
	"iPhone 13", "iPhone 14 Pro", "Samsung Galaxy S23", "OnePlus 11",
	"Pixel 7", "Redmi Note 12", "Vivo V27", "Oppo Reno 8", "Realme GT Neo",
	"iPhone 12 Mini",
}

// GeneratorConfig tunes the fake data distributions
type GeneratorConfig struct {
	AvailableChance float64 // probability an agent is available
	VerifiedChance  float64 // probability an agent has cleared KYC
}

// DefaultConfig returns distributions close to a real partner fleet
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		AvailableChance: 0.7,
		VerifiedChance:  0.8,
	}
}

// Generator produces fake portal domain objects for tests and demos
type Generator struct {
	cfg GeneratorConfig
	rng *rand.Rand
}

// NewGenerator creates a generator with a fixed seed so tests are stable
func NewGenerator(cfg GeneratorConfig, seed int64) *Generator {
	gofakeit.Seed(seed)
	return &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(seed)),
	}
}

// indianMobile builds a valid Indian mobile number (starts 6-9)
func (g *Generator) indianMobile() string {
	first := []rune("6789")[g.rng.Intn(4)]
	rest := ""
	for i := 0; i < 9; i++ {
		rest += fmt.Sprintf("%d", g.rng.Intn(10))
	}
	return fmt.Sprintf("+91%c%s", first, rest)
}

// Agent generates one fake agent profile
func (g *Generator) Agent() flipcash.AgentProfile {
	maxLeads := 3 + g.rng.Intn(5)
	current := g.rng.Intn(maxLeads + 1)
	available := g.rng.Float64() < g.cfg.AvailableChance

	verification := flipcash.VerificationPending
	status := flipcash.AgentPending
	if g.rng.Float64() < g.cfg.VerifiedChance {
		verification = flipcash.VerificationVerified
		status = flipcash.AgentActive
	}

	completed := g.rng.Intn(200)
	now := time.Now()

	return flipcash.AgentProfile{
		ID:                        uuid.NewString(),
		Name:                      gofakeit.Name(),
		Phone:                     g.indianMobile(),
		Email:                     gofakeit.Email(),
		EmployeeCode:              fmt.Sprintf("AGT-%04d", g.rng.Intn(10000)),
		Status:                    status,
		VerificationStatus:        verification,
		IsAvailable:               available,
		MaxConcurrentLeads:        maxLeads,
		CurrentAssignedLeadsCount: current,
		CanAcceptLeads:            available && status == flipcash.AgentActive && current < maxLeads,
		TotalLeadsCompleted:       completed,
		TotalVisitsCompleted:      completed + g.rng.Intn(50),
		AverageRating:             3.0 + g.rng.Float64()*2.0,
		CreatedAt:                 now.AddDate(0, -g.rng.Intn(12), 0),
		UpdatedAt:                 now,
	}
}

// Agents generates n fake agent profiles
func (g *Generator) Agents(n int) []flipcash.AgentProfile {
	out := make([]flipcash.AgentProfile, n)
	for i := range out {
		out[i] = g.Agent()
	}
	return out
}

// Assignment generates one fake assignment for the given agent and lead
func (g *Generator) Assignment(agentID, leadID string) flipcash.AgentLeadAssignment {
	statuses := []flipcash.AssignmentStatus{
		flipcash.AssignmentAssigned,
		flipcash.AssignmentAccepted,
		flipcash.AssignmentEnRoute,
		flipcash.AssignmentInspectionStarted,
		flipcash.AssignmentCompleted,
		flipcash.AssignmentCancelled,
	}
	priorities := []flipcash.AssignmentPriority{
		flipcash.PriorityLow,
		flipcash.PriorityNormal,
		flipcash.PriorityHigh,
		flipcash.PriorityUrgent,
	}

	status := statuses[g.rng.Intn(len(statuses))]
	assigned := time.Now().Add(-time.Duration(g.rng.Intn(72)) * time.Hour)

	a := flipcash.AgentLeadAssignment{
		ID:         uuid.NewString(),
		AgentID:    agentID,
		AgentName:  gofakeit.Name(),
		LeadID:     leadID,
		Status:     status,
		Priority:   priorities[g.rng.Intn(len(priorities))],
		AssignedAt: assigned,
	}

	if status != flipcash.AssignmentAssigned && status != flipcash.AssignmentCancelled {
		accepted := assigned.Add(time.Duration(5+g.rng.Intn(30)) * time.Minute)
		a.AcceptedAt = &accepted
	}
	if status == flipcash.AssignmentCompleted {
		completed := assigned.Add(time.Duration(2+g.rng.Intn(8)) * time.Hour)
		a.CompletedAt = &completed
	}
	if status == flipcash.AssignmentCancelled {
		cancelled := assigned.Add(time.Duration(10+g.rng.Intn(60)) * time.Minute)
		a.CancelledAt = &cancelled
	}

	return a
}

// AssignableLead generates one fake claimed lead awaiting assignment
func (g *Generator) AssignableLead() flipcash.AssignableLead {
	loc := indianCities[g.rng.Intn(len(indianCities))]
	return flipcash.AssignableLead{
		ID:           uuid.NewString(),
		CustomerName: gofakeit.Name(),
		DeviceModel:  deviceModels[g.rng.Intn(len(deviceModels))],
		Pincode:      loc.Pincode,
		QuotedPrice:  float64(5000 + g.rng.Intn(45000)),
		ClaimedAt:    time.Now().Add(-time.Duration(g.rng.Intn(24)) * time.Hour),
	}
}

// Offer generates one fake pending lead offer
func (g *Generator) Offer(leadID string) flipcash.LeadOffer {
	system := float64(8000 + g.rng.Intn(30000))
	offered := system * (0.7 + g.rng.Float64()*0.25)

	return flipcash.LeadOffer{
		ID:                    uuid.NewString(),
		LeadID:                leadID,
		SystemCalculatedPrice: system,
		PartnerOfferedPrice:   offered,
		DeviationPercentage:   (system - offered) / system * 100,
		Status:                flipcash.OfferPending,
		ExpiresAt:             time.Now().Add(time.Duration(1+g.rng.Intn(48)) * time.Hour),
		CreatedAt:             time.Now(),
	}
}

// Transaction generates one fake wallet ledger entry
func (g *Generator) Transaction() flipcash.Transaction {
	types := []string{"credit", "debit"}
	categories := []string{"lead_purchase", "wallet_topup", "refund", "settlement"}

	return flipcash.Transaction{
		ID:          uuid.NewString(),
		Type:        types[g.rng.Intn(len(types))],
		Category:    categories[g.rng.Intn(len(categories))],
		Amount:      float64(100 + g.rng.Intn(20000)),
		Description: gofakeit.Sentence(6),
		ReferenceID: fmt.Sprintf("TXN-%06d", g.rng.Intn(1000000)),
		CreatedAt:   time.Now().Add(-time.Duration(g.rng.Intn(720)) * time.Hour),
	}
}
