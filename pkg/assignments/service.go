package assignments

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/flipcash/partner-portal/pkg/cache"
	"github.com/flipcash/partner-portal/pkg/flipcash"
	"github.com/flipcash/partner-portal/pkg/models"
)

const leadAssignmentsCacheTTL = 60 * time.Second

// Service drives the assignment workflow: pick an available agent for a
// claimed lead, create the assignment, reassign or cancel it. The per-lead
// assignment list is cached briefly and invalidated on every mutation so
// the dashboard re-renders authoritative state.
type Service struct {
	api   *flipcash.Client
	cache *cache.Client
}

// NewService creates a new assignment service
func NewService(api *flipcash.Client, cache *cache.Client) *Service {
	return &Service{
		api:   api,
		cache: cache,
	}
}

// AvailableAgents fetches agents the backend reports as assignable and
// applies an optional substring filter over name, phone and employee code.
// The filter is pure presentation; eligibility itself is server-decided.
func (s *Service) AvailableAgents(ctx context.Context, leadID, search string) (*models.AvailableAgentsResponse, error) {
	agents, err := s.api.AvailableAgentsForLead(ctx, leadID)
	if err != nil {
		return nil, err
	}

	if search != "" {
		agents = filterAgents(agents, search)
	}

	return &models.AvailableAgentsResponse{
		LeadID: leadID,
		Agents: agents,
		Total:  len(agents),
	}, nil
}

// Create posts a new assignment and invalidates the lead's cached
// assignment list. A capacity race between fetch and submit surfaces the
// backend's rejection verbatim; it cannot be re-validated locally.
func (s *Service) Create(ctx context.Context, req flipcash.CreateAssignmentRequest) (*flipcash.AgentLeadAssignment, error) {
	assignment, err := s.api.CreateAssignment(ctx, req)
	if err != nil {
		return nil, err
	}
	s.invalidateLead(ctx, req.LeadID)
	return assignment, nil
}

// ListForLead lists assignments of one lead, cached briefly
func (s *Service) ListForLead(ctx context.Context, leadID string) ([]flipcash.AgentLeadAssignment, error) {
	cacheKey := leadCacheKey(leadID)

	if cached, err := s.cache.Get(ctx, cacheKey); err == nil && cached != "" {
		var assignments []flipcash.AgentLeadAssignment
		if err := json.Unmarshal([]byte(cached), &assignments); err == nil {
			return assignments, nil
		}
	}

	page, err := s.api.ListAssignments(ctx, flipcash.AssignmentFilters{LeadID: leadID})
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(page.Results); err == nil {
		_ = s.cache.Set(ctx, cacheKey, payload, leadAssignmentsCacheTTL)
	}

	return page.Results, nil
}

// List lists assignments with filters, uncached
func (s *Service) List(ctx context.Context, filters flipcash.AssignmentFilters) (flipcash.Page[flipcash.AgentLeadAssignment], error) {
	return s.api.ListAssignments(ctx, filters)
}

// Get fetches a single assignment
func (s *Service) Get(ctx context.Context, assignmentID string) (*flipcash.AgentLeadAssignment, error) {
	return s.api.GetAssignment(ctx, assignmentID)
}

// Cancel cancels an assignment and invalidates its lead's cache
func (s *Service) Cancel(ctx context.Context, assignmentID string) error {
	assignment, err := s.api.GetAssignment(ctx, assignmentID)
	if err != nil {
		return err
	}
	if err := s.api.CancelAssignment(ctx, assignmentID); err != nil {
		return err
	}
	s.invalidateLead(ctx, assignment.LeadID)
	return nil
}

// Reassign moves an assignment to a different agent
func (s *Service) Reassign(ctx context.Context, assignmentID string, req flipcash.ReassignRequest) (*flipcash.AgentLeadAssignment, error) {
	assignment, err := s.api.ReassignAssignment(ctx, assignmentID, req)
	if err != nil {
		return nil, err
	}
	s.invalidateLead(ctx, assignment.LeadID)
	return assignment, nil
}

// AssignableLeads lists claimed leads still waiting for an agent
func (s *Service) AssignableLeads(ctx context.Context) ([]flipcash.AssignableLead, error) {
	page, err := s.api.AssignableLeads(ctx)
	if err != nil {
		return nil, err
	}
	return page.Results, nil
}

func (s *Service) invalidateLead(ctx context.Context, leadID string) {
	_ = s.cache.Delete(ctx, leadCacheKey(leadID))
}

func leadCacheKey(leadID string) string {
	return "assignments:lead:" + leadID
}

func filterAgents(agents []flipcash.AgentProfile, search string) []flipcash.AgentProfile {
	needle := strings.ToLower(search)
	filtered := make([]flipcash.AgentProfile, 0, len(agents))
	for _, agent := range agents {
		if strings.Contains(strings.ToLower(agent.Name), needle) ||
			strings.Contains(strings.ToLower(agent.Phone), needle) ||
			strings.Contains(strings.ToLower(agent.EmployeeCode), needle) {
			filtered = append(filtered, agent)
		}
	}
	return filtered
}
