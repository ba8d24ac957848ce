package flipcash

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
)

// AgentFilters are the server-side filters of the agent directory
type AgentFilters struct {
	Status       AgentStatus
	Verification VerificationStatus
	Available    *bool
	Search       string
	Page         int
	PageSize     int
}

func (f AgentFilters) query() url.Values {
	q := url.Values{}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if f.Verification != "" {
		q.Set("verification_status", string(f.Verification))
	}
	if f.Available != nil {
		q.Set("is_available", strconv.FormatBool(*f.Available))
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.PageSize > 0 {
		q.Set("page_size", strconv.Itoa(f.PageSize))
	}
	return q
}

// CreateAgentRequest is the payload for creating a field agent
type CreateAgentRequest struct {
	Name               string `json:"name" validate:"required,min=2,max=100"`
	Phone              string `json:"phone" validate:"required,inphone"`
	Email              string `json:"email,omitempty" validate:"omitempty,email"`
	EmployeeCode       string `json:"employee_code,omitempty"`
	PAN                string `json:"pan,omitempty" validate:"omitempty,pan"`
	Pincode            string `json:"pincode,omitempty" validate:"omitempty,pincode"`
	MaxConcurrentLeads int    `json:"max_concurrent_leads,omitempty" validate:"omitempty,min=1,max=50"`
}

// UpdateAgentRequest is the payload for a full agent update (PUT)
type UpdateAgentRequest struct {
	Name               string `json:"name" validate:"required,min=2,max=100"`
	Phone              string `json:"phone" validate:"required,inphone"`
	Email              string `json:"email,omitempty" validate:"omitempty,email"`
	EmployeeCode       string `json:"employee_code,omitempty"`
	MaxConcurrentLeads int    `json:"max_concurrent_leads,omitempty" validate:"omitempty,min=1,max=50"`
}

// ListAgents fetches the agent directory. The response is decoded once into
// a Page regardless of which wire shape the deployment returns.
func (c *Client) ListAgents(ctx context.Context, filters AgentFilters) (Page[AgentProfile], error) {
	data, err := c.do(ctx, http.MethodGet, "/partner-agents/agents/", filters.query(), nil)
	if err != nil {
		return Page[AgentProfile]{}, err
	}
	return decodePage[AgentProfile](data)
}

// GetAgent fetches a single agent
func (c *Client) GetAgent(ctx context.Context, agentID string) (*AgentProfile, error) {
	var agent AgentProfile
	if err := c.getJSON(ctx, "/partner-agents/agents/"+agentID+"/", nil, &agent); err != nil {
		return nil, err
	}
	return &agent, nil
}

// CreateAgent registers a new field agent under the partner
func (c *Client) CreateAgent(ctx context.Context, req CreateAgentRequest) (*AgentProfile, error) {
	var agent AgentProfile
	if err := c.sendJSON(ctx, http.MethodPost, "/partner-agents/agents/", req, &agent); err != nil {
		return nil, err
	}
	return &agent, nil
}

// UpdateAgent replaces an agent's profile (PUT)
func (c *Client) UpdateAgent(ctx context.Context, agentID string, req UpdateAgentRequest) (*AgentProfile, error) {
	var agent AgentProfile
	if err := c.sendJSON(ctx, http.MethodPut, "/partner-agents/agents/"+agentID+"/", req, &agent); err != nil {
		return nil, err
	}
	return &agent, nil
}

// PatchAgent applies a partial update to an agent
func (c *Client) PatchAgent(ctx context.Context, agentID string, fields map[string]any) (*AgentProfile, error) {
	var agent AgentProfile
	if err := c.sendJSON(ctx, http.MethodPatch, "/partner-agents/agents/"+agentID+"/", fields, &agent); err != nil {
		return nil, err
	}
	return &agent, nil
}

// DeleteAgent soft-deletes an agent. The backend rejects deletion while the
// agent has active assignments; that rejection is returned verbatim as an
// *APIError and must be surfaced, not suppressed.
func (c *Client) DeleteAgent(ctx context.Context, agentID string) error {
	_, err := c.do(ctx, http.MethodDelete, "/partner-agents/agents/"+agentID+"/", nil, nil)
	return err
}

// VerifyAgent submits the agent for KYC verification
func (c *Client) VerifyAgent(ctx context.Context, agentID string) (*AgentProfile, error) {
	var agent AgentProfile
	if err := c.sendJSON(ctx, http.MethodPost, "/partner-agents/agents/"+agentID+"/verify/", nil, &agent); err != nil {
		return nil, err
	}
	return &agent, nil
}

// ToggleStatus flips the agent between active and inactive
func (c *Client) ToggleStatus(ctx context.Context, agentID string) (*AgentProfile, error) {
	var agent AgentProfile
	if err := c.sendJSON(ctx, http.MethodPost, "/partner-agents/agents/"+agentID+"/toggle-status/", nil, &agent); err != nil {
		return nil, err
	}
	return &agent, nil
}

// ActivateAgent sets the agent status to active
func (c *Client) ActivateAgent(ctx context.Context, agentID string) (*AgentProfile, error) {
	return c.PatchAgent(ctx, agentID, map[string]any{"status": AgentActive})
}

// DeactivateAgent sets the agent status to inactive
func (c *Client) DeactivateAgent(ctx context.Context, agentID string) (*AgentProfile, error) {
	return c.PatchAgent(ctx, agentID, map[string]any{"status": AgentInactive})
}

// ToggleAvailability reads the agent's current availability and PATCHes the
// inverse. The read-then-patch round trip is racy when invoked concurrently
// for the same agent, so calls are serialized per agent id; the PATCH is
// never issued before the GET has resolved.
func (c *Client) ToggleAvailability(ctx context.Context, agentID string) (*AgentProfile, error) {
	unlock := c.toggles.lock(agentID)
	defer unlock()

	current, err := c.GetAgent(ctx, agentID)
	if err != nil {
		return nil, fmt.Errorf("failed to read current availability: %w", err)
	}

	return c.PatchAgent(ctx, agentID, map[string]any{"is_available": !current.IsAvailable})
}

// AgentAssignments lists the assignments of one agent
func (c *Client) AgentAssignments(ctx context.Context, agentID string) (Page[AgentLeadAssignment], error) {
	data, err := c.do(ctx, http.MethodGet, "/partner-agents/agents/"+agentID+"/assignments/", nil, nil)
	if err != nil {
		return Page[AgentLeadAssignment]{}, err
	}
	return decodePage[AgentLeadAssignment](data)
}

// AgentActivityLogs lists the activity trail of one agent
func (c *Client) AgentActivityLogs(ctx context.Context, agentID string) (Page[ActivityLog], error) {
	data, err := c.do(ctx, http.MethodGet, "/partner-agents/agents/"+agentID+"/activity-logs/", nil, nil)
	if err != nil {
		return Page[ActivityLog]{}, err
	}
	return decodePage[ActivityLog](data)
}

// AgentStats fetches the dedicated stats endpoint. Older deployments lack
// it; on 404 the stats are approximated client-side from the assignment
// list so the profile page still renders.
func (c *Client) AgentStats(ctx context.Context, agentID string) (*AgentStats, error) {
	var stats AgentStats
	err := c.getJSON(ctx, "/partner-agents/agents/"+agentID+"/stats/", nil, &stats)
	if err == nil {
		return &stats, nil
	}
	if !IsNotFound(err) {
		return nil, err
	}

	page, err := c.AgentAssignments(ctx, agentID)
	if err != nil {
		return nil, fmt.Errorf("failed to approximate agent stats: %w", err)
	}
	return approximateStats(agentID, page.Results), nil
}

func approximateStats(agentID string, assignments []AgentLeadAssignment) *AgentStats {
	stats := &AgentStats{AgentID: agentID, Approximate: true}
	for _, a := range assignments {
		stats.TotalAssignments++
		switch a.Status {
		case AssignmentCompleted:
			stats.CompletedAssignments++
		case AssignmentCancelled, AssignmentRejected:
			stats.CancelledAssignments++
		default:
			stats.ActiveAssignments++
		}
	}
	if stats.TotalAssignments > 0 {
		stats.CompletionRate = float64(stats.CompletedAssignments) / float64(stats.TotalAssignments) * 100
	}
	return stats
}

// AvailableAgentsForLead fetches agents the backend considers assignable:
// active, available and under capacity. Entries with can_accept_leads unset
// are dropped here, reflecting the server-computed flag; capacity is never
// recomputed from the counters locally.
func (c *Client) AvailableAgentsForLead(ctx context.Context, leadID string) ([]AgentProfile, error) {
	available := true
	q := AgentFilters{Status: AgentActive, Available: &available}.query()
	if leadID != "" {
		q.Set("lead_id", leadID)
	}

	data, err := c.do(ctx, http.MethodGet, "/partner-agents/agents/", q, nil)
	if err != nil {
		return nil, err
	}
	page, err := decodePage[AgentProfile](data)
	if err != nil {
		return nil, err
	}

	agents := make([]AgentProfile, 0, len(page.Results))
	for _, agent := range page.Results {
		if agent.CanAcceptLeads {
			agents = append(agents, agent)
		}
	}
	return agents, nil
}

// agentToggleLocks serializes availability toggles per agent id
type agentToggleLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newAgentToggleLocks() *agentToggleLocks {
	return &agentToggleLocks{locks: make(map[string]*sync.Mutex)}
}

func (t *agentToggleLocks) lock(agentID string) func() {
	t.mu.Lock()
	l, ok := t.locks[agentID]
	if !ok {
		l = &sync.Mutex{}
		t.locks[agentID] = l
	}
	t.mu.Unlock()

	l.Lock()
	return l.Unlock
}
