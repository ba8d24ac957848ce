package flipcash

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// AssignmentFilters filter the assignment list server-side
type AssignmentFilters struct {
	LeadID   string
	AgentID  string
	Status   AssignmentStatus
	Page     int
	PageSize int
}

func (f AssignmentFilters) query() url.Values {
	q := url.Values{}
	if f.LeadID != "" {
		q.Set("lead_id", f.LeadID)
	}
	if f.AgentID != "" {
		q.Set("agent_id", f.AgentID)
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

// CreateAssignmentRequest binds a claimed lead to one agent
type CreateAssignmentRequest struct {
	AgentID         string             `json:"agent_id" validate:"required"`
	LeadID          string             `json:"lead_id" validate:"required"`
	Priority        AssignmentPriority `json:"priority" validate:"required,oneof=low normal high urgent"`
	AssignmentNotes string             `json:"assignment_notes,omitempty" validate:"omitempty,max=2000"`
}

// ReassignRequest moves an assignment to a different agent
type ReassignRequest struct {
	AgentID string `json:"agent_id" validate:"required"`
	Reason  string `json:"reason,omitempty" validate:"omitempty,max=2000"`
}

// ListAssignments lists assignments with optional filters
func (c *Client) ListAssignments(ctx context.Context, filters AssignmentFilters) (Page[AgentLeadAssignment], error) {
	data, err := c.do(ctx, http.MethodGet, "/partner-agents/assignments/", filters.query(), nil)
	if err != nil {
		return Page[AgentLeadAssignment]{}, err
	}
	return decodePage[AgentLeadAssignment](data)
}

// GetAssignment fetches a single assignment
func (c *Client) GetAssignment(ctx context.Context, assignmentID string) (*AgentLeadAssignment, error) {
	var assignment AgentLeadAssignment
	if err := c.getJSON(ctx, "/partner-agents/assignments/"+assignmentID+"/", nil, &assignment); err != nil {
		return nil, err
	}
	return &assignment, nil
}

// CreateAssignment posts a new assignment. The agent's capacity can change
// between the availability fetch and this call; the backend's rejection is
// returned verbatim since capacity cannot be re-validated locally.
func (c *Client) CreateAssignment(ctx context.Context, req CreateAssignmentRequest) (*AgentLeadAssignment, error) {
	var assignment AgentLeadAssignment
	if err := c.sendJSON(ctx, http.MethodPost, "/partner-agents/assignments/", req, &assignment); err != nil {
		return nil, err
	}
	return &assignment, nil
}

// CancelAssignment cancels an assignment
func (c *Client) CancelAssignment(ctx context.Context, assignmentID string) error {
	_, err := c.do(ctx, http.MethodDelete, "/partner-agents/assignments/"+assignmentID+"/", nil, nil)
	return err
}

// ReassignAssignment moves an assignment to another agent
func (c *Client) ReassignAssignment(ctx context.Context, assignmentID string, req ReassignRequest) (*AgentLeadAssignment, error) {
	var assignment AgentLeadAssignment
	if err := c.sendJSON(ctx, http.MethodPost, "/partner-agents/assignments/"+assignmentID+"/reassign/", req, &assignment); err != nil {
		return nil, err
	}
	return &assignment, nil
}

// AssignableLeads lists claimed leads that still need an agent
func (c *Client) AssignableLeads(ctx context.Context) (Page[AssignableLead], error) {
	data, err := c.do(ctx, http.MethodGet, "/partner-agents/assignable-leads/", nil, nil)
	if err != nil {
		return Page[AssignableLead]{}, err
	}
	return decodePage[AssignableLead](data)
}
