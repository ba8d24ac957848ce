package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/flipcash/partner-portal/pkg/auth"
	"github.com/flipcash/partner-portal/pkg/cache"
	"github.com/flipcash/partner-portal/pkg/flipcash"
	"github.com/flipcash/partner-portal/pkg/models"
)

const directoryCacheTTL = 60 * time.Second

// Service layers short-TTL caching over the upstream agent API. Every
// mutation invalidates the cached directory and re-fetches authoritative
// state; no optimistic local mutation is ever applied, because capacity and
// availability are server-computed.
type Service struct {
	api   *flipcash.Client
	cache *cache.Client
}

// NewService creates a new agent service
func NewService(api *flipcash.Client, cache *cache.Client) *Service {
	return &Service{
		api:   api,
		cache: cache,
	}
}

// Directory fetches the agent directory, serving from cache when fresh.
// Cache entries are scoped to the caller's session so one partner's
// directory is never served to another.
func (s *Service) Directory(ctx context.Context, filters flipcash.AgentFilters) (*models.DirectoryResponse, error) {
	cacheKey := directoryCacheKey(ctx, filters)

	if cached, err := s.cache.Get(ctx, cacheKey); err == nil && cached != "" {
		var response models.DirectoryResponse
		if err := json.Unmarshal([]byte(cached), &response); err == nil {
			response.FromCache = true
			return &response, nil
		}
	}

	page, err := s.api.ListAgents(ctx, filters)
	if err != nil {
		return nil, err
	}

	response := &models.DirectoryResponse{
		Agents:    page.Results,
		Total:     page.Count,
		Paginated: page.Paginated,
		Next:      page.Next,
		Previous:  page.Previous,
	}

	if payload, err := json.Marshal(response); err == nil {
		_ = s.cache.Set(ctx, cacheKey, payload, directoryCacheTTL)
	}

	return response, nil
}

// Get fetches a single agent
func (s *Service) Get(ctx context.Context, agentID string) (*flipcash.AgentProfile, error) {
	return s.api.GetAgent(ctx, agentID)
}

// Create registers a new agent and refreshes the directory
func (s *Service) Create(ctx context.Context, req flipcash.CreateAgentRequest) (*flipcash.AgentProfile, error) {
	agent, err := s.api.CreateAgent(ctx, req)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return agent, nil
}

// Update replaces an agent profile
func (s *Service) Update(ctx context.Context, agentID string, req flipcash.UpdateAgentRequest) (*flipcash.AgentProfile, error) {
	agent, err := s.api.UpdateAgent(ctx, agentID, req)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return agent, nil
}

// Patch applies a partial update
func (s *Service) Patch(ctx context.Context, agentID string, fields map[string]any) (*flipcash.AgentProfile, error) {
	agent, err := s.api.PatchAgent(ctx, agentID, fields)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return agent, nil
}

// Delete soft-deletes an agent. A backend rejection (e.g. active
// assignments remain) is returned unmodified so the handler can surface the
// message verbatim.
func (s *Service) Delete(ctx context.Context, agentID string) error {
	if err := s.api.DeleteAgent(ctx, agentID); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// Verify submits the agent for KYC verification
func (s *Service) Verify(ctx context.Context, agentID string) (*flipcash.AgentProfile, error) {
	agent, err := s.api.VerifyAgent(ctx, agentID)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return agent, nil
}

// ToggleStatus flips the agent between active and inactive
func (s *Service) ToggleStatus(ctx context.Context, agentID string) (*flipcash.AgentProfile, error) {
	agent, err := s.api.ToggleStatus(ctx, agentID)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return agent, nil
}

// ToggleAvailability serializes the read-then-patch toggle per agent and
// refreshes the directory afterwards
func (s *Service) ToggleAvailability(ctx context.Context, agentID string) (*flipcash.AgentProfile, error) {
	agent, err := s.api.ToggleAvailability(ctx, agentID)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return agent, nil
}

// Activate sets the agent active
func (s *Service) Activate(ctx context.Context, agentID string) (*flipcash.AgentProfile, error) {
	agent, err := s.api.ActivateAgent(ctx, agentID)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return agent, nil
}

// Deactivate sets the agent inactive
func (s *Service) Deactivate(ctx context.Context, agentID string) (*flipcash.AgentProfile, error) {
	agent, err := s.api.DeactivateAgent(ctx, agentID)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return agent, nil
}

// Assignments lists one agent's assignments
func (s *Service) Assignments(ctx context.Context, agentID string) ([]flipcash.AgentLeadAssignment, error) {
	page, err := s.api.AgentAssignments(ctx, agentID)
	if err != nil {
		return nil, err
	}
	return page.Results, nil
}

// ActivityLogs lists one agent's activity trail
func (s *Service) ActivityLogs(ctx context.Context, agentID string) ([]flipcash.ActivityLog, error) {
	page, err := s.api.AgentActivityLogs(ctx, agentID)
	if err != nil {
		return nil, err
	}
	return page.Results, nil
}

// Stats fetches agent stats (with the client-side 404 fallback)
func (s *Service) Stats(ctx context.Context, agentID string) (*flipcash.AgentStats, error) {
	return s.api.AgentStats(ctx, agentID)
}

// invalidate drops the caller's cached directory pages. Best-effort: a
// stale cache self-heals within the TTL.
func (s *Service) invalidate(ctx context.Context) {
	_ = s.cache.DeletePattern(ctx, fmt.Sprintf("agents:directory:%s:*", sessionScope(ctx)))
}

func directoryCacheKey(ctx context.Context, f flipcash.AgentFilters) string {
	available := ""
	if f.Available != nil {
		available = strconv.FormatBool(*f.Available)
	}
	return fmt.Sprintf("agents:directory:%s:%s:%s:%s:%s:%d:%d",
		sessionScope(ctx), f.Status, f.Verification, available, f.Search, f.Page, f.PageSize)
}

func sessionScope(ctx context.Context) string {
	if sid, ok := auth.SessionIDFromContext(ctx); ok {
		return sid
	}
	return "anon"
}
