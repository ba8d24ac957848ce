package flipcash

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListAgents_BothWireShapes(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantCount int
		paginated bool
	}{
		{"bare array", `[{"id":"a1","name":"Ravi"},{"id":"a2","name":"Priya"}]`, 2, false},
		{"drf envelope", `{"count":2,"next":null,"previous":null,"results":[{"id":"a1"},{"id":"a2"}]}`, 2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))

			page, err := client.ListAgents(context.Background(), AgentFilters{})
			require.NoError(t, err)
			assert.Equal(t, tt.wantCount, page.Count)
			assert.Equal(t, tt.paginated, page.Paginated)
			assert.Len(t, page.Results, 2)
		})
	}
}

func TestListAgents_FilterQuery(t *testing.T) {
	var gotQuery string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`[]`))
	}))

	available := true
	_, err := client.ListAgents(context.Background(), AgentFilters{
		Status:    AgentActive,
		Available: &available,
		Search:    "ravi",
	})
	require.NoError(t, err)

	assert.Contains(t, gotQuery, "status=active")
	assert.Contains(t, gotQuery, "is_available=true")
	assert.Contains(t, gotQuery, "search=ravi")
}

func TestDeleteAgent_SurfacesBackendRejection(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail":"Agent has 2 active assignments"}`))
	}))

	err := client.DeleteAgent(context.Background(), "a1")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.Status)
	assert.Equal(t, "Agent has 2 active assignments", apiErr.Message)
}

func TestToggleAvailability_GetBeforePatch(t *testing.T) {
	var mu sync.Mutex
	var calls []string

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls = append(calls, r.Method)
		mu.Unlock()

		switch r.Method {
		case http.MethodGet:
			w.Write([]byte(`{"id":"a1","is_available":true}`))
		case http.MethodPatch:
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, false, body["is_available"], "patch must carry the inverse of the fetched state")
			w.Write([]byte(`{"id":"a1","is_available":false}`))
		}
	}))

	agent, err := client.ToggleAvailability(context.Background(), "a1")
	require.NoError(t, err)
	assert.False(t, agent.IsAvailable)
	assert.Equal(t, []string{http.MethodGet, http.MethodPatch}, calls)
}

func TestToggleAvailability_SerializedPerAgent(t *testing.T) {
	// The first toggle's GET is held open; a concurrent toggle for the same
	// agent must not issue its GET until the first round trip finishes.
	var mu sync.Mutex
	gets := 0
	release := make(chan struct{})

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			mu.Lock()
			gets++
			first := gets == 1
			mu.Unlock()
			if first {
				<-release
			}
			w.Write([]byte(`{"id":"a1","is_available":true}`))
			return
		}
		w.Write([]byte(`{"id":"a1","is_available":false}`))
	}))

	var wg sync.WaitGroup
	wg.Add(2)
	for i := 0; i < 2; i++ {
		go func() {
			defer wg.Done()
			_, err := client.ToggleAvailability(context.Background(), "a1")
			assert.NoError(t, err)
		}()
	}

	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	assert.Equal(t, 1, gets, "second toggle must wait for the first")
	mu.Unlock()

	close(release)
	wg.Wait()

	mu.Lock()
	assert.Equal(t, 2, gets)
	mu.Unlock()
}

func TestAvailableAgentsForLead_DropsOverCapacity(t *testing.T) {
	var gotQuery string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`[
			{"id":"a1","can_accept_leads":true,"is_available":true},
			{"id":"a2","can_accept_leads":false,"is_available":true}
		]`))
	}))

	agents, err := client.AvailableAgentsForLead(context.Background(), "lead-1")
	require.NoError(t, err)

	assert.Contains(t, gotQuery, "status=active")
	assert.Contains(t, gotQuery, "is_available=true")
	assert.Contains(t, gotQuery, "lead_id=lead-1")

	require.Len(t, agents, 1)
	assert.Equal(t, "a1", agents[0].ID)
}

func TestAgentStats_FallsBackOn404(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/partner-agents/agents/a1/stats/" {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"detail":"Not found."}`))
			return
		}
		// assignment list used for the approximation
		w.Write([]byte(`[
			{"id":"s1","status":"completed"},
			{"id":"s2","status":"completed"},
			{"id":"s3","status":"cancelled"},
			{"id":"s4","status":"en_route"}
		]`))
	}))

	stats, err := client.AgentStats(context.Background(), "a1")
	require.NoError(t, err)

	assert.True(t, stats.Approximate)
	assert.Equal(t, 4, stats.TotalAssignments)
	assert.Equal(t, 2, stats.CompletedAssignments)
	assert.Equal(t, 1, stats.CancelledAssignments)
	assert.Equal(t, 1, stats.ActiveAssignments)
	assert.InDelta(t, 50.0, stats.CompletionRate, 0.001)
}

func TestAgentStats_DedicatedEndpoint(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/partner-agents/agents/a1/stats/", r.URL.Path)
		w.Write([]byte(`{"agent_id":"a1","total_assignments":10,"completed_assignments":8,"completion_rate":80}`))
	}))

	stats, err := client.AgentStats(context.Background(), "a1")
	require.NoError(t, err)
	assert.False(t, stats.Approximate)
	assert.Equal(t, 10, stats.TotalAssignments)
}
