package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Ghawri/Cattle-insurance-agent/internal/apperr"
	"github.com/Ghawri/Cattle-insurance-agent/internal/event"
	"github.com/Ghawri/Cattle-insurance-agent/internal/metrics"
	"github.com/Ghawri/Cattle-insurance-agent/internal/models"
	"github.com/Ghawri/Cattle-insurance-agent/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// mockAgentRepo is an in-memory AgentRepository.
type mockAgentRepo struct {
	mu         sync.Mutex
	byID       map[string]*models.Agent
	byUsername map[string]*models.Agent
}

func newMockAgentRepo() *mockAgentRepo {
	return &mockAgentRepo{byID: map[string]*models.Agent{}, byUsername: map[string]*models.Agent{}}
}

func (m *mockAgentRepo) CreateAgent(_ context.Context, agent *models.Agent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byUsername[agent.Username]; ok {
		return fmt.Errorf("agent %q: %w", agent.Username, apperr.ErrConflict)
	}
	stored := *agent
	m.byID[agent.ID] = &stored
	m.byUsername[agent.Username] = &stored
	return nil
}

func (m *mockAgentRepo) GetAgentByID(_ context.Context, id string) (*models.Agent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.byID[id]; ok {
		copied := *a
		return &copied, nil
	}
	return nil, apperr.ErrNotFound
}

func (m *mockAgentRepo) GetAgentByUsername(_ context.Context, username string) (*models.Agent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.byUsername[username]; ok {
		copied := *a
		return &copied, nil
	}
	return nil, apperr.ErrNotFound
}

// mockObjectStore keeps uploaded blobs in memory.
type mockObjectStore struct {
	mu           sync.Mutex
	objects      map[string][]byte
	contentTypes map[string]string
	uploadErr    error
	expiries     []time.Duration
}

func newMockObjectStore() *mockObjectStore {
	return &mockObjectStore{objects: map[string][]byte{}, contentTypes: map[string]string{}}
}

func (m *mockObjectStore) UploadBytes(_ context.Context, objectName string, data []byte, contentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.uploadErr != nil {
		return m.uploadErr
	}
	m.objects[objectName] = data
	m.contentTypes[objectName] = contentType
	return nil
}

func (m *mockObjectStore) PresignedURL(_ context.Context, objectName string, expiry time.Duration) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expiries = append(m.expiries, expiry)
	return fmt.Sprintf("https://objects.test/%s?sig=%d", objectName, len(m.expiries)), nil
}

// recordingPublisher captures published events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []event.ClaimEvent
	err    error
}

func (p *recordingPublisher) PublishClaimEvent(_ context.Context, evt event.ClaimEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return p.err
}

func (p *recordingPublisher) types() []event.ClaimEventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]event.ClaimEventType, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType
	}
	return out
}

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type testEnv struct {
	redis     *redis.Client
	mr        *miniredis.Miniredis
	store     *repository.DocumentStore
	farmers   repository.FarmerRepository
	policies  repository.PolicyRepository
	claims    repository.ClaimRepository
	grants    repository.UploadGrantRepository
	sessions  repository.SessionRepository
	agents    *mockAgentRepo
	objects   *mockObjectStore
	publisher *recordingPublisher
	metrics   *metrics.Metrics
	clock     *testClock
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	m, err := metrics.NewPrometheusMetrics(prometheus.NewRegistry())
	require.NoError(t, err)

	store := repository.NewDocumentStore(client)
	return &testEnv{
		redis:     client,
		mr:        mr,
		store:     store,
		farmers:   repository.NewFarmerRepository(store),
		policies:  repository.NewPolicyRepository(store),
		claims:    repository.NewClaimRepository(store),
		grants:    repository.NewUploadGrantRepository(store),
		sessions:  repository.NewSessionRepository(client),
		agents:    newMockAgentRepo(),
		objects:   newMockObjectStore(),
		publisher: &recordingPublisher{},
		metrics:   m,
		clock:     &testClock{t: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)},
	}
}

func (e *testEnv) farmerService() *FarmerService {
	s := NewFarmerService(e.farmers, zerolog.Nop())
	s.now = e.clock.Now
	return s
}

func (e *testEnv) policyService(strict bool) *PolicyService {
	s := NewPolicyService(e.policies, e.farmers, strict, zerolog.Nop())
	s.now = e.clock.Now
	return s
}

func (e *testEnv) claimService(strict bool, scorer Scorer) *ClaimService {
	s := NewClaimService(e.claims, e.policies, e.farmers, e.grants, e.objects, scorer, e.publisher, e.metrics,
		ClaimServiceConfig{
			UploadGrantTTL:   7 * 24 * time.Hour,
			SignedURLTTL:     365 * 24 * time.Hour,
			StrictReferences: strict,
		}, zerolog.Nop())
	s.now = e.clock.Now
	return s
}

var errBoom = errors.New("boom")

func agentIdentity(id string) *models.Identity {
	return &models.Identity{AgentID: id, SessionID: "session-" + id}
}
