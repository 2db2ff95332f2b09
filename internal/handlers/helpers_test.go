package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/Ghawri/Cattle-insurance-agent/internal/apperr"
	"github.com/Ghawri/Cattle-insurance-agent/internal/event"
	"github.com/Ghawri/Cattle-insurance-agent/internal/metrics"
	"github.com/Ghawri/Cattle-insurance-agent/internal/models"
	"github.com/Ghawri/Cattle-insurance-agent/internal/repository"
	"github.com/Ghawri/Cattle-insurance-agent/internal/services"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// mockAgentRepo is an in-memory AgentRepository.
type mockAgentRepo struct {
	mu     sync.Mutex
	agents map[string]*models.Agent
}

func (m *mockAgentRepo) CreateAgent(_ context.Context, agent *models.Agent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.agents {
		if a.Username == agent.Username {
			return apperr.ErrConflict
		}
	}
	stored := *agent
	m.agents[agent.ID] = &stored
	return nil
}

func (m *mockAgentRepo) GetAgentByID(_ context.Context, id string) (*models.Agent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.agents[id]; ok {
		copied := *a
		return &copied, nil
	}
	return nil, apperr.ErrNotFound
}

func (m *mockAgentRepo) GetAgentByUsername(_ context.Context, username string) (*models.Agent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.agents {
		if a.Username == username {
			copied := *a
			return &copied, nil
		}
	}
	return nil, apperr.ErrNotFound
}

type mockObjectStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (m *mockObjectStore) UploadBytes(_ context.Context, objectName string, data []byte, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[objectName] = data
	return nil
}

func (m *mockObjectStore) PresignedURL(_ context.Context, objectName string, _ time.Duration) (string, error) {
	return "https://objects.test/" + objectName, nil
}

type testServer struct {
	router   *gin.Engine
	mr       *miniredis.Miniredis
	objects  *mockObjectStore
	registry *prometheus.Registry
	grants   repository.UploadGrantRepository
}

type serverOption func(*RouterConfig)

func withUploadLimit(n int64) serverOption {
	return func(cfg *RouterConfig) {
		cfg.UploadRateLimit = n
		cfg.UploadRatePeriod = time.Minute
	}
}

func withMaxUpload(n int64) serverOption {
	return func(cfg *RouterConfig) { cfg.MaxUploadBytes = n }
}

func newTestServer(t *testing.T, scorer services.Scorer, opts ...serverOption) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	registry := prometheus.NewRegistry()
	m, err := metrics.NewPrometheusMetrics(registry)
	require.NoError(t, err)

	logger := zerolog.Nop()
	store := repository.NewDocumentStore(client)
	farmerRepo := repository.NewFarmerRepository(store)
	policyRepo := repository.NewPolicyRepository(store)
	claimRepo := repository.NewClaimRepository(store)
	grantRepo := repository.NewUploadGrantRepository(store)
	objects := &mockObjectStore{objects: map[string][]byte{}}

	identity := services.NewIdentityService(&mockAgentRepo{agents: map[string]*models.Agent{}},
		repository.NewSessionRepository(client), services.NewJWTService("test-secret", time.Hour), logger)
	_, err = identity.EnsureDemoAgent(context.Background(), services.DemoAgent{
		Username:  "agent1",
		Password:  "demo123",
		Name:      "Demo Agent",
		Phone:     "+91 9876543210",
		AgentCode: "AG001",
	})
	require.NoError(t, err)

	claims := services.NewClaimService(claimRepo, policyRepo, farmerRepo, grantRepo, objects, scorer,
		event.NopPublisher{}, m, services.ClaimServiceConfig{
			UploadGrantTTL:   7 * 24 * time.Hour,
			SignedURLTTL:     365 * 24 * time.Hour,
			StrictReferences: true,
		}, logger)

	cfg := RouterConfig{Env: "test", MaxUploadBytes: 1 << 20}
	for _, opt := range opts {
		opt(&cfg)
	}

	router := NewRouter(cfg, Dependencies{
		Identity: identity,
		Farmers:  services.NewFarmerService(farmerRepo, logger),
		Policies: services.NewPolicyService(policyRepo, farmerRepo, true, logger),
		Claims:   claims,
		HealthChecks: map[string]HealthCheck{
			"redis": func(ctx context.Context) error { return client.Ping(ctx).Err() },
		},
		Metrics:  m,
		Gatherer: registry,
		Logger:   logger,
	})

	return &testServer{router: router, mr: mr, objects: objects, registry: registry, grants: grantRepo}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) upload(t *testing.T, token, fileType, fileName string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if token != "" {
		require.NoError(t, mw.WriteField("token", token))
	}
	if fileType != "" {
		require.NoError(t, mw.WriteField("fileType", fileType))
	}
	if data != nil {
		part, err := mw.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload/file", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) login(t *testing.T) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/agent/login", "", gin.H{"username": "agent1", "password": "demo123"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	token, _ := body["accessToken"].(string)
	require.NotEmpty(t, token)
	return token
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func str(v any) string {
	return fmt.Sprint(v)
}
