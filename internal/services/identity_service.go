package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Ghawri/Cattle-insurance-agent/internal/apperr"
	"github.com/Ghawri/Cattle-insurance-agent/internal/models"
	"github.com/Ghawri/Cattle-insurance-agent/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

// DemoAgent describes the account provisioned on startup.
type DemoAgent struct {
	Username  string
	Password  string
	Name      string
	Phone     string
	AgentCode string
}

// IdentityService owns agent accounts and the bearer tokens issued to them.
type IdentityService struct {
	agentRepo   repository.AgentRepository
	sessionRepo repository.SessionRepository
	jwtService  *JWTService
	logger      zerolog.Logger
	now         func() time.Time
}

func NewIdentityService(agentRepo repository.AgentRepository, sessionRepo repository.SessionRepository, jwtService *JWTService, logger zerolog.Logger) *IdentityService {
	return &IdentityService{
		agentRepo:   agentRepo,
		sessionRepo: sessionRepo,
		jwtService:  jwtService,
		logger:      logger.With().Str("component", "identity_service").Logger(),
		now:         time.Now,
	}
}

func (s *IdentityService) Signup(ctx context.Context, req models.SignupRequest) (*models.Agent, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, fmt.Errorf("username is required: %w", apperr.ErrValidation)
	}
	if len(req.Password) < minPasswordLength {
		return nil, fmt.Errorf("password must be at least %d characters: %w", minPasswordLength, apperr.ErrValidation)
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	agent := &models.Agent{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		Name:         req.Name,
		Phone:        req.Phone,
		AgentCode:    req.AgentCode,
		Role:         models.AgentRole,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.agentRepo.CreateAgent(ctx, agent); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return nil, fmt.Errorf("username %q is already registered: %w", username, apperr.ErrValidation)
		}
		return nil, err
	}

	s.logger.Info().Str("agent_id", agent.ID).Str("username", username).Msg("agent registered")
	return agent, nil
}

// Login checks the credentials and opens a new session. The returned token is
// valid until it expires or the session is removed by Logout.
func (s *IdentityService) Login(ctx context.Context, username, password string) (string, *models.Agent, error) {
	agent, err := s.agentRepo.GetAgentByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return "", nil, apperr.ErrInvalidCredentials
		}
		return "", nil, err
	}
	if !CheckPasswordHash(password, agent.PasswordHash) {
		s.logger.Warn().Str("username", agent.Username).Msg("failed login attempt")
		return "", nil, apperr.ErrInvalidCredentials
	}

	now := s.now()
	sessionID := uuid.NewString()
	token, expiresAt, err := s.jwtService.GenerateToken(agent, sessionID, now)
	if err != nil {
		return "", nil, err
	}

	session := &models.AgentSession{
		ID:        sessionID,
		AgentID:   agent.ID,
		CreatedAt: now.UTC(),
		ExpiresAt: expiresAt.UTC(),
	}
	if err := s.sessionRepo.CreateSession(ctx, session); err != nil {
		return "", nil, fmt.Errorf("failed to create session: %w", err)
	}

	return token, agent, nil
}

// Authenticate resolves a bearer token to the calling agent. Any failure is
// reported as apperr.ErrUnauthorized.
func (s *IdentityService) Authenticate(ctx context.Context, token string) (*models.Identity, error) {
	if token == "" {
		return nil, apperr.ErrUnauthorized
	}

	claims, err := s.jwtService.VerifyToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperr.ErrUnauthorized, err)
	}

	session, err := s.sessionRepo.GetSession(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, fmt.Errorf("session revoked: %w", apperr.ErrUnauthorized)
		}
		return nil, err
	}
	if session.AgentID != claims.Subject {
		return nil, fmt.Errorf("session does not belong to token subject: %w", apperr.ErrUnauthorized)
	}

	agent, err := s.agentRepo.GetAgentByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, fmt.Errorf("agent no longer exists: %w", apperr.ErrUnauthorized)
		}
		return nil, err
	}

	return &models.Identity{
		AgentID:   agent.ID,
		SessionID: session.ID,
		Profile:   agent.Profile(),
	}, nil
}

func (s *IdentityService) Logout(ctx context.Context, identity *models.Identity) error {
	if identity == nil {
		return apperr.ErrUnauthorized
	}
	return s.sessionRepo.DeleteSession(ctx, identity.SessionID)
}

// EnsureDemoAgent creates the demo account unless an agent with its username
// already exists. It reports whether an account was created.
func (s *IdentityService) EnsureDemoAgent(ctx context.Context, demo DemoAgent) (bool, error) {
	_, err := s.agentRepo.GetAgentByUsername(ctx, demo.Username)
	if err == nil {
		s.logger.Info().Str("username", demo.Username).Msg("demo agent already exists")
		return false, nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return false, fmt.Errorf("failed to look up demo agent: %w", err)
	}

	_, err = s.Signup(ctx, models.SignupRequest{
		Username:  demo.Username,
		Password:  demo.Password,
		Name:      demo.Name,
		Phone:     demo.Phone,
		AgentCode: demo.AgentCode,
	})
	if err != nil {
		// Another instance seeded it between our lookup and insert.
		if errors.Is(err, apperr.ErrValidation) {
			if _, lookupErr := s.agentRepo.GetAgentByUsername(ctx, demo.Username); lookupErr == nil {
				return false, nil
			}
		}
		return false, fmt.Errorf("failed to create demo agent: %w", err)
	}

	s.logger.Info().Str("username", demo.Username).Msg("demo agent created")
	return true, nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(bytes), nil
}

func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
