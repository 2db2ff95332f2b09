package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Ghawri/Cattle-insurance-agent/internal/apperr"
	"github.com/Ghawri/Cattle-insurance-agent/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type AgentRepository interface {
	CreateAgent(ctx context.Context, agent *models.Agent) error
	GetAgentByID(ctx context.Context, id string) (*models.Agent, error)
	GetAgentByUsername(ctx context.Context, username string) (*models.Agent, error)
}

type agentRepository struct {
	db *sqlx.DB
}

func NewAgentRepository(db *sqlx.DB) AgentRepository {
	return &agentRepository{db: db}
}

// CreateAgent inserts the agent. PasswordHash must already be hashed.
func (r *agentRepository) CreateAgent(ctx context.Context, agent *models.Agent) error {
	query := `
		INSERT INTO agents (id, username, password_hash, name, phone, agent_code, role, created_at)
		VALUES (:id, :username, :password_hash, :name, :phone, :agent_code, :role, :created_at)
	`

	_, err := r.db.NamedExecContext(ctx, query, agent)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return fmt.Errorf("agent %q: %w", agent.Username, apperr.ErrConflict)
		}
		return fmt.Errorf("failed to create agent: %w", err)
	}
	return nil
}

func (r *agentRepository) GetAgentByID(ctx context.Context, id string) (*models.Agent, error) {
	var agent models.Agent
	query := `SELECT id, username, password_hash, name, phone, agent_code, role, created_at FROM agents WHERE id = $1`

	if err := r.db.GetContext(ctx, &agent, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("agent %s: %w", id, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get agent by ID: %w", err)
	}
	return &agent, nil
}

func (r *agentRepository) GetAgentByUsername(ctx context.Context, username string) (*models.Agent, error) {
	var agent models.Agent
	query := `SELECT id, username, password_hash, name, phone, agent_code, role, created_at FROM agents WHERE username = $1`

	if err := r.db.GetContext(ctx, &agent, query, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("agent %q: %w", username, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get agent by username: %w", err)
	}
	return &agent, nil
}
