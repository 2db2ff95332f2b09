package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/Ghawri/Cattle-insurance-agent/internal/apperr"
	"github.com/Ghawri/Cattle-insurance-agent/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockAgentRepo(t *testing.T) (AgentRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewAgentRepository(sqlx.NewDb(db, "postgres")), mock
}

var agentColumns = []string{"id", "username", "password_hash", "name", "phone", "agent_code", "role", "created_at"}

func TestAgentRepository_CreateAgent(t *testing.T) {
	repo, mock := newMockAgentRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO agents")).
		WithArgs("id-1", "agent1", "hash", "Demo Agent", "+91", "AG001", "agent", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.CreateAgent(context.Background(), &models.Agent{
		ID: "id-1", Username: "agent1", PasswordHash: "hash", Name: "Demo Agent",
		Phone: "+91", AgentCode: "AG001", Role: "agent", CreatedAt: time.Now(),
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAgentRepository_CreateAgentDuplicate(t *testing.T) {
	repo, mock := newMockAgentRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO agents")).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value"})

	err := repo.CreateAgent(context.Background(), &models.Agent{ID: "id-1", Username: "agent1"})
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestAgentRepository_GetAgentByUsername(t *testing.T) {
	repo, mock := newMockAgentRepo(t)
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM agents WHERE username = $1")).
		WithArgs("agent1").
		WillReturnRows(sqlmock.NewRows(agentColumns).
			AddRow("id-1", "agent1", "hash", "Demo Agent", "+91", "AG001", "agent", created))

	agent, err := repo.GetAgentByUsername(context.Background(), "agent1")
	require.NoError(t, err)
	assert.Equal(t, "id-1", agent.ID)
	assert.Equal(t, "AG001", agent.AgentCode)
	assert.Equal(t, created, agent.CreatedAt)
}

func TestAgentRepository_GetAgentByIDNotFound(t *testing.T) {
	repo, mock := newMockAgentRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM agents WHERE id = $1")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetAgentByID(context.Background(), "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
