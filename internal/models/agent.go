package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const AgentRole = "agent"

type Agent struct {
	ID           string    `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Name         string    `json:"name" db:"name"`
	Phone        string    `json:"phone" db:"phone"`
	AgentCode    string    `json:"agentCode" db:"agent_code"`
	Role         string    `json:"role" db:"role"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// AgentProfile is the metadata handed back to clients on login and profile reads.
type AgentProfile struct {
	Username  string `json:"username"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	AgentCode string `json:"agentCode"`
	Role      string `json:"role"`
}

func (a *Agent) Profile() AgentProfile {
	return AgentProfile{
		Username:  a.Username,
		Name:      a.Name,
		Phone:     a.Phone,
		AgentCode: a.AgentCode,
		Role:      a.Role,
	}
}

// Identity is the authenticated caller attached to a request.
type Identity struct {
	AgentID   string
	SessionID string
	Profile   AgentProfile
}

type AgentSession struct {
	ID        string    `json:"id"`
	AgentID   string    `json:"agentId"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// AccessClaims are carried by agent bearer tokens. Subject is the agent id and
// ID is the session id checked against the session allow-list.
type AccessClaims struct {
	jwt.RegisteredClaims
	AgentCode string `json:"agent_code,omitempty"`
}
