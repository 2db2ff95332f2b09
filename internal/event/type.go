package event

import (
	"time"

	"github.com/Ghawri/Cattle-insurance-agent/internal/models"
)

const ClaimQueue string = "claim_events"

type ClaimEventType string

const (
	ClaimCreated      ClaimEventType = "claim_created"
	ClaimFileUploaded ClaimEventType = "claim_file_uploaded"
	ClaimVerified     ClaimEventType = "claim_verified"
)

type ClaimEvent struct {
	ID              string                 `json:"id"`
	EventType       ClaimEventType         `json:"event_type"`
	ClaimID         string                 `json:"claim_id"`
	PolicyID        string                 `json:"policy_id,omitempty"`
	FarmerID        string                 `json:"farmer_id,omitempty"`
	AgentID         string                 `json:"agent_id,omitempty"`
	Status          models.ClaimStatus     `json:"status,omitempty"`
	SuggestedAction models.SuggestedAction `json:"suggested_action,omitempty"`
	FileName        string                 `json:"file_name,omitempty"`
	OccurredAt      time.Time              `json:"occurred_at"`
}
