package models

import "time"

type Claim struct {
	ID             string              `json:"id"`
	PolicyID       string              `json:"policyId"`
	FarmerID       string              `json:"farmerId"`
	AgentID        string              `json:"agentId"`
	DateOfDeath    string              `json:"dateOfDeath"`
	CauseOfDeath   string              `json:"causeOfDeath"`
	Description    string              `json:"description"`
	Status         ClaimStatus         `json:"status"`
	CreatedAt      time.Time           `json:"createdAt"`
	MLVerification *VerificationResult `json:"mlVerification,omitempty"`
	UploadedFiles  []UploadedFile      `json:"uploadedFiles,omitempty"`
}

type UploadedFile struct {
	FileName    string    `json:"fileName"`
	FileType    FileType  `json:"fileType"`
	ContentType string    `json:"contentType,omitempty"`
	Size        int64     `json:"size"`
	UploadedAt  time.Time `json:"uploadedAt"`
	SignedURL   string    `json:"signedUrl"`
}

type VerificationResult struct {
	IsDeceased           bool            `json:"isDeceased"`
	Confidence           float64         `json:"confidence"`
	CattleMatch          bool            `json:"cattleMatch"`
	SuspiciousIndicators []string        `json:"suspiciousIndicators"`
	SuggestedAction      SuggestedAction `json:"suggestedAction"`
	CauseOfDeath         string          `json:"causeOfDeath"`
}

// UploadGrant lets a farmer attach evidence to one claim without logging in.
type UploadGrant struct {
	Token     string    `json:"token"`
	ClaimID   string    `json:"claimId"`
	FarmerID  string    `json:"farmerId"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the grant no longer authorizes anything at instant now.
// The expiry instant itself is still valid.
func (g *UploadGrant) Expired(now time.Time) bool {
	return now.After(g.ExpiresAt)
}
