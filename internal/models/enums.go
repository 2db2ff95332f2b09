package models

type PolicyStatus string

const (
	PolicyStatusActive    PolicyStatus = "active"
	PolicyStatusLapsed    PolicyStatus = "lapsed"
	PolicyStatusCancelled PolicyStatus = "cancelled"
)

type ClaimStatus string

const (
	ClaimStatusPending     ClaimStatus = "pending"
	ClaimStatusApproved    ClaimStatus = "approved"
	ClaimStatusUnderReview ClaimStatus = "under_review"
)

type SuggestedAction string

const (
	ActionApprove               SuggestedAction = "approve"
	ActionManualReview          SuggestedAction = "manual_review"
	ActionInvestigationRequired SuggestedAction = "investigation_required"
)

// FileType is the evidence kind chosen by the farmer in the upload portal.
// Any value is accepted; these are the ones the portal sends.
type FileType string

const (
	FileTypeImage FileType = "image"
	FileTypeVideo FileType = "video"
)
