package services

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/Ghawri/Cattle-insurance-agent/internal/apperr"
	"github.com/Ghawri/Cattle-insurance-agent/internal/event"
	"github.com/Ghawri/Cattle-insurance-agent/internal/metrics"
	"github.com/Ghawri/Cattle-insurance-agent/internal/models"
	"github.com/Ghawri/Cattle-insurance-agent/internal/repository"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	uploadPortalPath = "/farmer-upload"
	defaultFileType  = "file"
)

// ObjectStore holds evidence blobs and hands out time-limited read URLs.
type ObjectStore interface {
	UploadBytes(ctx context.Context, objectName string, data []byte, contentType string) error
	PresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error)
}

type ClaimServiceConfig struct {
	UploadGrantTTL time.Duration
	SignedURLTTL   time.Duration
	// StrictReferences rejects claims, grants and uploads whose referenced
	// policy, farmer or claim does not exist.
	StrictReferences bool
}

// ClaimService drives a claim from filing through evidence collection to a
// verification-based disposition.
type ClaimService struct {
	claimRepo  repository.ClaimRepository
	policyRepo repository.PolicyRepository
	farmerRepo repository.FarmerRepository
	grantRepo  repository.UploadGrantRepository
	objects    ObjectStore
	scorer     Scorer
	publisher  event.Publisher
	metrics    *metrics.Metrics
	cfg        ClaimServiceConfig
	logger     zerolog.Logger
	now        func() time.Time
}

func NewClaimService(
	claimRepo repository.ClaimRepository,
	policyRepo repository.PolicyRepository,
	farmerRepo repository.FarmerRepository,
	grantRepo repository.UploadGrantRepository,
	objects ObjectStore,
	scorer Scorer,
	publisher event.Publisher,
	m *metrics.Metrics,
	cfg ClaimServiceConfig,
	logger zerolog.Logger,
) *ClaimService {
	if publisher == nil {
		publisher = event.NopPublisher{}
	}
	return &ClaimService{
		claimRepo:  claimRepo,
		policyRepo: policyRepo,
		farmerRepo: farmerRepo,
		grantRepo:  grantRepo,
		objects:    objects,
		scorer:     scorer,
		publisher:  publisher,
		metrics:    m,
		cfg:        cfg,
		logger:     logger.With().Str("component", "claim_service").Logger(),
		now:        time.Now,
	}
}

func (s *ClaimService) CreateClaim(ctx context.Context, caller *models.Identity, req models.CreateClaimRequest) (*models.Claim, error) {
	if caller == nil {
		return nil, apperr.ErrUnauthorized
	}
	policyID := strings.TrimSpace(req.PolicyID)
	farmerID := strings.TrimSpace(req.FarmerID)
	if policyID == "" {
		return nil, fmt.Errorf("policyId is required: %w", apperr.ErrValidation)
	}
	if farmerID == "" {
		return nil, fmt.Errorf("farmerId is required: %w", apperr.ErrValidation)
	}

	if s.cfg.StrictReferences {
		policy, err := s.policyRepo.GetByID(ctx, policyID)
		if err != nil {
			return nil, err
		}
		if _, err := s.farmerRepo.GetByID(ctx, farmerID); err != nil {
			return nil, err
		}
		if policy.FarmerID != farmerID {
			return nil, fmt.Errorf("policy %s does not belong to farmer %s: %w", policyID, farmerID, apperr.ErrValidation)
		}
	}

	claim := &models.Claim{
		ID:           uuid.NewString(),
		PolicyID:     policyID,
		FarmerID:     farmerID,
		AgentID:      caller.AgentID,
		DateOfDeath:  req.DateOfDeath,
		CauseOfDeath: req.CauseOfDeath,
		Description:  req.Description,
		Status:       models.ClaimStatusPending,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.claimRepo.Create(ctx, claim); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordClaimCreated()
	}
	s.publish(ctx, event.ClaimEvent{
		EventType: event.ClaimCreated,
		ClaimID:   claim.ID,
		PolicyID:  claim.PolicyID,
		FarmerID:  claim.FarmerID,
		AgentID:   claim.AgentID,
		Status:    claim.Status,
	})
	s.logger.Info().Str("claim_id", claim.ID).Str("policy_id", policyID).Msg("claim filed")
	return claim, nil
}

func (s *ClaimService) GetClaim(ctx context.Context, caller *models.Identity, claimID string) (*models.Claim, error) {
	if caller == nil {
		return nil, apperr.ErrUnauthorized
	}
	if claimID == "" {
		return nil, fmt.Errorf("claimId is required: %w", apperr.ErrValidation)
	}
	claim, err := s.claimRepo.GetByID(ctx, claimID)
	if err != nil {
		return nil, err
	}
	s.signFiles(ctx, claim)
	return claim, nil
}

// ListPolicyClaims returns every claim filed against policyID, oldest first.
func (s *ClaimService) ListPolicyClaims(ctx context.Context, caller *models.Identity, policyID string) ([]*models.Claim, error) {
	if caller == nil {
		return nil, apperr.ErrUnauthorized
	}
	if policyID == "" {
		return nil, fmt.Errorf("policyId is required: %w", apperr.ErrValidation)
	}
	if s.cfg.StrictReferences {
		if _, err := s.policyRepo.GetByID(ctx, policyID); err != nil {
			return nil, err
		}
	}

	claims, err := s.claimRepo.ListByPolicy(ctx, policyID)
	if err != nil {
		return nil, err
	}
	for _, c := range claims {
		s.signFiles(ctx, c)
	}
	if claims == nil {
		claims = []*models.Claim{}
	}
	return claims, nil
}

// signFiles replaces the stored read URLs with fresh ones. The object store may
// cap URL lifetimes below the configured one, so stored URLs go stale.
func (s *ClaimService) signFiles(ctx context.Context, claim *models.Claim) {
	for i := range claim.UploadedFiles {
		f := &claim.UploadedFiles[i]
		signed, err := s.objects.PresignedURL(ctx, f.FileName, s.cfg.SignedURLTTL)
		if err != nil {
			s.logger.Warn().Err(err).Str("claim_id", claim.ID).Str("object", f.FileName).Msg("failed to re-sign evidence URL")
			continue
		}
		f.SignedURL = signed
	}
}

// IssueUploadGrant creates a capability token letting the farmer attach
// evidence to claimID until the grant expires. The second return value is the
// portal URL embedding the token.
func (s *ClaimService) IssueUploadGrant(ctx context.Context, caller *models.Identity, req models.GenerateLinkRequest) (*models.UploadGrant, string, error) {
	if caller == nil {
		return nil, "", apperr.ErrUnauthorized
	}
	claimID := strings.TrimSpace(req.ClaimID)
	if claimID == "" {
		return nil, "", fmt.Errorf("claimId is required: %w", apperr.ErrValidation)
	}

	farmerID := strings.TrimSpace(req.FarmerID)
	if s.cfg.StrictReferences {
		claim, err := s.claimRepo.GetByID(ctx, claimID)
		if err != nil {
			return nil, "", err
		}
		if farmerID == "" {
			farmerID = claim.FarmerID
		}
	}

	now := s.now().UTC()
	grant := &models.UploadGrant{
		Token:     uuid.NewString(),
		ClaimID:   claimID,
		FarmerID:  farmerID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.UploadGrantTTL),
	}
	if err := s.grantRepo.Create(ctx, grant); err != nil {
		return nil, "", err
	}

	s.logger.Info().Str("claim_id", claimID).Time("expires_at", grant.ExpiresAt).Msg("upload link issued")
	return grant, UploadURL(grant.Token), nil
}

// UploadURL is the relative farmer portal link for token.
func UploadURL(token string) string {
	return uploadPortalPath + "?token=" + token
}

// ResolveUploadGrant returns the grant behind token. Unknown tokens yield
// apperr.ErrNotFound and grants past their expiry instant apperr.ErrExpired.
func (s *ClaimService) ResolveUploadGrant(ctx context.Context, token string) (*models.UploadGrant, error) {
	if token == "" {
		return nil, fmt.Errorf("token is required: %w", apperr.ErrValidation)
	}
	grant, err := s.grantRepo.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if grant.Expired(s.now()) {
		return nil, fmt.Errorf("upload link expired at %s: %w", grant.ExpiresAt.Format(time.RFC3339), apperr.ErrExpired)
	}
	return grant, nil
}

// FileUpload is one piece of evidence submitted through the farmer portal.
type FileUpload struct {
	Token       string
	FileType    string
	FileName    string
	ContentType string
	Data        []byte
}

// SubmitFile stores the evidence for the grant's claim and records it on the
// claim together with a signed read URL.
func (s *ClaimService) SubmitFile(ctx context.Context, upload FileUpload) (*models.UploadedFile, error) {
	if upload.Token == "" {
		return nil, fmt.Errorf("token is required: %w", apperr.ErrValidation)
	}
	if len(upload.Data) == 0 {
		return nil, fmt.Errorf("file is required: %w", apperr.ErrValidation)
	}

	grant, err := s.ResolveUploadGrant(ctx, upload.Token)
	if err != nil {
		return nil, err
	}
	if s.cfg.StrictReferences {
		if _, err := s.claimRepo.GetByID(ctx, grant.ClaimID); err != nil {
			return nil, err
		}
	}

	fileType := safeFileType(upload.FileType)
	contentType := upload.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = mimetype.Detect(upload.Data).String()
	}

	now := s.now().UTC()
	objectName := ObjectName(grant.ClaimID, fileType, now, upload.FileName)

	if err := s.objects.UploadBytes(ctx, objectName, upload.Data, contentType); err != nil {
		return nil, fmt.Errorf("%w: %w", apperr.ErrStorage, err)
	}
	signedURL, err := s.objects.PresignedURL(ctx, objectName, s.cfg.SignedURLTTL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperr.ErrStorage, err)
	}

	file := models.UploadedFile{
		FileName:    objectName,
		FileType:    models.FileType(fileType),
		ContentType: contentType,
		Size:        int64(len(upload.Data)),
		UploadedAt:  now,
		SignedURL:   signedURL,
	}

	_, err = s.claimRepo.Update(ctx, grant.ClaimID, func(c *models.Claim) error {
		c.UploadedFiles = append(c.UploadedFiles, file)
		return nil
	})
	switch {
	case errors.Is(err, apperr.ErrNotFound) && !s.cfg.StrictReferences:
		s.logger.Warn().Str("claim_id", grant.ClaimID).Str("object", objectName).Msg("stored evidence for a claim that does not exist")
	case err != nil:
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordUpload(fileType, file.Size)
	}
	s.publish(ctx, event.ClaimEvent{
		EventType: event.ClaimFileUploaded,
		ClaimID:   grant.ClaimID,
		FarmerID:  grant.FarmerID,
		FileName:  objectName,
	})
	s.logger.Info().
		Str("claim_id", grant.ClaimID).
		Str("object", objectName).
		Int64("bytes", file.Size).
		Msg("evidence uploaded")
	return &file, nil
}

// ObjectName is the storage path of an evidence file:
// <claimId>/<fileType>_<unixMillis>_<fileName>.
func ObjectName(claimID, fileType string, at time.Time, fileName string) string {
	return fmt.Sprintf("%s/%s_%d_%s", claimID, safeFileType(fileType), at.UnixMilli(), safeFileName(fileName))
}

// safeFileType keeps letters, digits, '-' and '_' so the type stays inside the
// claim's prefix. An empty result falls back to defaultFileType.
func safeFileType(fileType string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return -1
		}
	}, fileType)
	if cleaned == "" {
		return defaultFileType
	}
	return cleaned
}

func safeFileName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == ".." {
		return "upload"
	}
	return name
}

// VerifyClaim scores a pending claim, records the result and moves the claim to
// approved or under_review. Claims that were already verified are rejected.
func (s *ClaimService) VerifyClaim(ctx context.Context, caller *models.Identity, claimID string) (*models.VerificationResult, error) {
	if caller == nil {
		return nil, apperr.ErrUnauthorized
	}
	if claimID == "" {
		return nil, fmt.Errorf("claimId is required: %w", apperr.ErrValidation)
	}

	claim, err := s.claimRepo.GetByID(ctx, claimID)
	if err != nil {
		return nil, err
	}
	if claim.Status != models.ClaimStatusPending {
		return nil, alreadyDecided(claim)
	}

	score, err := s.scorer.Score(ctx, claim)
	if err != nil {
		return nil, fmt.Errorf("failed to score claim %s: %w", claimID, err)
	}
	result := Decide(score)
	status := StatusForAction(result.SuggestedAction)

	_, err = s.claimRepo.Update(ctx, claimID, func(c *models.Claim) error {
		if c.Status != models.ClaimStatusPending {
			return alreadyDecided(c)
		}
		c.MLVerification = &result
		c.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordVerification(string(result.SuggestedAction), score)
	}
	s.publish(ctx, event.ClaimEvent{
		EventType:       event.ClaimVerified,
		ClaimID:         claimID,
		PolicyID:        claim.PolicyID,
		FarmerID:        claim.FarmerID,
		AgentID:         claim.AgentID,
		Status:          status,
		SuggestedAction: result.SuggestedAction,
	})
	s.logger.Info().
		Str("claim_id", claimID).
		Float64("confidence", score).
		Str("action", string(result.SuggestedAction)).
		Msg("claim verified")
	return &result, nil
}

func alreadyDecided(c *models.Claim) error {
	return fmt.Errorf("claim %s is already %s: %w", c.ID, c.Status, apperr.ErrValidation)
}

func (s *ClaimService) publish(ctx context.Context, evt event.ClaimEvent) {
	evt.ID = uuid.NewString()
	evt.OccurredAt = s.now().UTC()
	if err := s.publisher.PublishClaimEvent(ctx, evt); err != nil {
		s.logger.Error().Err(err).
			Str("event_type", string(evt.EventType)).
			Str("claim_id", evt.ClaimID).
			Msg("failed to publish claim event")
	}
}
