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
)

const (
	PolicyTerm    = 365 * 24 * time.Hour
	RenewalWindow = 30 * 24 * time.Hour
)

type PolicyService struct {
	policyRepo       repository.PolicyRepository
	farmerRepo       repository.FarmerRepository
	strictReferences bool
	logger           zerolog.Logger
	now              func() time.Time
}

func NewPolicyService(policyRepo repository.PolicyRepository, farmerRepo repository.FarmerRepository, strictReferences bool, logger zerolog.Logger) *PolicyService {
	return &PolicyService{
		policyRepo:       policyRepo,
		farmerRepo:       farmerRepo,
		strictReferences: strictReferences,
		logger:           logger.With().Str("component", "policy_service").Logger(),
		now:              time.Now,
	}
}

// CreatePolicy issues an active policy whose renewal falls one term after issuance.
func (s *PolicyService) CreatePolicy(ctx context.Context, caller *models.Identity, req models.CreatePolicyRequest) (*models.Policy, error) {
	if caller == nil {
		return nil, apperr.ErrUnauthorized
	}
	farmerID := strings.TrimSpace(req.FarmerID)
	if farmerID == "" {
		return nil, fmt.Errorf("farmerId is required: %w", apperr.ErrValidation)
	}
	if s.strictReferences {
		if _, err := s.farmerRepo.GetByID(ctx, farmerID); err != nil {
			return nil, err
		}
	}

	now := s.now().UTC()
	policy := &models.Policy{
		ID:              uuid.NewString(),
		FarmerID:        farmerID,
		AgentID:         caller.AgentID,
		CattleType:      req.CattleType,
		Breed:           req.Breed,
		Age:             req.Age,
		UHFTag:          req.UHFTag,
		CattleValue:     req.CattleValue,
		PremiumAmount:   req.PremiumAmount,
		CoverageAmount:  req.CoverageAmount,
		PaymentMethod:   req.PaymentMethod,
		Status:          models.PolicyStatusActive,
		CreatedAt:       now,
		NextRenewalDate: now.Add(PolicyTerm),
	}
	if err := s.policyRepo.Create(ctx, policy); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("policy_id", policy.ID).
		Str("farmer_id", farmerID).
		Str("agent_id", caller.AgentID).
		Msg("policy issued")
	return policy, nil
}

// Renewals lists the caller's active policies renewing within the next
// RenewalWindow, each with its farmer. Policies already past renewal are left out.
func (s *PolicyService) Renewals(ctx context.Context, caller *models.Identity) ([]models.PolicyWithFarmer, error) {
	if caller == nil {
		return nil, apperr.ErrUnauthorized
	}

	policies, err := s.policyRepo.ListByAgent(ctx, caller.AgentID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	horizon := now.Add(RenewalWindow)
	renewals := make([]models.PolicyWithFarmer, 0)
	for _, p := range policies {
		if !dueForRenewal(p, now, horizon) {
			continue
		}

		farmer, err := s.farmerRepo.GetByID(ctx, p.FarmerID)
		if err != nil && !errors.Is(err, apperr.ErrNotFound) {
			return nil, err
		}
		renewals = append(renewals, models.PolicyWithFarmer{Policy: *p, Farmer: farmer})
	}
	return renewals, nil
}

// FarmerPolicies lists every policy issued to farmerID, oldest first.
func (s *PolicyService) FarmerPolicies(ctx context.Context, caller *models.Identity, farmerID string) ([]*models.Policy, error) {
	if caller == nil {
		return nil, apperr.ErrUnauthorized
	}
	if farmerID == "" {
		return nil, fmt.Errorf("farmerId is required: %w", apperr.ErrValidation)
	}
	if s.strictReferences {
		if _, err := s.farmerRepo.GetByID(ctx, farmerID); err != nil {
			return nil, err
		}
	}

	policies, err := s.policyRepo.ListByFarmer(ctx, farmerID)
	if err != nil {
		return nil, err
	}
	if policies == nil {
		policies = []*models.Policy{}
	}
	return policies, nil
}

func dueForRenewal(p *models.Policy, now, horizon time.Time) bool {
	if p.Status != models.PolicyStatusActive {
		return false
	}
	return !p.NextRenewalDate.Before(now) && !p.NextRenewalDate.After(horizon)
}

// Stats counts the caller's index entries. Totals are list lengths, so an id
// appended twice is counted twice.
func (s *PolicyService) Stats(ctx context.Context, caller *models.Identity) (*models.AgentStats, error) {
	if caller == nil {
		return nil, apperr.ErrUnauthorized
	}

	totalFarmers, err := s.farmerRepo.CountByAgent(ctx, caller.AgentID)
	if err != nil {
		return nil, err
	}
	totalPolicies, err := s.policyRepo.CountByAgent(ctx, caller.AgentID)
	if err != nil {
		return nil, err
	}
	policies, err := s.policyRepo.ListByAgent(ctx, caller.AgentID)
	if err != nil {
		return nil, err
	}

	var active int64
	for _, p := range policies {
		if p.Status == models.PolicyStatusActive {
			active++
		}
	}

	return &models.AgentStats{
		TotalFarmers:   totalFarmers,
		TotalPolicies:  totalPolicies,
		ActivePolicies: active,
	}, nil
}
