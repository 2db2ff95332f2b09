package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Ghawri/Cattle-insurance-agent/internal/apperr"
	"github.com/Ghawri/Cattle-insurance-agent/internal/models"
	"github.com/Ghawri/Cattle-insurance-agent/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type FarmerService struct {
	farmerRepo repository.FarmerRepository
	logger     zerolog.Logger
	now        func() time.Time
}

func NewFarmerService(farmerRepo repository.FarmerRepository, logger zerolog.Logger) *FarmerService {
	return &FarmerService{
		farmerRepo: farmerRepo,
		logger:     logger.With().Str("component", "farmer_service").Logger(),
		now:        time.Now,
	}
}

func (s *FarmerService) CreateFarmer(ctx context.Context, caller *models.Identity, req models.CreateFarmerRequest) (*models.Farmer, error) {
	if caller == nil {
		return nil, apperr.ErrUnauthorized
	}
	if strings.TrimSpace(req.FarmerName) == "" {
		return nil, fmt.Errorf("farmerName is required: %w", apperr.ErrValidation)
	}

	farmer := &models.Farmer{
		ID:          uuid.NewString(),
		FarmerName:  strings.TrimSpace(req.FarmerName),
		FarmerPhone: req.FarmerPhone,
		Village:     req.Village,
		District:    req.District,
		State:       req.State,
		AgentID:     caller.AgentID,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.farmerRepo.Create(ctx, farmer); err != nil {
		return nil, err
	}

	s.logger.Info().Str("farmer_id", farmer.ID).Str("agent_id", caller.AgentID).Msg("farmer registered")
	return farmer, nil
}

// ListFarmers returns the caller's farmers in registration order.
func (s *FarmerService) ListFarmers(ctx context.Context, caller *models.Identity) ([]*models.Farmer, error) {
	if caller == nil {
		return nil, apperr.ErrUnauthorized
	}
	return s.farmerRepo.ListByAgent(ctx, caller.AgentID)
}
