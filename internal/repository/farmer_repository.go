package repository

import (
	"context"

	"github.com/Ghawri/Cattle-insurance-agent/internal/models"
)

type FarmerRepository interface {
	Create(ctx context.Context, farmer *models.Farmer) error
	GetByID(ctx context.Context, id string) (*models.Farmer, error)
	ListByAgent(ctx context.Context, agentID string) ([]*models.Farmer, error)
	CountByAgent(ctx context.Context, agentID string) (int64, error)
}

type farmerRepository struct {
	store *DocumentStore
}

func NewFarmerRepository(store *DocumentStore) FarmerRepository {
	return &farmerRepository{store: store}
}

// Create stores the farmer and appends its id to the owning agent's farmer list.
func (r *farmerRepository) Create(ctx context.Context, farmer *models.Farmer) error {
	return r.store.Put(ctx, farmerKey(farmer.ID), farmer, farmer.ID, agentFarmersKey(farmer.AgentID))
}

func (r *farmerRepository) GetByID(ctx context.Context, id string) (*models.Farmer, error) {
	return getDoc[models.Farmer](ctx, r.store, farmerKey(id))
}

func (r *farmerRepository) ListByAgent(ctx context.Context, agentID string) ([]*models.Farmer, error) {
	ids, err := r.store.List(ctx, agentFarmersKey(agentID))
	if err != nil {
		return nil, err
	}
	return getDocs[models.Farmer](ctx, r.store, prefixed(ids, farmerKey))
}

func (r *farmerRepository) CountByAgent(ctx context.Context, agentID string) (int64, error) {
	return r.store.Len(ctx, agentFarmersKey(agentID))
}
