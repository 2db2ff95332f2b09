package repository

import (
	"context"

	"github.com/Ghawri/Cattle-insurance-agent/internal/models"
)

type ClaimRepository interface {
	Create(ctx context.Context, claim *models.Claim) error
	GetByID(ctx context.Context, id string) (*models.Claim, error)
	// Update re-reads the claim, applies mutate and writes it back atomically.
	Update(ctx context.Context, id string, mutate func(*models.Claim) error) (*models.Claim, error)
	ListByPolicy(ctx context.Context, policyID string) ([]*models.Claim, error)
}

type claimRepository struct {
	store *DocumentStore
}

func NewClaimRepository(store *DocumentStore) ClaimRepository {
	return &claimRepository{store: store}
}

func (r *claimRepository) Create(ctx context.Context, claim *models.Claim) error {
	return r.store.Put(ctx, claimKey(claim.ID), claim, claim.ID, policyClaimsKey(claim.PolicyID))
}

func (r *claimRepository) GetByID(ctx context.Context, id string) (*models.Claim, error) {
	return getDoc[models.Claim](ctx, r.store, claimKey(id))
}

func (r *claimRepository) Update(ctx context.Context, id string, mutate func(*models.Claim) error) (*models.Claim, error) {
	return updateDoc(ctx, r.store, claimKey(id), mutate)
}

func (r *claimRepository) ListByPolicy(ctx context.Context, policyID string) ([]*models.Claim, error) {
	ids, err := r.store.List(ctx, policyClaimsKey(policyID))
	if err != nil {
		return nil, err
	}
	return getDocs[models.Claim](ctx, r.store, prefixed(ids, claimKey))
}
