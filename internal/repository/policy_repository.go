package repository

import (
	"context"

	"github.com/Ghawri/Cattle-insurance-agent/internal/models"
)

type PolicyRepository interface {
	Create(ctx context.Context, policy *models.Policy) error
	GetByID(ctx context.Context, id string) (*models.Policy, error)
	ListByAgent(ctx context.Context, agentID string) ([]*models.Policy, error)
	ListByFarmer(ctx context.Context, farmerID string) ([]*models.Policy, error)
	CountByAgent(ctx context.Context, agentID string) (int64, error)
}

type policyRepository struct {
	store *DocumentStore
}

func NewPolicyRepository(store *DocumentStore) PolicyRepository {
	return &policyRepository{store: store}
}

// Create stores the policy and indexes it under both its farmer and its agent.
func (r *policyRepository) Create(ctx context.Context, policy *models.Policy) error {
	return r.store.Put(ctx, policyKey(policy.ID), policy, policy.ID,
		farmerPoliciesKey(policy.FarmerID),
		agentPoliciesKey(policy.AgentID),
	)
}

func (r *policyRepository) GetByID(ctx context.Context, id string) (*models.Policy, error) {
	return getDoc[models.Policy](ctx, r.store, policyKey(id))
}

func (r *policyRepository) ListByAgent(ctx context.Context, agentID string) ([]*models.Policy, error) {
	ids, err := r.store.List(ctx, agentPoliciesKey(agentID))
	if err != nil {
		return nil, err
	}
	return getDocs[models.Policy](ctx, r.store, prefixed(ids, policyKey))
}

func (r *policyRepository) ListByFarmer(ctx context.Context, farmerID string) ([]*models.Policy, error) {
	ids, err := r.store.List(ctx, farmerPoliciesKey(farmerID))
	if err != nil {
		return nil, err
	}
	return getDocs[models.Policy](ctx, r.store, prefixed(ids, policyKey))
}

func (r *policyRepository) CountByAgent(ctx context.Context, agentID string) (int64, error) {
	return r.store.Len(ctx, agentPoliciesKey(agentID))
}
