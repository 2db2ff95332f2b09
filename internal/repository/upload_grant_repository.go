package repository

import (
	"context"

	"github.com/Ghawri/Cattle-insurance-agent/internal/models"
)

type UploadGrantRepository interface {
	Create(ctx context.Context, grant *models.UploadGrant) error
	// Get returns the grant whether or not it has expired; callers check expiry.
	Get(ctx context.Context, token string) (*models.UploadGrant, error)
}

type uploadGrantRepository struct {
	store *DocumentStore
}

func NewUploadGrantRepository(store *DocumentStore) UploadGrantRepository {
	return &uploadGrantRepository{store: store}
}

// Create stores the grant without a Redis TTL so an expired token keeps
// resolving to "expired" rather than "unknown".
func (r *uploadGrantRepository) Create(ctx context.Context, grant *models.UploadGrant) error {
	return r.store.Put(ctx, uploadGrantKey(grant.Token), grant, "")
}

func (r *uploadGrantRepository) Get(ctx context.Context, token string) (*models.UploadGrant, error) {
	return getDoc[models.UploadGrant](ctx, r.store, uploadGrantKey(token))
}
