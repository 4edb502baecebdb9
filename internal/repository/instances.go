package repository

import (
	"context"

	"github.com/and161185/paperless-mirror/internal/model"
	"github.com/gofrs/uuid/v5"
)

// SealedInstance is an instance row as stored, with the API token encrypted.
type SealedInstance struct {
	model.Instance
	TokenEnc []byte
}

// InstanceRepository provides access to registered remote instances.
type InstanceRepository interface {
	// Create inserts a new instance; the APIToken field is ignored in favour of TokenEnc.
	Create(ctx context.Context, in *SealedInstance) error
	// Get loads an instance by ID.
	Get(ctx context.Context, id uuid.UUID) (*SealedInstance, error)
	// List returns all instances ordered by name.
	List(ctx context.Context) ([]SealedInstance, error)
	// SetFilterTags replaces the import filter tag set.
	SetFilterTags(ctx context.Context, id uuid.UUID, tags []int) error
}

// TagNameRepository remembers the last catalog name seen for each remote tag.
type TagNameRepository interface {
	// Remember upserts names from a freshly fetched catalog.
	Remember(ctx context.Context, instanceID uuid.UUID, tags []model.Tag) error
	// Lookup returns last-known names for the given tag ids.
	Lookup(ctx context.Context, instanceID uuid.UUID, ids []int) (map[int]string, error)
}
