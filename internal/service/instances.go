package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/and161185/paperless-mirror/internal/errs"
	"github.com/and161185/paperless-mirror/internal/model"
	"github.com/and161185/paperless-mirror/internal/repository"
)

// TokenSealer encrypts remote API tokens bound to an instance id.
type TokenSealer interface {
	Seal(instanceID []byte, token string) ([]byte, error)
	Open(instanceID, sealed []byte) (string, error)
}

// InstanceService manages registered remote instances.
type InstanceService interface {
	// Register validates and stores a new instance with its token sealed.
	Register(ctx context.Context, name, baseURL, token string, filterTags []int) (model.Instance, error)
	// Get returns an instance with its token opened.
	Get(ctx context.Context, id uuid.UUID) (model.Instance, error)
	// List returns all instances without tokens.
	List(ctx context.Context) ([]model.Instance, error)
	// SetFilterTags replaces the import filter tag set.
	SetFilterTags(ctx context.Context, id uuid.UUID, tags []int) error
	// Probe fetches the live tag catalog to check connectivity and credentials.
	Probe(ctx context.Context, id uuid.UUID) ([]model.Tag, error)
}

type InstanceServiceImpl struct {
	repo     repository.InstanceRepository
	tagNames repository.TagNameRepository
	sealer   TokenSealer
	remotes  RemoteFactory
	log      *zap.Logger
	now      func() time.Time
}

// NewInstanceService constructs InstanceService with required dependencies.
func NewInstanceService(
	repo repository.InstanceRepository,
	tagNames repository.TagNameRepository,
	sealer TokenSealer,
	remotes RemoteFactory,
	log *zap.Logger,
) *InstanceServiceImpl {
	if log == nil {
		log = zap.NewNop()
	}
	return &InstanceServiceImpl{repo: repo, tagNames: tagNames, sealer: sealer, remotes: remotes, log: log, now: time.Now}
}

// Register creates a new instance record.
func (s *InstanceServiceImpl) Register(ctx context.Context, name, baseURL, token string, filterTags []int) (model.Instance, error) {
	name = strings.TrimSpace(name)
	if name == "" || token == "" {
		return model.Instance{}, fmt.Errorf("%w: empty name/token", errs.ErrInvalidArgument)
	}
	if err := validateBaseURL(baseURL); err != nil {
		return model.Instance{}, err
	}
	if err := validateTagIDs(filterTags); err != nil {
		return model.Instance{}, err
	}
	id, err := uuid.NewV4()
	if err != nil {
		return model.Instance{}, err
	}
	sealed, err := s.sealer.Seal(id.Bytes(), token)
	if err != nil {
		return model.Instance{}, err
	}
	inst := model.Instance{
		ID:               id,
		Name:             name,
		BaseURL:          strings.TrimRight(baseURL, "/"),
		ImportFilterTags: filterTags,
		CreatedAt:        s.now().UTC(),
	}
	if err := s.repo.Create(ctx, &repository.SealedInstance{Instance: inst, TokenEnc: sealed}); err != nil {
		return model.Instance{}, err
	}
	s.log.Info("instance registered", zap.String("instance", id.String()), zap.String("name", name))
	return inst, nil
}

// Get loads an instance and opens its token.
func (s *InstanceServiceImpl) Get(ctx context.Context, id uuid.UUID) (model.Instance, error) {
	si, err := s.repo.Get(ctx, id)
	if err != nil {
		return model.Instance{}, err
	}
	token, err := s.sealer.Open(si.ID.Bytes(), si.TokenEnc)
	if err != nil {
		return model.Instance{}, fmt.Errorf("open token of instance %s: %w", id, err)
	}
	inst := si.Instance
	inst.APIToken = token
	return inst, nil
}

// List returns all instances; tokens stay sealed.
func (s *InstanceServiceImpl) List(ctx context.Context) ([]model.Instance, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Instance, 0, len(rows))
	for _, r := range rows {
		inst := r.Instance
		inst.APIToken = ""
		out = append(out, inst)
	}
	return out, nil
}

// SetFilterTags replaces the import filter. An empty set imports everything.
func (s *InstanceServiceImpl) SetFilterTags(ctx context.Context, id uuid.UUID, tags []int) error {
	if err := validateTagIDs(tags); err != nil {
		return err
	}
	return s.repo.SetFilterTags(ctx, id, tags)
}

// Probe fetches the tag catalog and remembers its names.
func (s *InstanceServiceImpl) Probe(ctx context.Context, id uuid.UUID) ([]model.Tag, error) {
	inst, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	tags, err := s.remotes(inst).FetchTagCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("probe instance %s: %w", id, err)
	}
	if err := s.tagNames.Remember(ctx, id, tags); err != nil {
		s.log.Warn("remember tag names", zap.String("instance", id.String()), zap.Error(err))
	}
	return tags, nil
}

func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: base url must be an absolute http(s) url", errs.ErrInvalidArgument)
	}
	return nil
}

func validateTagIDs(ids []int) error {
	for _, id := range ids {
		if id <= 0 {
			return fmt.Errorf("%w: tag id %d", errs.ErrInvalidArgument, id)
		}
	}
	return nil
}
