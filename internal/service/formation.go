package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/adilnd/portfolio-api/internal/model"
)

// FormationStore is the persistence surface for formations.
// *repository.FormationRepository implements it.
type FormationStore interface {
	Create(ctx context.Context, req model.CreateFormationRequest) (*model.Formation, error)
	List(ctx context.Context, filter model.FormationFilter) ([]model.Formation, int, error)
	GetByID(ctx context.Context, id string) (*model.Formation, error)
	IncrementViews(ctx context.Context, id string) error
	Update(ctx context.Context, id string, patch model.FormationPatch) (*model.Formation, error)
	Delete(ctx context.Context, id string) error
}

// FormationService orchestrates formation CRUD.
type FormationService struct {
	formations FormationStore
	logger     *slog.Logger
}

// NewFormationService constructs a FormationService.
func NewFormationService(formations FormationStore, logger *slog.Logger) *FormationService {
	return &FormationService{formations: formations, logger: logger}
}

// Create validates the request and delegates to the store.
func (s *FormationService) Create(ctx context.Context, req model.CreateFormationRequest) (*model.Formation, error) {
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return nil, validationf("title is required")
	}
	if req.MaxParticipants < 1 {
		return nil, validationf("max_participants must be at least 1")
	}
	if req.Level == "" {
		req.Level = model.LevelBeginner
	}
	if !model.ValidLevel(req.Level) {
		return nil, validationf("invalid level %q", req.Level)
	}
	if req.Status == "" {
		req.Status = model.StatusDraft
	}
	if !model.ValidPublicationStatus(req.Status) {
		return nil, validationf("invalid status %q", req.Status)
	}
	return s.formations.Create(ctx, req)
}

// List returns formations matching the filter and the total count.
func (s *FormationService) List(ctx context.Context, filter model.FormationFilter) ([]model.Formation, int, error) {
	return s.formations.List(ctx, filter)
}

// Get returns one formation and bumps its view counter. The view bump is a
// best-effort side effect.
func (s *FormationService) Get(ctx context.Context, id string) (*model.Formation, error) {
	if id == "" {
		return nil, validationf("formation id is required")
	}
	f, err := s.formations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.formations.IncrementViews(ctx, id); err != nil {
		s.logger.Warn("increment views failed", slog.String("id", id), slog.Any("err", err))
	} else {
		f.Views++
	}
	return f, nil
}

// Update validates the patch and delegates to the store.
func (s *FormationService) Update(ctx context.Context, id string, patch model.FormationPatch) (*model.Formation, error) {
	if patch.Level != nil && !model.ValidLevel(*patch.Level) {
		return nil, validationf("invalid level %q", *patch.Level)
	}
	if patch.Status != nil && !model.ValidPublicationStatus(*patch.Status) {
		return nil, validationf("invalid status %q", *patch.Status)
	}
	if patch.MaxParticipants != nil && *patch.MaxParticipants < 1 {
		return nil, validationf("max_participants must be at least 1")
	}
	return s.formations.Update(ctx, id, patch)
}

// Delete removes a formation.
func (s *FormationService) Delete(ctx context.Context, id string) error {
	return s.formations.Delete(ctx, id)
}
