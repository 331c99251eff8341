package service

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"

	"github.com/adilnd/portfolio-api/internal/model"
	"github.com/adilnd/portfolio-api/internal/repository"
)

// ProjectStore is the persistence surface for portfolio projects.
// *repository.ProjectRepository implements it.
type ProjectStore interface {
	Create(ctx context.Context, req model.CreateProjectRequest) (*model.Project, error)
	List(ctx context.Context, filter model.ProjectFilter) ([]model.Project, int, error)
	GetByID(ctx context.Context, id string) (*model.Project, error)
	GetBySlug(ctx context.Context, slug string) (*model.Project, error)
	IncrementViews(ctx context.Context, id string) error
	Update(ctx context.Context, id string, patch model.ProjectPatch) (*model.Project, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (*model.ProjectStats, error)
	Search(ctx context.Context, query string, limit int) ([]model.Project, error)
	Related(ctx context.Context, id, category string, limit int) ([]model.Project, error)
}

// ProjectService orchestrates project CRUD plus stats/search/related reads.
type ProjectService struct {
	projects ProjectStore
	logger   *slog.Logger
}

// NewProjectService constructs a ProjectService.
func NewProjectService(projects ProjectStore, logger *slog.Logger) *ProjectService {
	return &ProjectService{projects: projects, logger: logger}
}

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

// slugify derives a URL slug from a title.
func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Create validates the request and delegates to the store. A missing slug is
// derived from the title.
func (s *ProjectService) Create(ctx context.Context, req model.CreateProjectRequest) (*model.Project, error) {
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return nil, validationf("title is required")
	}
	if req.Slug == "" {
		req.Slug = slugify(req.Title)
	}
	if req.Status == "" {
		req.Status = model.StatusDraft
	}
	if !model.ValidPublicationStatus(req.Status) {
		return nil, validationf("invalid status %q", req.Status)
	}
	return s.projects.Create(ctx, req)
}

// List returns projects matching the filter and the total count.
func (s *ProjectService) List(ctx context.Context, filter model.ProjectFilter) ([]model.Project, int, error) {
	return s.projects.List(ctx, filter)
}

// Get returns one project by id or slug and bumps its view counter.
func (s *ProjectService) Get(ctx context.Context, idOrSlug string) (*model.Project, error) {
	if idOrSlug == "" {
		return nil, validationf("project id is required")
	}
	p, err := s.projects.GetByID(ctx, idOrSlug)
	if errors.Is(err, repository.ErrNotFound) {
		p, err = s.projects.GetBySlug(ctx, idOrSlug)
	}
	if err != nil {
		return nil, err
	}
	if err := s.projects.IncrementViews(ctx, p.ID); err != nil {
		s.logger.Warn("increment views failed", slog.String("id", p.ID), slog.Any("err", err))
	} else {
		p.Views++
	}
	return p, nil
}

// Update validates the patch and delegates to the store.
func (s *ProjectService) Update(ctx context.Context, id string, patch model.ProjectPatch) (*model.Project, error) {
	if patch.Status != nil && !model.ValidPublicationStatus(*patch.Status) {
		return nil, validationf("invalid status %q", *patch.Status)
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, validationf("title cannot be empty")
	}
	return s.projects.Update(ctx, id, patch)
}

// Delete removes a project.
func (s *ProjectService) Delete(ctx context.Context, id string) error {
	return s.projects.Delete(ctx, id)
}

// Stats returns aggregate project counts.
func (s *ProjectService) Stats(ctx context.Context) (*model.ProjectStats, error) {
	return s.projects.Stats(ctx)
}

// Search runs a free-text search over projects.
func (s *ProjectService) Search(ctx context.Context, query string, limit int) ([]model.Project, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, validationf("search query is required")
	}
	return s.projects.Search(ctx, query, limit)
}

// Related returns published projects sharing the given project's category.
func (s *ProjectService) Related(ctx context.Context, id string, limit int) ([]model.Project, error) {
	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.projects.Related(ctx, p.ID, p.Category, limit)
}
