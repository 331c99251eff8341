package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/adilnd/portfolio-api/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const projectColumns = `id, title, slug, description, content, category,
	status, featured, display_order, technologies, goals, features, results,
	tags, metrics, image_url, demo_url, repo_url, views, created_at, updated_at`

// ProjectRepository handles persistence for portfolio projects.
type ProjectRepository struct {
	db *pgxpool.Pool
}

// NewProjectRepository constructs a ProjectRepository.
func NewProjectRepository(db *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func scanProject(row pgx.Row) (*model.Project, error) {
	var p model.Project
	err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Description, &p.Content, &p.Category,
		&p.Status, &p.Featured, &p.DisplayOrder, &p.Technologies, &p.Goals,
		&p.Features, &p.Results, &p.Tags, &p.Metrics, &p.ImageURL, &p.DemoURL,
		&p.RepoURL, &p.Views, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// emptySlices normalises nil slices/maps so inserts write '{}' instead of NULL
// and responses serialise as [] rather than null.
func emptySlices(p *model.Project) {
	if p.Technologies == nil {
		p.Technologies = []string{}
	}
	if p.Goals == nil {
		p.Goals = []string{}
	}
	if p.Features == nil {
		p.Features = []string{}
	}
	if p.Results == nil {
		p.Results = []string{}
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if p.Metrics == nil {
		p.Metrics = map[string]string{}
	}
}

// Create inserts a new project and returns it with a generated UUID.
func (r *ProjectRepository) Create(ctx context.Context, req model.CreateProjectRequest) (*model.Project, error) {
	now := time.Now().UTC()
	p := &model.Project{
		ID:           uuid.New().String(),
		Title:        req.Title,
		Slug:         req.Slug,
		Description:  req.Description,
		Content:      req.Content,
		Category:     req.Category,
		Status:       req.Status,
		Featured:     req.Featured,
		DisplayOrder: req.DisplayOrder,
		Technologies: req.Technologies,
		Goals:        req.Goals,
		Features:     req.Features,
		Results:      req.Results,
		Tags:         req.Tags,
		Metrics:      req.Metrics,
		ImageURL:     req.ImageURL,
		DemoURL:      req.DemoURL,
		RepoURL:      req.RepoURL,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	emptySlices(p)

	_, err := r.db.Exec(ctx,
		`INSERT INTO projects (id, title, slug, description, content, category,
		   status, featured, display_order, technologies, goals, features,
		   results, tags, metrics, image_url, demo_url, repo_url, views,
		   created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
		   $15, $16, $17, $18, 0, $19, $19)`,
		p.ID, p.Title, p.Slug, p.Description, p.Content, p.Category, p.Status,
		p.Featured, p.DisplayOrder, p.Technologies, p.Goals, p.Features,
		p.Results, p.Tags, p.Metrics, p.ImageURL, p.DemoURL, p.RepoURL, now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateSlug
		}
		return nil, fmt.Errorf("insert project: %w", err)
	}
	return p, nil
}

// isUniqueViolation reports whether err is a Postgres unique_violation. The
// only unique constraint on projects is the slug.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// List returns projects matching the filter along with the total count.
func (r *ProjectRepository) List(ctx context.Context, filter model.ProjectFilter) ([]model.Project, int, error) {
	where, args := buildProjectWhere(filter)

	var total int
	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM projects`+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count projects: %w", err)
	}

	order := projectOrder(filter.Sort)
	limit, offset := pageBounds(filter.Limit, filter.Offset)
	args = append(args, limit, offset)
	q := fmt.Sprintf(
		`SELECT %s FROM projects%s ORDER BY %s LIMIT $%d OFFSET $%d`,
		projectColumns, where, order, len(args)-1, len(args),
	)

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []model.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, *p)
	}
	return projects, total, rows.Err()
}

func buildProjectWhere(filter model.ProjectFilter) (string, []any) {
	var conds []string
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.Category != "" {
		add("category = $%d", filter.Category)
	}
	if filter.Status != "" {
		add("status = $%d", filter.Status)
	}
	if filter.Featured != nil {
		add("featured = $%d", *filter.Featured)
	}
	if filter.Tag != "" {
		add("$%d = ANY(tags)", filter.Tag)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func projectOrder(sort string) string {
	switch sort {
	case "order":
		return "display_order ASC, created_at DESC"
	case "popular":
		return "views DESC"
	case "title":
		return "title ASC"
	default:
		return "created_at DESC"
	}
}

// GetByID returns a single project or ErrNotFound.
func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*model.Project, error) {
	p, err := scanProject(r.db.QueryRow(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = $1`, id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	return p, nil
}

// GetBySlug returns a single project by its slug or ErrNotFound.
func (r *ProjectRepository) GetBySlug(ctx context.Context, slug string) (*model.Project, error) {
	p, err := scanProject(r.db.QueryRow(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE slug = $1`, slug,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get project by slug: %w", err)
	}
	return p, nil
}

// IncrementViews bumps the view counter.
func (r *ProjectRepository) IncrementViews(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE projects SET views = views + 1 WHERE id = $1`, id,
	)
	if err != nil {
		return fmt.Errorf("increment project views: %w", err)
	}
	return nil
}

// Update applies the non-nil fields of the patch and returns the updated row.
func (r *ProjectRepository) Update(ctx context.Context, id string, patch model.ProjectPatch) (*model.Project, error) {
	set, args := buildProjectSet(patch)
	if len(set) == 0 {
		return r.GetByID(ctx, id)
	}
	args = append(args, id)
	q := fmt.Sprintf(
		`UPDATE projects SET %s, updated_at = now() WHERE id = $%d RETURNING `+projectColumns,
		strings.Join(set, ", "), len(args),
	)

	p, err := scanProject(r.db.QueryRow(ctx, q, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		if isUniqueViolation(err) {
			return nil, ErrDuplicateSlug
		}
		return nil, fmt.Errorf("update project: %w", err)
	}
	return p, nil
}

func buildProjectSet(patch model.ProjectPatch) ([]string, []any) {
	var set []string
	var args []any
	add := func(col string, v any) {
		args = append(args, v)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Slug != nil {
		add("slug", *patch.Slug)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Content != nil {
		add("content", *patch.Content)
	}
	if patch.Category != nil {
		add("category", *patch.Category)
	}
	if patch.Status != nil {
		add("status", *patch.Status)
	}
	if patch.Featured != nil {
		add("featured", *patch.Featured)
	}
	if patch.DisplayOrder != nil {
		add("display_order", *patch.DisplayOrder)
	}
	if patch.Technologies != nil {
		add("technologies", *patch.Technologies)
	}
	if patch.Goals != nil {
		add("goals", *patch.Goals)
	}
	if patch.Features != nil {
		add("features", *patch.Features)
	}
	if patch.Results != nil {
		add("results", *patch.Results)
	}
	if patch.Tags != nil {
		add("tags", *patch.Tags)
	}
	if patch.Metrics != nil {
		add("metrics", *patch.Metrics)
	}
	if patch.ImageURL != nil {
		add("image_url", *patch.ImageURL)
	}
	if patch.DemoURL != nil {
		add("demo_url", *patch.DemoURL)
	}
	if patch.RepoURL != nil {
		add("repo_url", *patch.RepoURL)
	}
	return set, args
}

// Delete removes a project. Returns ErrNotFound when no row matched.
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Stats aggregates project counts by status and category.
func (r *ProjectRepository) Stats(ctx context.Context) (*model.ProjectStats, error) {
	s := &model.ProjectStats{ByCategory: map[string]int{}}
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE status = $1),
		        COUNT(*) FILTER (WHERE status = $2),
		        COUNT(*) FILTER (WHERE status = $3)
		 FROM projects`,
		model.StatusPublished, model.StatusDraft, model.StatusArchived,
	).Scan(&s.Total, &s.Published, &s.Draft, &s.Archived)
	if err != nil {
		return nil, fmt.Errorf("project stats: %w", err)
	}

	rows, err := r.db.Query(ctx,
		`SELECT category, COUNT(*) FROM projects GROUP BY category`,
	)
	if err != nil {
		return nil, fmt.Errorf("project stats by category: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var category string
		var n int
		if err := rows.Scan(&category, &n); err != nil {
			return nil, fmt.Errorf("scan category count: %w", err)
		}
		s.ByCategory[category] = n
	}
	return s, rows.Err()
}

// Search runs a free-text search over title, description, and tags.
func (r *ProjectRepository) Search(ctx context.Context, query string, limit int) ([]model.Project, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+projectColumns+` FROM projects
		 WHERE title ILIKE $1 OR description ILIKE $1 OR $2 = ANY(tags)
		 ORDER BY created_at DESC
		 LIMIT $3`,
		"%"+query+"%", query, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("search projects: %w", err)
	}
	defer rows.Close()

	var projects []model.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, *p)
	}
	return projects, rows.Err()
}

// Related returns published projects in the same category, excluding the
// project itself.
func (r *ProjectRepository) Related(ctx context.Context, id, category string, limit int) ([]model.Project, error) {
	if limit <= 0 || limit > 20 {
		limit = 4
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+projectColumns+` FROM projects
		 WHERE category = $1 AND id <> $2 AND status = $3
		 ORDER BY display_order ASC, created_at DESC
		 LIMIT $4`,
		category, id, model.StatusPublished, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("related projects: %w", err)
	}
	defer rows.Close()

	var projects []model.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, *p)
	}
	return projects, rows.Err()
}
