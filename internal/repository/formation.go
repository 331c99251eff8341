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
	"github.com/jackc/pgx/v5/pgxpool"
)

const formationColumns = `id, title, description, category, level, price,
	max_participants, current_participants, start_date, end_date, schedule,
	status, featured, views, created_at, updated_at`

// FormationRepository handles persistence for formations.
type FormationRepository struct {
	db *pgxpool.Pool
}

// NewFormationRepository constructs a FormationRepository.
func NewFormationRepository(db *pgxpool.Pool) *FormationRepository {
	return &FormationRepository{db: db}
}

func scanFormation(row pgx.Row) (*model.Formation, error) {
	var f model.Formation
	err := row.Scan(
		&f.ID, &f.Title, &f.Description, &f.Category, &f.Level, &f.Price,
		&f.MaxParticipants, &f.CurrentParticipants, &f.StartDate, &f.EndDate,
		&f.Schedule, &f.Status, &f.Featured, &f.Views, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// Create inserts a new formation and returns it with a generated UUID.
func (r *FormationRepository) Create(ctx context.Context, req model.CreateFormationRequest) (*model.Formation, error) {
	now := time.Now().UTC()
	f := &model.Formation{
		ID:              uuid.New().String(),
		Title:           req.Title,
		Description:     req.Description,
		Category:        req.Category,
		Level:           req.Level,
		Price:           req.Price,
		MaxParticipants: req.MaxParticipants,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		Schedule:        req.Schedule,
		Status:          req.Status,
		Featured:        req.Featured,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO formations (id, title, description, category, level, price,
		   max_participants, current_participants, start_date, end_date,
		   schedule, status, featured, views, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, 0, $8, $9, $10, $11, $12, 0, $13, $13)`,
		f.ID, f.Title, f.Description, f.Category, f.Level, f.Price,
		f.MaxParticipants, f.StartDate, f.EndDate, f.Schedule, f.Status,
		f.Featured, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert formation: %w", err)
	}
	return f, nil
}

// List returns formations matching the filter along with the total count.
func (r *FormationRepository) List(ctx context.Context, filter model.FormationFilter) ([]model.Formation, int, error) {
	where, args := buildFormationWhere(filter)

	var total int
	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM formations`+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count formations: %w", err)
	}

	order := formationOrder(filter.Sort)
	limit, offset := pageBounds(filter.Limit, filter.Offset)
	args = append(args, limit, offset)
	q := fmt.Sprintf(
		`SELECT %s FROM formations%s ORDER BY %s LIMIT $%d OFFSET $%d`,
		formationColumns, where, order, len(args)-1, len(args),
	)

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list formations: %w", err)
	}
	defer rows.Close()

	var formations []model.Formation
	for rows.Next() {
		f, err := scanFormation(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan formation: %w", err)
		}
		formations = append(formations, *f)
	}
	return formations, total, rows.Err()
}

func buildFormationWhere(filter model.FormationFilter) (string, []any) {
	var conds []string
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.Category != "" {
		add("category = $%d", filter.Category)
	}
	if filter.Level != "" {
		add("level = $%d", filter.Level)
	}
	if filter.Status != "" {
		add("status = $%d", filter.Status)
	}
	if filter.Featured != nil {
		add("featured = $%d", *filter.Featured)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// formationOrder maps a named sort order to an ORDER BY expression.
// Unknown names fall back to newest-first.
func formationOrder(sort string) string {
	switch sort {
	case "price_asc":
		return "price ASC"
	case "price_desc":
		return "price DESC"
	case "start_date":
		return "start_date ASC NULLS LAST"
	case "popular":
		return "views DESC"
	default:
		return "created_at DESC"
	}
}

func pageBounds(limit, offset int) (int, int) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// GetByID returns a single formation or ErrNotFound.
func (r *FormationRepository) GetByID(ctx context.Context, id string) (*model.Formation, error) {
	f, err := scanFormation(r.db.QueryRow(ctx,
		`SELECT `+formationColumns+` FROM formations WHERE id = $1`, id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get formation: %w", err)
	}
	return f, nil
}

// IncrementViews bumps the view counter. Callers treat failures as
// best-effort and only log them.
func (r *FormationRepository) IncrementViews(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE formations SET views = views + 1 WHERE id = $1`, id,
	)
	if err != nil {
		return fmt.Errorf("increment formation views: %w", err)
	}
	return nil
}

// Update applies the non-nil fields of the patch and returns the updated row.
func (r *FormationRepository) Update(ctx context.Context, id string, patch model.FormationPatch) (*model.Formation, error) {
	set, args := buildFormationSet(patch)
	if len(set) == 0 {
		return r.GetByID(ctx, id)
	}
	args = append(args, id)
	q := fmt.Sprintf(
		`UPDATE formations SET %s, updated_at = now() WHERE id = $%d RETURNING `+formationColumns,
		strings.Join(set, ", "), len(args),
	)

	f, err := scanFormation(r.db.QueryRow(ctx, q, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update formation: %w", err)
	}
	return f, nil
}

func buildFormationSet(patch model.FormationPatch) ([]string, []any) {
	var set []string
	var args []any
	add := func(col string, v any) {
		args = append(args, v)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Category != nil {
		add("category", *patch.Category)
	}
	if patch.Level != nil {
		add("level", *patch.Level)
	}
	if patch.Price != nil {
		add("price", *patch.Price)
	}
	if patch.MaxParticipants != nil {
		add("max_participants", *patch.MaxParticipants)
	}
	if patch.StartDate != nil {
		add("start_date", *patch.StartDate)
	}
	if patch.EndDate != nil {
		add("end_date", *patch.EndDate)
	}
	if patch.Schedule != nil {
		add("schedule", *patch.Schedule)
	}
	if patch.Status != nil {
		add("status", *patch.Status)
	}
	if patch.Featured != nil {
		add("featured", *patch.Featured)
	}
	return set, args
}

// Delete removes a formation and, via the FK cascade, its registration
// history. Returns ErrNotFound when no row matched.
func (r *FormationRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM formations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete formation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
