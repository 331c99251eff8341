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

const bookColumns = `id, title, author, description, category, rating, price,
	cover_url, link, featured, created_at, updated_at`

// BookRepository handles persistence for reading-list entries.
type BookRepository struct {
	db *pgxpool.Pool
}

// NewBookRepository constructs a BookRepository.
func NewBookRepository(db *pgxpool.Pool) *BookRepository {
	return &BookRepository{db: db}
}

func scanBook(row pgx.Row) (*model.Book, error) {
	var b model.Book
	err := row.Scan(
		&b.ID, &b.Title, &b.Author, &b.Description, &b.Category, &b.Rating,
		&b.Price, &b.CoverURL, &b.Link, &b.Featured, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Create inserts a new book and returns it with a generated UUID.
func (r *BookRepository) Create(ctx context.Context, req model.CreateBookRequest) (*model.Book, error) {
	now := time.Now().UTC()
	b := &model.Book{
		ID:          uuid.New().String(),
		Title:       req.Title,
		Author:      req.Author,
		Description: req.Description,
		Category:    req.Category,
		Rating:      req.Rating,
		Price:       req.Price,
		CoverURL:    req.CoverURL,
		Link:        req.Link,
		Featured:    req.Featured,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO books (id, title, author, description, category, rating,
		   price, cover_url, link, featured, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)`,
		b.ID, b.Title, b.Author, b.Description, b.Category, b.Rating, b.Price,
		b.CoverURL, b.Link, b.Featured, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert book: %w", err)
	}
	return b, nil
}

// List returns books matching the filter along with the total count.
func (r *BookRepository) List(ctx context.Context, filter model.BookFilter) ([]model.Book, int, error) {
	var conds []string
	var args []any
	if filter.Category != "" {
		args = append(args, filter.Category)
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.Featured != nil {
		args = append(args, *filter.Featured)
		conds = append(conds, fmt.Sprintf("featured = $%d", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM books`+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count books: %w", err)
	}

	limit, offset := pageBounds(filter.Limit, filter.Offset)
	args = append(args, limit, offset)
	q := fmt.Sprintf(
		`SELECT %s FROM books%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		bookColumns, where, len(args)-1, len(args),
	)

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	var books []model.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, *b)
	}
	return books, total, rows.Err()
}

// GetByID returns a single book or ErrNotFound.
func (r *BookRepository) GetByID(ctx context.Context, id string) (*model.Book, error) {
	b, err := scanBook(r.db.QueryRow(ctx,
		`SELECT `+bookColumns+` FROM books WHERE id = $1`, id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get book: %w", err)
	}
	return b, nil
}

// Update applies the non-nil fields of the patch and returns the updated row.
func (r *BookRepository) Update(ctx context.Context, id string, patch model.BookPatch) (*model.Book, error) {
	var set []string
	var args []any
	add := func(col string, v any) {
		args = append(args, v)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Author != nil {
		add("author", *patch.Author)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Category != nil {
		add("category", *patch.Category)
	}
	if patch.Rating != nil {
		add("rating", *patch.Rating)
	}
	if patch.Price != nil {
		add("price", *patch.Price)
	}
	if patch.CoverURL != nil {
		add("cover_url", *patch.CoverURL)
	}
	if patch.Link != nil {
		add("link", *patch.Link)
	}
	if patch.Featured != nil {
		add("featured", *patch.Featured)
	}
	if len(set) == 0 {
		return r.GetByID(ctx, id)
	}

	args = append(args, id)
	q := fmt.Sprintf(
		`UPDATE books SET %s, updated_at = now() WHERE id = $%d RETURNING `+bookColumns,
		strings.Join(set, ", "), len(args),
	)

	b, err := scanBook(r.db.QueryRow(ctx, q, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update book: %w", err)
	}
	return b, nil
}

// Delete removes a book. Returns ErrNotFound when no row matched.
func (r *BookRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
