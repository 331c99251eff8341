package service

import (
	"context"
	"strings"

	"github.com/adilnd/portfolio-api/internal/model"
)

// BookStore is the persistence surface for reading-list entries.
// *repository.BookRepository implements it.
type BookStore interface {
	Create(ctx context.Context, req model.CreateBookRequest) (*model.Book, error)
	List(ctx context.Context, filter model.BookFilter) ([]model.Book, int, error)
	GetByID(ctx context.Context, id string) (*model.Book, error)
	Update(ctx context.Context, id string, patch model.BookPatch) (*model.Book, error)
	Delete(ctx context.Context, id string) error
}

// BookService orchestrates book CRUD.
type BookService struct {
	books BookStore
}

// NewBookService constructs a BookService.
func NewBookService(books BookStore) *BookService {
	return &BookService{books: books}
}

// Create validates the request and delegates to the store.
func (s *BookService) Create(ctx context.Context, req model.CreateBookRequest) (*model.Book, error) {
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return nil, validationf("title is required")
	}
	if req.Rating < 0 || req.Rating > 5 {
		return nil, validationf("rating must be between 0 and 5")
	}
	return s.books.Create(ctx, req)
}

// List returns books matching the filter and the total count.
func (s *BookService) List(ctx context.Context, filter model.BookFilter) ([]model.Book, int, error) {
	return s.books.List(ctx, filter)
}

// Get returns one book.
func (s *BookService) Get(ctx context.Context, id string) (*model.Book, error) {
	return s.books.GetByID(ctx, id)
}

// Update validates the patch and delegates to the store.
func (s *BookService) Update(ctx context.Context, id string, patch model.BookPatch) (*model.Book, error) {
	if patch.Rating != nil && (*patch.Rating < 0 || *patch.Rating > 5) {
		return nil, validationf("rating must be between 0 and 5")
	}
	return s.books.Update(ctx, id, patch)
}

// Delete removes a book.
func (s *BookService) Delete(ctx context.Context, id string) error {
	return s.books.Delete(ctx, id)
}
