package model

import "time"

// Book is a reading-list entry.
type Book struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	Rating      float64   `json:"rating"`
	Price       float64   `json:"price"`
	CoverURL    string    `json:"cover_url,omitempty"`
	Link        string    `json:"link,omitempty"`
	Featured    bool      `json:"featured"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateBookRequest is the payload for creating a book.
type CreateBookRequest struct {
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Rating      float64 `json:"rating"`
	Price       float64 `json:"price"`
	CoverURL    string  `json:"cover_url"`
	Link        string  `json:"link"`
	Featured    bool    `json:"featured"`
}

// BookPatch is an explicit allow-list of updatable book fields.
type BookPatch struct {
	Title       *string  `json:"title"`
	Author      *string  `json:"author"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	Rating      *float64 `json:"rating"`
	Price       *float64 `json:"price"`
	CoverURL    *string  `json:"cover_url"`
	Link        *string  `json:"link"`
	Featured    *bool    `json:"featured"`
}

// BookFilter narrows book listings.
type BookFilter struct {
	Category string
	Featured *bool
	Limit    int
	Offset   int
}
