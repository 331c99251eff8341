package model

import "time"

// Project is a portfolio entry. Array-valued fields map to Postgres text[]
// columns; Metrics is stored as JSONB.
type Project struct {
	ID           string            `json:"id"`
	Title        string            `json:"title"`
	Slug         string            `json:"slug"`
	Description  string            `json:"description"`
	Content      string            `json:"content,omitempty"`
	Category     string            `json:"category"`
	Status       string            `json:"status"`
	Featured     bool              `json:"featured"`
	DisplayOrder int               `json:"display_order"`
	Technologies []string          `json:"technologies"`
	Goals        []string          `json:"goals"`
	Features     []string          `json:"features"`
	Results      []string          `json:"results"`
	Tags         []string          `json:"tags"`
	Metrics      map[string]string `json:"metrics"`
	ImageURL     string            `json:"image_url,omitempty"`
	DemoURL      string            `json:"demo_url,omitempty"`
	RepoURL      string            `json:"repo_url,omitempty"`
	Views        int               `json:"views"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// CreateProjectRequest is the payload for creating a project.
type CreateProjectRequest struct {
	Title        string            `json:"title"`
	Slug         string            `json:"slug"`
	Description  string            `json:"description"`
	Content      string            `json:"content"`
	Category     string            `json:"category"`
	Status       string            `json:"status"`
	Featured     bool              `json:"featured"`
	DisplayOrder int               `json:"display_order"`
	Technologies []string          `json:"technologies"`
	Goals        []string          `json:"goals"`
	Features     []string          `json:"features"`
	Results      []string          `json:"results"`
	Tags         []string          `json:"tags"`
	Metrics      map[string]string `json:"metrics"`
	ImageURL     string            `json:"image_url"`
	DemoURL      string            `json:"demo_url"`
	RepoURL      string            `json:"repo_url"`
}

// ProjectPatch is an explicit allow-list of updatable project fields.
type ProjectPatch struct {
	Title        *string            `json:"title"`
	Slug         *string            `json:"slug"`
	Description  *string            `json:"description"`
	Content      *string            `json:"content"`
	Category     *string            `json:"category"`
	Status       *string            `json:"status"`
	Featured     *bool              `json:"featured"`
	DisplayOrder *int               `json:"display_order"`
	Technologies *[]string          `json:"technologies"`
	Goals        *[]string          `json:"goals"`
	Features     *[]string          `json:"features"`
	Results      *[]string          `json:"results"`
	Tags         *[]string          `json:"tags"`
	Metrics      *map[string]string `json:"metrics"`
	ImageURL     *string            `json:"image_url"`
	DemoURL      *string            `json:"demo_url"`
	RepoURL      *string            `json:"repo_url"`
}

// ProjectFilter narrows project listings.
type ProjectFilter struct {
	Category string
	Status   string
	Featured *bool
	Tag      string
	Sort     string
	Limit    int
	Offset   int
}

// ProjectStats aggregates project counts.
type ProjectStats struct {
	Total      int            `json:"total"`
	Published  int            `json:"published"`
	Draft      int            `json:"draft"`
	Archived   int            `json:"archived"`
	ByCategory map[string]int `json:"by_category"`
}
