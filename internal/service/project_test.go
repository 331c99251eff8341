package service

import (
	"context"
	"errors"
	"testing"

	"github.com/adilnd/portfolio-api/internal/model"
	"github.com/adilnd/portfolio-api/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Portfolio CMS", "portfolio-cms"},
		{"  Une App / Web!  ", "une-app-web"},
		{"déjà-vu", "d-j-vu"},
		{"2024 Retrospective", "2024-retrospective"},
	}
	for _, tt := range tests {
		if got := slugify(tt.in); got != tt.want {
			t.Errorf("slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// fakeProjects stubs the two lookup paths Get uses.
type fakeProjects struct {
	ProjectStore
	byID   func(ctx context.Context, id string) (*model.Project, error)
	bySlug func(ctx context.Context, slug string) (*model.Project, error)
}

func (f *fakeProjects) GetByID(ctx context.Context, id string) (*model.Project, error) {
	return f.byID(ctx, id)
}

func (f *fakeProjects) GetBySlug(ctx context.Context, slug string) (*model.Project, error) {
	return f.bySlug(ctx, slug)
}

func (f *fakeProjects) IncrementViews(context.Context, string) error { return nil }

func TestProjectGetFallsBackToSlugOnNotFound(t *testing.T) {
	svc := NewProjectService(&fakeProjects{
		byID: func(context.Context, string) (*model.Project, error) {
			return nil, repository.ErrNotFound
		},
		bySlug: func(_ context.Context, slug string) (*model.Project, error) {
			return &model.Project{ID: "p1", Slug: slug}, nil
		},
	}, testLogger())

	p, err := svc.Get(context.Background(), "portfolio-cms")
	require.NoError(t, err)
	require.Equal(t, "p1", p.ID)
}

func TestProjectGetDoesNotMaskStoreErrors(t *testing.T) {
	dbErr := errors.New("connection reset")
	svc := NewProjectService(&fakeProjects{
		byID: func(context.Context, string) (*model.Project, error) {
			return nil, dbErr
		},
		bySlug: func(context.Context, string) (*model.Project, error) {
			t.Fatal("slug lookup must not run on a non-NotFound id error")
			return nil, nil
		},
	}, testLogger())

	_, err := svc.Get(context.Background(), "p1")
	require.ErrorIs(t, err, dbErr)
}
