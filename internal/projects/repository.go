package projects

import (
	"context"
	"errors"

	"github.com/helpinghands/go-services/internal/models"
)

var (
	// ErrNotFound is returned when a project id does not resolve to a document.
	ErrNotFound = errors.New("project not found")
)

// Repository provides project persistence operations.
type Repository interface {
	Create(ctx context.Context, p *models.Project) (*models.Project, error)
	GetByID(ctx context.Context, id string) (*models.Project, error)
	// List returns every project ordered by creation time, newest first.
	List(ctx context.Context) ([]*models.Project, error)
	// AddVolunteer adds userID to the project roster exactly once and returns
	// the updated project. Adding an existing member is a successful no-op.
	AddVolunteer(ctx context.Context, projectID, userID string) (*models.Project, error)
	Delete(ctx context.Context, id string) error
}
