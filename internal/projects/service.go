package projects

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/helpinghands/go-services/internal/models"
)

// ValidationError describes input rejected before reaching the store. The
// message is safe to return to the client verbatim.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func validationf(format string, v ...interface{}) error {
	return &ValidationError{msg: fmt.Sprintf(format, v...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// CreateInput is the canonical project submission schema. Dates use
// YYYY-MM-DD and times HH:MM (24h).
type CreateInput struct {
	Title        string
	Description  string
	Instructions string
	StartDate    string
	StartTime    string
	EndDate      string
	EndTime      string
	Hours        float64
	ContactPhone string
	Urgency      string
	ImageURL     string
}

const dateTimeLayout = "2006-01-02T15:04"

// Service wraps repository operations with validation and the membership rules.
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service { return &Service{repo: r} }

// Create validates the submission and stores a new pending project owned by
// the given user.
func (s *Service) Create(ctx context.Context, owner *models.User, in CreateInput) (*models.Project, error) {
	if owner == nil || owner.ID == "" {
		return nil, validationf("user profile is not linked")
	}
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	instructions := strings.TrimSpace(in.Instructions)

	if title == "" || description == "" || in.StartDate == "" || in.StartTime == "" || in.EndDate == "" || in.EndTime == "" || in.Urgency == "" {
		return nil, validationf("please fill in all required fields")
	}
	if len(title) > models.MaxTitleLen {
		return nil, validationf("title must be %d characters or less", models.MaxTitleLen)
	}
	if len(description) > models.MaxDescriptionLen {
		return nil, validationf("description must be %d characters or less", models.MaxDescriptionLen)
	}
	if len(instructions) > models.MaxInstructionsLen {
		return nil, validationf("instructions must be %d characters or less", models.MaxInstructionsLen)
	}
	if !models.ValidUrgency(in.Urgency) {
		return nil, validationf("urgency must be one of low, medium, high, urgent")
	}
	if in.Hours <= 0 {
		return nil, validationf("total hours must be a positive number")
	}

	start, err := time.Parse(dateTimeLayout, in.StartDate+"T"+in.StartTime)
	if err != nil {
		return nil, validationf("invalid start date/time")
	}
	end, err := time.Parse(dateTimeLayout, in.EndDate+"T"+in.EndTime)
	if err != nil {
		return nil, validationf("invalid end date/time")
	}
	if !start.After(time.Now().UTC()) {
		return nil, validationf("start date and time must be in the future")
	}
	if !end.After(start) {
		return nil, validationf("end date/time must be after start date/time")
	}

	p := &models.Project{
		UserID:           owner.ID,
		UserEmail:        owner.Email,
		UserName:         owner.Name(),
		Title:            title,
		Description:      description,
		Instructions:     instructions,
		Hours:            in.Hours,
		StartDate:        start.Truncate(24 * time.Hour),
		StartTime:        in.StartTime,
		EndDate:          end.Truncate(24 * time.Hour),
		EndTime:          in.EndTime,
		TotalHours:       in.Hours,
		ContactPhone:     strings.TrimSpace(in.ContactPhone),
		Urgency:          in.Urgency,
		ImageURL:         in.ImageURL,
		Status:           models.StatusPending,
		JoinedVolunteers: []string{},
	}
	return s.repo.Create(ctx, p)
}

// Join adds userID to the project roster. Joining twice is a successful
// no-op; the project owner cannot join their own listing.
func (s *Service) Join(ctx context.Context, projectID, userID string) (*models.Project, error) {
	if projectID == "" || userID == "" {
		return nil, validationf("missing projectId or userId")
	}
	p, err := s.repo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if p.UserID == userID {
		return nil, validationf("project owner cannot join their own project")
	}
	return s.repo.AddVolunteer(ctx, projectID, userID)
}

// List returns all projects, newest first.
func (s *Service) List(ctx context.Context) ([]*models.Project, error) {
	return s.repo.List(ctx)
}

// Get returns the project with the given id.
func (s *Service) Get(ctx context.Context, id string) (*models.Project, error) {
	return s.repo.GetByID(ctx, id)
}

// Delete permanently removes the project. There is no cascade: roster entries
// live only on the removed document.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return validationf("missing projectId")
	}
	return s.repo.Delete(ctx, id)
}
