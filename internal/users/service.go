package users

import (
	"context"
	"errors"

	"github.com/helpinghands/go-services/internal/models"
)

var (
	// ErrValidation marks profile updates rejected before reaching the store.
	ErrValidation = errors.New("validation failed")
)

// Service encapsulates user-related business logic
type Service struct {
	repo UserRepository
}

func NewService(r UserRepository) *Service {
	return &Service{repo: r}
}

// BindExternalIdentity ensures exactly one local user exists for the verified
// identity described by the OIDC claims. Existing users are left untouched;
// new ones are created with placeholder demographics pending profile
// completion. The bool result reports whether a user was created. Any store
// error is returned unchanged so the caller can fail the sign-in closed.
func (s *Service) BindExternalIdentity(ctx context.Context, claims map[string]interface{}) (*models.User, bool, error) {
	email, _ := claims["email"].(string)
	if email == "" {
		return nil, false, nil
	}
	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	given, _ := claims["given_name"].(string)
	family, _ := claims["family_name"].(string)
	sub, _ := claims["sub"].(string)
	picture, _ := claims["picture"].(string)

	u := &models.User{
		Email:          email,
		FirstName:      given,
		LastName:       family,
		ExternalID:     sub,
		ProfilePicture: picture,
		DateOfBirth:    models.DefaultDateOfBirth,
		Gender:         models.GenderUnspecified,
	}
	created, err := s.repo.Create(ctx, u)
	if err != nil {
		return nil, false, err
	}
	return created, true, nil
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.repo.GetByEmail(ctx, email)
}

// UserIDByEmail resolves the durable user identifier for session enrichment.
// Returns "" without error when no user matches.
func (s *Service) UserIDByEmail(ctx context.Context, email string) (string, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if u == nil {
		return "", nil
	}
	return u.ID, nil
}

// UpdateProfile applies a profile-completion submission for the given email.
// Returns (nil, nil) when no user matches.
func (s *Service) UpdateProfile(ctx context.Context, email string, p ProfileUpdate) (*models.User, error) {
	if p.FirstName == "" || p.LastName == "" || p.Gender == "" || p.DateOfBirth.IsZero() {
		return nil, ErrValidation
	}
	if !models.ValidGender(p.Gender) {
		return nil, ErrValidation
	}
	return s.repo.UpdateProfileByEmail(ctx, email, p)
}

// List returns minimal user projections with the display name filled in.
func (s *Service) List(ctx context.Context) ([]models.UserSummary, error) {
	out, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range out {
		u := models.User{FirstName: out[i].FirstName, LastName: out[i].LastName, Email: out[i].Email}
		out[i].Name = u.Name()
	}
	return out, nil
}
