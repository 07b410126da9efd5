package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/helpinghands/go-services/internal/models"
)

// fakeRepo is an in-memory UserRepository keyed by email.
type fakeRepo struct {
	byEmail   map[string]*models.User
	createN   int
	getErr    error
	createErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byEmail: map[string]*models.User{}}
}

func (f *fakeRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.createN++
	now := time.Now().UTC()
	u.ID = "id-1"
	u.CreatedAt = now
	u.UpdatedAt = now
	f.byEmail[u.Email] = u
	return u, nil
}

func (f *fakeRepo) UpdateProfileByEmail(ctx context.Context, email string, p ProfileUpdate) (*models.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, nil
	}
	u.FirstName = p.FirstName
	u.LastName = p.LastName
	u.DateOfBirth = p.DateOfBirth
	u.Gender = p.Gender
	u.UpdatedAt = time.Now().UTC()
	cp := *u
	return &cp, nil
}

func (f *fakeRepo) List(ctx context.Context) ([]models.UserSummary, error) {
	out := []models.UserSummary{}
	for _, u := range f.byEmail {
		out = append(out, models.UserSummary{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName, Email: u.Email})
	}
	return out, nil
}

func googleClaims() map[string]interface{} {
	return map[string]interface{}{
		"sub":         "google-sub-1",
		"email":       "x@example.com",
		"given_name":  "Xenia",
		"family_name": "Xu",
		"picture":     "https://example.com/x.png",
	}
}

func TestBindExternalIdentity_CreatesWithDefaults(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()

	u, created, err := svc.BindExternalIdentity(ctx, googleClaims())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Fatal("expected a new user to be created")
	}
	if u == nil {
		t.Fatal("expected user, got nil")
	}
	if u.Email != "x@example.com" || u.FirstName != "Xenia" || u.LastName != "Xu" {
		t.Fatalf("unexpected profile fields: %+v", u)
	}
	if u.ExternalID != "google-sub-1" {
		t.Fatalf("unexpected external id: %s", u.ExternalID)
	}
	if u.Gender != models.GenderUnspecified {
		t.Fatalf("expected placeholder gender, got %q", u.Gender)
	}
	if !u.DateOfBirth.Equal(models.DefaultDateOfBirth) {
		t.Fatalf("expected sentinel date of birth, got %v", u.DateOfBirth)
	}
	if u.ProfileComplete() {
		t.Fatal("freshly bound account should not report a complete profile")
	}
}

func TestBindExternalIdentity_IdempotentAcrossSignIns(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		u, created, err := svc.BindExternalIdentity(ctx, googleClaims())
		if err != nil {
			t.Fatalf("sign-in %d: unexpected error: %v", i, err)
		}
		if u == nil {
			t.Fatalf("sign-in %d: expected user", i)
		}
		if i == 0 && !created {
			t.Fatal("first sign-in should create the user")
		}
		if i > 0 && created {
			t.Fatalf("sign-in %d should not create another user", i)
		}
	}
	if repo.createN != 1 {
		t.Fatalf("expected exactly one create, got %d", repo.createN)
	}
}

func TestBindExternalIdentity_ExistingUserNotMutated(t *testing.T) {
	repo := newFakeRepo()
	repo.byEmail["x@example.com"] = &models.User{
		ID:        "id-0",
		Email:     "x@example.com",
		FirstName: "Edited",
		LastName:  "Name",
		Gender:    models.GenderFemale,
	}
	svc := NewService(repo)

	u, created, err := svc.BindExternalIdentity(context.Background(), googleClaims())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Fatal("existing user must not be re-created")
	}
	if u.FirstName != "Edited" || u.Gender != models.GenderFemale {
		t.Fatalf("existing user mutated: %+v", u)
	}
}

func TestBindExternalIdentity_StoreErrorFailsClosed(t *testing.T) {
	repo := newFakeRepo()
	repo.getErr = errors.New("store unavailable")
	svc := NewService(repo)

	u, _, err := svc.BindExternalIdentity(context.Background(), googleClaims())
	if err == nil {
		t.Fatal("expected error when lookup fails")
	}
	if u != nil {
		t.Fatalf("no user should be returned on failure, got %+v", u)
	}

	repo.getErr = nil
	repo.createErr = errors.New("insert failed")
	u, _, err = svc.BindExternalIdentity(context.Background(), googleClaims())
	if err == nil || u != nil {
		t.Fatalf("expected create failure to propagate, got u=%v err=%v", u, err)
	}
}

func TestBindExternalIdentity_MissingEmail(t *testing.T) {
	svc := NewService(newFakeRepo())
	u, created, err := svc.BindExternalIdentity(context.Background(), map[string]interface{}{"sub": "s"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u != nil || created {
		t.Fatalf("expected nil user when email claim missing, got %v", u)
	}
}

func TestUserIDByEmail(t *testing.T) {
	repo := newFakeRepo()
	repo.byEmail["x@example.com"] = &models.User{ID: "id-9", Email: "x@example.com"}
	svc := NewService(repo)

	id, err := svc.UserIDByEmail(context.Background(), "x@example.com")
	if err != nil || id != "id-9" {
		t.Fatalf("unexpected result: id=%q err=%v", id, err)
	}
	id, err = svc.UserIDByEmail(context.Background(), "nobody@example.com")
	if err != nil || id != "" {
		t.Fatalf("missing user should resolve to empty id, got id=%q err=%v", id, err)
	}
}

func TestUpdateProfile_Validation(t *testing.T) {
	repo := newFakeRepo()
	repo.byEmail["x@example.com"] = &models.User{ID: "id-1", Email: "x@example.com", Gender: models.GenderUnspecified, DateOfBirth: models.DefaultDateOfBirth}
	svc := NewService(repo)
	ctx := context.Background()

	dob := time.Date(1994, 5, 2, 0, 0, 0, 0, time.UTC)

	// missing last name
	if _, err := svc.UpdateProfile(ctx, "x@example.com", ProfileUpdate{FirstName: "A", DateOfBirth: dob, Gender: models.GenderMale}); err != ErrValidation {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	// bad gender
	if _, err := svc.UpdateProfile(ctx, "x@example.com", ProfileUpdate{FirstName: "A", LastName: "B", DateOfBirth: dob, Gender: "robot"}); err != ErrValidation {
		t.Fatalf("expected ErrValidation for gender, got %v", err)
	}
	// valid
	u, err := svc.UpdateProfile(ctx, "x@example.com", ProfileUpdate{FirstName: "A", LastName: "B", DateOfBirth: dob, Gender: models.GenderMale})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u == nil || u.FirstName != "A" || !u.ProfileComplete() {
		t.Fatalf("unexpected updated user: %+v", u)
	}
	// unknown user
	u, err = svc.UpdateProfile(ctx, "nobody@example.com", ProfileUpdate{FirstName: "A", LastName: "B", DateOfBirth: dob, Gender: models.GenderMale})
	if err != nil || u != nil {
		t.Fatalf("expected (nil, nil) for unknown user, got u=%v err=%v", u, err)
	}
}
