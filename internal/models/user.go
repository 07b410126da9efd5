package models

import "time"

// Gender values accepted by profile updates. New accounts created during
// sign-in start with GenderUnspecified until the user completes their profile.
const (
	GenderMale        = "male"
	GenderFemale      = "female"
	GenderOther       = "other"
	GenderUnspecified = "prefer-not-to-say"
)

// DefaultDateOfBirth is the sentinel assigned to accounts created from an
// external sign-in before the user has completed their profile.
var DefaultDateOfBirth = time.Date(1990, time.January, 1, 0, 0, 0, 0, time.UTC)

// User represents an application user bound to an external identity.
// Email is the natural key: at most one user document exists per email.
type User struct {
	ID             string    `bson:"_id,omitempty" json:"id"`
	Email          string    `bson:"email" json:"email"`
	FirstName      string    `bson:"firstName" json:"firstName"`
	LastName       string    `bson:"lastName" json:"lastName"`
	ExternalID     string    `bson:"externalId,omitempty" json:"externalId,omitempty"` // OIDC subject
	ProfilePicture string    `bson:"profilePicture,omitempty" json:"profilePicture,omitempty"`
	DateOfBirth    time.Time `bson:"dateOfBirth" json:"dateOfBirth"`
	Gender         string    `bson:"gender" json:"gender"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Name returns the display name used in project listings.
func (u *User) Name() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.Email
	}
}

// ProfileComplete reports whether the user has replaced the placeholder
// demographics assigned at first sign-in.
func (u *User) ProfileComplete() bool {
	return u.Gender != GenderUnspecified || !u.DateOfBirth.Equal(DefaultDateOfBirth)
}

// UserSummary is the minimal projection returned by the users listing,
// enough for leaderboard name resolution on the client.
type UserSummary struct {
	ID        string `bson:"_id" json:"id"`
	FirstName string `bson:"firstName" json:"firstName"`
	LastName  string `bson:"lastName" json:"lastName"`
	Name      string `bson:"-" json:"name"`
	Email     string `bson:"email" json:"email"`
}

// ValidGender reports whether g is one of the accepted gender values.
func ValidGender(g string) bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther, GenderUnspecified:
		return true
	}
	return false
}
