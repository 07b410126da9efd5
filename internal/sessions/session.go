package sessions

import "time"

// Session represents a persistent refresh session. Email links the session
// back to the local account; UserID is attached at materialization time by
// Enrich and is never persisted.
type Session struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	RefreshToken string    `bson:"refreshToken" json:"refreshToken"`
	Email        string    `bson:"email" json:"email"`
	Sub          string    `bson:"sub" json:"sub"`
	UserID       string    `bson:"-" json:"userId,omitempty"`
	ExpiresAt    time.Time `bson:"expiresAt" json:"expiresAt"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
}
