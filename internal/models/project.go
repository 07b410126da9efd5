package models

import "time"

// Urgency levels for a help project.
const (
	UrgencyLow    = "low"
	UrgencyMedium = "medium"
	UrgencyHigh   = "high"
	UrgencyUrgent = "urgent"
)

// Project lifecycle states.
const (
	StatusPending   = "pending"
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusArchived  = "archived"
)

// Field length limits enforced at creation time.
const (
	MaxTitleLen        = 100
	MaxDescriptionLen  = 500
	MaxInstructionsLen = 300
)

// Project is a volunteer-help listing with a schedule, declared hours and a
// roster of joined volunteers. Owner fields (UserID/UserEmail/UserName) are
// denormalized from the creating user; JoinedVolunteers holds user IDs and
// must not contain duplicates.
type Project struct {
	ID               string    `bson:"_id,omitempty" json:"id"`
	UserID           string    `bson:"userId" json:"userId"`
	UserEmail        string    `bson:"userEmail" json:"userEmail"`
	UserName         string    `bson:"userName" json:"userName"`
	Title            string    `bson:"title" json:"title"`
	Description      string    `bson:"description" json:"description"`
	Instructions     string    `bson:"instructions,omitempty" json:"instructions,omitempty"`
	Hours            float64   `bson:"hours" json:"hours"`
	StartDate        time.Time `bson:"startDate" json:"startDate"`
	StartTime        string    `bson:"startTime" json:"startTime"`
	EndDate          time.Time `bson:"endDate" json:"endDate"`
	EndTime          string    `bson:"endTime" json:"endTime"`
	TotalHours       float64   `bson:"totalHours" json:"totalHours"` // legacy alias of Hours, kept for older documents
	ContactPhone     string    `bson:"contactPhone,omitempty" json:"contactPhone,omitempty"`
	Urgency          string    `bson:"urgency" json:"urgency"`
	ImageURL         string    `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	Status           string    `bson:"status" json:"status"`
	JoinedVolunteers []string  `bson:"joinedVolunteers" json:"joinedVolunteers"`
	CreatedAt        time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time `bson:"updatedAt" json:"updatedAt"`
}

// EffectiveHours returns the declared hour value, falling back to the legacy
// totalHours field for documents written before the rename, and 0 when
// neither is present.
func (p *Project) EffectiveHours() float64 {
	if p.Hours > 0 {
		return p.Hours
	}
	return p.TotalHours
}

// HasVolunteer reports whether userID is already on the roster.
func (p *Project) HasVolunteer(userID string) bool {
	for _, id := range p.JoinedVolunteers {
		if id == userID {
			return true
		}
	}
	return false
}

// ValidUrgency reports whether u is one of the accepted urgency levels.
func ValidUrgency(u string) bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyUrgent:
		return true
	}
	return false
}
