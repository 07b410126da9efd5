// Package leaderboard derives per-user contribution stats from the project
// set. The derivation is a pure fold recomputed on every view; nothing here
// is persisted.
package leaderboard

import (
	"sort"

	"github.com/helpinghands/go-services/internal/models"
)

// BadgeHelper is awarded to every user who joined at least one project.
const BadgeHelper = "Helper"

// Entry is one leaderboard row.
type Entry struct {
	UserID         string   `json:"id"`
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	ProjectsJoined int      `json:"projectsJoined"`
	HoursJoined    float64  `json:"hoursJoined"`
	Badges         []string `json:"badges"`
}

// Compute folds the full project set into per-user aggregates: each roster
// appearance counts one joined project and adds the project's declared hours
// (legacy totalHours fallback, 0 when absent). Rows are sorted by joined
// count descending, ties broken by hours descending.
func Compute(projects []*models.Project, users map[string]models.UserSummary) []Entry {
	stats := map[string]*Entry{}
	for _, p := range projects {
		for _, userID := range p.JoinedVolunteers {
			e, ok := stats[userID]
			if !ok {
				e = &Entry{UserID: userID, Badges: []string{BadgeHelper}}
				stats[userID] = e
			}
			e.ProjectsJoined++
			e.HoursJoined += p.EffectiveHours()
		}
	}

	out := make([]Entry, 0, len(stats))
	for id, e := range stats {
		e.Name, e.Email = resolve(id, users)
		out = append(out, *e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ProjectsJoined != out[j].ProjectsJoined {
			return out[i].ProjectsJoined > out[j].ProjectsJoined
		}
		return out[i].HoursJoined > out[j].HoursJoined
	})
	return out
}

// resolve picks a display name: first+last name, then the stored name, then
// email, falling back to the raw id for users no longer in the lookup table.
func resolve(id string, users map[string]models.UserSummary) (name, email string) {
	u, ok := users[id]
	if !ok {
		return id, ""
	}
	switch {
	case u.FirstName != "":
		name = u.FirstName
		if u.LastName != "" {
			name += " " + u.LastName
		}
	case u.Name != "":
		name = u.Name
	case u.Email != "":
		name = u.Email
	default:
		name = id
	}
	return name, u.Email
}
