package model

import "time"

type Team struct {
	ID             string     `json:"team_id"`
	HackathonTitle string     `json:"hackathon_title"`
	Name           string     `json:"team_name"`
	CreatedAt      *time.Time `json:"created_at,omitempty"`
}

// Membership binds one user to one team within one hackathon. A user holds
// at most one membership per hackathon at any time.
type Membership struct {
	UserID         string     `json:"user_id"`
	TeamID         string     `json:"team_id"`
	HackathonTitle string     `json:"hackathon_title"`
	CreatedAt      *time.Time `json:"created_at,omitempty"`
}
