package model

import "time"

// Document is a team submission. Teams may submit several; the latest by
// timestamp is the one subject to final judging.
type Document struct {
	ID        string     `json:"document_id"`
	TeamID    string     `json:"team_id"`
	Title     string     `json:"title"`
	Text      string     `json:"text"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}
