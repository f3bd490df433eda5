package model

import "time"

const (
	MinFinalScore = 1
	MaxFinalScore = 10
)

// Evaluation is a judge's free-text judgment of one document. At most one
// per (judge, document); never updated or deleted.
type Evaluation struct {
	JudgeID    string     `json:"judge_id"`
	DocumentID string     `json:"document_id"`
	Text       string     `json:"text"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
}

// FinalVote is a judge's numeric score for one team, castable only after the
// event window has ended. Immutable once cast.
type FinalVote struct {
	JudgeID        string     `json:"judge_id"`
	TeamID         string     `json:"team_id"`
	HackathonTitle string     `json:"hackathon_title"`
	Score          int        `json:"score"`
	CreatedAt      *time.Time `json:"created_at,omitempty"`
}
