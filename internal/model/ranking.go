package model

// RankingRow is one entry of a hackathon's final classification, ordered by
// descending score with ties broken by team creation order.
type RankingRow struct {
	Position int    `json:"position"`
	TeamID   string `json:"team_id"`
	TeamName string `json:"team_name"`
	Score    int64  `json:"score"`
}
