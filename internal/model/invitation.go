package model

import "time"

type InvitationState string

const (
	InvitationStatePending  InvitationState = "PENDING"
	InvitationStateAccepted InvitationState = "ACCEPTED"
	InvitationStateDeclined InvitationState = "DECLINED"
)

// JudgeInvitation is the sole credential path making a user a judge: only an
// accepted invitation authorizes evaluations and final votes for its hackathon.
type JudgeInvitation struct {
	ID             string          `json:"invitation_id"`
	HackathonTitle string          `json:"hackathon_title"`
	Organizer      string          `json:"organizer"`
	Invitee        string          `json:"invitee"`
	State          InvitationState `json:"state"`
	CreatedAt      *time.Time      `json:"created_at,omitempty"`
}
