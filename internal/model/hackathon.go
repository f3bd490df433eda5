package model

import "time"

type Phase string

const (
	PhaseScheduled          Phase = "SCHEDULED"
	PhaseRegistrationOpen   Phase = "REGISTRATION_OPEN"
	PhaseRegistrationClosed Phase = "REGISTRATION_CLOSED"
	PhaseEventInProgress    Phase = "EVENT_IN_PROGRESS"
	PhaseEventEnded         Phase = "EVENT_ENDED"
)

const (
	// MinTeamSize is the advisory floor for team creation.
	MinTeamSize = 2

	// RegistrationLead separates registration close from event start.
	// Registration end is never supplied by callers: it is always
	// event start minus this lead.
	RegistrationLead = 48 * time.Hour

	// MinEventDuration is the shortest admissible event window.
	MinEventDuration = 24 * time.Hour
)

type Hackathon struct {
	Title           string     `json:"title" validate:"required"`
	Organizer       string     `json:"organizer" validate:"required"`
	Venue           string     `json:"venue"`
	Description     string     `json:"description"`
	RegStart        time.Time  `json:"registration_start" validate:"required"`
	RegEnd          time.Time  `json:"registration_end"`
	EventStart      time.Time  `json:"event_start" validate:"required"`
	EventEnd        time.Time  `json:"event_end" validate:"required"`
	MaxParticipants int        `json:"max_participants" validate:"required"`
	MaxTeamSize     int        `json:"max_team_size" validate:"required"`
	CreatedAt       *time.Time `json:"created_at,omitempty"`
}

func (h *Hackathon) RegistrationWindow() TimeWindow {
	return TimeWindow{Start: h.RegStart, End: h.RegEnd}
}

func (h *Hackathon) EventWindow() TimeWindow {
	return TimeWindow{Start: h.EventStart, End: h.EventEnd}
}

// PhaseAt derives the lifecycle phase purely from the stored window
// boundaries and the supplied instant. Every temporal gate in the engine
// goes through this single function.
func (h *Hackathon) PhaseAt(now time.Time) Phase {
	switch {
	case now.Before(h.RegStart):
		return PhaseScheduled
	case now.Before(h.RegEnd):
		return PhaseRegistrationOpen
	case now.Before(h.EventStart):
		return PhaseRegistrationClosed
	case now.Before(h.EventEnd):
		return PhaseEventInProgress
	default:
		return PhaseEventEnded
	}
}
