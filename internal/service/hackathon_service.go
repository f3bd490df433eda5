package service

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/dventuri/hackmate/internal/model"
	"github.com/dventuri/hackmate/internal/repository"
	"github.com/dventuri/hackmate/pkg/logger"
	"go.uber.org/zap"
)

// HackathonService owns hackathon entities: creation-time window validation
// and lifecycle phase derivation. Hackathons are immutable after creation.
type HackathonService struct {
	hackathons repository.HackathonRepository
}

func NewHackathonService() *HackathonService {
	return &HackathonService{}
}

// Create validates the five window invariants in order and persists the
// hackathon. The registration end is never taken from the caller: it is
// always computed as event start minus the registration lead.
func (s *HackathonService) Create(ctx context.Context, h *model.Hackathon, now time.Time) (*model.Hackathon, *Error) {
	l := logger.FromContext(ctx)
	l.Info("creating hackathon", zap.String("title", h.Title), zap.String("organizer", h.Organizer))

	h.RegEnd = h.EventStart.Add(-model.RegistrationLead)

	if vErr := validateWindows(h, now); vErr != nil {
		l.Warn("hackathon window validation failed",
			zap.String("title", h.Title),
			zap.String("code", string(vErr.Code)))
		return nil, vErr
	}

	repoHackathon := &repository.Hackathon{
		Title:           h.Title,
		Organizer:       h.Organizer,
		Venue:           h.Venue,
		Description:     h.Description,
		RegStart:        h.RegStart,
		RegEnd:          h.RegEnd,
		EventStart:      h.EventStart,
		EventEnd:        h.EventEnd,
		MaxParticipants: h.MaxParticipants,
		MaxTeamSize:     h.MaxTeamSize,
	}

	err := s.hackathons.Create(ctx, repoHackathon)
	if errors.Is(err, repository.ErrAlreadyExists) {
		l.Warn("hackathon title already taken", zap.String("title", h.Title))
		return nil, NewError(ErrorCodeDuplicateTitle, "hackathon title already exists")
	}
	if err != nil {
		l.Error("failed to create hackathon", zap.String("title", h.Title), zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to create hackathon")
	}

	h.CreatedAt = repoHackathon.CreatedAt

	l.Debug("hackathon created", zap.String("title", h.Title))

	return h, nil
}

func (s *HackathonService) Get(ctx context.Context, title string) (*model.Hackathon, *Error) {
	repoHackathon, err := s.hackathons.Get(ctx, title)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NewError(ErrorCodeNotFound, "hackathon not found")
	}
	if err != nil {
		return nil, NewError(ErrorCodeUnspecified, "failed to get hackathon")
	}
	return toModelHackathon(repoHackathon), nil
}

func (s *HackathonService) List(ctx context.Context) ([]*model.Hackathon, *Error) {
	repoHackathons, err := s.hackathons.List(ctx)
	if err != nil {
		return nil, NewError(ErrorCodeUnspecified, "failed to list hackathons")
	}

	hackathons := make([]*model.Hackathon, 0, len(repoHackathons))
	for _, h := range repoHackathons {
		hackathons = append(hackathons, toModelHackathon(h))
	}
	return hackathons, nil
}

// PhaseOf reports the hackathon's lifecycle phase at the supplied instant.
func (s *HackathonService) PhaseOf(ctx context.Context, title string, now time.Time) (model.Phase, *Error) {
	h, sErr := s.Get(ctx, title)
	if sErr != nil {
		return "", sErr
	}
	return h.PhaseAt(now), nil
}

// validateWindows runs the creation invariants in a fixed order; the first
// violation decides the returned code.
func validateWindows(h *model.Hackathon, now time.Time) *Error {
	switch {
	case h.RegStart.Before(now):
		return NewError(ErrorCodePastRegistrationStart, "registration must not start in the past")
	case !h.RegStart.Before(h.RegEnd):
		return NewError(ErrorCodeRegistrationWindowInverted, "registration start must precede registration end")
	case h.RegEnd.Add(model.RegistrationLead).After(h.EventStart):
		return NewError(ErrorCodeInsufficientRegistrationLead, "registration must close at least two days before the event")
	// Equal boundaries fall through to the duration check, so a zero-length
	// event reports EVENT_TOO_SHORT rather than an inverted window.
	case h.EventStart.After(h.EventEnd):
		return NewError(ErrorCodeEventWindowInverted, "event start must precede event end")
	case h.EventWindow().Duration() < model.MinEventDuration:
		return NewError(ErrorCodeEventTooShort, "event must span at least one day")
	}
	return nil
}

func toModelHackathon(h *repository.Hackathon) *model.Hackathon {
	return &model.Hackathon{
		Title:           h.Title,
		Organizer:       h.Organizer,
		Venue:           h.Venue,
		Description:     h.Description,
		RegStart:        h.RegStart,
		RegEnd:          h.RegEnd,
		EventStart:      h.EventStart,
		EventEnd:        h.EventEnd,
		MaxParticipants: h.MaxParticipants,
		MaxTeamSize:     h.MaxTeamSize,
		CreatedAt:       h.CreatedAt,
	}
}

func (s *HackathonService) WithHackathonRepo(r repository.HackathonRepository) *HackathonService {
	s.hackathons = r
	return s
}
