package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/dventuri/hackmate/internal/db"
	"github.com/dventuri/hackmate/internal/model"
	"github.com/dventuri/hackmate/internal/repository"
	"github.com/dventuri/hackmate/pkg/logger"
	"go.uber.org/zap"
)

// JudgeService owns judge invitations. Accepting an invitation is the single
// gate making a user a judge for a hackathon, and acceptance is refused when
// the invitee already judges another hackathon with an overlapping event
// window.
type JudgeService struct {
	tx db.Transactor

	hackathons  repository.HackathonRepository
	invitations repository.InvitationRepository
}

func NewJudgeService(tx db.Transactor) *JudgeService {
	return &JudgeService{tx: tx}
}

// Invite creates a pending invitation. Only the hackathon's organizer may
// invite, and a live (pending or accepted) invitation blocks a second one.
func (s *JudgeService) Invite(ctx context.Context, organizerID, hackathonTitle, inviteeID string) (*model.JudgeInvitation, *Error) {
	l := logger.FromContext(ctx)
	l.Info("inviting judge",
		zap.String("hackathon", hackathonTitle),
		zap.String("organizer", organizerID),
		zap.String("invitee", inviteeID))

	repoHackathon, err := s.hackathons.Get(ctx, hackathonTitle)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NewError(ErrorCodeNotFound, "hackathon not found")
	}
	if err != nil {
		l.Error("failed to get hackathon", zap.String("hackathon", hackathonTitle), zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to get hackathon")
	}

	if repoHackathon.Organizer != organizerID {
		l.Warn("invite attempted by non-organizer",
			zap.String("hackathon", hackathonTitle),
			zap.String("caller", organizerID))
		return nil, NewError(ErrorCodeNotOrganizer, "only the organizer may invite judges")
	}

	repoInvitation := &repository.Invitation{
		ID:             uuid.NewString(),
		HackathonTitle: hackathonTitle,
		Organizer:      organizerID,
		Invitee:        inviteeID,
		State:          model.InvitationStatePending,
	}

	err = s.invitations.Create(ctx, repoInvitation)
	if errors.Is(err, repository.ErrAlreadyExists) {
		l.Warn("invitee already invited",
			zap.String("hackathon", hackathonTitle),
			zap.String("invitee", inviteeID))
		return nil, NewError(ErrorCodeAlreadyInvited, "user is already invited to this hackathon")
	}
	if err != nil {
		l.Error("failed to create invitation", zap.String("invitee", inviteeID), zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to create invitation")
	}

	return &model.JudgeInvitation{
		ID:             repoInvitation.ID,
		HackathonTitle: repoInvitation.HackathonTitle,
		Organizer:      repoInvitation.Organizer,
		Invitee:        repoInvitation.Invitee,
		State:          repoInvitation.State,
		CreatedAt:      repoInvitation.CreatedAt,
	}, nil
}

// Accept transitions a pending invitation to accepted, unless the invitee's
// other accepted commitments clash with this hackathon's event window. Both
// ends of the windows count as occupied, so a back-to-back boundary touch is
// a conflict.
func (s *JudgeService) Accept(ctx context.Context, invitationID string) *Error {
	l := logger.FromContext(ctx)
	l.Info("accepting invitation", zap.String("invitation_id", invitationID))

	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		invitation, sErr := s.getPending(txCtx, invitationID)
		if sErr != nil {
			return sErr
		}

		repoHackathon, err := s.hackathons.Get(txCtx, invitation.HackathonTitle)
		if err != nil {
			l.Error("failed to get hackathon", zap.String("hackathon", invitation.HackathonTitle), zap.Error(err))
			return NewError(ErrorCodeUnspecified, "failed to get hackathon")
		}
		window := model.TimeWindow{Start: repoHackathon.EventStart, End: repoHackathon.EventEnd}

		accepted, err := s.invitations.GetAcceptedForUser(txCtx, invitation.Invitee)
		if err != nil {
			l.Error("failed to list accepted invitations", zap.String("invitee", invitation.Invitee), zap.Error(err))
			return NewError(ErrorCodeUnspecified, "failed to check judge commitments")
		}

		for _, other := range accepted {
			if other.HackathonTitle == invitation.HackathonTitle {
				continue
			}

			otherHackathon, err := s.hackathons.Get(txCtx, other.HackathonTitle)
			if err != nil {
				l.Error("failed to get committed hackathon", zap.String("hackathon", other.HackathonTitle), zap.Error(err))
				return NewError(ErrorCodeUnspecified, "failed to check judge commitments")
			}

			otherWindow := model.TimeWindow{Start: otherHackathon.EventStart, End: otherHackathon.EventEnd}
			if window.Overlaps(otherWindow) {
				l.Warn("scheduling conflict",
					zap.String("invitee", invitation.Invitee),
					zap.String("hackathon", invitation.HackathonTitle),
					zap.String("conflicting_hackathon", other.HackathonTitle))
				return NewError(ErrorCodeSchedulingConflict, "judge already committed to an overlapping event")
			}
		}

		if err = s.invitations.UpdateState(txCtx, invitationID, model.InvitationStateAccepted); err != nil {
			l.Error("failed to accept invitation", zap.String("invitation_id", invitationID), zap.Error(err))
			return NewError(ErrorCodeUnspecified, "failed to accept invitation")
		}

		return nil
	})

	return asServiceError(err)
}

// Decline transitions a pending invitation to declined. Declining is always
// allowed; only resolved invitations refuse the transition.
func (s *JudgeService) Decline(ctx context.Context, invitationID string) *Error {
	l := logger.FromContext(ctx)
	l.Info("declining invitation", zap.String("invitation_id", invitationID))

	invitation, sErr := s.getPending(ctx, invitationID)
	if sErr != nil {
		return sErr
	}

	if err := s.invitations.UpdateState(ctx, invitation.ID, model.InvitationStateDeclined); err != nil {
		l.Error("failed to decline invitation", zap.String("invitation_id", invitationID), zap.Error(err))
		return NewError(ErrorCodeUnspecified, "failed to decline invitation")
	}

	return nil
}

// JudgesOf lists the accepted judges of a hackathon.
func (s *JudgeService) JudgesOf(ctx context.Context, hackathonTitle string) ([]string, *Error) {
	judges, err := s.invitations.GetAcceptedJudges(ctx, hackathonTitle)
	if err != nil {
		return nil, NewError(ErrorCodeUnspecified, "failed to list judges")
	}
	return judges, nil
}

func (s *JudgeService) getPending(ctx context.Context, invitationID string) (*repository.Invitation, *Error) {
	invitation, err := s.invitations.Get(ctx, invitationID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NewError(ErrorCodeNotFound, "invitation not found")
	}
	if err != nil {
		return nil, NewError(ErrorCodeUnspecified, "failed to get invitation")
	}
	if invitation.State != model.InvitationStatePending {
		return nil, NewError(ErrorCodeAlreadyResolved, "invitation is already resolved")
	}
	return invitation, nil
}

func (s *JudgeService) WithHackathonRepo(r repository.HackathonRepository) *JudgeService {
	s.hackathons = r
	return s
}

func (s *JudgeService) WithInvitationRepo(r repository.InvitationRepository) *JudgeService {
	s.invitations = r
	return s
}
