package service

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/dventuri/hackmate/internal/db"
	"github.com/dventuri/hackmate/internal/model"
	"github.com/dventuri/hackmate/internal/repository"
	"github.com/dventuri/hackmate/pkg/logger"
	"go.uber.org/zap"
)

// EvaluationService owns the judging ledger: per-document text evaluations
// and per-team final votes. Both are insert-only and at-most-once; votes are
// additionally gated on the event having ended.
type EvaluationService struct {
	tx db.Transactor

	hackathons  repository.HackathonRepository
	teams       repository.TeamRepository
	documents   repository.DocumentRepository
	invitations repository.InvitationRepository
	evaluations repository.EvaluationRepository
	votes       repository.VoteRepository
}

func NewEvaluationService(tx db.Transactor) *EvaluationService {
	return &EvaluationService{tx: tx}
}

// EvaluateDocument records a judge's free-text judgment of a document. The
// judge must hold an accepted invitation for the document's hackathon; the
// text carries no scoring semantics and never feeds the ranking.
func (s *EvaluationService) EvaluateDocument(ctx context.Context, judgeID, documentID, text string) (*model.Evaluation, *Error) {
	l := logger.FromContext(ctx)
	l.Info("evaluating document",
		zap.String("judge", judgeID),
		zap.String("document_id", documentID))

	doc, err := s.documents.Get(ctx, documentID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NewError(ErrorCodeNotFound, "document not found")
	}
	if err != nil {
		l.Error("failed to get document", zap.String("document_id", documentID), zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to get document")
	}

	team, err := s.teams.Get(ctx, doc.TeamID)
	if err != nil {
		l.Error("failed to get team", zap.String("team_id", doc.TeamID), zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to get team")
	}

	if sErr := s.requireJudge(ctx, team.HackathonTitle, judgeID); sErr != nil {
		return nil, sErr
	}

	repoEval := &repository.Evaluation{
		JudgeID:    judgeID,
		DocumentID: documentID,
		Text:       text,
	}
	err = s.evaluations.Create(ctx, repoEval)
	if errors.Is(err, repository.ErrAlreadyExists) {
		l.Warn("document already evaluated by judge",
			zap.String("judge", judgeID),
			zap.String("document_id", documentID))
		return nil, NewError(ErrorCodeAlreadyEvaluated, "judge already evaluated this document")
	}
	if err != nil {
		l.Error("failed to create evaluation", zap.String("document_id", documentID), zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to create evaluation")
	}

	return &model.Evaluation{
		JudgeID:    repoEval.JudgeID,
		DocumentID: repoEval.DocumentID,
		Text:       repoEval.Text,
		CreatedAt:  repoEval.CreatedAt,
	}, nil
}

// CastFinalVote records a judge's numeric score for a team. Only legal once
// the event has ended, only for teams that submitted at least one document,
// and at most once per (judge, team). Votes are immutable afterward.
func (s *EvaluationService) CastFinalVote(ctx context.Context, judgeID, teamID string, score int, now time.Time) (*model.FinalVote, *Error) {
	l := logger.FromContext(ctx)
	l.Info("casting final vote",
		zap.String("judge", judgeID),
		zap.String("team_id", teamID),
		zap.Int("score", score))

	vote := &model.FinalVote{
		JudgeID: judgeID,
		TeamID:  teamID,
		Score:   score,
	}

	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		team, err := s.teams.Get(txCtx, teamID)
		if errors.Is(err, repository.ErrNotFound) {
			return NewError(ErrorCodeNotFound, "team not found")
		}
		if err != nil {
			l.Error("failed to get team", zap.String("team_id", teamID), zap.Error(err))
			return NewError(ErrorCodeUnspecified, "failed to get team")
		}
		vote.HackathonTitle = team.HackathonTitle

		if sErr := s.requireJudge(txCtx, team.HackathonTitle, judgeID); sErr != nil {
			return sErr
		}

		repoHackathon, err := s.hackathons.Get(txCtx, team.HackathonTitle)
		if err != nil {
			l.Error("failed to get hackathon", zap.String("hackathon", team.HackathonTitle), zap.Error(err))
			return NewError(ErrorCodeUnspecified, "failed to get hackathon")
		}

		hackathon := toModelHackathon(repoHackathon)
		if phase := hackathon.PhaseAt(now); phase != model.PhaseEventEnded {
			l.Warn("vote before event end",
				zap.String("hackathon", team.HackathonTitle),
				zap.String("phase", string(phase)))
			return NewError(ErrorCodeEventNotEnded, "final votes open once the event has ended")
		}

		docCount, err := s.documents.CountByTeam(txCtx, teamID)
		if err != nil {
			l.Error("failed to count documents", zap.String("team_id", teamID), zap.Error(err))
			return NewError(ErrorCodeUnspecified, "failed to count documents")
		}
		if docCount == 0 {
			return NewError(ErrorCodeNoDocumentSubmitted, "team has no submission to judge")
		}

		if score < model.MinFinalScore || score > model.MaxFinalScore {
			return NewError(ErrorCodeScoreOutOfRange, "score must be between 1 and 10")
		}

		repoVote := &repository.FinalVote{
			JudgeID:        judgeID,
			TeamID:         teamID,
			HackathonTitle: team.HackathonTitle,
			Score:          score,
		}
		err = s.votes.Create(txCtx, repoVote)
		if errors.Is(err, repository.ErrAlreadyExists) {
			l.Warn("judge already voted for team",
				zap.String("judge", judgeID),
				zap.String("team_id", teamID))
			return NewError(ErrorCodeAlreadyVoted, "judge already voted for this team")
		}
		if err != nil {
			l.Error("failed to create vote", zap.String("team_id", teamID), zap.Error(err))
			return NewError(ErrorCodeUnspecified, "failed to cast vote")
		}

		vote.CreatedAt = repoVote.CreatedAt

		return nil
	})
	if sErr := asServiceError(err); sErr != nil {
		return nil, sErr
	}

	return vote, nil
}

// EvaluationsOf lists the judgments recorded for a document.
func (s *EvaluationService) EvaluationsOf(ctx context.Context, documentID string) ([]*model.Evaluation, *Error) {
	repoEvals, err := s.evaluations.GetByDocument(ctx, documentID)
	if err != nil {
		return nil, NewError(ErrorCodeUnspecified, "failed to list evaluations")
	}

	evals := make([]*model.Evaluation, 0, len(repoEvals))
	for _, ev := range repoEvals {
		evals = append(evals, &model.Evaluation{
			JudgeID:    ev.JudgeID,
			DocumentID: ev.DocumentID,
			Text:       ev.Text,
			CreatedAt:  ev.CreatedAt,
		})
	}
	return evals, nil
}

// requireJudge checks the sole judging credential: an accepted invitation for
// the hackathon.
func (s *EvaluationService) requireJudge(ctx context.Context, hackathonTitle, judgeID string) *Error {
	_, err := s.invitations.GetAccepted(ctx, hackathonTitle, judgeID)
	if errors.Is(err, repository.ErrNotFound) {
		return NewError(ErrorCodeNotAJudge, "user is not an accepted judge for this hackathon")
	}
	if err != nil {
		return NewError(ErrorCodeUnspecified, "failed to check judge credential")
	}
	return nil
}

func (s *EvaluationService) WithHackathonRepo(r repository.HackathonRepository) *EvaluationService {
	s.hackathons = r
	return s
}

func (s *EvaluationService) WithTeamRepo(r repository.TeamRepository) *EvaluationService {
	s.teams = r
	return s
}

func (s *EvaluationService) WithDocumentRepo(r repository.DocumentRepository) *EvaluationService {
	s.documents = r
	return s
}

func (s *EvaluationService) WithInvitationRepo(r repository.InvitationRepository) *EvaluationService {
	s.invitations = r
	return s
}

func (s *EvaluationService) WithEvaluationRepo(r repository.EvaluationRepository) *EvaluationService {
	s.evaluations = r
	return s
}

func (s *EvaluationService) WithVoteRepo(r repository.VoteRepository) *EvaluationService {
	s.votes = r
	return s
}
