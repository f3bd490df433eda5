package service

import (
	"context"
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/dventuri/hackmate/internal/model"
	"github.com/dventuri/hackmate/internal/repository"
	"github.com/dventuri/hackmate/pkg/logger"
	"go.uber.org/zap"
)

// RankingService computes a hackathon's final classification. It writes
// nothing: given the same votes it always produces the same ordered list, so
// callers may recompute freely.
type RankingService struct {
	hackathons  repository.HackathonRepository
	teams       repository.TeamRepository
	invitations repository.InvitationRepository
	votes       repository.VoteRepository
}

func NewRankingService() *RankingService {
	return &RankingService{}
}

// ComputeRanking orders teams by the sum of their final votes, descending,
// ties broken by team creation order. It refuses until the event has ended
// and every accepted judge has voted for every team; the returned error then
// carries how many votes are still missing.
func (s *RankingService) ComputeRanking(ctx context.Context, hackathonTitle string, now time.Time) ([]*model.RankingRow, *Error) {
	l := logger.FromContext(ctx)
	l.Info("computing ranking", zap.String("hackathon", hackathonTitle))

	repoHackathon, err := s.hackathons.Get(ctx, hackathonTitle)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NewError(ErrorCodeNotFound, "hackathon not found")
	}
	if err != nil {
		l.Error("failed to get hackathon", zap.String("hackathon", hackathonTitle), zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to get hackathon")
	}

	hackathon := toModelHackathon(repoHackathon)
	if phase := hackathon.PhaseAt(now); phase != model.PhaseEventEnded {
		l.Warn("ranking requested before event end",
			zap.String("hackathon", hackathonTitle),
			zap.String("phase", string(phase)))
		return nil, NewError(ErrorCodeEventNotEnded, "ranking opens once the event has ended")
	}

	judges, err := s.invitations.GetAcceptedJudges(ctx, hackathonTitle)
	if err != nil {
		l.Error("failed to list judges", zap.String("hackathon", hackathonTitle), zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to list judges")
	}

	teams, err := s.teams.GetByHackathon(ctx, hackathonTitle)
	if err != nil {
		l.Error("failed to list teams", zap.String("hackathon", hackathonTitle), zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to list teams")
	}

	required := len(judges) * len(teams)
	actual, err := s.votes.CountByHackathon(ctx, hackathonTitle)
	if err != nil {
		l.Error("failed to count votes", zap.String("hackathon", hackathonTitle), zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to count votes")
	}

	if actual < required {
		missing := required - actual
		l.Warn("voting incomplete",
			zap.String("hackathon", hackathonTitle),
			zap.Int("required", required),
			zap.Int("actual", actual))
		return nil, NewIncompleteVotingError(missing)
	}

	scores, err := s.votes.SumByTeam(ctx, hackathonTitle)
	if err != nil {
		l.Error("failed to sum votes", zap.String("hackathon", hackathonTitle), zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to aggregate votes")
	}

	scoreByTeam := make(map[string]int64, len(scores))
	for _, score := range scores {
		scoreByTeam[score.TeamID] = score.Score
	}

	// teams arrive in creation order from the repository.
	ranking := make([]*model.RankingRow, 0, len(teams))
	for _, team := range teams {
		ranking = append(ranking, &model.RankingRow{
			TeamID:   team.ID,
			TeamName: team.Name,
			Score:    scoreByTeam[team.ID],
		})
	}

	// Stable sort keeps the traversal order of equal scores, which is the
	// creation-order tie-break.
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Score > ranking[j].Score
	})

	for i, row := range ranking {
		row.Position = i + 1
	}

	l.Debug("ranking computed",
		zap.String("hackathon", hackathonTitle),
		zap.Int("teams", len(ranking)))

	return ranking, nil
}

func (s *RankingService) WithHackathonRepo(r repository.HackathonRepository) *RankingService {
	s.hackathons = r
	return s
}

func (s *RankingService) WithTeamRepo(r repository.TeamRepository) *RankingService {
	s.teams = r
	return s
}

func (s *RankingService) WithInvitationRepo(r repository.InvitationRepository) *RankingService {
	s.invitations = r
	return s
}

func (s *RankingService) WithVoteRepo(r repository.VoteRepository) *RankingService {
	s.votes = r
	return s
}
