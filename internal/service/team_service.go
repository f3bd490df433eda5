package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/dventuri/hackmate/internal/db"
	"github.com/dventuri/hackmate/internal/model"
	"github.com/dventuri/hackmate/internal/repository"
	"github.com/dventuri/hackmate/pkg/logger"
	"go.uber.org/zap"
)

// TeamService owns teams, memberships and document submissions. Capacity and
// one-team-per-hackathon rules are checked inside serializable transactions
// and backed by unique constraints, so racing callers cannot both win.
type TeamService struct {
	tx db.Transactor

	hackathons  repository.HackathonRepository
	teams       repository.TeamRepository
	memberships repository.MembershipRepository
	documents   repository.DocumentRepository
}

func NewTeamService(tx db.Transactor) *TeamService {
	return &TeamService{tx: tx}
}

// CreateTeam creates a team and its creator's membership as one atomic unit.
// Only legal while the hackathon's registration window is open.
func (s *TeamService) CreateTeam(ctx context.Context, hackathonTitle, creatorID, name string, now time.Time) (*model.Team, *Error) {
	l := logger.FromContext(ctx)
	l.Info("creating team",
		zap.String("hackathon", hackathonTitle),
		zap.String("team_name", name),
		zap.String("creator", creatorID))

	hackathon, sErr := s.getHackathon(ctx, hackathonTitle)
	if sErr != nil {
		return nil, sErr
	}

	if phase := hackathon.PhaseAt(now); phase != model.PhaseRegistrationOpen {
		l.Warn("team creation outside registration window",
			zap.String("hackathon", hackathonTitle),
			zap.String("phase", string(phase)))
		return nil, NewError(ErrorCodeRegistrationClosed, "registration is not open")
	}

	team := &model.Team{
		ID:             uuid.NewString(),
		HackathonTitle: hackathonTitle,
		Name:           name,
	}

	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		repoTeam := &repository.Team{
			ID:             team.ID,
			HackathonTitle: team.HackathonTitle,
			Name:           team.Name,
		}

		err := s.teams.Create(txCtx, repoTeam)
		if errors.Is(err, repository.ErrAlreadyExists) {
			l.Warn("team name already used in hackathon",
				zap.String("hackathon", hackathonTitle),
				zap.String("team_name", name))
			return NewError(ErrorCodeDuplicateTeamName, "team name already used in this hackathon")
		}
		if err != nil {
			l.Error("failed to create team", zap.String("team_name", name), zap.Error(err))
			return NewError(ErrorCodeUnspecified, "failed to create team")
		}

		err = s.memberships.Create(txCtx, &repository.Membership{
			UserID:         creatorID,
			TeamID:         team.ID,
			HackathonTitle: hackathonTitle,
		})
		if errors.Is(err, repository.ErrAlreadyExists) {
			l.Warn("creator already holds a membership",
				zap.String("hackathon", hackathonTitle),
				zap.String("creator", creatorID))
			return NewError(ErrorCodeUserAlreadyInTeam, "user already belongs to a team in this hackathon")
		}
		if err != nil {
			l.Error("failed to create creator membership", zap.String("team_name", name), zap.Error(err))
			return NewError(ErrorCodeUnspecified, "failed to create membership")
		}

		team.CreatedAt = repoTeam.CreatedAt

		return nil
	})
	if sErr := asServiceError(err); sErr != nil {
		return nil, sErr
	}

	l.Debug("team created", zap.String("team_id", team.ID))

	return team, nil
}

// Join adds a user to a team while registration is open, the user is free and
// the team has a slot left. Check and insert run in one transaction; the
// membership unique constraint settles races for the last slot.
func (s *TeamService) Join(ctx context.Context, teamID, userID string, now time.Time) (*model.Membership, *Error) {
	l := logger.FromContext(ctx)
	l.Info("joining team", zap.String("team_id", teamID), zap.String("user_id", userID))

	membership := &model.Membership{
		UserID: userID,
		TeamID: teamID,
	}

	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		team, sErr := s.getTeam(txCtx, teamID)
		if sErr != nil {
			return sErr
		}
		membership.HackathonTitle = team.HackathonTitle

		hackathon, sErr := s.getHackathon(txCtx, team.HackathonTitle)
		if sErr != nil {
			return sErr
		}

		if phase := hackathon.PhaseAt(now); phase != model.PhaseRegistrationOpen {
			return NewError(ErrorCodeRegistrationClosed, "registration is not open")
		}

		_, err := s.memberships.GetForUser(txCtx, team.HackathonTitle, userID)
		if err == nil {
			return NewError(ErrorCodeUserAlreadyInTeam, "user already belongs to a team in this hackathon")
		}
		if !errors.Is(err, repository.ErrNotFound) {
			l.Error("failed to check membership", zap.String("user_id", userID), zap.Error(err))
			return NewError(ErrorCodeUnspecified, "failed to check membership")
		}

		count, err := s.memberships.CountByTeam(txCtx, teamID)
		if err != nil {
			l.Error("failed to count team members", zap.String("team_id", teamID), zap.Error(err))
			return NewError(ErrorCodeUnspecified, "failed to count team members")
		}
		if count >= hackathon.MaxTeamSize {
			l.Warn("team is full", zap.String("team_id", teamID), zap.Int("members", count))
			return NewError(ErrorCodeTeamFull, "team has reached its maximum size")
		}

		repoMembership := &repository.Membership{
			UserID:         userID,
			TeamID:         teamID,
			HackathonTitle: team.HackathonTitle,
		}
		err = s.memberships.Create(txCtx, repoMembership)
		if errors.Is(err, repository.ErrAlreadyExists) {
			return NewError(ErrorCodeUserAlreadyInTeam, "user already belongs to a team in this hackathon")
		}
		if err != nil {
			l.Error("failed to create membership", zap.String("user_id", userID), zap.Error(err))
			return NewError(ErrorCodeUnspecified, "failed to create membership")
		}

		membership.CreatedAt = repoMembership.CreatedAt

		return nil
	})
	if sErr := asServiceError(err); sErr != nil {
		return nil, sErr
	}

	return membership, nil
}

// Leave removes exactly the caller's membership. The team persists even when
// it becomes empty.
func (s *TeamService) Leave(ctx context.Context, teamID, userID string) *Error {
	l := logger.FromContext(ctx)
	l.Info("leaving team", zap.String("team_id", teamID), zap.String("user_id", userID))

	err := s.memberships.Delete(ctx, teamID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return NewError(ErrorCodeNotAMember, "user is not a member of this team")
	}
	if err != nil {
		l.Error("failed to delete membership", zap.String("user_id", userID), zap.Error(err))
		return NewError(ErrorCodeUnspecified, "failed to leave team")
	}

	return nil
}

// SubmitDocument records a submission for the author's team during the event
// window. The latest submission is the one judged.
func (s *TeamService) SubmitDocument(ctx context.Context, teamID, authorID, title, text string, now time.Time) (*model.Document, *Error) {
	l := logger.FromContext(ctx)
	l.Info("submitting document",
		zap.String("team_id", teamID),
		zap.String("author", authorID),
		zap.String("title", title))

	team, sErr := s.getTeam(ctx, teamID)
	if sErr != nil {
		return nil, sErr
	}

	hackathon, sErr := s.getHackathon(ctx, team.HackathonTitle)
	if sErr != nil {
		return nil, sErr
	}

	if phase := hackathon.PhaseAt(now); phase != model.PhaseEventInProgress {
		return nil, NewError(ErrorCodeEventNotInProgress, "documents can only be submitted while the event is in progress")
	}

	membership, err := s.memberships.GetForUser(ctx, team.HackathonTitle, authorID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NewError(ErrorCodeNotAMember, "author is not a member of this team")
	}
	if err != nil {
		l.Error("failed to check membership", zap.String("author", authorID), zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to check membership")
	}
	if membership.TeamID != teamID {
		return nil, NewError(ErrorCodeNotAMember, "author is not a member of this team")
	}

	repoDoc := &repository.Document{
		ID:     uuid.NewString(),
		TeamID: teamID,
		Title:  title,
		Text:   text,
	}
	if err = s.documents.Create(ctx, repoDoc); err != nil {
		l.Error("failed to create document", zap.String("team_id", teamID), zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to submit document")
	}

	return &model.Document{
		ID:        repoDoc.ID,
		TeamID:    repoDoc.TeamID,
		Title:     repoDoc.Title,
		Text:      repoDoc.Text,
		CreatedAt: repoDoc.CreatedAt,
	}, nil
}

// TeamsOf lists a hackathon's teams in creation order.
func (s *TeamService) TeamsOf(ctx context.Context, hackathonTitle string) ([]*model.Team, *Error) {
	repoTeams, err := s.teams.GetByHackathon(ctx, hackathonTitle)
	if err != nil {
		return nil, NewError(ErrorCodeUnspecified, "failed to list teams")
	}

	teams := make([]*model.Team, 0, len(repoTeams))
	for _, t := range repoTeams {
		teams = append(teams, &model.Team{
			ID:             t.ID,
			HackathonTitle: t.HackathonTitle,
			Name:           t.Name,
			CreatedAt:      t.CreatedAt,
		})
	}
	return teams, nil
}

// Members lists a team's memberships in join order.
func (s *TeamService) Members(ctx context.Context, teamID string) ([]*model.Membership, *Error) {
	repoMemberships, err := s.memberships.GetByTeam(ctx, teamID)
	if err != nil {
		return nil, NewError(ErrorCodeUnspecified, "failed to list members")
	}

	memberships := make([]*model.Membership, 0, len(repoMemberships))
	for _, m := range repoMemberships {
		memberships = append(memberships, &model.Membership{
			UserID:         m.UserID,
			TeamID:         m.TeamID,
			HackathonTitle: m.HackathonTitle,
			CreatedAt:      m.CreatedAt,
		})
	}
	return memberships, nil
}

// Documents lists a team's submissions newest first.
func (s *TeamService) Documents(ctx context.Context, teamID string) ([]*model.Document, *Error) {
	repoDocs, err := s.documents.GetByTeam(ctx, teamID)
	if err != nil {
		return nil, NewError(ErrorCodeUnspecified, "failed to list documents")
	}

	docs := make([]*model.Document, 0, len(repoDocs))
	for _, d := range repoDocs {
		docs = append(docs, &model.Document{
			ID:        d.ID,
			TeamID:    d.TeamID,
			Title:     d.Title,
			Text:      d.Text,
			CreatedAt: d.CreatedAt,
		})
	}
	return docs, nil
}

func (s *TeamService) getTeam(ctx context.Context, teamID string) (*model.Team, *Error) {
	repoTeam, err := s.teams.Get(ctx, teamID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NewError(ErrorCodeNotFound, "team not found")
	}
	if err != nil {
		return nil, NewError(ErrorCodeUnspecified, "failed to get team")
	}
	return &model.Team{
		ID:             repoTeam.ID,
		HackathonTitle: repoTeam.HackathonTitle,
		Name:           repoTeam.Name,
		CreatedAt:      repoTeam.CreatedAt,
	}, nil
}

func (s *TeamService) getHackathon(ctx context.Context, title string) (*model.Hackathon, *Error) {
	repoHackathon, err := s.hackathons.Get(ctx, title)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NewError(ErrorCodeNotFound, "hackathon not found")
	}
	if err != nil {
		return nil, NewError(ErrorCodeUnspecified, "failed to get hackathon")
	}
	return toModelHackathon(repoHackathon), nil
}

func (s *TeamService) WithHackathonRepo(r repository.HackathonRepository) *TeamService {
	s.hackathons = r
	return s
}

func (s *TeamService) WithTeamRepo(r repository.TeamRepository) *TeamService {
	s.teams = r
	return s
}

func (s *TeamService) WithMembershipRepo(r repository.MembershipRepository) *TeamService {
	s.memberships = r
	return s
}

func (s *TeamService) WithDocumentRepo(r repository.DocumentRepository) *TeamService {
	s.documents = r
	return s
}
