package service

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/dventuri/hackmate/internal/model"
	"github.com/dventuri/hackmate/internal/repository"
)

type MockTransactor struct {
	mock.Mock
}

func (m *MockTransactor) WithinTransaction(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

type MockHackathonRepository struct {
	mock.Mock
}

func (m *MockHackathonRepository) Create(ctx context.Context, h *repository.Hackathon) error {
	args := m.Called(ctx, h)
	return args.Error(0)
}

func (m *MockHackathonRepository) Get(ctx context.Context, title string) (*repository.Hackathon, error) {
	args := m.Called(ctx, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Hackathon), args.Error(1)
}

func (m *MockHackathonRepository) List(ctx context.Context) ([]*repository.Hackathon, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repository.Hackathon), args.Error(1)
}

type MockTeamRepository struct {
	mock.Mock
}

func (m *MockTeamRepository) Create(ctx context.Context, team *repository.Team) error {
	args := m.Called(ctx, team)
	return args.Error(0)
}

func (m *MockTeamRepository) Get(ctx context.Context, teamID string) (*repository.Team, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Team), args.Error(1)
}

func (m *MockTeamRepository) GetByName(ctx context.Context, hackathonTitle, name string) (*repository.Team, error) {
	args := m.Called(ctx, hackathonTitle, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Team), args.Error(1)
}

func (m *MockTeamRepository) GetByHackathon(ctx context.Context, hackathonTitle string) ([]*repository.Team, error) {
	args := m.Called(ctx, hackathonTitle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repository.Team), args.Error(1)
}

type MockMembershipRepository struct {
	mock.Mock
}

func (m *MockMembershipRepository) Create(ctx context.Context, membership *repository.Membership) error {
	args := m.Called(ctx, membership)
	return args.Error(0)
}

func (m *MockMembershipRepository) Delete(ctx context.Context, teamID, userID string) error {
	args := m.Called(ctx, teamID, userID)
	return args.Error(0)
}

func (m *MockMembershipRepository) GetForUser(ctx context.Context, hackathonTitle, userID string) (*repository.Membership, error) {
	args := m.Called(ctx, hackathonTitle, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Membership), args.Error(1)
}

func (m *MockMembershipRepository) GetByTeam(ctx context.Context, teamID string) ([]*repository.Membership, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repository.Membership), args.Error(1)
}

func (m *MockMembershipRepository) CountByTeam(ctx context.Context, teamID string) (int, error) {
	args := m.Called(ctx, teamID)
	return args.Int(0), args.Error(1)
}

type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) Create(ctx context.Context, doc *repository.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepository) Get(ctx context.Context, docID string) (*repository.Document, error) {
	args := m.Called(ctx, docID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Document), args.Error(1)
}

func (m *MockDocumentRepository) GetByTeam(ctx context.Context, teamID string) ([]*repository.Document, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repository.Document), args.Error(1)
}

func (m *MockDocumentRepository) CountByTeam(ctx context.Context, teamID string) (int, error) {
	args := m.Called(ctx, teamID)
	return args.Int(0), args.Error(1)
}

type MockInvitationRepository struct {
	mock.Mock
}

func (m *MockInvitationRepository) Create(ctx context.Context, inv *repository.Invitation) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *MockInvitationRepository) Get(ctx context.Context, invitationID string) (*repository.Invitation, error) {
	args := m.Called(ctx, invitationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Invitation), args.Error(1)
}

func (m *MockInvitationRepository) GetAccepted(ctx context.Context, hackathonTitle, userID string) (*repository.Invitation, error) {
	args := m.Called(ctx, hackathonTitle, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Invitation), args.Error(1)
}

func (m *MockInvitationRepository) GetAcceptedForUser(ctx context.Context, userID string) ([]*repository.Invitation, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repository.Invitation), args.Error(1)
}

func (m *MockInvitationRepository) GetAcceptedJudges(ctx context.Context, hackathonTitle string) ([]string, error) {
	args := m.Called(ctx, hackathonTitle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockInvitationRepository) UpdateState(ctx context.Context, invitationID string, state model.InvitationState) error {
	args := m.Called(ctx, invitationID, state)
	return args.Error(0)
}

type MockEvaluationRepository struct {
	mock.Mock
}

func (m *MockEvaluationRepository) Create(ctx context.Context, ev *repository.Evaluation) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

func (m *MockEvaluationRepository) GetByDocument(ctx context.Context, documentID string) ([]*repository.Evaluation, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repository.Evaluation), args.Error(1)
}

type MockVoteRepository struct {
	mock.Mock
}

func (m *MockVoteRepository) Create(ctx context.Context, vote *repository.FinalVote) error {
	args := m.Called(ctx, vote)
	return args.Error(0)
}

func (m *MockVoteRepository) CountByHackathon(ctx context.Context, hackathonTitle string) (int, error) {
	args := m.Called(ctx, hackathonTitle)
	return args.Int(0), args.Error(1)
}

func (m *MockVoteRepository) SumByTeam(ctx context.Context, hackathonTitle string) ([]*repository.TeamScore, error) {
	args := m.Called(ctx, hackathonTitle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repository.TeamScore), args.Error(1)
}
