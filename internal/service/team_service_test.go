package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/dventuri/hackmate/internal/repository"
)

func openHackathon() *repository.Hackathon {
	return &repository.Hackathon{
		Title:           "Spring Hack",
		Organizer:       "org-1",
		RegStart:        day(1),
		RegEnd:          day(9),
		EventStart:      day(11),
		EventEnd:        day(13),
		MaxParticipants: 100,
		MaxTeamSize:     2,
	}
}

func TestTeamService_CreateTeam(t *testing.T) {
	duringRegistration := day(2)

	tests := []struct {
		name          string
		now           time.Time
		setupMocks    func(*MockHackathonRepository, *MockTeamRepository, *MockMembershipRepository)
		expectedError bool
		errorCode     ErrorCode
	}{
		{
			name: "success: team and creator membership created together",
			now:  duringRegistration,
			setupMocks: func(hr *MockHackathonRepository, tr *MockTeamRepository, mr *MockMembershipRepository) {
				hr.On("Get", mock.Anything, "Spring Hack").Return(openHackathon(), nil)
				tr.On("Create", mock.Anything, mock.MatchedBy(func(team *repository.Team) bool {
					return team.Name == "gophers" && team.HackathonTitle == "Spring Hack" && team.ID != ""
				})).Return(nil)
				mr.On("Create", mock.Anything, mock.MatchedBy(func(m *repository.Membership) bool {
					return m.UserID == "user-1" && m.HackathonTitle == "Spring Hack"
				})).Return(nil)
			},
			expectedError: false,
		},
		{
			name: "failure: registration not open yet",
			now:  day(1).Add(-time.Hour),
			setupMocks: func(hr *MockHackathonRepository, tr *MockTeamRepository, mr *MockMembershipRepository) {
				hr.On("Get", mock.Anything, "Spring Hack").Return(openHackathon(), nil)
			},
			expectedError: true,
			errorCode:     ErrorCodeRegistrationClosed,
		},
		{
			name: "failure: registration already closed",
			now:  day(10),
			setupMocks: func(hr *MockHackathonRepository, tr *MockTeamRepository, mr *MockMembershipRepository) {
				hr.On("Get", mock.Anything, "Spring Hack").Return(openHackathon(), nil)
			},
			expectedError: true,
			errorCode:     ErrorCodeRegistrationClosed,
		},
		{
			name: "failure: duplicate team name in hackathon",
			now:  duringRegistration,
			setupMocks: func(hr *MockHackathonRepository, tr *MockTeamRepository, mr *MockMembershipRepository) {
				hr.On("Get", mock.Anything, "Spring Hack").Return(openHackathon(), nil)
				tr.On("Create", mock.Anything, mock.Anything).Return(repository.ErrAlreadyExists)
			},
			expectedError: true,
			errorCode:     ErrorCodeDuplicateTeamName,
		},
		{
			name: "failure: creator already in a team",
			now:  duringRegistration,
			setupMocks: func(hr *MockHackathonRepository, tr *MockTeamRepository, mr *MockMembershipRepository) {
				hr.On("Get", mock.Anything, "Spring Hack").Return(openHackathon(), nil)
				tr.On("Create", mock.Anything, mock.Anything).Return(nil)
				mr.On("Create", mock.Anything, mock.Anything).Return(repository.ErrAlreadyExists)
			},
			expectedError: true,
			errorCode:     ErrorCodeUserAlreadyInTeam,
		},
		{
			name: "failure: hackathon not found",
			now:  duringRegistration,
			setupMocks: func(hr *MockHackathonRepository, tr *MockTeamRepository, mr *MockMembershipRepository) {
				hr.On("Get", mock.Anything, "Spring Hack").Return(nil, repository.ErrNotFound)
			},
			expectedError: true,
			errorCode:     ErrorCodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockTx := new(MockTransactor)
			mockHackathonRepo := new(MockHackathonRepository)
			mockTeamRepo := new(MockTeamRepository)
			mockMembershipRepo := new(MockMembershipRepository)

			tt.setupMocks(mockHackathonRepo, mockTeamRepo, mockMembershipRepo)

			service := NewTeamService(mockTx).
				WithHackathonRepo(mockHackathonRepo).
				WithTeamRepo(mockTeamRepo).
				WithMembershipRepo(mockMembershipRepo)

			got, err := service.CreateTeam(context.Background(), "Spring Hack", "user-1", "gophers", tt.now)

			if tt.expectedError {
				require.NotNil(t, err)
				assert.Equal(t, tt.errorCode, err.Code)
				assert.Nil(t, got)
			} else {
				require.Nil(t, err)
				assert.Equal(t, "gophers", got.Name)
				assert.NotEmpty(t, got.ID)
			}

			mockHackathonRepo.AssertExpectations(t)
			mockTeamRepo.AssertExpectations(t)
			mockMembershipRepo.AssertExpectations(t)
		})
	}
}

func TestTeamService_Join(t *testing.T) {
	duringRegistration := day(2)
	team := &repository.Team{ID: "team-1", HackathonTitle: "Spring Hack", Name: "gophers"}

	tests := []struct {
		name          string
		now           time.Time
		setupMocks    func(*MockHackathonRepository, *MockTeamRepository, *MockMembershipRepository)
		expectedError bool
		errorCode     ErrorCode
	}{
		{
			name: "success",
			now:  duringRegistration,
			setupMocks: func(hr *MockHackathonRepository, tr *MockTeamRepository, mr *MockMembershipRepository) {
				tr.On("Get", mock.Anything, "team-1").Return(team, nil)
				hr.On("Get", mock.Anything, "Spring Hack").Return(openHackathon(), nil)
				mr.On("GetForUser", mock.Anything, "Spring Hack", "user-2").Return(nil, repository.ErrNotFound)
				mr.On("CountByTeam", mock.Anything, "team-1").Return(1, nil)
				mr.On("Create", mock.Anything, mock.Anything).Return(nil)
			},
			expectedError: false,
		},
		{
			name: "failure: registration closed",
			now:  day(10),
			setupMocks: func(hr *MockHackathonRepository, tr *MockTeamRepository, mr *MockMembershipRepository) {
				tr.On("Get", mock.Anything, "team-1").Return(team, nil)
				hr.On("Get", mock.Anything, "Spring Hack").Return(openHackathon(), nil)
			},
			expectedError: true,
			errorCode:     ErrorCodeRegistrationClosed,
		},
		{
			name: "failure: user already in a team of this hackathon",
			now:  duringRegistration,
			setupMocks: func(hr *MockHackathonRepository, tr *MockTeamRepository, mr *MockMembershipRepository) {
				tr.On("Get", mock.Anything, "team-1").Return(team, nil)
				hr.On("Get", mock.Anything, "Spring Hack").Return(openHackathon(), nil)
				mr.On("GetForUser", mock.Anything, "Spring Hack", "user-2").Return(&repository.Membership{
					UserID: "user-2", TeamID: "team-9", HackathonTitle: "Spring Hack",
				}, nil)
			},
			expectedError: true,
			errorCode:     ErrorCodeUserAlreadyInTeam,
		},
		{
			name: "failure: team full at max size",
			now:  duringRegistration,
			setupMocks: func(hr *MockHackathonRepository, tr *MockTeamRepository, mr *MockMembershipRepository) {
				tr.On("Get", mock.Anything, "team-1").Return(team, nil)
				hr.On("Get", mock.Anything, "Spring Hack").Return(openHackathon(), nil)
				mr.On("GetForUser", mock.Anything, "Spring Hack", "user-2").Return(nil, repository.ErrNotFound)
				mr.On("CountByTeam", mock.Anything, "team-1").Return(2, nil)
			},
			expectedError: true,
			errorCode:     ErrorCodeTeamFull,
		},
		{
			name: "failure: lost race for the last slot",
			now:  duringRegistration,
			setupMocks: func(hr *MockHackathonRepository, tr *MockTeamRepository, mr *MockMembershipRepository) {
				tr.On("Get", mock.Anything, "team-1").Return(team, nil)
				hr.On("Get", mock.Anything, "Spring Hack").Return(openHackathon(), nil)
				mr.On("GetForUser", mock.Anything, "Spring Hack", "user-2").Return(nil, repository.ErrNotFound)
				mr.On("CountByTeam", mock.Anything, "team-1").Return(1, nil)
				mr.On("Create", mock.Anything, mock.Anything).Return(repository.ErrAlreadyExists)
			},
			expectedError: true,
			errorCode:     ErrorCodeUserAlreadyInTeam,
		},
		{
			name: "failure: team not found",
			now:  duringRegistration,
			setupMocks: func(hr *MockHackathonRepository, tr *MockTeamRepository, mr *MockMembershipRepository) {
				tr.On("Get", mock.Anything, "team-1").Return(nil, repository.ErrNotFound)
			},
			expectedError: true,
			errorCode:     ErrorCodeNotFound,
		},
		{
			name: "failure: member count error",
			now:  duringRegistration,
			setupMocks: func(hr *MockHackathonRepository, tr *MockTeamRepository, mr *MockMembershipRepository) {
				tr.On("Get", mock.Anything, "team-1").Return(team, nil)
				hr.On("Get", mock.Anything, "Spring Hack").Return(openHackathon(), nil)
				mr.On("GetForUser", mock.Anything, "Spring Hack", "user-2").Return(nil, repository.ErrNotFound)
				mr.On("CountByTeam", mock.Anything, "team-1").Return(0, errors.New("db error"))
			},
			expectedError: true,
			errorCode:     ErrorCodeUnspecified,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockTx := new(MockTransactor)
			mockHackathonRepo := new(MockHackathonRepository)
			mockTeamRepo := new(MockTeamRepository)
			mockMembershipRepo := new(MockMembershipRepository)

			tt.setupMocks(mockHackathonRepo, mockTeamRepo, mockMembershipRepo)

			service := NewTeamService(mockTx).
				WithHackathonRepo(mockHackathonRepo).
				WithTeamRepo(mockTeamRepo).
				WithMembershipRepo(mockMembershipRepo)

			got, err := service.Join(context.Background(), "team-1", "user-2", tt.now)

			if tt.expectedError {
				require.NotNil(t, err)
				assert.Equal(t, tt.errorCode, err.Code)
				assert.Nil(t, got)
			} else {
				require.Nil(t, err)
				assert.Equal(t, "user-2", got.UserID)
				assert.Equal(t, "team-1", got.TeamID)
			}

			mockMembershipRepo.AssertExpectations(t)
		})
	}
}

func TestTeamService_Leave(t *testing.T) {
	tests := []struct {
		name          string
		setupMocks    func(*MockMembershipRepository)
		expectedError bool
		errorCode     ErrorCode
	}{
		{
			name: "success",
			setupMocks: func(mr *MockMembershipRepository) {
				mr.On("Delete", mock.Anything, "team-1", "user-1").Return(nil)
			},
			expectedError: false,
		},
		{
			name: "failure: not a member",
			setupMocks: func(mr *MockMembershipRepository) {
				mr.On("Delete", mock.Anything, "team-1", "user-1").Return(repository.ErrNotFound)
			},
			expectedError: true,
			errorCode:     ErrorCodeNotAMember,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockTx := new(MockTransactor)
			mockMembershipRepo := new(MockMembershipRepository)

			tt.setupMocks(mockMembershipRepo)

			service := NewTeamService(mockTx).WithMembershipRepo(mockMembershipRepo)

			err := service.Leave(context.Background(), "team-1", "user-1")

			if tt.expectedError {
				require.NotNil(t, err)
				assert.Equal(t, tt.errorCode, err.Code)
			} else {
				assert.Nil(t, err)
			}

			mockMembershipRepo.AssertExpectations(t)
		})
	}
}

func TestTeamService_SubmitDocument(t *testing.T) {
	duringEvent := day(12)
	team := &repository.Team{ID: "team-1", HackathonTitle: "Spring Hack", Name: "gophers"}

	tests := []struct {
		name          string
		now           time.Time
		setupMocks    func(*MockHackathonRepository, *MockTeamRepository, *MockMembershipRepository, *MockDocumentRepository)
		expectedError bool
		errorCode     ErrorCode
	}{
		{
			name: "success",
			now:  duringEvent,
			setupMocks: func(hr *MockHackathonRepository, tr *MockTeamRepository, mr *MockMembershipRepository, dr *MockDocumentRepository) {
				tr.On("Get", mock.Anything, "team-1").Return(team, nil)
				hr.On("Get", mock.Anything, "Spring Hack").Return(openHackathon(), nil)
				mr.On("GetForUser", mock.Anything, "Spring Hack", "user-1").Return(&repository.Membership{
					UserID: "user-1", TeamID: "team-1", HackathonTitle: "Spring Hack",
				}, nil)
				dr.On("Create", mock.Anything, mock.MatchedBy(func(doc *repository.Document) bool {
					return doc.TeamID == "team-1" && doc.Title == "final build"
				})).Return(nil)
			},
			expectedError: false,
		},
		{
			name: "failure: event not in progress",
			now:  day(2),
			setupMocks: func(hr *MockHackathonRepository, tr *MockTeamRepository, mr *MockMembershipRepository, dr *MockDocumentRepository) {
				tr.On("Get", mock.Anything, "team-1").Return(team, nil)
				hr.On("Get", mock.Anything, "Spring Hack").Return(openHackathon(), nil)
			},
			expectedError: true,
			errorCode:     ErrorCodeEventNotInProgress,
		},
		{
			name: "failure: author not in this team",
			now:  duringEvent,
			setupMocks: func(hr *MockHackathonRepository, tr *MockTeamRepository, mr *MockMembershipRepository, dr *MockDocumentRepository) {
				tr.On("Get", mock.Anything, "team-1").Return(team, nil)
				hr.On("Get", mock.Anything, "Spring Hack").Return(openHackathon(), nil)
				mr.On("GetForUser", mock.Anything, "Spring Hack", "user-1").Return(&repository.Membership{
					UserID: "user-1", TeamID: "team-9", HackathonTitle: "Spring Hack",
				}, nil)
			},
			expectedError: true,
			errorCode:     ErrorCodeNotAMember,
		},
		{
			name: "failure: author has no membership at all",
			now:  duringEvent,
			setupMocks: func(hr *MockHackathonRepository, tr *MockTeamRepository, mr *MockMembershipRepository, dr *MockDocumentRepository) {
				tr.On("Get", mock.Anything, "team-1").Return(team, nil)
				hr.On("Get", mock.Anything, "Spring Hack").Return(openHackathon(), nil)
				mr.On("GetForUser", mock.Anything, "Spring Hack", "user-1").Return(nil, repository.ErrNotFound)
			},
			expectedError: true,
			errorCode:     ErrorCodeNotAMember,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockTx := new(MockTransactor)
			mockHackathonRepo := new(MockHackathonRepository)
			mockTeamRepo := new(MockTeamRepository)
			mockMembershipRepo := new(MockMembershipRepository)
			mockDocumentRepo := new(MockDocumentRepository)

			tt.setupMocks(mockHackathonRepo, mockTeamRepo, mockMembershipRepo, mockDocumentRepo)

			service := NewTeamService(mockTx).
				WithHackathonRepo(mockHackathonRepo).
				WithTeamRepo(mockTeamRepo).
				WithMembershipRepo(mockMembershipRepo).
				WithDocumentRepo(mockDocumentRepo)

			got, err := service.SubmitDocument(context.Background(), "team-1", "user-1", "final build", "the write-up", tt.now)

			if tt.expectedError {
				require.NotNil(t, err)
				assert.Equal(t, tt.errorCode, err.Code)
				assert.Nil(t, got)
			} else {
				require.Nil(t, err)
				assert.Equal(t, "team-1", got.TeamID)
				assert.NotEmpty(t, got.ID)
			}

			mockDocumentRepo.AssertExpectations(t)
		})
	}
}
