package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/dventuri/hackmate/internal/model"
	"github.com/dventuri/hackmate/internal/repository"
)

func TestJudgeService_Invite(t *testing.T) {
	hackathon := &repository.Hackathon{Title: "Spring Hack", Organizer: "org-1"}

	tests := []struct {
		name          string
		organizerID   string
		setupMocks    func(*MockHackathonRepository, *MockInvitationRepository)
		expectedError bool
		errorCode     ErrorCode
	}{
		{
			name:        "success",
			organizerID: "org-1",
			setupMocks: func(hr *MockHackathonRepository, ir *MockInvitationRepository) {
				hr.On("Get", mock.Anything, "Spring Hack").Return(hackathon, nil)
				ir.On("Create", mock.Anything, mock.MatchedBy(func(inv *repository.Invitation) bool {
					return inv.Invitee == "judge-1" &&
						inv.State == model.InvitationStatePending &&
						inv.ID != ""
				})).Return(nil)
			},
			expectedError: false,
		},
		{
			name:        "failure: caller is not the organizer",
			organizerID: "someone-else",
			setupMocks: func(hr *MockHackathonRepository, ir *MockInvitationRepository) {
				hr.On("Get", mock.Anything, "Spring Hack").Return(hackathon, nil)
			},
			expectedError: true,
			errorCode:     ErrorCodeNotOrganizer,
		},
		{
			name:        "failure: invitee already has a live invitation",
			organizerID: "org-1",
			setupMocks: func(hr *MockHackathonRepository, ir *MockInvitationRepository) {
				hr.On("Get", mock.Anything, "Spring Hack").Return(hackathon, nil)
				ir.On("Create", mock.Anything, mock.Anything).Return(repository.ErrAlreadyExists)
			},
			expectedError: true,
			errorCode:     ErrorCodeAlreadyInvited,
		},
		{
			name:        "failure: hackathon not found",
			organizerID: "org-1",
			setupMocks: func(hr *MockHackathonRepository, ir *MockInvitationRepository) {
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
			mockInvitationRepo := new(MockInvitationRepository)

			tt.setupMocks(mockHackathonRepo, mockInvitationRepo)

			service := NewJudgeService(mockTx).
				WithHackathonRepo(mockHackathonRepo).
				WithInvitationRepo(mockInvitationRepo)

			got, err := service.Invite(context.Background(), tt.organizerID, "Spring Hack", "judge-1")

			if tt.expectedError {
				require.NotNil(t, err)
				assert.Equal(t, tt.errorCode, err.Code)
				assert.Nil(t, got)
			} else {
				require.Nil(t, err)
				assert.Equal(t, "judge-1", got.Invitee)
				assert.Equal(t, model.InvitationStatePending, got.State)
			}

			mockHackathonRepo.AssertExpectations(t)
			mockInvitationRepo.AssertExpectations(t)
		})
	}
}

func TestJudgeService_Accept(t *testing.T) {
	pending := func() *repository.Invitation {
		return &repository.Invitation{
			ID:             "inv-1",
			HackathonTitle: "H2",
			Organizer:      "org-2",
			Invitee:        "judge-1",
			State:          model.InvitationStatePending,
		}
	}
	// H1 runs Jun 1-3, the invitee already judges it.
	h1 := &repository.Hackathon{
		Title:      "H1",
		Organizer:  "org-1",
		EventStart: day(0),
		EventEnd:   day(2),
	}
	acceptedH1 := []*repository.Invitation{{
		ID:             "inv-0",
		HackathonTitle: "H1",
		Invitee:        "judge-1",
		State:          model.InvitationStateAccepted,
	}}

	tests := []struct {
		name          string
		setupMocks    func(*MockHackathonRepository, *MockInvitationRepository)
		expectedError bool
		errorCode     ErrorCode
	}{
		{
			name: "success: no prior commitments",
			setupMocks: func(hr *MockHackathonRepository, ir *MockInvitationRepository) {
				ir.On("Get", mock.Anything, "inv-1").Return(pending(), nil)
				hr.On("Get", mock.Anything, "H2").Return(&repository.Hackathon{
					Title: "H2", EventStart: day(1), EventEnd: day(4),
				}, nil)
				ir.On("GetAcceptedForUser", mock.Anything, "judge-1").Return([]*repository.Invitation{}, nil)
				ir.On("UpdateState", mock.Anything, "inv-1", model.InvitationStateAccepted).Return(nil)
			},
			expectedError: false,
		},
		{
			name: "failure: overlapping committed event window",
			setupMocks: func(hr *MockHackathonRepository, ir *MockInvitationRepository) {
				ir.On("Get", mock.Anything, "inv-1").Return(pending(), nil)
				hr.On("Get", mock.Anything, "H2").Return(&repository.Hackathon{
					Title: "H2", EventStart: day(1), EventEnd: day(4),
				}, nil)
				ir.On("GetAcceptedForUser", mock.Anything, "judge-1").Return(acceptedH1, nil)
				hr.On("Get", mock.Anything, "H1").Return(h1, nil)
			},
			expectedError: true,
			errorCode:     ErrorCodeSchedulingConflict,
		},
		{
			name: "failure: windows touching at a boundary still conflict",
			setupMocks: func(hr *MockHackathonRepository, ir *MockInvitationRepository) {
				ir.On("Get", mock.Anything, "inv-1").Return(pending(), nil)
				hr.On("Get", mock.Anything, "H2").Return(&repository.Hackathon{
					Title: "H2", EventStart: day(2), EventEnd: day(4),
				}, nil)
				ir.On("GetAcceptedForUser", mock.Anything, "judge-1").Return(acceptedH1, nil)
				hr.On("Get", mock.Anything, "H1").Return(h1, nil)
			},
			expectedError: true,
			errorCode:     ErrorCodeSchedulingConflict,
		},
		{
			name: "success: committed window ends before this one starts",
			setupMocks: func(hr *MockHackathonRepository, ir *MockInvitationRepository) {
				ir.On("Get", mock.Anything, "inv-1").Return(pending(), nil)
				hr.On("Get", mock.Anything, "H2").Return(&repository.Hackathon{
					Title: "H2", EventStart: day(3), EventEnd: day(4),
				}, nil)
				ir.On("GetAcceptedForUser", mock.Anything, "judge-1").Return(acceptedH1, nil)
				hr.On("Get", mock.Anything, "H1").Return(h1, nil)
				ir.On("UpdateState", mock.Anything, "inv-1", model.InvitationStateAccepted).Return(nil)
			},
			expectedError: false,
		},
		{
			name: "failure: invitation not found",
			setupMocks: func(hr *MockHackathonRepository, ir *MockInvitationRepository) {
				ir.On("Get", mock.Anything, "inv-1").Return(nil, repository.ErrNotFound)
			},
			expectedError: true,
			errorCode:     ErrorCodeNotFound,
		},
		{
			name: "failure: invitation already resolved",
			setupMocks: func(hr *MockHackathonRepository, ir *MockInvitationRepository) {
				resolved := pending()
				resolved.State = model.InvitationStateDeclined
				ir.On("Get", mock.Anything, "inv-1").Return(resolved, nil)
			},
			expectedError: true,
			errorCode:     ErrorCodeAlreadyResolved,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockTx := new(MockTransactor)
			mockHackathonRepo := new(MockHackathonRepository)
			mockInvitationRepo := new(MockInvitationRepository)

			tt.setupMocks(mockHackathonRepo, mockInvitationRepo)

			service := NewJudgeService(mockTx).
				WithHackathonRepo(mockHackathonRepo).
				WithInvitationRepo(mockInvitationRepo)

			err := service.Accept(context.Background(), "inv-1")

			if tt.expectedError {
				require.NotNil(t, err)
				assert.Equal(t, tt.errorCode, err.Code)
			} else {
				assert.Nil(t, err)
			}

			mockInvitationRepo.AssertExpectations(t)
		})
	}
}

func TestJudgeService_Decline(t *testing.T) {
	tests := []struct {
		name          string
		setupMocks    func(*MockInvitationRepository)
		expectedError bool
		errorCode     ErrorCode
	}{
		{
			name: "success",
			setupMocks: func(ir *MockInvitationRepository) {
				ir.On("Get", mock.Anything, "inv-1").Return(&repository.Invitation{
					ID:    "inv-1",
					State: model.InvitationStatePending,
				}, nil)
				ir.On("UpdateState", mock.Anything, "inv-1", model.InvitationStateDeclined).Return(nil)
			},
			expectedError: false,
		},
		{
			name: "failure: already accepted",
			setupMocks: func(ir *MockInvitationRepository) {
				ir.On("Get", mock.Anything, "inv-1").Return(&repository.Invitation{
					ID:    "inv-1",
					State: model.InvitationStateAccepted,
				}, nil)
			},
			expectedError: true,
			errorCode:     ErrorCodeAlreadyResolved,
		},
		{
			name: "failure: not found",
			setupMocks: func(ir *MockInvitationRepository) {
				ir.On("Get", mock.Anything, "inv-1").Return(nil, repository.ErrNotFound)
			},
			expectedError: true,
			errorCode:     ErrorCodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockTx := new(MockTransactor)
			mockInvitationRepo := new(MockInvitationRepository)

			tt.setupMocks(mockInvitationRepo)

			service := NewJudgeService(mockTx).WithInvitationRepo(mockInvitationRepo)

			err := service.Decline(context.Background(), "inv-1")

			if tt.expectedError {
				require.NotNil(t, err)
				assert.Equal(t, tt.errorCode, err.Code)
			} else {
				assert.Nil(t, err)
			}

			mockInvitationRepo.AssertExpectations(t)
		})
	}
}
