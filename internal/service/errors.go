package service

import (
	"fmt"

	"github.com/pkg/errors"
)

type ErrorCode string

const (
	// Hackathon creation invariants, checked in order.
	ErrorCodePastRegistrationStart        ErrorCode = "PAST_REGISTRATION_START"
	ErrorCodeRegistrationWindowInverted   ErrorCode = "REGISTRATION_WINDOW_INVERTED"
	ErrorCodeInsufficientRegistrationLead ErrorCode = "INSUFFICIENT_REGISTRATION_LEAD"
	ErrorCodeEventWindowInverted          ErrorCode = "EVENT_WINDOW_INVERTED"
	ErrorCodeEventTooShort                ErrorCode = "EVENT_TOO_SHORT"
	ErrorCodeDuplicateTitle               ErrorCode = "DUPLICATE_TITLE"

	// Roster rules.
	ErrorCodeRegistrationClosed ErrorCode = "REGISTRATION_CLOSED"
	ErrorCodeDuplicateTeamName  ErrorCode = "DUPLICATE_TEAM_NAME"
	ErrorCodeUserAlreadyInTeam  ErrorCode = "USER_ALREADY_IN_TEAM"
	ErrorCodeTeamFull           ErrorCode = "TEAM_FULL"
	ErrorCodeNotAMember         ErrorCode = "NOT_A_MEMBER"
	ErrorCodeEventNotInProgress ErrorCode = "EVENT_NOT_IN_PROGRESS"

	// Judge panel rules.
	ErrorCodeNotOrganizer       ErrorCode = "NOT_ORGANIZER"
	ErrorCodeAlreadyInvited     ErrorCode = "ALREADY_INVITED"
	ErrorCodeAlreadyResolved    ErrorCode = "ALREADY_RESOLVED"
	ErrorCodeSchedulingConflict ErrorCode = "SCHEDULING_CONFLICT"

	// Evaluation ledger rules.
	ErrorCodeNotAJudge           ErrorCode = "NOT_A_JUDGE"
	ErrorCodeAlreadyEvaluated    ErrorCode = "ALREADY_EVALUATED"
	ErrorCodeEventNotEnded       ErrorCode = "EVENT_NOT_ENDED"
	ErrorCodeNoDocumentSubmitted ErrorCode = "NO_DOCUMENT_SUBMITTED"
	ErrorCodeAlreadyVoted        ErrorCode = "ALREADY_VOTED"
	ErrorCodeScoreOutOfRange     ErrorCode = "SCORE_OUT_OF_RANGE"

	// Ranking gate.
	ErrorCodeIncompleteVoting ErrorCode = "INCOMPLETE_VOTING"

	ErrorCodeNotFound    ErrorCode = "NOT_FOUND"
	ErrorCodeInvalidBody ErrorCode = "INVALID_BODY"
	ErrorCodeUnspecified ErrorCode = "UNSPECIFIED"
)

type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	// Missing carries the outstanding vote count on INCOMPLETE_VOTING.
	Missing int `json:"missing,omitempty"`
}

func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

func NewIncompleteVotingError(missing int) *Error {
	return &Error{
		Code:    ErrorCodeIncompleteVoting,
		Message: fmt.Sprintf("%d votes still missing", missing),
		Missing: missing,
	}
}

func (e *Error) Error() string {
	return e.Message
}

// asServiceError unwraps the typed error produced inside a transaction
// function. Transaction machinery failures (begin/commit) come back untyped
// and map to UNSPECIFIED rather than being dropped.
func asServiceError(err error) *Error {
	if err == nil {
		return nil
	}
	sErr := &Error{}
	if errors.As(err, &sErr) {
		return sErr
	}
	return NewError(ErrorCodeUnspecified, "operation failed")
}
