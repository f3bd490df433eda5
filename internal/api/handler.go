package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/dventuri/hackmate/internal/auth"
	"github.com/dventuri/hackmate/internal/model"
	"github.com/dventuri/hackmate/internal/service"
	"github.com/dventuri/hackmate/pkg/logger"
	"go.uber.org/zap"
)

type Handler struct {
	hackathons  *service.HackathonService
	teams       *service.TeamService
	judges      *service.JudgeService
	evaluations *service.EvaluationService
	ranking     *service.RankingService

	healthChecker HealthChecker

	logger *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{
		logger: logger,
	}
}

func (h *Handler) WithHealthChecker(c HealthChecker) *Handler {
	h.healthChecker = c
	return h
}

func (h *Handler) WithHackathonService(s *service.HackathonService) *Handler {
	h.hackathons = s
	return h
}

func (h *Handler) WithTeamService(s *service.TeamService) *Handler {
	h.teams = s
	return h
}

func (h *Handler) WithJudgeService(s *service.JudgeService) *Handler {
	h.judges = s
	return h
}

func (h *Handler) WithEvaluationService(s *service.EvaluationService) *Handler {
	h.evaluations = s
	return h
}

func (h *Handler) WithRankingService(s *service.RankingService) *Handler {
	h.ranking = s
	return h
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.Validator = NewValidator()
	e.Use(middleware.RequestID())
	e.Use(ZapLoggerMiddleware(h.logger))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.GET("/health", h.healthChecker.HealthCheck())

	userSecurity := e.Group("", AuthMiddleware(auth.TokenTypeUser, auth.TokenTypeOrganizer))

	userSecurity.GET("/hackathon/list", h.ListHackathons)
	userSecurity.GET("/hackathon/get", h.GetHackathon)
	userSecurity.POST("/team/create", h.CreateTeam)
	userSecurity.POST("/team/join", h.JoinTeam)
	userSecurity.POST("/team/leave", h.LeaveTeam)
	userSecurity.GET("/team/list", h.ListTeams)
	userSecurity.GET("/team/members", h.ListMembers)
	userSecurity.POST("/document/submit", h.SubmitDocument)
	userSecurity.GET("/document/list", h.ListDocuments)
	userSecurity.POST("/judge/accept", h.AcceptInvitation)
	userSecurity.POST("/judge/decline", h.DeclineInvitation)
	userSecurity.POST("/evaluation/create", h.EvaluateDocument)
	userSecurity.GET("/evaluation/list", h.ListEvaluations)
	userSecurity.POST("/vote/cast", h.CastFinalVote)
	userSecurity.GET("/ranking", h.ComputeRanking)

	organizerSecurity := e.Group("", AuthMiddleware(auth.TokenTypeOrganizer))

	organizerSecurity.POST("/hackathon/create", h.CreateHackathon)
	organizerSecurity.POST("/judge/invite", h.InviteJudge)
}

func (h *Handler) CreateHackathon(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	var req struct {
		Title           string    `json:"title" validate:"required"`
		Organizer       string    `json:"organizer" validate:"required"`
		Venue           string    `json:"venue"`
		Description     string    `json:"description"`
		RegStart        time.Time `json:"registration_start" validate:"required"`
		EventStart      time.Time `json:"event_start" validate:"required"`
		EventEnd        time.Time `json:"event_end" validate:"required"`
		MaxParticipants int       `json:"max_participants" validate:"required,min=1"`
		MaxTeamSize     int       `json:"max_team_size" validate:"required,min=2"`
	}

	if err := h.decodeRequest(e, &req); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	l.Info("creating hackathon", zap.String("title", req.Title))

	hackathon := &model.Hackathon{
		Title:           req.Title,
		Organizer:       req.Organizer,
		Venue:           req.Venue,
		Description:     req.Description,
		RegStart:        req.RegStart,
		EventStart:      req.EventStart,
		EventEnd:        req.EventEnd,
		MaxParticipants: req.MaxParticipants,
		MaxTeamSize:     req.MaxTeamSize,
	}

	created, err := h.hackathons.Create(e.Request().Context(), hackathon, time.Now())
	if err != nil {
		l.Error("failed to create hackathon", zap.String("title", req.Title), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusCreated, created)
}

func (h *Handler) ListHackathons(e echo.Context) error {
	hackathons, err := h.hackathons.List(e.Request().Context())
	if err != nil {
		return h.transportError(e, err)
	}
	return e.JSON(http.StatusOK, hackathons)
}

func (h *Handler) GetHackathon(e echo.Context) error {
	title := e.QueryParam("title")

	hackathon, err := h.hackathons.Get(e.Request().Context(), title)
	if err != nil {
		return h.transportError(e, err)
	}

	response := struct {
		*model.Hackathon
		Phase model.Phase `json:"phase"`
	}{hackathon, hackathon.PhaseAt(time.Now())}

	return e.JSON(http.StatusOK, response)
}

func (h *Handler) CreateTeam(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	var req struct {
		HackathonTitle string `json:"hackathon_title" validate:"required"`
		CreatorID      string `json:"creator_id" validate:"required"`
		TeamName       string `json:"team_name" validate:"required"`
	}

	if err := h.decodeRequest(e, &req); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	l.Info("creating team",
		zap.String("hackathon", req.HackathonTitle),
		zap.String("team_name", req.TeamName))

	team, err := h.teams.CreateTeam(e.Request().Context(), req.HackathonTitle, req.CreatorID, req.TeamName, time.Now())
	if err != nil {
		l.Error("failed to create team", zap.String("team_name", req.TeamName), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusCreated, team)
}

func (h *Handler) JoinTeam(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	var req struct {
		TeamID string `json:"team_id" validate:"required"`
		UserID string `json:"user_id" validate:"required"`
	}

	if err := h.decodeRequest(e, &req); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	l.Info("joining team", zap.String("team_id", req.TeamID), zap.String("user_id", req.UserID))

	membership, err := h.teams.Join(e.Request().Context(), req.TeamID, req.UserID, time.Now())
	if err != nil {
		l.Error("failed to join team", zap.String("team_id", req.TeamID), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusCreated, membership)
}

func (h *Handler) LeaveTeam(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	var req struct {
		TeamID string `json:"team_id" validate:"required"`
		UserID string `json:"user_id" validate:"required"`
	}

	if err := h.decodeRequest(e, &req); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	l.Info("leaving team", zap.String("team_id", req.TeamID), zap.String("user_id", req.UserID))

	if err := h.teams.Leave(e.Request().Context(), req.TeamID, req.UserID); err != nil {
		l.Error("failed to leave team", zap.String("team_id", req.TeamID), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.NoContent(http.StatusOK)
}

func (h *Handler) ListTeams(e echo.Context) error {
	hackathonTitle := e.QueryParam("hackathon_title")

	teams, err := h.teams.TeamsOf(e.Request().Context(), hackathonTitle)
	if err != nil {
		return h.transportError(e, err)
	}
	return e.JSON(http.StatusOK, teams)
}

func (h *Handler) ListMembers(e echo.Context) error {
	teamID := e.QueryParam("team_id")

	members, err := h.teams.Members(e.Request().Context(), teamID)
	if err != nil {
		return h.transportError(e, err)
	}
	return e.JSON(http.StatusOK, members)
}

func (h *Handler) SubmitDocument(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	var req struct {
		TeamID   string `json:"team_id" validate:"required"`
		AuthorID string `json:"author_id" validate:"required"`
		Title    string `json:"title" validate:"required"`
		Text     string `json:"text" validate:"required"`
	}

	if err := h.decodeRequest(e, &req); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	l.Info("submitting document", zap.String("team_id", req.TeamID), zap.String("title", req.Title))

	doc, err := h.teams.SubmitDocument(e.Request().Context(), req.TeamID, req.AuthorID, req.Title, req.Text, time.Now())
	if err != nil {
		l.Error("failed to submit document", zap.String("team_id", req.TeamID), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusCreated, doc)
}

func (h *Handler) ListDocuments(e echo.Context) error {
	teamID := e.QueryParam("team_id")

	docs, err := h.teams.Documents(e.Request().Context(), teamID)
	if err != nil {
		return h.transportError(e, err)
	}
	return e.JSON(http.StatusOK, docs)
}

func (h *Handler) InviteJudge(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	var req struct {
		HackathonTitle string `json:"hackathon_title" validate:"required"`
		OrganizerID    string `json:"organizer_id" validate:"required"`
		InviteeID      string `json:"invitee_id" validate:"required"`
	}

	if err := h.decodeRequest(e, &req); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	l.Info("inviting judge",
		zap.String("hackathon", req.HackathonTitle),
		zap.String("invitee", req.InviteeID))

	invitation, err := h.judges.Invite(e.Request().Context(), req.OrganizerID, req.HackathonTitle, req.InviteeID)
	if err != nil {
		l.Error("failed to invite judge", zap.String("invitee", req.InviteeID), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusCreated, invitation)
}

func (h *Handler) AcceptInvitation(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	var req struct {
		InvitationID string `json:"invitation_id" validate:"required"`
	}

	if err := h.decodeRequest(e, &req); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	l.Info("accepting invitation", zap.String("invitation_id", req.InvitationID))

	if err := h.judges.Accept(e.Request().Context(), req.InvitationID); err != nil {
		l.Error("failed to accept invitation", zap.String("invitation_id", req.InvitationID), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.NoContent(http.StatusOK)
}

func (h *Handler) DeclineInvitation(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	var req struct {
		InvitationID string `json:"invitation_id" validate:"required"`
	}

	if err := h.decodeRequest(e, &req); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	l.Info("declining invitation", zap.String("invitation_id", req.InvitationID))

	if err := h.judges.Decline(e.Request().Context(), req.InvitationID); err != nil {
		l.Error("failed to decline invitation", zap.String("invitation_id", req.InvitationID), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.NoContent(http.StatusOK)
}

func (h *Handler) EvaluateDocument(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	var req struct {
		JudgeID    string `json:"judge_id" validate:"required"`
		DocumentID string `json:"document_id" validate:"required"`
		Text       string `json:"text" validate:"required"`
	}

	if err := h.decodeRequest(e, &req); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	l.Info("evaluating document",
		zap.String("judge", req.JudgeID),
		zap.String("document_id", req.DocumentID))

	evaluation, err := h.evaluations.EvaluateDocument(e.Request().Context(), req.JudgeID, req.DocumentID, req.Text)
	if err != nil {
		l.Error("failed to evaluate document", zap.String("document_id", req.DocumentID), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusCreated, evaluation)
}

func (h *Handler) ListEvaluations(e echo.Context) error {
	documentID := e.QueryParam("document_id")

	evaluations, err := h.evaluations.EvaluationsOf(e.Request().Context(), documentID)
	if err != nil {
		return h.transportError(e, err)
	}
	return e.JSON(http.StatusOK, evaluations)
}

func (h *Handler) CastFinalVote(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	var req struct {
		JudgeID string `json:"judge_id" validate:"required"`
		TeamID  string `json:"team_id" validate:"required"`
		Score   int    `json:"score" validate:"required"`
	}

	if err := h.decodeRequest(e, &req); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	l.Info("casting final vote",
		zap.String("judge", req.JudgeID),
		zap.String("team_id", req.TeamID),
		zap.Int("score", req.Score))

	vote, err := h.evaluations.CastFinalVote(e.Request().Context(), req.JudgeID, req.TeamID, req.Score, time.Now())
	if err != nil {
		l.Error("failed to cast vote", zap.String("team_id", req.TeamID), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusCreated, vote)
}

func (h *Handler) ComputeRanking(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	hackathonTitle := e.QueryParam("hackathon_title")

	l.Info("computing ranking", zap.String("hackathon", hackathonTitle))

	ranking, err := h.ranking.ComputeRanking(e.Request().Context(), hackathonTitle, time.Now())
	if err != nil {
		l.Error("failed to compute ranking", zap.String("hackathon", hackathonTitle), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, ranking)
}

func (h *Handler) decodeRequest(e echo.Context, req any) *service.Error {
	if err := e.Bind(req); err != nil {
		return service.NewError(service.ErrorCodeInvalidBody, "invalid request body")
	}

	if err := e.Validate(req); err != nil {
		return service.NewError(service.ErrorCodeInvalidBody, errors.Wrap(err, "request validation failed").Error())
	}
	return nil
}

func (h *Handler) transportError(e echo.Context, err *service.Error) error {
	response := struct {
		Error *service.Error `json:"error"`
	}{Error: err}

	switch err.Code {
	case service.ErrorCodeNotFound:
		return e.JSON(http.StatusNotFound, response)
	case service.ErrorCodeInvalidBody,
		service.ErrorCodePastRegistrationStart,
		service.ErrorCodeRegistrationWindowInverted,
		service.ErrorCodeInsufficientRegistrationLead,
		service.ErrorCodeEventWindowInverted,
		service.ErrorCodeEventTooShort,
		service.ErrorCodeScoreOutOfRange:
		return e.JSON(http.StatusBadRequest, response)
	case service.ErrorCodeNotOrganizer,
		service.ErrorCodeNotAJudge:
		return e.JSON(http.StatusForbidden, response)
	case service.ErrorCodeDuplicateTitle,
		service.ErrorCodeDuplicateTeamName,
		service.ErrorCodeUserAlreadyInTeam,
		service.ErrorCodeTeamFull,
		service.ErrorCodeNotAMember,
		service.ErrorCodeRegistrationClosed,
		service.ErrorCodeEventNotInProgress,
		service.ErrorCodeEventNotEnded,
		service.ErrorCodeAlreadyInvited,
		service.ErrorCodeAlreadyResolved,
		service.ErrorCodeSchedulingConflict,
		service.ErrorCodeAlreadyEvaluated,
		service.ErrorCodeAlreadyVoted,
		service.ErrorCodeIncompleteVoting:
		return e.JSON(http.StatusConflict, response)
	default:
		return e.JSON(http.StatusInternalServerError, response)
	}
}
