package main

import (
	"context"

	"github.com/hellofresh/health-go/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/dventuri/hackmate/internal/api"
	"github.com/dventuri/hackmate/internal/config"
	"github.com/dventuri/hackmate/internal/db"
	"github.com/dventuri/hackmate/internal/repository"
	"github.com/dventuri/hackmate/internal/service"
	"github.com/dventuri/hackmate/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	logger, err := logger.NewLogger()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("starting application")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if err = pool.Ping(context.Background()); err != nil {
		logger.Fatal("failed to ping database", zap.Error(err))
	}

	logger.Info("database connection established")

	transactor := db.NewPgxTransactor(pool)

	hackathonRepo := repository.NewPgxHackathonRepository(pool)
	teamRepo := repository.NewPgxTeamRepository(pool)
	membershipRepo := repository.NewPgxMembershipRepository(pool)
	documentRepo := repository.NewPgxDocumentRepository(pool)
	invitationRepo := repository.NewPgxInvitationRepository(pool)
	evaluationRepo := repository.NewPgxEvaluationRepository(pool)
	voteRepo := repository.NewPgxVoteRepository(pool)

	hackathons := service.NewHackathonService().
		WithHackathonRepo(hackathonRepo)
	teams := service.NewTeamService(transactor).
		WithHackathonRepo(hackathonRepo).
		WithTeamRepo(teamRepo).
		WithMembershipRepo(membershipRepo).
		WithDocumentRepo(documentRepo)
	judges := service.NewJudgeService(transactor).
		WithHackathonRepo(hackathonRepo).
		WithInvitationRepo(invitationRepo)
	evaluations := service.NewEvaluationService(transactor).
		WithHackathonRepo(hackathonRepo).
		WithTeamRepo(teamRepo).
		WithDocumentRepo(documentRepo).
		WithInvitationRepo(invitationRepo).
		WithEvaluationRepo(evaluationRepo).
		WithVoteRepo(voteRepo)
	ranking := service.NewRankingService().
		WithHackathonRepo(hackathonRepo).
		WithTeamRepo(teamRepo).
		WithInvitationRepo(invitationRepo).
		WithVoteRepo(voteRepo)

	healthChecker := api.MustNewHealthChecker(health.Config{
		Name: "postgres",
		Check: func(ctx context.Context) error {
			return pool.Ping(ctx)
		},
	})

	e := echo.New()

	handler := api.NewHandler(logger).
		WithHealthChecker(healthChecker).
		WithHackathonService(hackathons).
		WithTeamService(teams).
		WithJudgeService(judges).
		WithEvaluationService(evaluations).
		WithRankingService(ranking)

	handler.RegisterRoutes(e)

	logger.Info("server starting", zap.String("addr", cfg.Addr))
	if err = e.Start(cfg.Addr); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
