package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/dventuri/hackmate/internal/db"
)

type FinalVote struct {
	JudgeID        string     `db:"judge_id"`
	TeamID         string     `db:"team_id"`
	HackathonTitle string     `db:"hackathon_title"`
	Score          int        `db:"score"`
	CreatedAt      *time.Time `db:"created_at"`
}

// TeamScore is a per-team aggregate of final votes.
type TeamScore struct {
	TeamID string `db:"team_id"`
	Score  int64  `db:"score"`
}

type VoteRepository interface {
	Create(ctx context.Context, vote *FinalVote) error
	CountByHackathon(ctx context.Context, hackathonTitle string) (int, error)
	SumByTeam(ctx context.Context, hackathonTitle string) ([]*TeamScore, error)
}

type pgxVoteRepository struct {
	pool *pgxpool.Pool
}

func NewPgxVoteRepository(pool *pgxpool.Pool) VoteRepository {
	return &pgxVoteRepository{pool: pool}
}

// Create inserts a final vote. The (judge_id, team_id) primary key enforces
// one vote per judge per team; violation surfaces as ErrAlreadyExists.
func (p *pgxVoteRepository) Create(ctx context.Context, vote *FinalVote) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Insert(
		im.Into("final_vote", "judge_id", "team_id", "hackathon_title", "score"),
		im.Values(
			psql.Arg(vote.JudgeID), psql.Arg(vote.TeamID),
			psql.Arg(vote.HackathonTitle), psql.Arg(vote.Score)),
		im.Returning("created_at"),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	err = e.QueryRow(ctx, sql, args...).Scan(&vote.CreatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return ErrAlreadyExists
		case "23503":
			return ErrNotFound
		}
	}

	return err
}

func (p *pgxVoteRepository) CountByHackathon(ctx context.Context, hackathonTitle string) (int, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	var count int
	err := e.QueryRow(ctx,
		"SELECT count(*) FROM final_vote WHERE hackathon_title = $1",
		hackathonTitle,
	).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (p *pgxVoteRepository) SumByTeam(ctx context.Context, hackathonTitle string) ([]*TeamScore, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	rows, err := e.Query(ctx,
		"SELECT team_id, sum(score) FROM final_vote WHERE hackathon_title = $1 GROUP BY team_id",
		hackathonTitle,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	scores, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*TeamScore, error) {
		score := &TeamScore{}
		if err = row.Scan(&score.TeamID, &score.Score); err != nil {
			return nil, err
		}
		return score, nil
	})
	if err != nil {
		return nil, err
	}

	return scores, nil
}
