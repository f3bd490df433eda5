package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dm"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/dventuri/hackmate/internal/db"
)

type Membership struct {
	UserID         string     `db:"user_id"`
	TeamID         string     `db:"team_id"`
	HackathonTitle string     `db:"hackathon_title"`
	CreatedAt      *time.Time `db:"created_at"`
}

type MembershipRepository interface {
	Create(ctx context.Context, m *Membership) error
	Delete(ctx context.Context, teamID, userID string) error
	GetForUser(ctx context.Context, hackathonTitle, userID string) (*Membership, error)
	GetByTeam(ctx context.Context, teamID string) ([]*Membership, error)
	CountByTeam(ctx context.Context, teamID string) (int, error)
}

type pgxMembershipRepository struct {
	pool *pgxpool.Pool
}

func NewPgxMembershipRepository(pool *pgxpool.Pool) MembershipRepository {
	return &pgxMembershipRepository{pool: pool}
}

// Create inserts a membership. The (hackathon_title, user_id) unique
// constraint is what makes "one team per hackathon per user" hold under
// concurrent joins; violation surfaces as ErrAlreadyExists.
func (p *pgxMembershipRepository) Create(ctx context.Context, m *Membership) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Insert(
		im.Into("membership", "user_id", "team_id", "hackathon_title"),
		im.Values(psql.Arg(m.UserID), psql.Arg(m.TeamID), psql.Arg(m.HackathonTitle)),
		im.Returning("created_at"),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	err = e.QueryRow(ctx, sql, args...).Scan(&m.CreatedAt)

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

func (p *pgxMembershipRepository) Delete(ctx context.Context, teamID, userID string) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Delete(
		dm.From("membership"),
		dm.Where(
			psql.Quote("team_id").EQ(psql.Arg(teamID)).
				And(psql.Quote("user_id").EQ(psql.Arg(userID))),
		),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	commandTag, err := e.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}

	if commandTag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (p *pgxMembershipRepository) GetForUser(ctx context.Context, hackathonTitle, userID string) (*Membership, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns("user_id", "team_id", "hackathon_title", "created_at"),
		sm.From("membership"),
		sm.Where(
			psql.Quote("hackathon_title").EQ(psql.Arg(hackathonTitle)).
				And(psql.Quote("user_id").EQ(psql.Arg(userID))),
		),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	m := &Membership{}
	if err = e.QueryRow(ctx, sql, args...).Scan(
		&m.UserID,
		&m.TeamID,
		&m.HackathonTitle,
		&m.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

func (p *pgxMembershipRepository) GetByTeam(ctx context.Context, teamID string) ([]*Membership, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns("user_id", "team_id", "hackathon_title", "created_at"),
		sm.From("membership"),
		sm.Where(psql.Quote("team_id").EQ(psql.Arg(teamID))),
		sm.OrderBy("created_at"),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := e.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	memberships, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Membership, error) {
		m := &Membership{}
		if err = row.Scan(&m.UserID, &m.TeamID, &m.HackathonTitle, &m.CreatedAt); err != nil {
			return nil, err
		}
		return m, nil
	})
	if err != nil {
		return nil, err
	}

	return memberships, nil
}

func (p *pgxMembershipRepository) CountByTeam(ctx context.Context, teamID string) (int, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	// Runs under the serializable transaction opened by the caller, so the
	// count cannot go stale between check and insert.
	var count int
	err := e.QueryRow(ctx, "SELECT count(*) FROM membership WHERE team_id = $1", teamID).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}
