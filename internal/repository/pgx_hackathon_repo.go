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
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/dventuri/hackmate/internal/db"
)

type Hackathon struct {
	Title           string     `db:"title"`
	Organizer       string     `db:"organizer"`
	Venue           string     `db:"venue"`
	Description     string     `db:"description"`
	RegStart        time.Time  `db:"reg_start"`
	RegEnd          time.Time  `db:"reg_end"`
	EventStart      time.Time  `db:"event_start"`
	EventEnd        time.Time  `db:"event_end"`
	MaxParticipants int        `db:"max_participants"`
	MaxTeamSize     int        `db:"max_team_size"`
	CreatedAt       *time.Time `db:"created_at"`
}

type HackathonRepository interface {
	Create(ctx context.Context, h *Hackathon) error
	Get(ctx context.Context, title string) (*Hackathon, error)
	List(ctx context.Context) ([]*Hackathon, error)
}

type pgxHackathonRepository struct {
	pool *pgxpool.Pool
}

func NewPgxHackathonRepository(pool *pgxpool.Pool) HackathonRepository {
	return &pgxHackathonRepository{pool: pool}
}

// Create inserts a hackathon and sets h.CreatedAt. The title is the natural
// key; a duplicate surfaces as ErrAlreadyExists.
func (p *pgxHackathonRepository) Create(ctx context.Context, h *Hackathon) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Insert(
		im.Into("hackathon",
			"title", "organizer", "venue", "description",
			"reg_start", "reg_end", "event_start", "event_end",
			"max_participants", "max_team_size"),
		im.Values(
			psql.Arg(h.Title), psql.Arg(h.Organizer), psql.Arg(h.Venue), psql.Arg(h.Description),
			psql.Arg(h.RegStart), psql.Arg(h.RegEnd), psql.Arg(h.EventStart), psql.Arg(h.EventEnd),
			psql.Arg(h.MaxParticipants), psql.Arg(h.MaxTeamSize)),
		im.Returning("created_at"),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	err = e.QueryRow(ctx, sql, args...).Scan(&h.CreatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrAlreadyExists
	}

	return err
}

func (p *pgxHackathonRepository) Get(ctx context.Context, title string) (*Hackathon, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns("title", "organizer", "venue", "description",
			"reg_start", "reg_end", "event_start", "event_end",
			"max_participants", "max_team_size", "created_at"),
		sm.From("hackathon"),
		sm.Where(psql.Quote("title").EQ(psql.Arg(title))),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	h := &Hackathon{}
	if err = e.QueryRow(ctx, sql, args...).Scan(
		&h.Title,
		&h.Organizer,
		&h.Venue,
		&h.Description,
		&h.RegStart,
		&h.RegEnd,
		&h.EventStart,
		&h.EventEnd,
		&h.MaxParticipants,
		&h.MaxTeamSize,
		&h.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return h, nil
}

func (p *pgxHackathonRepository) List(ctx context.Context) ([]*Hackathon, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns("title", "organizer", "venue", "description",
			"reg_start", "reg_end", "event_start", "event_end",
			"max_participants", "max_team_size", "created_at"),
		sm.From("hackathon"),
		sm.OrderBy("event_start"),
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

	hackathons, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Hackathon, error) {
		h := &Hackathon{}
		if err = row.Scan(
			&h.Title, &h.Organizer, &h.Venue, &h.Description,
			&h.RegStart, &h.RegEnd, &h.EventStart, &h.EventEnd,
			&h.MaxParticipants, &h.MaxTeamSize, &h.CreatedAt,
		); err != nil {
			return nil, err
		}
		return h, nil
	})
	if err != nil {
		return nil, err
	}

	return hackathons, nil
}
