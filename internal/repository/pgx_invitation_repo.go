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
	"github.com/stephenafamo/bob/dialect/psql/um"
	"github.com/dventuri/hackmate/internal/db"
	"github.com/dventuri/hackmate/internal/model"
)

type Invitation struct {
	ID             string                `db:"id"`
	HackathonTitle string                `db:"hackathon_title"`
	Organizer      string                `db:"organizer"`
	Invitee        string                `db:"invitee"`
	State          model.InvitationState `db:"state"`
	CreatedAt      *time.Time            `db:"created_at"`
}

type InvitationRepository interface {
	Create(ctx context.Context, inv *Invitation) error
	Get(ctx context.Context, invitationID string) (*Invitation, error)
	GetAccepted(ctx context.Context, hackathonTitle, userID string) (*Invitation, error)
	GetAcceptedForUser(ctx context.Context, userID string) ([]*Invitation, error)
	GetAcceptedJudges(ctx context.Context, hackathonTitle string) ([]string, error)
	UpdateState(ctx context.Context, invitationID string, state model.InvitationState) error
}

type pgxInvitationRepository struct {
	pool *pgxpool.Pool
}

func NewPgxInvitationRepository(pool *pgxpool.Pool) InvitationRepository {
	return &pgxInvitationRepository{pool: pool}
}

// Create inserts a pending invitation. A partial unique index on
// (hackathon_title, invitee) where state in (PENDING, ACCEPTED) keeps a user
// from being invited twice while a live invitation exists; violation surfaces
// as ErrAlreadyExists.
func (p *pgxInvitationRepository) Create(ctx context.Context, inv *Invitation) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Insert(
		im.Into("invitation", "id", "hackathon_title", "organizer", "invitee", "state"),
		im.Values(
			psql.Arg(inv.ID), psql.Arg(inv.HackathonTitle),
			psql.Arg(inv.Organizer), psql.Arg(inv.Invitee), psql.Arg(inv.State)),
		im.Returning("created_at"),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	err = e.QueryRow(ctx, sql, args...).Scan(&inv.CreatedAt)

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

func (p *pgxInvitationRepository) Get(ctx context.Context, invitationID string) (*Invitation, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns("id", "hackathon_title", "organizer", "invitee", "state", "created_at"),
		sm.From("invitation"),
		sm.Where(psql.Quote("id").EQ(psql.Arg(invitationID))),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	inv := &Invitation{}
	if err = e.QueryRow(ctx, sql, args...).Scan(
		&inv.ID,
		&inv.HackathonTitle,
		&inv.Organizer,
		&inv.Invitee,
		&inv.State,
		&inv.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return inv, nil
}

// GetAccepted returns the accepted invitation making userID a judge for the
// hackathon, or ErrNotFound when no such credential exists.
func (p *pgxInvitationRepository) GetAccepted(ctx context.Context, hackathonTitle, userID string) (*Invitation, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns("id", "hackathon_title", "organizer", "invitee", "state", "created_at"),
		sm.From("invitation"),
		sm.Where(
			psql.Quote("hackathon_title").EQ(psql.Arg(hackathonTitle)).
				And(psql.Quote("invitee").EQ(psql.Arg(userID))).
				And(psql.Quote("state").EQ(psql.Arg(model.InvitationStateAccepted))),
		),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	inv := &Invitation{}
	if err = e.QueryRow(ctx, sql, args...).Scan(
		&inv.ID,
		&inv.HackathonTitle,
		&inv.Organizer,
		&inv.Invitee,
		&inv.State,
		&inv.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return inv, nil
}

func (p *pgxInvitationRepository) GetAcceptedForUser(ctx context.Context, userID string) ([]*Invitation, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns("id", "hackathon_title", "organizer", "invitee", "state", "created_at"),
		sm.From("invitation"),
		sm.Where(
			psql.Quote("invitee").EQ(psql.Arg(userID)).
				And(psql.Quote("state").EQ(psql.Arg(model.InvitationStateAccepted))),
		),
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

	invitations, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Invitation, error) {
		inv := &Invitation{}
		if err = row.Scan(&inv.ID, &inv.HackathonTitle, &inv.Organizer, &inv.Invitee, &inv.State, &inv.CreatedAt); err != nil {
			return nil, err
		}
		return inv, nil
	})
	if err != nil {
		return nil, err
	}

	return invitations, nil
}

func (p *pgxInvitationRepository) GetAcceptedJudges(ctx context.Context, hackathonTitle string) ([]string, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns("invitee"),
		sm.From("invitation"),
		sm.Where(
			psql.Quote("hackathon_title").EQ(psql.Arg(hackathonTitle)).
				And(psql.Quote("state").EQ(psql.Arg(model.InvitationStateAccepted))),
		),
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

	judges, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (string, error) {
		var id string
		err = row.Scan(&id)
		return id, err
	})
	if err != nil {
		return nil, err
	}

	return judges, nil
}

func (p *pgxInvitationRepository) UpdateState(ctx context.Context, invitationID string, state model.InvitationState) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Update(
		um.Table("invitation"),
		um.SetCol("state").ToArg(state),
		um.Where(psql.Quote("id").EQ(psql.Arg(invitationID))),
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
