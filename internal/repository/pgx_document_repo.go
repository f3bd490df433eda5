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

type Document struct {
	ID        string     `db:"id"`
	TeamID    string     `db:"team_id"`
	Title     string     `db:"title"`
	Text      string     `db:"text"`
	CreatedAt *time.Time `db:"created_at"`
}

type DocumentRepository interface {
	Create(ctx context.Context, doc *Document) error
	Get(ctx context.Context, docID string) (*Document, error)
	GetByTeam(ctx context.Context, teamID string) ([]*Document, error)
	CountByTeam(ctx context.Context, teamID string) (int, error)
}

type pgxDocumentRepository struct {
	pool *pgxpool.Pool
}

func NewPgxDocumentRepository(pool *pgxpool.Pool) DocumentRepository {
	return &pgxDocumentRepository{pool: pool}
}

func (p *pgxDocumentRepository) Create(ctx context.Context, doc *Document) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Insert(
		im.Into("document", "id", "team_id", "title", "text"),
		im.Values(psql.Arg(doc.ID), psql.Arg(doc.TeamID), psql.Arg(doc.Title), psql.Arg(doc.Text)),
		im.Returning("created_at"),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	err = e.QueryRow(ctx, sql, args...).Scan(&doc.CreatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return ErrAlreadyExists
		case "23503": // team_id does not reference an existing team
			return ErrNotFound
		}
	}

	return err
}

func (p *pgxDocumentRepository) Get(ctx context.Context, docID string) (*Document, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns("id", "team_id", "title", "text", "created_at"),
		sm.From("document"),
		sm.Where(psql.Quote("id").EQ(psql.Arg(docID))),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	doc := &Document{}
	if err = e.QueryRow(ctx, sql, args...).Scan(
		&doc.ID,
		&doc.TeamID,
		&doc.Title,
		&doc.Text,
		&doc.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

// GetByTeam returns documents newest first, so index 0 is the submission
// subject to final judging.
func (p *pgxDocumentRepository) GetByTeam(ctx context.Context, teamID string) ([]*Document, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns("id", "team_id", "title", "text", "created_at"),
		sm.From("document"),
		sm.Where(psql.Quote("team_id").EQ(psql.Arg(teamID))),
		sm.OrderBy("created_at DESC"),
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

	docs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Document, error) {
		doc := &Document{}
		if err = row.Scan(&doc.ID, &doc.TeamID, &doc.Title, &doc.Text, &doc.CreatedAt); err != nil {
			return nil, err
		}
		return doc, nil
	})
	if err != nil {
		return nil, err
	}

	return docs, nil
}

func (p *pgxDocumentRepository) CountByTeam(ctx context.Context, teamID string) (int, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	var count int
	err := e.QueryRow(ctx, "SELECT count(*) FROM document WHERE team_id = $1", teamID).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}
