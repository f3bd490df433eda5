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

type Evaluation struct {
	JudgeID    string     `db:"judge_id"`
	DocumentID string     `db:"document_id"`
	Text       string     `db:"text"`
	CreatedAt  *time.Time `db:"created_at"`
}

type EvaluationRepository interface {
	Create(ctx context.Context, ev *Evaluation) error
	GetByDocument(ctx context.Context, documentID string) ([]*Evaluation, error)
}

type pgxEvaluationRepository struct {
	pool *pgxpool.Pool
}

func NewPgxEvaluationRepository(pool *pgxpool.Pool) EvaluationRepository {
	return &pgxEvaluationRepository{pool: pool}
}

// Create inserts an evaluation. The (judge_id, document_id) primary key keeps
// judgments at-most-once; violation surfaces as ErrAlreadyExists.
func (p *pgxEvaluationRepository) Create(ctx context.Context, ev *Evaluation) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Insert(
		im.Into("evaluation", "judge_id", "document_id", "text"),
		im.Values(psql.Arg(ev.JudgeID), psql.Arg(ev.DocumentID), psql.Arg(ev.Text)),
		im.Returning("created_at"),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	err = e.QueryRow(ctx, sql, args...).Scan(&ev.CreatedAt)

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

func (p *pgxEvaluationRepository) GetByDocument(ctx context.Context, documentID string) ([]*Evaluation, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns("judge_id", "document_id", "text", "created_at"),
		sm.From("evaluation"),
		sm.Where(psql.Quote("document_id").EQ(psql.Arg(documentID))),
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

	evaluations, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Evaluation, error) {
		ev := &Evaluation{}
		if err = row.Scan(&ev.JudgeID, &ev.DocumentID, &ev.Text, &ev.CreatedAt); err != nil {
			return nil, err
		}
		return ev, nil
	})
	if err != nil {
		return nil, err
	}

	return evaluations, nil
}
