package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"golinks/internal/entity"
)

const uniqueViolationErrCode = "23505"

func isUniqueViolationError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationErrCode
}

type redirectDB struct {
	ID          int64     `db:"id"`
	ShortPath   string    `db:"short_path"`
	Destination string    `db:"destination"`
	Label       string    `db:"label"`
	OwnerID     string    `db:"owner_id"`
	AccessCount int64     `db:"access_count"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r *redirectDB) toEntity() *entity.Redirect {
	return &entity.Redirect{
		ID:          r.ID,
		ShortPath:   r.ShortPath,
		Destination: r.Destination,
		Label:       r.Label,
		OwnerID:     r.OwnerID,
		RedirectStats: entity.RedirectStats{
			AccessCount: r.AccessCount,
		},
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// RedirectRepository persists redirects in the redirects table. The unique
// index on short_path arbitrates concurrent claims, and the access counter is
// bumped in a single UPDATE so concurrent resolves never lose increments.
type RedirectRepository struct {
	db *sqlx.DB
}

func NewRedirectRepository(db *sqlx.DB) *RedirectRepository {
	return &RedirectRepository{db: db}
}

// Save claims shortPath. A unique violation means someone else already holds
// it and is reported as entity.ErrShortPathExists; the existing row is never
// overwritten.
func (r *RedirectRepository) Save(ctx context.Context, shortPath, destination, ownerID, label string) (*entity.Redirect, error) {
	const op = "adapter.repository.postgres.RedirectRepository.Save"
	const query = `INSERT INTO redirects(short_path, destination, owner_id, label) VALUES ($1, $2, $3, $4) RETURNING *`

	var redirect redirectDB

	if err := r.db.GetContext(ctx, &redirect, query, shortPath, destination, ownerID, label); err != nil {
		if isUniqueViolationError(err) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrShortPathExists)
		}

		return nil, fmt.Errorf("%s: failed to insert into redirects table: %w", op, err)
	}

	return redirect.toEntity(), nil
}

// Exists is a best-effort point probe, no transaction taken.
func (r *RedirectRepository) Exists(ctx context.Context, shortPath string) (bool, error) {
	const op = "adapter.repository.postgres.RedirectRepository.Exists"
	const query = `SELECT EXISTS(SELECT 1 FROM redirects WHERE short_path = $1)`

	var exists bool

	if err := r.db.GetContext(ctx, &exists, query, shortPath); err != nil {
		return false, fmt.Errorf("%s: failed to probe redirects table: %w", op, err)
	}

	return exists, nil
}

func (r *RedirectRepository) RetrieveByShortPath(ctx context.Context, shortPath string) (*entity.Redirect, error) {
	const op = "adapter.repository.postgres.RedirectRepository.RetrieveByShortPath"
	const query = `SELECT * FROM redirects WHERE short_path = $1`

	var redirect redirectDB

	if err := r.db.GetContext(ctx, &redirect, query, shortPath); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrRedirectNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get row from redirects table: %w", op, err)
	}

	return redirect.toEntity(), nil
}

// RetrieveAndBumpAccess reads the redirect and increments its access count as
// one statement, so the read-modify-write is atomic at the storage layer. An
// unknown short path changes nothing and maps to entity.ErrRedirectNotFound.
func (r *RedirectRepository) RetrieveAndBumpAccess(ctx context.Context, shortPath string) (*entity.Redirect, error) {
	const op = "adapter.repository.postgres.RedirectRepository.RetrieveAndBumpAccess"
	const query = `UPDATE redirects SET access_count = access_count + 1, updated_at = now() WHERE short_path = $1 RETURNING *`

	var redirect redirectDB

	if err := r.db.GetContext(ctx, &redirect, query, shortPath); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrRedirectNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get and update redirects table row: %w", op, err)
	}

	return redirect.toEntity(), nil
}
