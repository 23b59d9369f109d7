package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	appErrors "github.com/noah-isme/research-guide-api/pkg/errors"
)

const draftSchema = `CREATE TABLE IF NOT EXISTS guide_drafts (
	key TEXT PRIMARY KEY,
	payload JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

type draftRow struct {
	Key       string    `db:"key"`
	Payload   string    `db:"payload"`
	UpdatedAt time.Time `db:"updated_at"`
}

// DraftRepository persists drafts in Postgres, one row per key.
type DraftRepository struct {
	db *sqlx.DB
}

// NewDraftRepository constructs the repository.
func NewDraftRepository(db *sqlx.DB) *DraftRepository {
	return &DraftRepository{db: db}
}

// EnsureSchema creates the drafts table when missing.
func (r *DraftRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, draftSchema); err != nil {
		return fmt.Errorf("ensure guide_drafts schema: %w", err)
	}
	return nil
}

// Load returns the payload stored under key.
func (r *DraftRepository) Load(ctx context.Context, key string) ([]byte, error) {
	const query = `SELECT payload FROM guide_drafts WHERE key = $1`
	var payload []byte
	if err := r.db.GetContext(ctx, &payload, query, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrDraftNotFound
		}
		return nil, fmt.Errorf("get draft: %w", err)
	}
	return payload, nil
}

// Save upserts the payload; the latest write wins.
func (r *DraftRepository) Save(ctx context.Context, key string, payload []byte) error {
	const query = `INSERT INTO guide_drafts (key, payload, updated_at)
VALUES (:key, :payload, :updated_at)
ON CONFLICT (key) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`
	row := draftRow{Key: key, Payload: string(payload), UpdatedAt: time.Now().UTC()}
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}
