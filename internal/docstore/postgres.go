package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"jewelry-ledger/internal/core"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres stores documents as JSONB rows in the documents table (migrations/001_documents.sql).
type Postgres struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool, now: time.Now}
}

func (p *Postgres) Find(ctx context.Context, cred core.Credential, name string) (core.Handle, bool, error) {
	if err := authorize(cred, p.now()); err != nil {
		return core.Handle{}, false, err
	}
	var id string
	err := p.pool.QueryRow(ctx,
		"SELECT id::text FROM documents WHERE owner = $1 AND name = $2",
		cred.Subject, name,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return core.Handle{}, false, nil
		}
		return core.Handle{}, false, fmt.Errorf("failed to find document %s: %w", name, err)
	}
	return core.Handle{ID: id}, true, nil
}

// Create inserts the document, or returns the existing handle if one was created concurrently.
func (p *Postgres) Create(ctx context.Context, cred core.Credential, name string, doc core.Document) (core.Handle, error) {
	if err := authorize(cred, p.now()); err != nil {
		return core.Handle{}, err
	}
	body, err := core.EncodeDocument(doc)
	if err != nil {
		return core.Handle{}, err
	}

	var id string
	err = p.pool.QueryRow(ctx, `
		INSERT INTO documents (owner, name, body)
		VALUES ($1, $2, $3::jsonb)
		ON CONFLICT (owner, name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id::text
	`, cred.Subject, name, string(body)).Scan(&id)
	if err != nil {
		return core.Handle{}, fmt.Errorf("failed to create document %s: %w", name, err)
	}
	return core.Handle{ID: id}, nil
}

func (p *Postgres) Read(ctx context.Context, cred core.Credential, h core.Handle) (core.Document, error) {
	if err := authorize(cred, p.now()); err != nil {
		return core.Document{}, err
	}
	var body []byte
	err := p.pool.QueryRow(ctx,
		"SELECT body::text FROM documents WHERE id::text = $1 AND owner = $2",
		h.ID, cred.Subject,
	).Scan(&body)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return core.Document{}, handleNotFound(h)
		}
		return core.Document{}, fmt.Errorf("failed to read document %s: %w", h.ID, err)
	}
	return core.DecodeDocument(body)
}

func (p *Postgres) Write(ctx context.Context, cred core.Credential, h core.Handle, doc core.Document) error {
	if err := authorize(cred, p.now()); err != nil {
		return err
	}
	body, err := core.EncodeDocument(doc)
	if err != nil {
		return err
	}
	tag, err := p.pool.Exec(ctx, `
		UPDATE documents SET body = $3::jsonb, updated_at = NOW()
		WHERE id::text = $1 AND owner = $2
	`, h.ID, cred.Subject, string(body))
	if err != nil {
		return fmt.Errorf("failed to write document %s: %w", h.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return handleNotFound(h)
	}
	return nil
}
