package store

import (
	"context"
	"database/sql"
)

type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) Migrate(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS decisions (
			id          BIGSERIAL PRIMARY KEY,
			request     JSONB NOT NULL,
			response    JSONB NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_decisions_created_at ON decisions (created_at DESC);
	`
	_, err := p.db.ExecContext(ctx, query)
	return err
}

func (p *Postgres) SaveDecision(ctx context.Context, request, response []byte) error {
	_, err := p.db.ExecContext(ctx,
		"INSERT INTO decisions (request, response) VALUES ($1, $2)",
		request, response,
	)
	return err
}

func (p *Postgres) RecentDecisions(ctx context.Context, limit int) ([][]byte, error) {
	rows, err := p.db.QueryContext(ctx,
		"SELECT response FROM decisions ORDER BY created_at DESC LIMIT $1", limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out [][]byte
	for rows.Next() {
		var b []byte
		if err := rows.Scan(&b); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
