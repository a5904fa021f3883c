// internal/pipeline/history/postgres.go
package history

import (
	"context"
	"database/sql"
	"fmt"

	"mindline-backend/internal/models"
)

// Postgres persists crisis events in the crisis_events table and serves
// the trailing-window count used for escalation.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) RecentCrisisCount(ctx context.Context, userID string, windowDays int) (int, error) {
	query := `SELECT COUNT(*) FROM crisis_events
		WHERE user_id = $1 AND detected_at > NOW() - ($2 * INTERVAL '1 day')`

	var count int
	err := p.db.QueryRowContext(ctx, query, userID, windowDays).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("recent crisis count for %s: %w", userID, err)
	}
	return count, nil
}

func (p *Postgres) RecordCrisis(ctx context.Context, userID string, level models.CrisisLevel) error {
	query := `INSERT INTO crisis_events (user_id, level, detected_at) VALUES ($1, $2, NOW())`

	if _, err := p.db.ExecContext(ctx, query, userID, string(level)); err != nil {
		return fmt.Errorf("record crisis for %s: %w", userID, err)
	}
	return nil
}
