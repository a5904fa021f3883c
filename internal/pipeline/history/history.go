// internal/pipeline/history/history.go
package history

import (
	"context"

	"mindline-backend/internal/models"
)

// RiskHistory exposes a user's recent crisis events. The pipeline uses
// it only to escalate an existing detection, never to originate one.
type RiskHistory interface {
	RecentCrisisCount(ctx context.Context, userID string, windowDays int) (int, error)
	RecordCrisis(ctx context.Context, userID string, level models.CrisisLevel) error
}

// Nop is the no-history wiring: zero recent events, records dropped.
type Nop struct{}

func (Nop) RecentCrisisCount(ctx context.Context, userID string, windowDays int) (int, error) {
	return 0, nil
}

func (Nop) RecordCrisis(ctx context.Context, userID string, level models.CrisisLevel) error {
	return nil
}
