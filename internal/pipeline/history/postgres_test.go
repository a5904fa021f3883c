// internal/pipeline/history/postgres_test.go
package history

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindline-backend/internal/models"
)

func setupMockDB(t *testing.T) (*Postgres, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewPostgres(db), mock
}

func TestRecentCrisisCount(t *testing.T) {
	store, mock := setupMockDB(t)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM crisis_events").
		WithArgs("user-1", 7).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := store.RecentCrisisCount(context.Background(), "user-1", 7)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecentCrisisCountQueryError(t *testing.T) {
	store, mock := setupMockDB(t)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM crisis_events").
		WithArgs("user-1", 7).
		WillReturnError(errors.New("connection refused"))

	_, err := store.RecentCrisisCount(context.Background(), "user-1", 7)
	assert.Error(t, err)
}

func TestRecordCrisis(t *testing.T) {
	store, mock := setupMockDB(t)

	mock.ExpectExec("INSERT INTO crisis_events").
		WithArgs("user-1", "high").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := store.RecordCrisis(context.Background(), "user-1", models.CrisisHigh)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordCrisisExecError(t *testing.T) {
	store, mock := setupMockDB(t)

	mock.ExpectExec("INSERT INTO crisis_events").
		WithArgs("user-1", "medium").
		WillReturnError(errors.New("table missing"))

	err := store.RecordCrisis(context.Background(), "user-1", models.CrisisMedium)
	assert.Error(t, err)
}

func TestNopHistory(t *testing.T) {
	var h RiskHistory = Nop{}

	count, err := h.RecentCrisisCount(context.Background(), "user-1", 7)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.NoError(t, h.RecordCrisis(context.Background(), "user-1", models.CrisisLow))
}
