// internal/pipeline/contextstore/redis_test.go
package contextstore

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindline-backend/internal/models"
)

func TestRedisStoreGetPropagatesBackendError(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewRedis(client, 10, time.Hour)
	key := Key{UserID: "user-1"}

	mock.ExpectLRange(key.String(), 0, -1).SetErr(errors.New("connection reset"))

	_, err := store.Get(context.Background(), key)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStoreGetSkipsCorruptEntries(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewRedis(client, 10, time.Hour)
	key := Key{UserID: "user-1"}

	valid, err := json.Marshal(models.ConversationTurn{Role: models.RoleUser, Text: "still here"})
	require.NoError(t, err)

	mock.ExpectLRange(key.String(), 0, -1).SetVal([]string{"{not json", string(valid)})

	turns, err := store.Get(context.Background(), key)
	require.NoError(t, err)
	require.Len(t, turns, 1)
	assert.Equal(t, "still here", turns[0].Text)
}
