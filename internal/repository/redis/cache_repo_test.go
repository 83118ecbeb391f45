package redis

import (
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/yourusername/quizplay-api/internal/pkg/errors"
)

// newTestCacheRepo поднимает miniredis и создает CacheRepo поверх него
func newTestCacheRepo(t *testing.T) *CacheRepo {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err, "miniredis должен запуститься")
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	repo, err := NewCacheRepo(client)
	require.NoError(t, err)
	return repo
}

func TestCacheRepo_SetGet(t *testing.T) {
	// Arrange
	repo := newTestCacheRepo(t)

	// Act
	err := repo.Set("quiz:code:GOQUIZ", "42", time.Minute)

	// Assert
	require.NoError(t, err)
	val, err := repo.Get("quiz:code:GOQUIZ")
	require.NoError(t, err)
	assert.Equal(t, "42", val)
}

func TestCacheRepo_Get_Missing(t *testing.T) {
	// Arrange
	repo := newTestCacheRepo(t)

	// Act
	_, err := repo.Get("missing")

	// Assert: отсутствие ключа — явный ErrNotFound, не пустая строка
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCacheRepo_JSONRoundTrip(t *testing.T) {
	// Arrange
	repo := newTestCacheRepo(t)
	type payload struct {
		QuizID uint   `json:"quiz_id"`
		Title  string `json:"title"`
	}
	in := payload{QuizID: 7, Title: "Основы Go"}

	// Act
	require.NoError(t, repo.SetJSON("quiz:7", in, time.Minute))

	var out payload
	err := repo.GetJSON("quiz:7", &out)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestCacheRepo_ExistsAndDelete(t *testing.T) {
	// Arrange
	repo := newTestCacheRepo(t)
	require.NoError(t, repo.Set("key", "1", time.Minute))

	// Act & Assert
	ok, err := repo.Exists("key")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, repo.Delete("key"))

	ok, err = repo.Exists("key")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCacheRepo_NilClient(t *testing.T) {
	// Act
	_, err := NewCacheRepo(nil)

	// Assert
	assert.Error(t, err, "nil-клиент должен быть отвергнут на конструировании")
}
