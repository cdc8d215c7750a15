package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	appErrors "github.com/noah-isme/ack-board/pkg/errors"
)

func TestCacheRepositoryWithoutClientIsInert(t *testing.T) {
	repo := NewCacheRepository(nil, "board", nil)
	ctx := context.Background()

	var dest map[string]string
	assert.ErrorIs(t, repo.Get(ctx, "announcements", &dest), appErrors.ErrCacheMiss)
	assert.NoError(t, repo.Set(ctx, "announcements", map[string]string{"a": "b"}, time.Minute))
	assert.NoError(t, repo.Delete(ctx, "announcements"))
	assert.NoError(t, repo.DeleteByPattern(ctx, "*"))
	assert.NoError(t, repo.Ping(ctx))
	assert.NoError(t, repo.Close())
}

func TestCacheRepositoryKeyPrefix(t *testing.T) {
	assert.Equal(t, "board:announcements", NewCacheRepository(nil, "board", nil).key("announcements"))
	assert.Equal(t, "announcements", NewCacheRepository(nil, "", nil).key("announcements"))
}
