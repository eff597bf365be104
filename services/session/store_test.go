package session

import (
	"context"
	"testing"
	"time"

	"guidewizard/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, time.Minute), mr
}

func exerciseStore(t *testing.T, store Store) {
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	sess := models.NewWizardSession("s1")
	require.NoError(t, store.Create(ctx, sess))
	assert.Error(t, store.Create(ctx, sess), "duplicate id")

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, models.StepPhoneVerification, got.CurrentStep)

	got.CurrentStep = models.StepBasicInfo
	got.AccessToken = "tok"
	got.Languages = []models.ReferenceItem{{ID: 1, Name: "Hindi"}}
	require.NoError(t, store.Save(ctx, got))

	// The caller's copy is not shared with the store.
	got.PhoneNumber = "changed after save"

	again, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, models.StepBasicInfo, again.CurrentStep)
	assert.Equal(t, "tok", again.AccessToken)
	assert.Equal(t, []models.ReferenceItem{{ID: 1, Name: "Hindi"}}, again.Languages)
	assert.Empty(t, again.PhoneNumber)

	require.NoError(t, store.Delete(ctx, "s1"))
	_, err = store.Get(ctx, "s1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.Save(ctx, again), ErrNotFound)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore(time.Minute))
}

func TestRedisStore(t *testing.T) {
	store, _ := newRedisStore(t)
	exerciseStore(t, store)
}

func TestRedisStoreExpiry(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, models.NewWizardSession("s1")))
	mr.FastForward(2 * time.Minute)

	_, err := store.Get(ctx, "s1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore(20 * time.Millisecond)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, models.NewWizardSession("s1")))
	time.Sleep(50 * time.Millisecond)

	_, err := store.Get(ctx, "s1")
	assert.ErrorIs(t, err, ErrNotFound)
}
