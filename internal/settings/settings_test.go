package settings

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulimi/corpus-api/internal/model"
	"github.com/ulimi/corpus-api/internal/store"
)

func newTestSettings(t *testing.T) (*Settings, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	return New(mem, zerolog.Nop()), mem
}

func TestDefaultsOnEmptyStore(t *testing.T) {
	s, _ := newTestSettings(t)
	ctx := context.Background()

	assert.True(t, s.PublicStats(ctx))
	assert.False(t, s.AutoBackup(ctx))
	assert.Equal(t, DefaultSearchLimit, s.SearchLimit(ctx))
	assert.Empty(t, s.LastBackup(ctx))
}

func TestSettingsRoundTrip(t *testing.T) {
	s, _ := newTestSettings(t)
	ctx := context.Background()

	require.NoError(t, s.SetPublicStats(ctx, false))
	require.NoError(t, s.SetAutoBackup(ctx, true))
	require.NoError(t, s.SetSearchLimit(ctx, 50))

	assert.False(t, s.PublicStats(ctx))
	assert.True(t, s.AutoBackup(ctx))
	assert.Equal(t, 50, s.SearchLimit(ctx))
}

func TestSettingsStoredAsStringifiedValues(t *testing.T) {
	s, mem := newTestSettings(t)
	ctx := context.Background()

	require.NoError(t, s.SetSearchLimit(ctx, 50))

	raw, err := mem.Get(ctx, store.KeySearchLimit)
	require.NoError(t, err)
	assert.Equal(t, `"50"`, string(raw))
}

func TestSearchLimitFallsBackOnBadValues(t *testing.T) {
	s, mem := newTestSettings(t)
	ctx := context.Background()

	require.NoError(t, mem.Put(ctx, store.KeySearchLimit, []byte(`"not a number"`)))
	assert.Equal(t, DefaultSearchLimit, s.SearchLimit(ctx))

	require.NoError(t, mem.Put(ctx, store.KeySearchLimit, []byte(`"-3"`)))
	assert.Equal(t, DefaultSearchLimit, s.SearchLimit(ctx))

	require.NoError(t, mem.Put(ctx, store.KeySearchLimit, []byte("{broken")))
	assert.Equal(t, DefaultSearchLimit, s.SearchLimit(ctx))
}

func TestLastBackupFormatsRFC3339(t *testing.T) {
	s, _ := newTestSettings(t)
	ctx := context.Background()

	at := time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC)
	require.NoError(t, s.SetLastBackup(ctx, at))
	assert.Equal(t, "2024-06-01T12:30:00Z", s.LastBackup(ctx))
}

func TestAllReportsEffectiveValues(t *testing.T) {
	s, _ := newTestSettings(t)
	ctx := context.Background()

	require.NoError(t, s.SetSearchLimit(ctx, 75))

	all := s.All(ctx)
	assert.Equal(t, "true", all[store.KeyPublicStats])
	assert.Equal(t, "false", all[store.KeyAutoBackup])
	assert.Equal(t, "75", all[store.KeySearchLimit])
}

func TestWritesFailWhenStorageUnavailable(t *testing.T) {
	s, mem := newTestSettings(t)
	mem.Unavailable = true

	err := s.SetSearchLimit(context.Background(), 50)
	assert.ErrorIs(t, err, model.ErrStorageUnavailable)
}
