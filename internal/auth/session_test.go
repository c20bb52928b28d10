package auth

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulimi/corpus-api/internal/activity"
	"github.com/ulimi/corpus-api/internal/model"
	"github.com/ulimi/corpus-api/internal/store"
)

func newTestManager(t *testing.T, admins []string) (*Manager, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	logg := zerolog.Nop()
	return NewManager(mem, activity.New(mem, logg), admins, logg), mem
}

func TestLoginAssignsRoleFromAdminList(t *testing.T) {
	m, _ := newTestManager(t, []string{"admin"})
	ctx := context.Background()

	admin, err := m.Login(ctx, "admin", "anything")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdministrator, admin.Role)
	assert.True(t, admin.IsAdmin())

	user, err := m.Login(ctx, "thandi", "anything")
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, user.Role)
	assert.False(t, user.IsAdmin())
}

func TestLoginAdminMatchIsCaseInsensitive(t *testing.T) {
	m, _ := newTestManager(t, []string{"Admin"})

	session, err := m.Login(context.Background(), "aDMIN", "pw")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdministrator, session.Role)
}

func TestLoginRequiresUsername(t *testing.T) {
	m, _ := newTestManager(t, nil)

	for _, username := range []string{"", "   "} {
		_, err := m.Login(context.Background(), username, "pw")
		assert.ErrorIs(t, err, ErrUsernameRequired)
	}
}

func TestLoginPersistsSessionAndUserRecord(t *testing.T) {
	m, mem := newTestManager(t, nil)
	ctx := context.Background()

	session, err := m.Login(ctx, "thandi", "pw")
	require.NoError(t, err)
	assert.NotEmpty(t, session.ID)

	current, err := m.Current(ctx)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, session.ID, current.ID)

	_, err = mem.Get(ctx, store.KeyUserPrefix+"thandi")
	assert.NoError(t, err, "per-user record persisted")
}

func TestSecondLoginReplacesCurrentSession(t *testing.T) {
	m, _ := newTestManager(t, nil)
	ctx := context.Background()

	_, err := m.Login(ctx, "thandi", "pw")
	require.NoError(t, err)
	_, err = m.Login(ctx, "sipho", "pw")
	require.NoError(t, err)

	current, err := m.Current(ctx)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, "sipho", current.Username)

	users, err := m.Users(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2, "both usernames keep their records")
}

func TestLogoutClearsCurrentSession(t *testing.T) {
	m, _ := newTestManager(t, nil)
	ctx := context.Background()

	_, err := m.Login(ctx, "thandi", "pw")
	require.NoError(t, err)
	require.NoError(t, m.Logout(ctx))

	current, err := m.Current(ctx)
	require.NoError(t, err)
	assert.Nil(t, current)
}

func TestLogoutWithoutSessionIsNotAnError(t *testing.T) {
	m, _ := newTestManager(t, nil)
	assert.NoError(t, m.Logout(context.Background()))
}

func TestCurrentTreatsCorruptDocumentAsAnonymous(t *testing.T) {
	m, mem := newTestManager(t, nil)
	ctx := context.Background()

	require.NoError(t, mem.Put(ctx, store.KeyCurrentUser, []byte("{broken")))

	current, err := m.Current(ctx)
	require.NoError(t, err)
	assert.Nil(t, current)
}

func TestLoginFailsWhenStorageUnavailable(t *testing.T) {
	m, mem := newTestManager(t, nil)
	mem.Unavailable = true

	_, err := m.Login(context.Background(), "thandi", "pw")
	assert.ErrorIs(t, err, model.ErrStorageUnavailable)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	session := &model.Session{ID: "sid-1", Username: "admin", Role: model.RoleAdministrator}

	token, err := GenerateAccessToken(session, "test-secret")
	require.NoError(t, err)

	claims, err := ValidateAccessToken(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, model.RoleAdministrator, claims.Role)
	assert.Equal(t, "sid-1", claims.ID)
}

func TestAccessTokenRejectsWrongSecret(t *testing.T) {
	session := &model.Session{ID: "sid-1", Username: "admin", Role: model.RoleAdministrator}

	token, err := GenerateAccessToken(session, "test-secret")
	require.NoError(t, err)

	_, err = ValidateAccessToken(token, "other-secret")
	assert.Error(t, err)
}
