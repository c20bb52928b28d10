// Package auth maps submitted credentials to session records. There is no
// real credential verification: any username/password pair logs in, and
// the role depends only on whether the username is in the configured
// administrator list.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/ulimi/corpus-api/internal/activity"
	"github.com/ulimi/corpus-api/internal/model"
	"github.com/ulimi/corpus-api/internal/store"
)

var ErrUsernameRequired = errors.New("username is required")

// Manager holds the single authoritative current session and a per-user
// record for every username that has ever logged in. The per-user records
// feed a read-only listing and are never reconciled with the session.
type Manager struct {
	store    store.Store
	activity *activity.Log
	admins   map[string]struct{}
	logger   zerolog.Logger
}

func NewManager(s store.Store, act *activity.Log, adminUsers []string, logger zerolog.Logger) *Manager {
	admins := make(map[string]struct{}, len(adminUsers))
	for _, u := range adminUsers {
		admins[strings.ToLower(u)] = struct{}{}
	}
	return &Manager{store: s, activity: act, admins: admins, logger: logger}
}

// Login creates and persists a session for the submitted pair. The
// password is accepted as-is; only the username decides the role.
func (m *Manager) Login(ctx context.Context, username, password string) (*model.Session, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if err := m.store.Probe(ctx); err != nil {
		return nil, model.ErrStorageUnavailable
	}

	role := model.RoleUser
	if _, ok := m.admins[strings.ToLower(username)]; ok {
		role = model.RoleAdministrator
	}

	session := &model.Session{
		ID:        uuid.NewString(),
		Username:  username,
		Role:      role,
		LastLogin: time.Now(),
	}

	raw, err := json.Marshal(session)
	if err != nil {
		return nil, err
	}
	if err := m.store.Put(ctx, store.KeyCurrentUser, raw); err != nil {
		return nil, err
	}
	if err := m.store.Put(ctx, store.KeyUserPrefix+username, raw); err != nil {
		m.logger.Warn().Err(err).Str("username", username).Msg("failed to persist per-user record")
	}

	m.activity.Append(ctx, "User logged in: "+username)
	return session, nil
}

// Logout destroys the current session. Logging out with no session is not
// an error.
func (m *Manager) Logout(ctx context.Context) error {
	session, _ := m.Current(ctx)
	if err := m.store.Delete(ctx, store.KeyCurrentUser); err != nil {
		return err
	}
	if session != nil {
		m.activity.Append(ctx, "User logged out: "+session.Username)
	}
	return nil
}

// Current returns the authoritative session, or nil when anonymous.
func (m *Manager) Current(ctx context.Context) (*model.Session, error) {
	raw, err := m.store.Get(ctx, store.KeyCurrentUser)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	var session model.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		m.logger.Warn().Err(err).Msg("session document is corrupt, treating as anonymous")
		return nil, nil
	}
	return &session, nil
}

// Users returns the per-username records, one per user that has logged in.
func (m *Manager) Users(ctx context.Context) ([]model.Session, error) {
	keys, err := m.store.Keys(ctx, store.KeyUserPrefix)
	if err != nil {
		return nil, err
	}

	users := make([]model.Session, 0, len(keys))
	for _, key := range keys {
		raw, err := m.store.Get(ctx, key)
		if err != nil {
			continue
		}
		var record model.Session
		if err := json.Unmarshal(raw, &record); err != nil {
			m.logger.Warn().Err(err).Str("key", key).Msg("skipping corrupt user record")
			continue
		}
		users = append(users, record)
	}
	return users, nil
}
