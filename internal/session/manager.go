package session

import (
	"civicconnect/backend/internal/config"
	"civicconnect/backend/internal/logger"
	"civicconnect/backend/internal/models"
	"civicconnect/backend/internal/storage"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
)

// Manager reads and writes the per-role session records.
type Manager struct {
	store          storage.Store
	authenticators map[models.Role]Authenticator
	// Delay is waited before credentials are checked. It only paces the UI.
	Delay time.Duration

	log *slog.Logger
}

func NewManager(store storage.Store, citizen, admin Authenticator) *Manager {
	return &Manager{
		store: store,
		authenticators: map[models.Role]Authenticator{
			models.RoleCitizen: citizen,
			models.RoleAdmin:   admin,
		},
		log: logger.WithComponent("session"),
	}
}

func sessionKey(role models.Role) (string, error) {
	switch role {
	case models.RoleCitizen:
		return config.CitizenSessionKey, nil
	case models.RoleAdmin:
		return config.AdminSessionKey, nil
	default:
		return "", fmt.Errorf("unknown role %q", role)
	}
}

// Login checks creds for role and, on success, records the session. Nothing is
// written when the credentials are rejected.
func (m *Manager) Login(ctx context.Context, role models.Role, creds Credentials) (Identity, error) {
	key, err := sessionKey(role)
	if err != nil {
		return Identity{}, err
	}
	auth, ok := m.authenticators[role]
	if !ok || auth == nil {
		return Identity{}, fmt.Errorf("no authenticator for role %q", role)
	}

	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return Identity{}, ctx.Err()
		}
	}

	id, err := auth.Authenticate(ctx, creds)
	if err != nil {
		m.log.Warn("login rejected", "role", role, "username", creds.Username)
		return Identity{}, err
	}

	raw, err := encodeRecord(id)
	if err != nil {
		return Identity{}, err
	}
	if err := m.store.Write(ctx, key, raw); err != nil {
		return Identity{}, fmt.Errorf("failed to save session: %w", err)
	}
	m.log.Info("session started", "role", role, "username", id.Username)
	return id, nil
}

// Logout clears the session record for role.
func (m *Manager) Logout(ctx context.Context, role models.Role) error {
	key, err := sessionKey(role)
	if err != nil {
		return err
	}
	if err := m.store.Clear(ctx, key); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	m.log.Info("session ended", "role", role)
	return nil
}

// Current returns the identity holding the role's session, or ErrNoSession.
// A record that does not decode counts as no session.
func (m *Manager) Current(ctx context.Context, role models.Role) (Identity, error) {
	key, err := sessionKey(role)
	if err != nil {
		return Identity{}, err
	}
	raw, found, err := m.store.Read(ctx, key)
	if err != nil {
		return Identity{}, fmt.Errorf("failed to read session: %w", err)
	}
	if !found {
		return Identity{}, ErrNoSession
	}
	id, ok := decodeRecord(role, raw)
	if !ok {
		return Identity{}, ErrNoSession
	}
	return id, nil
}

func encodeRecord(id Identity) (string, error) {
	var v any
	switch id.Role {
	case models.RoleAdmin:
		v = models.AdminSession{Username: id.Username, Role: models.RoleAdmin}
	default:
		v = models.UserSession{Username: id.Username, Email: id.Email}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode session: %w", err)
	}
	return string(b), nil
}

func decodeRecord(role models.Role, raw string) (Identity, bool) {
	if role == models.RoleAdmin {
		var rec models.AdminSession
		if err := json.Unmarshal([]byte(raw), &rec); err != nil || rec.Username == "" || rec.Role != models.RoleAdmin {
			return Identity{}, false
		}
		return Identity{Username: rec.Username, Role: models.RoleAdmin}, true
	}
	var rec models.UserSession
	if err := json.Unmarshal([]byte(raw), &rec); err != nil || rec.Username == "" {
		return Identity{}, false
	}
	return Identity{Username: rec.Username, Email: rec.Email, Role: models.RoleCitizen}, true
}
