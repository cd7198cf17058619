package client

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"employee_roster/internal/domain"
	"employee_roster/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func issue(t *testing.T, role domain.Role, issuedAt time.Time, ttl time.Duration) *User {
	t.Helper()
	codec := utils.NewTokenCodec("session-test", ttl).WithClock(func() time.Time { return issuedAt })
	account := &domain.User{ID: "acc-1", Username: "alice", Role: role}
	token, err := codec.Issue(account)
	require.NoError(t, err)
	return &User{ID: account.ID, Username: account.Username, Role: string(role), Token: token}
}

func TestSessionStoreRoundTrip(t *testing.T) {
	store := NewSessionStore(filepath.Join(t.TempDir(), "nested", "session.json"))
	user := issue(t, domain.ADMIN, time.Now(), time.Hour)

	saved, err := store.Save(user)
	require.NoError(t, err)

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, saved.Token, loaded.Token)
	assert.Equal(t, "alice", loaded.Username)
	assert.WithinDuration(t, time.Now().Add(time.Hour), loaded.ExpiresAt, 5*time.Second)
	assert.True(t, loaded.CanMutate())

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestSessionStoreExpiredIsAbsent(t *testing.T) {
	store := NewSessionStore(filepath.Join(t.TempDir(), "session.json"))
	_, err := store.Save(issue(t, domain.EMPLOYEE, time.Now().Add(-2*time.Hour), time.Hour))
	require.NoError(t, err)

	_, err = store.Load()
	assert.True(t, errors.Is(err, ErrNoSession))
	_, statErr := os.Stat(store.Path())
	assert.True(t, os.IsNotExist(statErr))
}

func TestSessionStoreMissingAndClear(t *testing.T) {
	store := NewSessionStore(filepath.Join(t.TempDir(), "session.json"))

	_, err := store.Load()
	assert.ErrorIs(t, err, ErrNoSession)
	assert.NoError(t, store.Clear())
}

func TestSessionCanMutate(t *testing.T) {
	assert.False(t, (&Session{Role: "employee"}).CanMutate())
	assert.True(t, (&Session{Role: "admin"}).CanMutate())
}

func TestSessionStoreRejectsGarbageToken(t *testing.T) {
	store := NewSessionStore(filepath.Join(t.TempDir(), "session.json"))
	_, err := store.Save(&User{Token: "garbage"})
	assert.Error(t, err)
}
