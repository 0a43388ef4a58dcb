package service

import (
	"context"
	"testing"
	"time"

	"github.com/madhuracj/weblate/internal/mail"
	"github.com/madhuracj/weblate/internal/model"
	"github.com/madhuracj/weblate/internal/store"
	"github.com/madhuracj/weblate/internal/tester"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAccounts() (*AccountService, store.Store) {
	s := store.NewGormStore(tester.TestDB())
	return NewAccountService(s, mail.NewLog(), "http://translate.example.com", "admin@example.com"), s
}

func TestRegisterAndActivate(t *testing.T) {
	tester.Setup()
	defer tester.RemoveDBFile()
	svc, _ := newAccounts()
	ctx := context.TODO()

	user, err := svc.Register(ctx, "nijel", "nijel@example.com", "Michal", "secret123")
	require.NoError(t, err)
	assert.False(t, user.IsActive)
	assert.NotEmpty(t, user.ActivationKey)

	// Not active yet.
	_, err = svc.Authenticate(ctx, "nijel", "secret123")
	assert.ErrorIs(t, err, ErrInactiveUser)

	activated, err := svc.Activate(ctx, user.ActivationKey)
	require.NoError(t, err)
	assert.True(t, activated.IsActive)
	assert.Empty(t, activated.ActivationKey)

	logged, err := svc.Authenticate(ctx, "nijel", "secret123")
	assert.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)

	// An empty key must never activate anything.
	_, err = svc.Activate(ctx, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	tester.Setup()
	defer tester.RemoveDBFile()
	svc, _ := newAccounts()
	ctx := context.TODO()

	_, err := svc.Register(ctx, "nijel", "nijel@example.com", "", "secret123")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "nijel", "other@example.com", "", "secret123")
	assert.ErrorIs(t, err, ErrExists)
}

func TestAuthenticate(t *testing.T) {
	tester.Setup()
	defer tester.RemoveDBFile()
	svc, _ := newAccounts()
	ctx := context.TODO()

	tester.MustUser("nijel", model.RoleUser, "secret123")

	_, err := svc.Authenticate(ctx, "nijel", "wrong")
	assert.ErrorIs(t, err, ErrBadCredentials)

	_, err = svc.Authenticate(ctx, "missing", "secret123")
	assert.ErrorIs(t, err, ErrBadCredentials)

	user, err := svc.Authenticate(ctx, "nijel", "secret123")
	assert.NoError(t, err)
	assert.Equal(t, "nijel", user.Username)
}

func TestChangePassword(t *testing.T) {
	tester.Setup()
	defer tester.RemoveDBFile()
	svc, _ := newAccounts()
	ctx := context.TODO()

	user := tester.MustUser("nijel", model.RoleUser, "secret123")

	assert.ErrorIs(t, svc.ChangePassword(ctx, user, "wrong", "next456"), ErrBadCredentials)

	require.NoError(t, svc.ChangePassword(ctx, user, "secret123", "next456"))
	_, err := svc.Authenticate(ctx, "nijel", "next456")
	assert.NoError(t, err)
}

func TestPasswordReset(t *testing.T) {
	tester.Setup()
	defer tester.RemoveDBFile()
	svc, s := newAccounts()
	ctx := context.TODO()

	tester.MustUser("nijel", model.RoleUser, "secret123")

	assert.ErrorIs(t, svc.RequestReset(ctx, "unknown@example.com"), ErrNotFound)

	require.NoError(t, svc.RequestReset(ctx, "nijel@example.com"))
	user, err := s.GetUserByEmail(ctx, "nijel@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, user.ResetKey)

	require.NoError(t, svc.ResetPassword(ctx, user.ResetKey, "fresh789"))
	_, err = svc.Authenticate(ctx, "nijel", "fresh789")
	assert.NoError(t, err)

	// The key is single use.
	assert.ErrorIs(t, svc.ResetPassword(ctx, user.ResetKey, "again000"), ErrNotFound)
}

func TestPasswordResetExpiry(t *testing.T) {
	tester.Setup()
	defer tester.RemoveDBFile()
	svc, s := newAccounts()
	ctx := context.TODO()

	tester.MustUser("nijel", model.RoleUser, "secret123")
	require.NoError(t, svc.RequestReset(ctx, "nijel@example.com"))

	user, err := s.GetUserByEmail(ctx, "nijel@example.com")
	require.NoError(t, err)

	old := time.Now().Add(-4 * 24 * time.Hour)
	user.ResetSentAt = &old
	require.NoError(t, s.UpdateUser(ctx, user))

	assert.ErrorIs(t, svc.ResetPassword(ctx, user.ResetKey, "fresh789"), ErrExpiredKey)
}

func TestUpdateProfile(t *testing.T) {
	tester.Setup()
	defer tester.RemoveDBFile()
	svc, s := newAccounts()
	ctx := context.TODO()

	user := tester.MustUser("nijel", model.RoleUser, "secret123")

	require.NoError(t, svc.UpdateProfile(ctx, user, "Michal Č.", []string{"cs", "de", "nope"}))

	loaded, err := s.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Michal Č.", loaded.FullName)
	if assert.Len(t, loaded.Languages, 2) {
		codes := []string{loaded.Languages[0].Code, loaded.Languages[1].Code}
		assert.ElementsMatch(t, []string{"cs", "de"}, codes)
	}

	// Replacing the set drops old languages.
	require.NoError(t, svc.UpdateProfile(ctx, user, "Michal Č.", []string{"de"}))
	loaded, err = s.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, loaded.Languages, 1)
}
