package user_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fuzara/cashcraft/internal/platform/user"
	"github.com/Fuzara/cashcraft/internal/storage"
	"github.com/Fuzara/cashcraft/pkg/logger"
)

func newTestService() *user.Service {
	repo := user.NewKVRepository(storage.NewMemoryStore())
	return user.NewService(repo, logger.NewDefault("test"))
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	u, err := svc.Register(ctx, "Alice@Example.com", "correct-horse")
	require.NoError(t, err)

	assert.NotEqual(t, "", u.ID.String())
	assert.Equal(t, "alice@example.com", u.Email)
	assert.NotEmpty(t, u.PasswordHash)
	assert.NotEqual(t, "correct-horse", u.PasswordHash)
}

func TestService_RegisterValidation(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	_, err := svc.Register(ctx, "", "correct-horse")
	assert.ErrorIs(t, err, user.ErrInvalidEmail)

	_, err = svc.Register(ctx, "not-an-email", "correct-horse")
	assert.ErrorIs(t, err, user.ErrInvalidEmail)

	_, err = svc.Register(ctx, "bob@example.com", "short")
	assert.ErrorIs(t, err, user.ErrPasswordTooShort)
}

func TestService_RegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	_, err := svc.Register(ctx, "alice@example.com", "correct-horse")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "ALICE@example.com", "different-pass")
	assert.ErrorIs(t, err, user.ErrUserAlreadyExists)
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	registered, err := svc.Register(ctx, "alice@example.com", "correct-horse")
	require.NoError(t, err)

	u, err := svc.Login(ctx, "alice@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, u.ID)
	assert.NotNil(t, u.LastLoginAt)

	_, err = svc.Login(ctx, "alice@example.com", "wrong-password")
	assert.ErrorIs(t, err, user.ErrInvalidPassword)

	// Unknown users get the same error as a wrong password
	_, err = svc.Login(ctx, "mallory@example.com", "correct-horse")
	assert.ErrorIs(t, err, user.ErrInvalidPassword)
}

func TestService_GetByID(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	registered, err := svc.Register(ctx, "alice@example.com", "correct-horse")
	require.NoError(t, err)

	u, err := svc.GetByID(ctx, registered.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", u.Email)
}

func TestKVRepository_PersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemoryStore()

	svc := user.NewService(user.NewKVRepository(backend), logger.NewDefault("test"))
	registered, err := svc.Register(ctx, "alice@example.com", "correct-horse")
	require.NoError(t, err)

	// A new repository over the same backend sees the same accounts
	again := user.NewService(user.NewKVRepository(backend), logger.NewDefault("test"))
	u, err := again.GetByID(ctx, registered.ID)
	require.NoError(t, err)
	assert.Equal(t, registered.Email, u.Email)
}
