package user

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-recipes-api/internal/types"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) FindByUsername(ctx context.Context, username string) (types.User, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(types.User), args.Error(1)
}

func (m *MockRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) Insert(ctx context.Context, user types.User) (types.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(types.User), args.Error(1)
}

type MockHasher struct {
	mock.Mock
}

func (m *MockHasher) Hash(raw string) (string, error) {
	args := m.Called(raw)
	return args.String(0), args.Error(1)
}

func (m *MockHasher) Verify(raw, hash string) (bool, error) {
	args := m.Called(raw, hash)
	return args.Bool(0), args.Error(1)
}

func setupUserServiceTest() (*ServiceImpl, *MockRepository, *MockHasher) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mockRepo := new(MockRepository)
	mockHasher := new(MockHasher)
	return NewServiceImpl(mockRepo, mockHasher, logger), mockRepo, mockHasher
}

func TestServiceImpl_RegisterUser(t *testing.T) {
	username := "a@x.com"

	t.Run("success stores hashed password", func(t *testing.T) {
		service, mockRepo, mockHasher := setupUserServiceTest()
		mockRepo.On("ExistsByUsername", mock.Anything, username).Return(false, nil).Once()
		mockHasher.On("Hash", "password1").Return("hashed", nil).Once()
		mockRepo.On("Insert", mock.Anything, types.User{Username: username, Password: "hashed"}).
			Return(types.User{ID: 1, Username: username, Password: "hashed"}, nil).Once()

		err := service.RegisterUser(context.Background(), username, "password1")
		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
		mockHasher.AssertExpectations(t)
	})

	t.Run("username taken", func(t *testing.T) {
		service, mockRepo, mockHasher := setupUserServiceTest()
		mockRepo.On("ExistsByUsername", mock.Anything, username).Return(true, nil).Once()

		err := service.RegisterUser(context.Background(), username, "password1")
		assert.ErrorIs(t, err, types.ErrUserAlreadyExists)
		mockRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
		mockHasher.AssertNotCalled(t, "Hash", mock.Anything)
	})

	t.Run("concurrent registration caught by insert", func(t *testing.T) {
		service, mockRepo, mockHasher := setupUserServiceTest()
		mockRepo.On("ExistsByUsername", mock.Anything, username).Return(false, nil).Once()
		mockHasher.On("Hash", "password1").Return("hashed", nil).Once()
		mockRepo.On("Insert", mock.Anything, mock.Anything).
			Return(types.User{}, errors.Join(types.ErrUserAlreadyExists, errors.New("23505"))).Once()

		err := service.RegisterUser(context.Background(), username, "password1")
		assert.ErrorIs(t, err, types.ErrUserAlreadyExists)
		mockRepo.AssertExpectations(t)
	})

	t.Run("existence check fails", func(t *testing.T) {
		service, mockRepo, _ := setupUserServiceTest()
		repoErr := errors.New("db down")
		mockRepo.On("ExistsByUsername", mock.Anything, username).Return(false, repoErr).Once()

		err := service.RegisterUser(context.Background(), username, "password1")
		require.Error(t, err)
		assert.ErrorIs(t, err, repoErr)
		assert.Contains(t, err.Error(), "failed to check username:")
	})

	t.Run("hashing fails", func(t *testing.T) {
		service, mockRepo, mockHasher := setupUserServiceTest()
		hashErr := errors.New("too long")
		mockRepo.On("ExistsByUsername", mock.Anything, username).Return(false, nil).Once()
		mockHasher.On("Hash", "password1").Return("", hashErr).Once()

		err := service.RegisterUser(context.Background(), username, "password1")
		assert.ErrorIs(t, err, hashErr)
		mockRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	})
}

func TestServiceImpl_ResolveIdentity(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		service, mockRepo, _ := setupUserServiceTest()
		want := types.User{ID: 3, Username: "a@x.com", Password: "hashed"}
		mockRepo.On("FindByUsername", mock.Anything, "a@x.com").Return(want, nil).Once()

		got, err := service.ResolveIdentity(context.Background(), "a@x.com")
		require.NoError(t, err)
		assert.Equal(t, &want, got)
	})

	t.Run("not found", func(t *testing.T) {
		service, mockRepo, _ := setupUserServiceTest()
		mockRepo.On("FindByUsername", mock.Anything, "ghost@x.com").Return(types.User{}, types.ErrUserNotFound).Once()

		_, err := service.ResolveIdentity(context.Background(), "ghost@x.com")
		assert.ErrorIs(t, err, types.ErrUserNotFound)
	})
}

func TestServiceImpl_Authenticate(t *testing.T) {
	stored := types.User{ID: 3, Username: "a@x.com", Password: "hashed"}

	t.Run("valid password", func(t *testing.T) {
		service, mockRepo, mockHasher := setupUserServiceTest()
		mockRepo.On("FindByUsername", mock.Anything, "a@x.com").Return(stored, nil).Once()
		mockHasher.On("Verify", "password1", "hashed").Return(true, nil).Once()

		u, err := service.Authenticate(context.Background(), "a@x.com", "password1")
		require.NoError(t, err)
		assert.Equal(t, int64(3), u.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		service, mockRepo, mockHasher := setupUserServiceTest()
		mockRepo.On("FindByUsername", mock.Anything, "a@x.com").Return(stored, nil).Once()
		mockHasher.On("Verify", "nope", "hashed").Return(false, nil).Once()

		_, err := service.Authenticate(context.Background(), "a@x.com", "nope")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		service, mockRepo, mockHasher := setupUserServiceTest()
		mockRepo.On("FindByUsername", mock.Anything, "ghost@x.com").Return(types.User{}, types.ErrUserNotFound).Once()

		_, err := service.Authenticate(context.Background(), "ghost@x.com", "password1")
		assert.ErrorIs(t, err, types.ErrUserNotFound)
		mockHasher.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything)
	})
}

func TestServiceImpl_WithRealStoreAndHasher(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := NewServiceImpl(NewMemoryRepository(), BcryptHasher{Cost: 4}, logger)
	ctx := context.Background()

	require.NoError(t, service.RegisterUser(ctx, "a@x.com", "password1"))
	assert.ErrorIs(t, service.RegisterUser(ctx, "a@x.com", "password2"), types.ErrUserAlreadyExists)

	u, err := service.ResolveIdentity(ctx, "a@x.com")
	require.NoError(t, err)
	assert.NotEqual(t, "password1", u.Password)

	_, err = service.Authenticate(ctx, "a@x.com", "password1")
	require.NoError(t, err)
	_, err = service.Authenticate(ctx, "a@x.com", "password2")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
