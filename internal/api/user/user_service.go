package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/go-recipes-api/app/observability/metrics"
	"github.com/FACorreiaa/go-recipes-api/internal/types"
)

// ErrInvalidCredentials is returned by Authenticate for a wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	RegisterUser(ctx context.Context, username, rawPassword string) error
	ResolveIdentity(ctx context.Context, username string) (*types.User, error)
	Authenticate(ctx context.Context, username, rawPassword string) (*types.User, error)
}

type ServiceImpl struct {
	logger *slog.Logger
	repo   Repository
	hasher PasswordHasher
}

func NewServiceImpl(repo Repository, hasher PasswordHasher, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
		hasher: hasher,
	}
}

// RegisterUser stores a new user with a hashed password.
// The existence check runs first; the store's unique constraint catches concurrent registrations.
func (s *ServiceImpl) RegisterUser(ctx context.Context, username, rawPassword string) (err error) {
	ctx, span := otel.Tracer("UserService").Start(ctx, "RegisterUser")
	defer span.End()
	defer func() { metrics.Get().Register(ctx, err) }()

	l := s.logger.With(slog.String("method", "RegisterUser"), slog.String("username", username))
	l.DebugContext(ctx, "Registering user")

	exists, err := s.repo.ExistsByUsername(ctx, username)
	if err != nil {
		l.ErrorContext(ctx, "Failed to check username", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Existence check failed")
		return fmt.Errorf("failed to check username: %w", err)
	}
	if exists {
		l.InfoContext(ctx, "Username already taken")
		span.SetStatus(codes.Error, "Username taken")
		return types.ErrUserAlreadyExists
	}

	hashed, err := s.hasher.Hash(rawPassword)
	if err != nil {
		l.ErrorContext(ctx, "Failed to hash password", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Hashing failed")
		return fmt.Errorf("failed to hash password: %w", err)
	}

	created, err := s.repo.Insert(ctx, types.User{Username: username, Password: hashed})
	if err != nil {
		if errors.Is(err, types.ErrUserAlreadyExists) {
			l.InfoContext(ctx, "Username taken by concurrent registration")
			span.SetStatus(codes.Error, "Username taken")
			return types.ErrUserAlreadyExists
		}
		l.ErrorContext(ctx, "Failed to insert user", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Insert failed")
		return fmt.Errorf("failed to register user: %w", err)
	}

	l.InfoContext(ctx, "User registered", slog.Int64("userID", created.ID))
	span.SetStatus(codes.Ok, "User registered")
	return nil
}

// ResolveIdentity returns the user behind username, or types.ErrUserNotFound.
func (s *ServiceImpl) ResolveIdentity(ctx context.Context, username string) (*types.User, error) {
	ctx, span := otel.Tracer("UserService").Start(ctx, "ResolveIdentity")
	defer span.End()

	u, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, types.ErrUserNotFound) {
			s.logger.ErrorContext(ctx, "Failed to resolve identity", slog.String("username", username), slog.Any("error", err))
			span.RecordError(err)
		}
		span.SetStatus(codes.Error, "Identity not resolved")
		return nil, fmt.Errorf("failed to resolve identity: %w", err)
	}
	return &u, nil
}

// Authenticate resolves username and checks rawPassword against the stored hash.
func (s *ServiceImpl) Authenticate(ctx context.Context, username, rawPassword string) (*types.User, error) {
	ctx, span := otel.Tracer("UserService").Start(ctx, "Authenticate")
	defer span.End()

	u, err := s.ResolveIdentity(ctx, username)
	if err != nil {
		return nil, err
	}
	ok, err := s.hasher.Verify(rawPassword, u.Password)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to verify password", slog.String("username", username), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Verification failed")
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		span.SetStatus(codes.Error, "Invalid credentials")
		return nil, ErrInvalidCredentials
	}
	return u, nil
}
