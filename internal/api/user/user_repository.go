package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	database "github.com/FACorreiaa/go-recipes-api/app/db"
	"github.com/FACorreiaa/go-recipes-api/app/observability/metrics"
	"github.com/FACorreiaa/go-recipes-api/internal/types"
)

const pgUniqueViolation = "23505"

var _ Repository = (*RepositoryImpl)(nil)

// Repository is the credential store.
type Repository interface {
	// FindByUsername returns types.ErrUserNotFound when no user has that username.
	FindByUsername(ctx context.Context, username string) (types.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	// Insert assigns the id. A duplicate username yields types.ErrUserAlreadyExists.
	Insert(ctx context.Context, user types.User) (types.User, error)
}

type RepositoryImpl struct {
	logger *slog.Logger
	pgpool database.PgxIface
}

func NewRepository(pgpool database.PgxIface, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		pgpool: pgpool,
	}
}

func (r *RepositoryImpl) FindByUsername(ctx context.Context, username string) (user types.User, err error) {
	ctx, span := otel.Tracer("UserRepository").Start(ctx, "FindByUsername", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
	))
	defer span.End()
	defer observe(ctx, "postgres", "find_user_by_username", time.Now(), &err)

	query := `SELECT id, username, password FROM users WHERE username = $1`
	err = r.pgpool.QueryRow(ctx, query, username).Scan(&user.ID, &user.Username, &user.Password)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "User not found")
			return types.User{}, fmt.Errorf("%w: %s", types.ErrUserNotFound, username)
		}
		r.logger.ErrorContext(ctx, "Failed to find user", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return types.User{}, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

func (r *RepositoryImpl) ExistsByUsername(ctx context.Context, username string) (exists bool, err error) {
	ctx, span := otel.Tracer("UserRepository").Start(ctx, "ExistsByUsername", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
	))
	defer span.End()
	defer observe(ctx, "postgres", "exists_user_by_username", time.Now(), &err)

	query := `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`
	if err = r.pgpool.QueryRow(ctx, query, username).Scan(&exists); err != nil {
		r.logger.ErrorContext(ctx, "Failed to check user existence", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return exists, nil
}

func (r *RepositoryImpl) Insert(ctx context.Context, user types.User) (_ types.User, err error) {
	ctx, span := otel.Tracer("UserRepository").Start(ctx, "Insert", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
	))
	defer span.End()
	defer observe(ctx, "postgres", "insert_user", time.Now(), &err)

	query := `INSERT INTO users (username, password) VALUES ($1, $2) RETURNING id`
	err = r.pgpool.QueryRow(ctx, query, user.Username, user.Password).Scan(&user.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			span.SetStatus(codes.Error, "Username taken")
			return types.User{}, fmt.Errorf("%w: %s", types.ErrUserAlreadyExists, user.Username)
		}
		r.logger.ErrorContext(ctx, "Failed to insert user", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB insert failed")
		return types.User{}, fmt.Errorf("failed to insert user: %w", err)
	}
	span.SetAttributes(attribute.Int64("user.id", user.ID))
	return user, nil
}

// observe records query latency. Not-found and conflict outcomes are expected and are not counted as errors.
func observe(ctx context.Context, store, query string, start time.Time, errp *error) {
	err := *errp
	if errors.Is(err, types.ErrUserNotFound) || errors.Is(err, types.ErrUserAlreadyExists) {
		err = nil
	}
	metrics.Get().ObserveQuery(ctx, store, query, start, err)
}
