package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	database "github.com/FACorreiaa/go-recipes-api/app/db"
	"github.com/FACorreiaa/go-recipes-api/internal/types"
)

var _ Repository = (*SQLiteRepository)(nil)

// SQLiteRepository stores users in the embedded sqlite database.
type SQLiteRepository struct {
	logger *slog.Logger
	db     *database.SQLiteDB
}

func NewSQLiteRepository(db *database.SQLiteDB, logger *slog.Logger) *SQLiteRepository {
	return &SQLiteRepository{logger: logger, db: db}
}

func (r *SQLiteRepository) FindByUsername(ctx context.Context, username string) (user types.User, err error) {
	defer observe(ctx, "sqlite", "find_user_by_username", time.Now(), &err)

	const query = `SELECT id, username, password FROM users WHERE username = ?`
	err = r.db.Reader.QueryRowContext(ctx, query, username).Scan(&user.ID, &user.Username, &user.Password)
	if errors.Is(err, sql.ErrNoRows) {
		return types.User{}, fmt.Errorf("%w: %s", types.ErrUserNotFound, username)
	}
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to find user", slog.Any("error", err))
		return types.User{}, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

func (r *SQLiteRepository) ExistsByUsername(ctx context.Context, username string) (exists bool, err error) {
	defer observe(ctx, "sqlite", "exists_user_by_username", time.Now(), &err)

	const query = `SELECT EXISTS (SELECT 1 FROM users WHERE username = ?)`
	if err = r.db.Reader.QueryRowContext(ctx, query, username).Scan(&exists); err != nil {
		r.logger.ErrorContext(ctx, "Failed to check user existence", slog.Any("error", err))
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return exists, nil
}

func (r *SQLiteRepository) Insert(ctx context.Context, user types.User) (_ types.User, err error) {
	defer observe(ctx, "sqlite", "insert_user", time.Now(), &err)

	const query = `INSERT INTO users (username, password) VALUES (?, ?)`
	res, err := r.db.Writer.ExecContext(ctx, query, user.Username, user.Password)
	if err != nil {
		// modernc reports constraint failures as "constraint failed: UNIQUE constraint failed: users.username".
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return types.User{}, fmt.Errorf("%w: %s", types.ErrUserAlreadyExists, user.Username)
		}
		r.logger.ErrorContext(ctx, "Failed to insert user", slog.Any("error", err))
		return types.User{}, fmt.Errorf("failed to insert user: %w", err)
	}
	if user.ID, err = res.LastInsertId(); err != nil {
		return types.User{}, fmt.Errorf("failed to read user id: %w", err)
	}
	return user, nil
}
