package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"printshop-bot/internal/users"
)

// UpsertUser creates the user or refreshes its contact and role. The
// original registration time is kept and written back into u.
func (s *PostgresStorage) UpsertUser(ctx context.Context, u *users.User) error {
	const operation = "storage.UpsertUser"

	const query = `
        INSERT INTO users (chat_id, phone, full_name, role, created_at)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (chat_id) DO UPDATE
        SET phone = EXCLUDED.phone,
            full_name = COALESCE(NULLIF(EXCLUDED.full_name, ''), users.full_name),
            role = EXCLUDED.role
        RETURNING full_name, created_at
    `
	err := s.db.QueryRowxContext(ctx, query,
		u.ChatID, u.Phone, u.FullName, string(u.Role), u.CreatedAt,
	).Scan(&u.FullName, &u.CreatedAt)
	if err != nil {
		return fmt.Errorf("%s: failed to save user: %w", operation, err)
	}
	return nil
}

func (s *PostgresStorage) UserByChatID(ctx context.Context, chatID int64) (*users.User, error) {
	return s.getUser(ctx, "storage.UserByChatID",
		`SELECT chat_id, phone, full_name, role, created_at FROM users WHERE chat_id = $1`, chatID)
}

func (s *PostgresStorage) UserByPhone(ctx context.Context, phone string) (*users.User, error) {
	return s.getUser(ctx, "storage.UserByPhone",
		`SELECT chat_id, phone, full_name, role, created_at FROM users WHERE phone = $1
         ORDER BY created_at DESC LIMIT 1`, phone)
}

func (s *PostgresStorage) getUser(ctx context.Context, operation, query string, arg any) (*users.User, error) {
	var u users.User
	if err := s.db.GetContext(ctx, &u, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, users.ErrNotFound
		}
		return nil, fmt.Errorf("%s: failed to get user: %w", operation, err)
	}
	return &u, nil
}

func (s *PostgresStorage) ListUsers(ctx context.Context) ([]users.User, error) {
	const operation = "storage.ListUsers"

	const query = `SELECT chat_id, phone, full_name, role, created_at FROM users ORDER BY created_at DESC`

	var list []users.User
	if err := s.db.SelectContext(ctx, &list, query); err != nil {
		return nil, fmt.Errorf("%s: failed to list users: %w", operation, err)
	}
	return list, nil
}
