package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/staffing-office/shift-board/backend/internal/domain"
)

// 办公室账号，修改排班时 username 会作为操作人记录在状态历史中
const userColumns = `id, username, password_hash, full_name, email, role, is_active, created_at, version`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	user := &domain.User{}
	dst := []any{&user.ID, &user.Username, &user.PasswordHash, &user.FullName, &user.Email, &user.Role, &user.IsActive, &user.CreatedAt, &user.Version}
	if err := row.Scan(dst...); err != nil {
		return nil, err
	}
	return user, nil
}

func (r *Repository) getUser(column string, value any) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE %s = $1`, userColumns, column)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return scanUser(r.dbpool.QueryRowContext(ctx, query, value))
}

func (r *Repository) GetUserByID(id int64) (*domain.User, error) {
	return r.getUser("id", id)
}

func (r *Repository) GetUserByUsername(username string) (*domain.User, error) {
	return r.getUser("username", username)
}

func (r *Repository) GetAllUsers() ([]*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users ORDER BY id`, userColumns)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*domain.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

func (r *Repository) CreateUser(user *domain.User) error {
	query := `
		INSERT INTO users (username, password_hash, full_name, email, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, is_active, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{user.Username, user.PasswordHash, user.FullName, user.Email, user.Role}
	return r.dbpool.QueryRowContext(ctx, query, args...).Scan(&user.ID, &user.IsActive, &user.CreatedAt, &user.Version)
}

// UpdateUserPassword 和 SetUserActive 都用 version 做乐观锁，版本不一致时返回 sql.ErrNoRows
func (r *Repository) UpdateUserPassword(user *domain.User) error {
	query := `
		UPDATE users
		SET password_hash = $1, version = version + 1
		WHERE id = $2 AND version = $3
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return r.dbpool.QueryRowContext(ctx, query, user.PasswordHash, user.ID, user.Version).Scan(&user.Version)
}

func (r *Repository) SetUserActive(user *domain.User) error {
	query := `
		UPDATE users
		SET is_active = $1, version = version + 1
		WHERE id = $2 AND version = $3
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return r.dbpool.QueryRowContext(ctx, query, user.IsActive, user.ID, user.Version).Scan(&user.Version)
}
