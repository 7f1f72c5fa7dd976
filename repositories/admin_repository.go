package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/codmarena/codm-tournaments/models"
)

var (
	ErrAdminNotFound      = errors.New("admin user not found")
	ErrAdminEmailConflict = errors.New("admin email already registered")
)

type AdminRepository interface {
	Create(ctx context.Context, admin *models.AdminUser) error
	GetByEmail(ctx context.Context, email string) (*models.AdminUser, error)
	GetByID(ctx context.Context, id int) (*models.AdminUser, error)
}

type postgresAdminRepository struct {
	db *sql.DB
}

func NewPostgresAdminRepository(db *sql.DB) AdminRepository {
	return &postgresAdminRepository{db: db}
}

func (r *postgresAdminRepository) Create(ctx context.Context, admin *models.AdminUser) error {
	query := `
		INSERT INTO admin_users (email, password_hash, role)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, admin.Email, admin.PasswordHash, admin.Role).
		Scan(&admin.ID, &admin.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Constraint == "admin_users_email_key" {
			return ErrAdminEmailConflict
		}
		return fmt.Errorf("failed to insert admin user: %w", err)
	}
	return nil
}

func (r *postgresAdminRepository) GetByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	return r.get(ctx, `WHERE email = $1`, email)
}

func (r *postgresAdminRepository) GetByID(ctx context.Context, id int) (*models.AdminUser, error) {
	return r.get(ctx, `WHERE id = $1`, id)
}

func (r *postgresAdminRepository) get(ctx context.Context, where string, arg interface{}) (*models.AdminUser, error) {
	query := `SELECT id, email, password_hash, role, created_at FROM admin_users ` + where

	admin := &models.AdminUser{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&admin.ID,
		&admin.Email,
		&admin.PasswordHash,
		&admin.Role,
		&admin.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("failed to scan admin user: %w", err)
	}
	return admin, nil
}
