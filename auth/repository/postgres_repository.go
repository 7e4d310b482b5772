package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/openagora/agora/auth/models"
	"github.com/openagora/agora/internal/database/postgres"
)

const userColumns = "id, email, display_name, password, role, status, created_at, last_login"

// postgresUserRepository implements UserRepository using raw SQL queries
type postgresUserRepository struct {
	client *postgres.Client
}

// NewPostgresUserRepository creates a new PostgreSQL repository for user accounts
func NewPostgresUserRepository(client *postgres.Client) UserRepository {
	return &postgresUserRepository{client: client}
}

// getExecutor returns either the transaction from context or the DB connection
func (r *postgresUserRepository) getExecutor(ctx context.Context) sqlx.ExtContext {
	if txVal := ctx.Value("tx"); txVal != nil {
		if tx, ok := txVal.(*sqlx.Tx); ok {
			return tx
		}
	}
	return r.client.DB()
}

// Create inserts a new user account
func (r *postgresUserRepository) Create(ctx context.Context, user *models.UserAccount) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO user_accounts (id, email, display_name, password, role, status, created_at, last_login)
		VALUES (:id, :email, :display_name, :password, :role, :status, :created_at, :last_login)
	`

	_, err := sqlx.NamedExecContext(ctx, r.getExecutor(ctx), query, user)
	if err != nil {
		return fmt.Errorf("failed to insert user account: %w", err)
	}
	return nil
}

// FindByID retrieves a user account by its ID
func (r *postgresUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.UserAccount, error) {
	query := fmt.Sprintf("SELECT %s FROM user_accounts WHERE id = $1", userColumns)

	var user models.UserAccount
	err := sqlx.GetContext(ctx, r.getExecutor(ctx), &user, query, id)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail retrieves a user account by its email address
func (r *postgresUserRepository) FindByEmail(ctx context.Context, email string) (*models.UserAccount, error) {
	query := fmt.Sprintf("SELECT %s FROM user_accounts WHERE email = $1", userColumns)

	var user models.UserAccount
	err := sqlx.GetContext(ctx, r.getExecutor(ctx), &user, query, email)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ExistsByEmail reports whether an account with the given email exists
func (r *postgresUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := "SELECT COUNT(*) FROM user_accounts WHERE email = $1"

	var count int
	err := sqlx.GetContext(ctx, r.getExecutor(ctx), &count, query, email)
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return count > 0, nil
}

// UpdateLastLogin records the most recent successful login time
func (r *postgresUserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := "UPDATE user_accounts SET last_login = $1 WHERE id = $2"

	result, err := r.getExecutor(ctx).ExecContext(ctx, query, at, id)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("user account not found for last login update")
	}

	return nil
}

// WithTransaction executes a function within a database transaction
func (r *postgresUserRepository) WithTransaction(ctx context.Context, fn func(context.Context) error) error {
	tx, err := r.client.DB().BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	txCtx := context.WithValue(ctx, "tx", tx)

	if err := fn(txCtx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction error: %w, rollback error: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
