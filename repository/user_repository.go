package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
	"user-management-api/logger"
	"user-management-api/model"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

const uniqueViolation = "23505"

var (
	ErrDuplicateEmail    = errors.New("duplicate email")
	ErrDuplicateNickname = errors.New("duplicate nickname")
)

// IUserRepository defines the contract for user database operations.
// Lookups that match nothing return sql.ErrNoRows.
type IUserRepository interface {
	Create(ctx context.Context, user *model.User) error
	CreateSelfRegistered(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByNickname(ctx context.Context, nickname string) (*model.User, error)
	List(ctx context.Context, skip, limit int) ([]*model.User, error)
	Count(ctx context.Context) (int, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id string) error
	RecordLoginFailure(ctx context.Context, id string, maxAttempts int) (attempts int, locked bool, err error)
	RecordLoginSuccess(ctx context.Context, id string, at time.Time) error
}

// UserRepository implements IUserRepository on postgres.
type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

const userColumns = `id, nickname, email, first_name, last_name, bio, profile_picture_url,
	linkedin_profile_url, github_profile_url, role, is_professional, email_verified, is_locked,
	failed_login_attempts, hashed_password, last_login_at, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID, &u.Nickname, &u.Email, &u.FirstName, &u.LastName, &u.Bio, &u.ProfilePictureURL,
		&u.LinkedInProfileURL, &u.GitHubProfileURL, &u.Role, &u.IsProfessional, &u.EmailVerified, &u.IsLocked,
		&u.FailedLoginAttempts, &u.HashedPassword, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// mapUniqueViolation turns a postgres unique-constraint error into one of the
// duplicate sentinels.
func mapUniqueViolation(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != uniqueViolation {
		return err
	}
	switch pqErr.Constraint {
	case "users_email_key":
		return ErrDuplicateEmail
	case "users_nickname_key":
		return ErrDuplicateNickname
	}
	return err
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Create inserts a new user and fills in the server-side timestamps.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	return insertUser(ctx, r.DB, user)
}

// CreateSelfRegistered inserts a user and promotes it to ADMIN when the
// table is empty. The table lock serializes concurrent registrations, so
// only one of them can see the empty table.
func (r *UserRepository) CreateSelfRegistered(ctx context.Context, user *model.User) error {
	log := logger.Log.WithField("user_id", user.ID)

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		log.WithError(err).Error("Failed to begin registration transaction")
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `LOCK TABLE users IN SHARE ROW EXCLUSIVE MODE`); err != nil {
		log.WithError(err).Error("Failed to lock users table")
		return err
	}

	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM users)`).Scan(&exists); err != nil {
		log.WithError(err).Error("Failed to check for existing users")
		return err
	}
	if !exists {
		user.Role = model.RoleAdmin
	}

	if err := insertUser(ctx, tx, user); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		log.WithError(err).Error("Failed to commit registration transaction")
		return err
	}
	return nil
}

func insertUser(ctx context.Context, q queryRower, user *model.User) error {
	log := logger.Log.WithFields(logrus.Fields{
		"user_id":  user.ID,
		"nickname": user.Nickname,
		"role":     user.Role,
	})
	log.Debug("Executing query to create a new user")

	query := `INSERT INTO users (id, nickname, email, first_name, last_name, bio, profile_picture_url,
		linkedin_profile_url, github_profile_url, role, hashed_password)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at`
	err := q.QueryRowContext(ctx, query,
		user.ID, user.Nickname, user.Email, user.FirstName, user.LastName, user.Bio, user.ProfilePictureURL,
		user.LinkedInProfileURL, user.GitHubProfileURL, user.Role, user.HashedPassword,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create user query")
		return mapUniqueViolation(err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.getOne(ctx, "id", id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getOne(ctx, "email", email)
}

func (r *UserRepository) GetByNickname(ctx context.Context, nickname string) (*model.User, error) {
	return r.getOne(ctx, "nickname", nickname)
}

// getOne is only called with a fixed column name, never with user input.
func (r *UserRepository) getOne(ctx context.Context, column, value string) (*model.User, error) {
	log := logger.Log.WithField("lookup", column)
	log.Debug("Executing query to get user")

	query := `SELECT ` + userColumns + ` FROM users WHERE ` + column + ` = $1`
	user, err := scanUser(r.DB.QueryRowContext(ctx, query, value))
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.WithError(err).Error("Failed to execute get user query")
		}
		return nil, err
	}
	return user, nil
}

// List returns one page of users ordered by creation time.
func (r *UserRepository) List(ctx context.Context, skip, limit int) ([]*model.User, error) {
	log := logger.Log.WithFields(logrus.Fields{"skip": skip, "limit": limit})
	log.Debug("Executing query to list users")

	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at, id OFFSET $1 LIMIT $2`
	rows, err := r.DB.QueryContext(ctx, query, skip, limit)
	if err != nil {
		log.WithError(err).Error("Failed to execute list users query")
		return nil, err
	}
	defer rows.Close()

	users := []*model.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			log.WithError(err).Error("Failed to scan user row")
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		log.WithError(err).Error("Failed to iterate user rows")
		return nil, err
	}
	return users, nil
}

func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		logger.Log.WithError(err).Error("Failed to execute count users query")
		return 0, err
	}
	return count, nil
}

// Update writes the profile fields of user and refreshes UpdatedAt.
func (r *UserRepository) Update(ctx context.Context, user *model.User) error {
	log := logger.Log.WithField("user_id", user.ID)
	log.Debug("Executing query to update user")

	query := `UPDATE users SET nickname = $2, email = $3, first_name = $4, last_name = $5, bio = $6,
		profile_picture_url = $7, linkedin_profile_url = $8, github_profile_url = $9, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`
	err := r.DB.QueryRowContext(ctx, query,
		user.ID, user.Nickname, user.Email, user.FirstName, user.LastName, user.Bio,
		user.ProfilePictureURL, user.LinkedInProfileURL, user.GitHubProfileURL,
	).Scan(&user.UpdatedAt)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.WithError(err).Error("Failed to execute update user query")
		}
		return mapUniqueViolation(err)
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	log := logger.Log.WithField("user_id", id)
	log.Debug("Executing query to delete user")

	result, err := r.DB.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		log.WithError(err).Error("Failed to execute delete user query")
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// RecordLoginFailure increments the failed attempt counter and locks the
// account once it reaches maxAttempts.
func (r *UserRepository) RecordLoginFailure(ctx context.Context, id string, maxAttempts int) (int, bool, error) {
	log := logger.Log.WithField("user_id", id)
	log.Debug("Executing query to record failed login")

	query := `UPDATE users
		SET failed_login_attempts = failed_login_attempts + 1,
			is_locked = (failed_login_attempts + 1 >= $2),
			updated_at = NOW()
		WHERE id = $1
		RETURNING failed_login_attempts, is_locked`
	var attempts int
	var locked bool
	if err := r.DB.QueryRowContext(ctx, query, id, maxAttempts).Scan(&attempts, &locked); err != nil {
		log.WithError(err).Error("Failed to execute record login failure query")
		return 0, false, err
	}
	return attempts, locked, nil
}

// RecordLoginSuccess resets the failure counter and stamps the login time.
func (r *UserRepository) RecordLoginSuccess(ctx context.Context, id string, at time.Time) error {
	log := logger.Log.WithField("user_id", id)
	log.Debug("Executing query to record successful login")

	query := `UPDATE users SET failed_login_attempts = 0, last_login_at = $2, updated_at = NOW() WHERE id = $1`
	if _, err := r.DB.ExecContext(ctx, query, id, at); err != nil {
		log.WithError(err).Error("Failed to execute record login success query")
		return err
	}
	return nil
}
