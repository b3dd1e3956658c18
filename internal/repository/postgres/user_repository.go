package postgres

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"chat-relay-server/internal/domain"
)

// UserRepository handles database operations for user profiles.
type UserRepository struct {
	DB *sql.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

// Create inserts a new user into the database.
func (r *UserRepository) Create(user *domain.User) error {
	query := `INSERT INTO users (id, username, name, email, bio, password_hash, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.DB.Exec(query, user.ID, user.Username, user.Name, user.Email, user.Bio, user.PasswordHash, user.CreatedAt)
	return err
}

// GetByUsername retrieves a user by their username.
func (r *UserRepository) GetByUsername(username string) (*domain.User, error) {
	user := &domain.User{}
	query := `SELECT id, username, name, email, bio, password_hash, created_at FROM users WHERE username = $1`
	err := r.DB.QueryRow(query, username).Scan(&user.ID, &user.Username, &user.Name, &user.Email, &user.Bio, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // No user found is not an application error
		}
		return nil, err
	}
	return user, nil
}

// GetByID retrieves a user by their ID.
func (r *UserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	user := &domain.User{}
	query := `SELECT id, username, name, email, bio, password_hash, created_at FROM users WHERE id = $1`
	err := r.DB.QueryRow(query, id).Scan(&user.ID, &user.Username, &user.Name, &user.Email, &user.Bio, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}
