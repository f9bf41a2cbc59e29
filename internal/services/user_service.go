package services

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/edvass/notevault/internal/database"
	"github.com/edvass/notevault/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	GetUserByID(id int64) (models.User, error)
	Register(username, password string) (models.User, error)
	Verify(username, password string) (models.User, error)
}

// UserService persists and verifies user credentials.
type UserService struct {
	db         *sql.DB
	bcryptCost int
}

// NewUserService creates a new UserService. A cost of 0 selects the
// bcrypt default.
func NewUserService(db *sql.DB, bcryptCost int) *UserService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserService{db: db, bcryptCost: bcryptCost}
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(id int64) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, username, created_at FROM users WHERE id = ?", id)
	err := row.Scan(&user.ID, &user.Username, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// Register creates a new user, hashing their password with a fresh salt.
// The insert is a single statement; a duplicate username surfaces as the
// UNIQUE constraint firing, mapped to ErrDuplicateUsername.
func (s *UserService) Register(username, password string) (models.User, error) {
	if username == "" || password == "" {
		return models.User{}, ErrEmptyCredentials
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	res, err := s.db.Exec("INSERT INTO users (username, password_hash) VALUES (?, ?)", username, string(hashedPassword))
	if err != nil {
		if database.IsUniqueViolation(err) {
			return models.User{}, ErrDuplicateUsername
		}
		return models.User{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.User{}, err
	}

	return s.GetUserByID(id)
}

// Verify checks a username/password pair against the stored hash.
// It returns ErrUserNotFound when no row matches and ErrInvalidCredentials
// when the bcrypt comparison fails.
func (s *UserService) Verify(username, password string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, username, password_hash, created_at FROM users WHERE username = ?", username)
	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}

	// Don't hand the hash to callers
	user.PasswordHash = ""
	return user, nil
}
