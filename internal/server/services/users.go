// Package services holds the server business logic: registration and login,
// and the post operations.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/inkpost/internal/common"
	"github.com/dmitrijs2005/inkpost/internal/logging"
	"github.com/dmitrijs2005/inkpost/internal/server/models"
	"github.com/dmitrijs2005/inkpost/internal/server/repositories/repomanager"
	"github.com/go-playground/validator/v10"
)

// PasswordHasher hashes and verifies user passwords.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// TokenIssuer mints access tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID, email string) (string, error)
}

type RegisterInput struct {
	Email    string `validate:"required,email"`
	Name     string
	Password string `validate:"min=5"`
}

// AuthData is returned by a successful login.
type AuthData struct {
	Token  string
	UserID string
}

type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      PasswordHasher
	tokens      TokenIssuer
	validate    *validator.Validate
	log         logging.Logger

	// dummyHash is compared against when the email is unknown, so a login
	// for a missing user costs the same as one with a wrong password.
	dummyHash string
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, hasher PasswordHasher, tokens TokenIssuer, log logging.Logger) (*UserService, error) {
	dummy, err := hasher.Hash("inkpost-dummy-password")
	if err != nil {
		return nil, fmt.Errorf("dummy hash: %w", err)
	}
	return &UserService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		tokens:      tokens,
		validate:    newValidator(),
		log:         log.With("module", "users"),
		dummyHash:   dummy,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register validates the input, rejects a taken email, and stores the user
// with a bcrypt hash of the password. The plaintext is never persisted.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Email = normalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)

	if err := validateStruct(s.validate, in); err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.db)

	_, err := repo.GetByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, common.ErrDuplicateUser
	case !errors.Is(err, common.ErrorNotFound):
		s.log.Error(ctx, "lookup user", "error", err)
		return nil, common.Internal(err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		s.log.Error(ctx, "hash password", "error", err)
		return nil, common.Internal(err)
	}

	user, err := repo.Create(ctx, &models.User{
		Email:        in.Email,
		Name:         in.Name,
		PasswordHash: hash,
		Status:       models.DefaultUserStatus,
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrDuplicateUser
		}
		s.log.Error(ctx, "create user", "error", err)
		return nil, common.Internal(err)
	}

	s.log.Info(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

// Login checks the credentials and returns a fresh access token. Unknown
// email and wrong password fail identically.
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthData, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.Verify(password, s.dummyHash)
			return nil, common.ErrInvalidCredentials
		}
		s.log.Error(ctx, "lookup user", "error", err)
		return nil, common.Internal(err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, common.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		s.log.Error(ctx, "issue token", "error", err)
		return nil, common.Internal(err)
	}

	return &AuthData{Token: token, UserID: user.ID}, nil
}
