package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"log"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"tennis-tournament-api/models"
	"tennis-tournament-api/storage"
)

// maxPasswordBytes is the longest password bcrypt accepts.
const maxPasswordBytes = 72

type UserService struct {
	Store UserStore

	// LegacyPlaintext stores and compares passwords verbatim. It exists only
	// for parity with databases that still hold plaintext rows.
	// TODO: remove once existing user rows are rehashed with bcrypt.
	LegacyPlaintext bool
	BcryptCost      int
}

func NewUserService(store UserStore, legacyPlaintext bool) *UserService {
	if legacyPlaintext {
		log.Println("⚠️  [Users] LEGACY_PLAINTEXT_PASSWORDS enabled: passwords are stored without hashing")
	}
	return &UserService{Store: store, LegacyPlaintext: legacyPlaintext, BcryptCost: bcrypt.DefaultCost}
}

func (s *UserService) hash(password string) (string, error) {
	if s.LegacyPlaintext {
		return password, nil
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), s.BcryptCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func (s *UserService) matches(stored, password string) bool {
	if s.LegacyPlaintext {
		return subtle.ConstantTimeCompare([]byte(stored), []byte(password)) == 1
	}
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
}

// Register creates a new account. A taken username is a conflict.
func (s *UserService) Register(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, validationError("username and password are required")
	}
	if len(password) > maxPasswordBytes {
		return nil, validationError("password must be at most 72 bytes")
	}

	_, err := s.Store.GetUserByUsername(ctx, username)
	switch {
	case err == nil:
		return nil, &Error{Kind: KindConflict, Message: "username already exists"}
	case !errors.Is(err, storage.ErrNotFound):
		return nil, storageError("lookup username", err)
	}

	hashed, err := s.hash(password)
	if err != nil {
		return nil, storageError("hash password", err)
	}

	u := &models.User{Username: username, Password: hashed}
	if err := s.Store.CreateUser(ctx, u); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, &Error{Kind: KindConflict, Message: "username already exists"}
		}
		return nil, storageError("create user", err)
	}

	log.Printf("✅ [Users] registered user %d (%s)", u.ID, u.Username)
	return u, nil
}

// Authenticate checks username and password. Any mismatch is Unauthorized.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	u, err := s.Store.GetUserByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, storageError("lookup user", err)
	}
	if !s.matches(u.Password, password) {
		return nil, ErrUnauthorized
	}
	return u, nil
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	u, err := s.Store.GetUserByUsername(ctx, username)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, notFound("user not found")
	}
	if err != nil {
		return nil, storageError("get user", err)
	}
	return u, nil
}

func (s *UserService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	u, err := s.Store.GetUserByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, notFound("user not found")
	}
	if err != nil {
		return nil, storageError("get user", err)
	}
	return u, nil
}
