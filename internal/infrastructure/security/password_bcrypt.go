package security

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/streamnest/user-service/internal/domain/service"
)

// bcryptCost is fixed at 10, matching every hash already at rest.
const bcryptCost = 10

type bcryptPasswordService struct{}

// NewBcryptPasswordService returns the bcrypt-backed PasswordService.
func NewBcryptPasswordService() service.PasswordService {
	return &bcryptPasswordService{}
}

func (s *bcryptPasswordService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func (s *bcryptPasswordService) CheckPasswordHash(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	// Malformed hash or library failure, not a wrong password.
	return false, fmt.Errorf("failed to verify password hash: %w", err)
}

var _ service.PasswordService = (*bcryptPasswordService)(nil)
