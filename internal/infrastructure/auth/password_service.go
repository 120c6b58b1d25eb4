package auth

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/you/marketauth/domain"
)

// bcrypt truncates beyond 72 bytes, so longer inputs are rejected outright.
const maxPasswordBytes = 72

// bcryptCost fixes the work factor at 12 rounds; hashing takes tens of
// milliseconds, which bounds offline brute-force throughput.
const bcryptCost = 12

// PasswordServiceImpl implements domain.PasswordService
type PasswordServiceImpl struct {
	cost int
}

// NewPasswordService creates a new password service
func NewPasswordService() domain.PasswordService {
	return &PasswordServiceImpl{cost: bcryptCost}
}

// Hash implements domain.PasswordService. Each call salts independently,
// so hashing the same password twice yields different digests.
func (p *PasswordServiceImpl) Hash(password string) (string, error) {
	if len([]byte(password)) > maxPasswordBytes {
		return "", domain.ErrPasswordTooLong
	}
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// Verify implements domain.PasswordService. Malformed digests verify as
// false rather than surfacing an error to the caller.
func (p *PasswordServiceImpl) Verify(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}
