package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserRepository defines user data access operations
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	// CreateWithProfile persists the user row and its role-matched profile
	// extension row as a single transaction. At most one of customer or
	// business is non-nil; both nil means no extension (admins).
	CreateWithProfile(ctx context.Context, user *User, customer *CustomerProfile, business *BusinessProfile) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByPhone(ctx context.Context, phone string) (*User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	MarkVerified(ctx context.Context, id uuid.UUID) error
}

// TokenRepository defines durable storage for access token records
type TokenRepository interface {
	Insert(ctx context.Context, token *AccessToken) error
	// FindActiveByHash returns the record matching the digest whose expiry
	// has not passed, or ErrTokenInvalid.
	FindActiveByHash(ctx context.Context, tokenHash string) (*AccessToken, error)
	DeleteByHash(ctx context.Context, tokenHash string) (bool, error)
	DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	DeleteExpired(ctx context.Context) (int64, error)
}

// OTPRepository defines the durable audit trail for one-time passcodes
type OTPRepository interface {
	Insert(ctx context.Context, otp *OneTimePasscode) error
	FindActiveByUser(ctx context.Context, userID uuid.UUID) (*OneTimePasscode, error)
	IncrementAttempts(ctx context.Context, id uuid.UUID) error
	MarkUsed(ctx context.Context, id uuid.UUID) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// PasswordService defines credential hashing operations
type PasswordService interface {
	Hash(password string) (string, error)
	Verify(hashedPassword, password string) bool
}

// TokenService defines the opaque bearer token lifecycle
type TokenService interface {
	// Issue returns the plaintext token exactly once; only its hash persists.
	Issue(ctx context.Context, userID uuid.UUID, client ClientInfo, ttl time.Duration) (string, error)
	Validate(ctx context.Context, plaintext string, client ClientInfo) (*User, error)
	Revoke(ctx context.Context, plaintext string) (bool, error)
	RevokeAll(ctx context.Context, userID uuid.UUID) (int64, error)
	SweepExpired(ctx context.Context) (int64, error)
}

// OTPService defines OTP generation, delivery and verification
type OTPService interface {
	CreateAndSend(ctx context.Context, userID uuid.UUID, email, purpose string) error
	Verify(ctx context.Context, userID uuid.UUID, code string) error
	CleanupExpired(ctx context.Context) (int64, error)
}

// NotificationService delivers codes to users. The OTP engine depends on
// it but does not implement it.
type NotificationService interface {
	SendOTPEmail(to, code string) error
	SendPasswordResetEmail(to, code string) error
}

// AuthService defines account orchestration business logic
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*User, error)
	Login(ctx context.Context, email, password string, client ClientInfo) (*LoginResult, error)
	Logout(ctx context.Context, plaintext string) error
	LogoutAll(ctx context.Context, userID uuid.UUID) (int64, error)
	ResetPassword(ctx context.Context, userID uuid.UUID, newPassword string) error
	GetUserProfile(ctx context.Context, userID uuid.UUID) (*User, error)
}

// PolicyService defines authorization policy operations
type PolicyService interface {
	AddPolicy(role, resource, action string) error
	RemovePolicy(role, resource, action string) error
	CheckPermission(role, resource, action string) (bool, error)
	GetPolicies() [][]string
}

// CasbinEnforcer is the subset of the Casbin enforcer the service layer uses
type CasbinEnforcer interface {
	AddPolicy(params ...interface{}) (bool, error)
	RemovePolicy(params ...interface{}) (bool, error)
	Enforce(rvals ...interface{}) (bool, error)
	GetPolicy() ([][]string, error)
	SavePolicy() error
}
