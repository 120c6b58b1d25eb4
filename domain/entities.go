package domain

import (
	"time"

	"github.com/google/uuid"
)

// User roles. Role is fixed at registration and never changes afterwards.
const (
	RoleCustomer      = "CUSTOMER"
	RoleBusinessOwner = "BUSINESS_OWNER"
	RoleAdmin         = "ADMIN"
)

// OTP purposes select the email template used for delivery.
const (
	OTPPurposeVerification  = "verification"
	OTPPurposePasswordReset = "password_reset"
)

// User represents an account in the system
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	FullName     string
	Phone        *string
	Role         string
	IsVerified   bool
	Address      *string
	City         *string
	State        *string
	Country      *string
	Picture      *string
	Gender       *string
	LastLogin    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CustomerProfile extends User one-to-one for the CUSTOMER role
type CustomerProfile struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	CreatedAt time.Time
}

// BusinessProfile extends User one-to-one for the BUSINESS_OWNER role
type BusinessProfile struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	HaveSubscription bool
	CreatedAt        time.Time
}

// AccessToken is the persisted form of a bearer session credential.
// Only the SHA-256 hex digest of the plaintext is ever stored.
type AccessToken struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	TokenHash string
	IPAddress *string
	UserAgent *string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// OneTimePasscode is the durable audit copy of an OTP. The authoritative
// copy lives in the cache; this row exists for forensics and fallback.
type OneTimePasscode struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Code      string
	ExpiresAt time.Time
	IsUsed    bool
	Attempts  int
	UsedAt    *time.Time
	CreatedAt time.Time
}

// OTPEntry is the cache payload keyed by otp:{user_id}. It is the source
// of truth for verification; the TTL on the key is the expiry window.
type OTPEntry struct {
	Code      string    `json:"code"`
	Attempts  int       `json:"attempts"`
	CreatedAt time.Time `json:"created_at"`
	Purpose   string    `json:"purpose"`
}

// RegisterInput carries everything needed to create an account
type RegisterInput struct {
	Email            string
	Password         string
	FullName         string
	Role             string
	Phone            *string
	Address          *string
	City             *string
	State            *string
	Country          *string
	Picture          *string
	Gender           *string
	HaveSubscription *bool
}

// ClientInfo captures request origin metadata for anomaly logging
type ClientInfo struct {
	IPAddress string
	UserAgent string
}

// LoginResult represents a successful authentication outcome
type LoginResult struct {
	User        *User
	AccessToken string
	TokenType   string
	ExpiresIn   int64
}
