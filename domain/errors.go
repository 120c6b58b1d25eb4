package domain

import "errors"

// Validation errors (user-correctable, 4xx)
var (
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrPhoneAlreadyRegistered = errors.New("phone number already registered")
	ErrSubscriptionNotAllowed = errors.New("have_subscription field is only valid for business owners")
	ErrInvalidRole            = errors.New("invalid user role")
	ErrPasswordTooLong        = errors.New("password cannot exceed 72 bytes")
)

// Authentication errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrTokenInvalid       = errors.New("invalid or expired token")
)

// OTP errors
var (
	ErrOTPNotFound       = errors.New("otp expired or not found")
	ErrOTPInvalid        = errors.New("invalid otp code")
	ErrOTPMaxAttempts    = errors.New("maximum otp attempts exceeded")
	ErrOTPDeliveryFailed = errors.New("failed to deliver otp")
)

// Authorization errors
var (
	ErrUnauthorized     = errors.New("unauthorized access")
	ErrInsufficientRole = errors.New("insufficient role permissions")
)
