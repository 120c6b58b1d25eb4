package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/you/marketauth/domain"
)

// AuthHandlers handles authentication HTTP requests
type AuthHandlers struct {
	authSvc  domain.AuthService
	otpSvc   domain.OTPService
	userRepo domain.UserRepository
	// debug enables error detail in responses; production suppresses it.
	debug bool
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(authSvc domain.AuthService, otpSvc domain.OTPService, userRepo domain.UserRepository, debug bool) *AuthHandlers {
	return &AuthHandlers{
		authSvc:  authSvc,
		otpSvc:   otpSvc,
		userRepo: userRepo,
		debug:    debug,
	}
}

// RegisterRequest represents registration request
type RegisterRequest struct {
	Email            string  `json:"email" binding:"required,email"`
	Password         string  `json:"password" binding:"required,min=8"`
	FullName         string  `json:"full_name" binding:"required,max=100"`
	Role             string  `json:"role" binding:"required,oneof=CUSTOMER BUSINESS_OWNER ADMIN"`
	Phone            *string `json:"phone,omitempty"`
	Address          *string `json:"address,omitempty"`
	City             *string `json:"city,omitempty"`
	State            *string `json:"state,omitempty"`
	Country          *string `json:"country,omitempty"`
	Picture          *string `json:"picture,omitempty"`
	Gender           *string `json:"gender,omitempty" binding:"omitempty,oneof=MALE FEMALE OTHER"`
	HaveSubscription *bool   `json:"have_subscription,omitempty"`
}

// LoginRequest represents login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SendOTPRequest represents an OTP delivery request
type SendOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// VerifyOTPRequest represents OTP verification request
type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required,len=6,numeric"`
}

// ForgotPasswordRequest represents a password reset OTP request
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest represents password reset with OTP verification
type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	OTP         string `json:"otp" binding:"required,len=6,numeric"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// userResponse serializes a user without any password material
func userResponse(user *domain.User) gin.H {
	return gin.H{
		"id":          user.ID,
		"email":       user.Email,
		"full_name":   user.FullName,
		"phone":       user.Phone,
		"role":        user.Role,
		"is_verified": user.IsVerified,
		"address":     user.Address,
		"city":        user.City,
		"state":       user.State,
		"country":     user.Country,
		"picture":     user.Picture,
		"gender":      user.Gender,
		"last_login":  user.LastLogin,
		"created_at":  user.CreatedAt,
	}
}

// internalError writes a 500; the underlying error is only exposed in debug mode
func (h *AuthHandlers) internalError(c *gin.Context, message string, err error) {
	body := gin.H{"error": message}
	if h.debug && err != nil {
		body["detail"] = err.Error()
	}
	c.JSON(http.StatusInternalServerError, body)
}

// Register handles user registration
func (h *AuthHandlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.authSvc.Register(c.Request.Context(), domain.RegisterInput{
		Email:            req.Email,
		Password:         req.Password,
		FullName:         req.FullName,
		Role:             req.Role,
		Phone:            req.Phone,
		Address:          req.Address,
		City:             req.City,
		State:            req.State,
		Country:          req.Country,
		Picture:          req.Picture,
		Gender:           req.Gender,
		HaveSubscription: req.HaveSubscription,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmailAlreadyRegistered),
			errors.Is(err, domain.ErrPhoneAlreadyRegistered),
			errors.Is(err, domain.ErrSubscriptionNotAllowed),
			errors.Is(err, domain.ErrInvalidRole),
			errors.Is(err, domain.ErrPasswordTooLong):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.internalError(c, "Failed to register user", err)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data":    userResponse(user),
		"message": "User registered successfully. Please verify your email.",
	})
}

// SendOTP handles OTP generation and email delivery
func (h *AuthHandlers) SendOTP(c *gin.Context) {
	var req SendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userRepo.FindByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		h.internalError(c, "Failed to find user", err)
		return
	}

	if err := h.otpSvc.CreateAndSend(c.Request.Context(), user.ID, user.Email, domain.OTPPurposeVerification); err != nil {
		if errors.Is(err, domain.ErrOTPDeliveryFailed) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to deliver OTP email"})
			return
		}
		h.internalError(c, "Failed to send OTP", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":    gin.H{},
		"message": "OTP sent to " + req.Email,
	})
}

// VerifyOTP handles email verification and account activation
func (h *AuthHandlers) VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userRepo.FindByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		h.internalError(c, "Failed to find user", err)
		return
	}

	if err := h.otpSvc.Verify(c.Request.Context(), user.ID, req.OTP); err != nil {
		h.writeOTPError(c, err)
		return
	}

	if err := h.userRepo.MarkVerified(c.Request.Context(), user.ID); err != nil {
		h.internalError(c, "Failed to activate account", err)
		return
	}
	user.IsVerified = true

	c.JSON(http.StatusOK, gin.H{
		"data":    userResponse(user),
		"message": "Email verified successfully. Your account is now active.",
	})
}

// Login handles user login
func (h *AuthHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	client := domain.ClientInfo{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}

	result, err := h.authSvc.Login(c.Request.Context(), req.Email, req.Password, client)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		h.internalError(c, "Login failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"access_token": result.AccessToken,
			"token_type":   result.TokenType,
			"expires_in":   result.ExpiresIn,
			"user": gin.H{
				"id":    result.User.ID,
				"email": result.User.Email,
				"role":  result.User.Role,
			},
		},
		"message": "Login successful",
	})
}

// ForgotPassword sends a password-reset OTP. The response is identical
// whether or not the email maps to an account (anti-enumeration).
func (h *AuthHandlers) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ack := gin.H{
		"data":    gin.H{},
		"message": "If the email exists, an OTP has been sent.",
	}

	user, err := h.userRepo.FindByEmail(c.Request.Context(), req.Email)
	if err != nil {
		c.JSON(http.StatusOK, ack)
		return
	}

	if err := h.otpSvc.CreateAndSend(c.Request.Context(), user.ID, user.Email, domain.OTPPurposePasswordReset); err != nil {
		if errors.Is(err, domain.ErrOTPDeliveryFailed) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to deliver OTP email"})
			return
		}
		h.internalError(c, "Failed to send OTP", err)
		return
	}

	c.JSON(http.StatusOK, ack)
}

// ResetPassword verifies the reset OTP and overwrites the password
func (h *AuthHandlers) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userRepo.FindByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		h.internalError(c, "Failed to find user", err)
		return
	}

	if err := h.otpSvc.Verify(c.Request.Context(), user.ID, req.OTP); err != nil {
		h.writeOTPError(c, err)
		return
	}

	if err := h.authSvc.ResetPassword(c.Request.Context(), user.ID, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		case errors.Is(err, domain.ErrPasswordTooLong):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.internalError(c, "Failed to reset password", err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":    gin.H{},
		"message": "Password reset successfully",
	})
}

// Logout handles user logout (requires authentication)
func (h *AuthHandlers) Logout(c *gin.Context) {
	plaintext, exists := c.Get("bearer_token")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header"})
		return
	}

	if err := h.authSvc.Logout(c.Request.Context(), plaintext.(string)); err != nil {
		h.internalError(c, "Logout failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":    gin.H{},
		"message": "Logged out successfully",
	})
}

// LogoutAll revokes every session of the authenticated user
func (h *AuthHandlers) LogoutAll(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	count, err := h.authSvc.LogoutAll(c.Request.Context(), userID)
	if err != nil {
		h.internalError(c, "Logout failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":    gin.H{"sessions_ended": count},
		"message": "Logged out from all devices",
	})
}

// Me returns the authenticated user's profile
func (h *AuthHandlers) Me(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	user, err := h.authSvc.GetUserProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		h.internalError(c, "Failed to get user profile", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": userResponse(user)})
}

func (h *AuthHandlers) writeOTPError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrOTPNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"error": "OTP expired or not found"})
	case errors.Is(err, domain.ErrOTPMaxAttempts):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Maximum OTP attempts exceeded"})
	case errors.Is(err, domain.ErrOTPInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid OTP code"})
	default:
		h.internalError(c, "OTP verification failed", err)
	}
}

func currentUserID(c *gin.Context) (uuid.UUID, error) {
	raw, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, domain.ErrUnauthorized
	}
	return uuid.Parse(raw.(string))
}
