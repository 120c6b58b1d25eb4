package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/you/marketauth/domain"
	"github.com/you/marketauth/internal/mocks"
)

func createAuthServiceForTest(t *testing.T) (domain.AuthService, *mocks.MockUserRepository, *mocks.MockPasswordService, *mocks.MockTokenService) {
	t.Helper()

	userRepo := mocks.NewMockUserRepository()
	passwordSvc := mocks.NewMockPasswordService()
	tokenSvc := mocks.NewMockTokenService()

	svc := NewAuthService(userRepo, passwordSvc, tokenSvc, 24*time.Hour, zap.NewNop())

	return svc, userRepo, passwordSvc, tokenSvc
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func TestAuthServiceImpl_Register(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name          string
		input         domain.RegisterInput
		setupMocks    func(*mocks.MockUserRepository)
		expectedError error
		validate      func(t *testing.T, user *domain.User, captured *profileCapture)
	}{
		{
			name: "customer registration creates customer profile",
			input: domain.RegisterInput{
				Email:    "customer@example.com",
				Password: "SecurePass123!",
				FullName: "New Customer",
				Role:     domain.RoleCustomer,
			},
			setupMocks:    func(userRepo *mocks.MockUserRepository) {},
			expectedError: nil,
			validate: func(t *testing.T, user *domain.User, captured *profileCapture) {
				if user.Role != domain.RoleCustomer {
					t.Errorf("expected role %s, got %s", domain.RoleCustomer, user.Role)
				}
				if user.IsVerified {
					t.Error("new accounts must start unverified")
				}
				if user.PasswordHash == "SecurePass123!" {
					t.Error("password must be hashed before persistence")
				}
				if captured.customer == nil {
					t.Error("expected a customer profile row")
				}
				if captured.business != nil {
					t.Error("customer must not get a business profile row")
				}
			},
		},
		{
			name: "business owner registration carries subscription flag",
			input: domain.RegisterInput{
				Email:            "owner@example.com",
				Password:         "SecurePass123!",
				FullName:         "Shop Owner",
				Role:             domain.RoleBusinessOwner,
				HaveSubscription: boolPtr(true),
			},
			setupMocks:    func(userRepo *mocks.MockUserRepository) {},
			expectedError: nil,
			validate: func(t *testing.T, user *domain.User, captured *profileCapture) {
				if captured.business == nil {
					t.Fatal("expected a business profile row")
				}
				if !captured.business.HaveSubscription {
					t.Error("expected have_subscription to be true")
				}
				if captured.customer != nil {
					t.Error("business owner must not get a customer profile row")
				}
			},
		},
		{
			name: "business owner defaults subscription to false",
			input: domain.RegisterInput{
				Email:    "owner2@example.com",
				Password: "SecurePass123!",
				FullName: "Shop Owner",
				Role:     domain.RoleBusinessOwner,
			},
			setupMocks:    func(userRepo *mocks.MockUserRepository) {},
			expectedError: nil,
			validate: func(t *testing.T, user *domain.User, captured *profileCapture) {
				if captured.business == nil {
					t.Fatal("expected a business profile row")
				}
				if captured.business.HaveSubscription {
					t.Error("expected have_subscription to default to false")
				}
			},
		},
		{
			name: "admin registration creates no profile row",
			input: domain.RegisterInput{
				Email:    "admin@example.com",
				Password: "SecurePass123!",
				FullName: "Platform Admin",
				Role:     domain.RoleAdmin,
			},
			setupMocks:    func(userRepo *mocks.MockUserRepository) {},
			expectedError: nil,
			validate: func(t *testing.T, user *domain.User, captured *profileCapture) {
				if captured.customer != nil || captured.business != nil {
					t.Error("admins must not get any profile-extension row")
				}
			},
		},
		{
			name: "unknown role rejected",
			input: domain.RegisterInput{
				Email:    "who@example.com",
				Password: "SecurePass123!",
				Role:     "SUPERUSER",
			},
			setupMocks:    func(userRepo *mocks.MockUserRepository) {},
			expectedError: domain.ErrInvalidRole,
		},
		{
			name: "duplicate email rejected",
			input: domain.RegisterInput{
				Email:    "taken@example.com",
				Password: "SecurePass123!",
				Role:     domain.RoleCustomer,
			},
			setupMocks: func(userRepo *mocks.MockUserRepository) {
				userRepo.FindByEmailFunc = func(ctx context.Context, email string) (*domain.User, error) {
					return &domain.User{ID: uuid.New(), Email: email}, nil
				}
			},
			expectedError: domain.ErrEmailAlreadyRegistered,
		},
		{
			name: "duplicate phone rejected",
			input: domain.RegisterInput{
				Email:    "fresh@example.com",
				Password: "SecurePass123!",
				Role:     domain.RoleCustomer,
				Phone:    strPtr("+15550100"),
			},
			setupMocks: func(userRepo *mocks.MockUserRepository) {
				userRepo.FindByPhoneFunc = func(ctx context.Context, phone string) (*domain.User, error) {
					return &domain.User{ID: uuid.New(), Phone: &phone}, nil
				}
			},
			expectedError: domain.ErrPhoneAlreadyRegistered,
		},
		{
			name: "subscription flag rejected for customers",
			input: domain.RegisterInput{
				Email:            "customer2@example.com",
				Password:         "SecurePass123!",
				Role:             domain.RoleCustomer,
				HaveSubscription: boolPtr(true),
			},
			setupMocks:    func(userRepo *mocks.MockUserRepository) {},
			expectedError: domain.ErrSubscriptionNotAllowed,
		},
		{
			name: "subscription flag rejected for admins",
			input: domain.RegisterInput{
				Email:            "admin2@example.com",
				Password:         "SecurePass123!",
				Role:             domain.RoleAdmin,
				HaveSubscription: boolPtr(false),
			},
			setupMocks:    func(userRepo *mocks.MockUserRepository) {},
			expectedError: domain.ErrSubscriptionNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, userRepo, _, _ := createAuthServiceForTest(t)
			captured := &profileCapture{}
			userRepo.CreateWithProfileFunc = func(ctx context.Context, user *domain.User, customer *domain.CustomerProfile, business *domain.BusinessProfile) error {
				user.ID = uuid.New()
				captured.customer = customer
				captured.business = business
				return nil
			}
			tt.setupMocks(userRepo)

			user, err := svc.Register(ctx, tt.input)

			if tt.expectedError != nil {
				if !errors.Is(err, tt.expectedError) {
					t.Fatalf("expected error %v, got %v", tt.expectedError, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if user.ID == uuid.Nil {
				t.Error("expected a persisted user ID")
			}
			if tt.validate != nil {
				tt.validate(t, user, captured)
			}
		})
	}
}

type profileCapture struct {
	customer *domain.CustomerProfile
	business *domain.BusinessProfile
}

func TestAuthServiceImpl_Register_PasswordTooLong(t *testing.T) {
	ctx := context.Background()
	svc, _, passwordSvc, _ := createAuthServiceForTest(t)
	passwordSvc.HashFunc = func(password string) (string, error) {
		return "", domain.ErrPasswordTooLong
	}

	_, err := svc.Register(ctx, domain.RegisterInput{
		Email:    "long@example.com",
		Password: "way-too-long",
		Role:     domain.RoleCustomer,
	})
	if !errors.Is(err, domain.ErrPasswordTooLong) {
		t.Fatalf("expected ErrPasswordTooLong, got %v", err)
	}
}

func TestAuthServiceImpl_Login(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	client := domain.ClientInfo{IPAddress: "203.0.113.7", UserAgent: "test"}

	knownUser := func(ctx context.Context, email string) (*domain.User, error) {
		return &domain.User{
			ID:           userID,
			Email:        email,
			PasswordHash: "hashed_right-password",
			Role:         domain.RoleCustomer,
		}, nil
	}

	t.Run("successful login returns bearer token", func(t *testing.T) {
		svc, userRepo, _, tokenSvc := createAuthServiceForTest(t)
		userRepo.FindByEmailFunc = knownUser
		tokenSvc.IssueFunc = func(ctx context.Context, id uuid.UUID, c domain.ClientInfo, ttl time.Duration) (string, error) {
			if id != userID {
				t.Errorf("expected token for user %s, got %s", userID, id)
			}
			if ttl != 24*time.Hour {
				t.Errorf("expected 24h TTL, got %v", ttl)
			}
			return "mk_issued", nil
		}
		var lastLoginSet bool
		userRepo.UpdateLastLoginFunc = func(ctx context.Context, id uuid.UUID, at time.Time) error {
			lastLoginSet = true
			return nil
		}

		result, err := svc.Login(ctx, "user@example.com", "right-password", client)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.AccessToken != "mk_issued" {
			t.Errorf("expected issued token, got %q", result.AccessToken)
		}
		if result.TokenType != "bearer" {
			t.Errorf("expected token type bearer, got %q", result.TokenType)
		}
		if result.ExpiresIn != int64((24 * time.Hour).Seconds()) {
			t.Errorf("expected expires_in 86400, got %d", result.ExpiresIn)
		}
		if !lastLoginSet {
			t.Error("expected last_login to be recorded")
		}
		if result.User.LastLogin == nil {
			t.Error("expected LastLogin set on the returned user")
		}
	})

	t.Run("unknown email and wrong password are indistinguishable", func(t *testing.T) {
		svcUnknown, _, _, _ := createAuthServiceForTest(t)
		_, errUnknown := svcUnknown.Login(ctx, "nobody@example.com", "whatever", client)

		svcWrong, userRepo, _, _ := createAuthServiceForTest(t)
		userRepo.FindByEmailFunc = knownUser
		_, errWrong := svcWrong.Login(ctx, "user@example.com", "wrong-password", client)

		if !errors.Is(errUnknown, domain.ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", errUnknown)
		}
		if !errors.Is(errWrong, domain.ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", errWrong)
		}
		if errUnknown.Error() != errWrong.Error() {
			t.Error("both failure modes must produce the identical error")
		}
	})

	t.Run("last_login failure does not fail the login", func(t *testing.T) {
		svc, userRepo, _, _ := createAuthServiceForTest(t)
		userRepo.FindByEmailFunc = knownUser
		userRepo.UpdateLastLoginFunc = func(ctx context.Context, id uuid.UUID, at time.Time) error {
			return errors.New("database is down")
		}

		result, err := svc.Login(ctx, "user@example.com", "right-password", client)
		if err != nil {
			t.Fatalf("expected login to succeed, got %v", err)
		}
		if result.AccessToken == "" {
			t.Error("expected a token despite last_login failure")
		}
	})

	t.Run("token issue failure fails the login", func(t *testing.T) {
		svc, userRepo, _, tokenSvc := createAuthServiceForTest(t)
		userRepo.FindByEmailFunc = knownUser
		tokenSvc.IssueFunc = func(ctx context.Context, id uuid.UUID, c domain.ClientInfo, ttl time.Duration) (string, error) {
			return "", errors.New("database is down")
		}

		if _, err := svc.Login(ctx, "user@example.com", "right-password", client); err == nil {
			t.Fatal("expected an error when token issuance fails")
		}
	})
}

func TestAuthServiceImpl_Logout(t *testing.T) {
	ctx := context.Background()

	t.Run("revokes the presented token", func(t *testing.T) {
		svc, _, _, tokenSvc := createAuthServiceForTest(t)
		var revoked string
		tokenSvc.RevokeFunc = func(ctx context.Context, plaintext string) (bool, error) {
			revoked = plaintext
			return true, nil
		}

		if err := svc.Logout(ctx, "mk_sometoken"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if revoked != "mk_sometoken" {
			t.Errorf("expected mk_sometoken revoked, got %q", revoked)
		}
	})

	t.Run("unknown token is not an error", func(t *testing.T) {
		svc, _, _, tokenSvc := createAuthServiceForTest(t)
		tokenSvc.RevokeFunc = func(ctx context.Context, plaintext string) (bool, error) {
			return false, nil
		}

		if err := svc.Logout(ctx, "mk_never-issued"); err != nil {
			t.Fatalf("logout must be idempotent, got %v", err)
		}
	})
}

func TestAuthServiceImpl_LogoutAll(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	svc, _, _, tokenSvc := createAuthServiceForTest(t)
	tokenSvc.RevokeAllFunc = func(ctx context.Context, id uuid.UUID) (int64, error) {
		if id != userID {
			t.Errorf("expected revoke-all for %s, got %s", userID, id)
		}
		return 4, nil
	}

	count, err := svc.LogoutAll(ctx, userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 4 {
		t.Errorf("expected 4 revoked tokens, got %d", count)
	}
}

func TestAuthServiceImpl_ResetPassword(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("rehashes and stores the new password", func(t *testing.T) {
		svc, userRepo, _, tokenSvc := createAuthServiceForTest(t)
		userRepo.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.User, error) {
			return &domain.User{ID: id, Email: "user@example.com"}, nil
		}
		var storedHash string
		userRepo.UpdatePasswordFunc = func(ctx context.Context, id uuid.UUID, passwordHash string) error {
			storedHash = passwordHash
			return nil
		}
		var revokedAll bool
		tokenSvc.RevokeAllFunc = func(ctx context.Context, id uuid.UUID) (int64, error) {
			revokedAll = true
			return 0, nil
		}

		if err := svc.ResetPassword(ctx, userID, "NewSecret123!"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if storedHash != "hashed_NewSecret123!" {
			t.Errorf("expected the hashed password stored, got %q", storedHash)
		}
		// Sessions survive a password reset; LogoutAll is a separate call.
		if revokedAll {
			t.Error("reset must not revoke existing tokens")
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		svc, _, _, _ := createAuthServiceForTest(t)

		if err := svc.ResetPassword(ctx, userID, "NewSecret123!"); !errors.Is(err, domain.ErrUserNotFound) {
			t.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})
}

func TestAuthServiceImpl_GetUserProfile(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	svc, userRepo, _, _ := createAuthServiceForTest(t)
	userRepo.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.User, error) {
		return &domain.User{ID: id, Email: "me@example.com", Role: domain.RoleCustomer}, nil
	}

	user, err := svc.GetUserProfile(ctx, userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != userID {
		t.Errorf("expected user %s, got %s", userID, user.ID)
	}
}
