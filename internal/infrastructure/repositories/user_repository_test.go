package repositories

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/you/marketauth/domain"
)

// setupTestDB opens an isolated in-memory database with the full schema
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&DBUser{}, &DBCustomer{}, &DBBusiness{}, &DBAccessToken{}, &DBOneTimePasscode{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
	})
	return db
}

func newTestUser(email string) *domain.User {
	return &domain.User{
		Email:        email,
		PasswordHash: "$2a$12$abcdefghijklmnopqrstuv",
		FullName:     "Test User",
		Role:         domain.RoleCustomer,
	}
}

func TestUserRepositoryImpl_Create(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(setupTestDB(t))

	user := newTestUser("create@example.com")
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if user.ID == uuid.Nil {
		t.Error("expected a generated UUID primary key")
	}
	if user.CreatedAt.IsZero() {
		t.Error("expected created_at to be populated")
	}

	// The email column is unique.
	if err := repo.Create(ctx, newTestUser("create@example.com")); err == nil {
		t.Error("expected duplicate email insert to fail")
	}
}

func TestUserRepositoryImpl_CreateWithProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("customer gets a customer row", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserRepository(db)

		user := newTestUser("customer@example.com")
		if err := repo.CreateWithProfile(ctx, user, &domain.CustomerProfile{}, nil); err != nil {
			t.Fatalf("CreateWithProfile failed: %v", err)
		}

		var customer DBCustomer
		if err := db.Where("user_id = ?", user.ID).First(&customer).Error; err != nil {
			t.Fatalf("expected a customer row: %v", err)
		}
	})

	t.Run("business owner row carries the subscription flag", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserRepository(db)

		user := newTestUser("owner@example.com")
		user.Role = domain.RoleBusinessOwner
		if err := repo.CreateWithProfile(ctx, user, nil, &domain.BusinessProfile{HaveSubscription: true}); err != nil {
			t.Fatalf("CreateWithProfile failed: %v", err)
		}

		var business DBBusiness
		if err := db.Where("user_id = ?", user.ID).First(&business).Error; err != nil {
			t.Fatalf("expected a business row: %v", err)
		}
		if !business.HaveSubscription {
			t.Error("expected have_subscription true")
		}
	})

	t.Run("admin gets no extension row", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserRepository(db)

		user := newTestUser("admin@example.com")
		user.Role = domain.RoleAdmin
		if err := repo.CreateWithProfile(ctx, user, nil, nil); err != nil {
			t.Fatalf("CreateWithProfile failed: %v", err)
		}

		var count int64
		db.Model(&DBCustomer{}).Count(&count)
		if count != 0 {
			t.Error("expected no customer rows")
		}
		db.Model(&DBBusiness{}).Count(&count)
		if count != 0 {
			t.Error("expected no business rows")
		}
	})

	t.Run("duplicate email rolls back both rows", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserRepository(db)

		first := newTestUser("taken@example.com")
		if err := repo.CreateWithProfile(ctx, first, &domain.CustomerProfile{}, nil); err != nil {
			t.Fatalf("first CreateWithProfile failed: %v", err)
		}

		second := newTestUser("taken@example.com")
		if err := repo.CreateWithProfile(ctx, second, &domain.CustomerProfile{}, nil); err == nil {
			t.Fatal("expected duplicate email insert to fail")
		}

		var users, customers int64
		db.Model(&DBUser{}).Count(&users)
		db.Model(&DBCustomer{}).Count(&customers)
		if users != 1 || customers != 1 {
			t.Errorf("expected exactly one user and one profile row, got %d/%d", users, customers)
		}
	})
}

func TestUserRepositoryImpl_Find(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(setupTestDB(t))

	phone := "+15550100"
	user := newTestUser("find@example.com")
	user.Phone = &phone
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	t.Run("by email", func(t *testing.T) {
		found, err := repo.FindByEmail(ctx, "find@example.com")
		if err != nil {
			t.Fatalf("FindByEmail failed: %v", err)
		}
		if found.ID != user.ID {
			t.Errorf("expected %s, got %s", user.ID, found.ID)
		}
	})

	t.Run("by phone", func(t *testing.T) {
		found, err := repo.FindByPhone(ctx, phone)
		if err != nil {
			t.Fatalf("FindByPhone failed: %v", err)
		}
		if found.ID != user.ID {
			t.Errorf("expected %s, got %s", user.ID, found.ID)
		}
	})

	t.Run("by id", func(t *testing.T) {
		found, err := repo.FindByID(ctx, user.ID)
		if err != nil {
			t.Fatalf("FindByID failed: %v", err)
		}
		if found.Email != user.Email {
			t.Errorf("expected %s, got %s", user.Email, found.Email)
		}
	})

	t.Run("misses map to ErrUserNotFound", func(t *testing.T) {
		if _, err := repo.FindByEmail(ctx, "nobody@example.com"); !errors.Is(err, domain.ErrUserNotFound) {
			t.Errorf("FindByEmail: expected ErrUserNotFound, got %v", err)
		}
		if _, err := repo.FindByPhone(ctx, "+15559999"); !errors.Is(err, domain.ErrUserNotFound) {
			t.Errorf("FindByPhone: expected ErrUserNotFound, got %v", err)
		}
		if _, err := repo.FindByID(ctx, uuid.New()); !errors.Is(err, domain.ErrUserNotFound) {
			t.Errorf("FindByID: expected ErrUserNotFound, got %v", err)
		}
	})
}

func TestUserRepositoryImpl_Updates(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(setupTestDB(t))

	user := newTestUser("update@example.com")
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	t.Run("UpdatePassword", func(t *testing.T) {
		if err := repo.UpdatePassword(ctx, user.ID, "$2a$12$newhash"); err != nil {
			t.Fatalf("UpdatePassword failed: %v", err)
		}
		found, _ := repo.FindByID(ctx, user.ID)
		if found.PasswordHash != "$2a$12$newhash" {
			t.Errorf("expected new hash stored, got %q", found.PasswordHash)
		}
	})

	t.Run("UpdateLastLogin", func(t *testing.T) {
		at := time.Now().Truncate(time.Second)
		if err := repo.UpdateLastLogin(ctx, user.ID, at); err != nil {
			t.Fatalf("UpdateLastLogin failed: %v", err)
		}
		found, _ := repo.FindByID(ctx, user.ID)
		if found.LastLogin == nil || !found.LastLogin.Equal(at) {
			t.Errorf("expected last_login %v, got %v", at, found.LastLogin)
		}
	})

	t.Run("MarkVerified", func(t *testing.T) {
		if err := repo.MarkVerified(ctx, user.ID); err != nil {
			t.Fatalf("MarkVerified failed: %v", err)
		}
		found, _ := repo.FindByID(ctx, user.ID)
		if !found.IsVerified {
			t.Error("expected is_verified true")
		}
	})
}
