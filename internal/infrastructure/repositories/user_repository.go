package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/you/marketauth/domain"
)

// UserRepositoryImpl implements domain.UserRepository using GORM
type UserRepositoryImpl struct {
	db *gorm.DB
}

// DBUser represents the database model for User (with GORM tags)
type DBUser struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Email        string     `gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string     `gorm:"size:255;not null"`
	FullName     string     `gorm:"size:100;not null"`
	Phone        *string    `gorm:"uniqueIndex;size:20"`
	Role         string     `gorm:"index;size:32;not null"`
	IsVerified   bool       `gorm:"not null;default:false"`
	Address      *string    `gorm:"size:255"`
	City         *string    `gorm:"size:100"`
	State        *string    `gorm:"size:100"`
	Country      *string    `gorm:"size:100"`
	Picture      *string    `gorm:"size:512"`
	Gender       *string    `gorm:"size:16"`
	LastLogin    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for GORM
func (DBUser) TableName() string {
	return "users"
}

// BeforeCreate assigns a UUID primary key when none is set
func (u *DBUser) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// DBCustomer is the one-to-one profile extension for CUSTOMER users
type DBCustomer struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	User      DBUser    `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}

func (DBCustomer) TableName() string {
	return "customers"
}

func (c *DBCustomer) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// DBBusiness is the one-to-one profile extension for BUSINESS_OWNER users
type DBBusiness struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID           uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	User             DBUser    `gorm:"constraint:OnDelete:CASCADE"`
	HaveSubscription bool      `gorm:"not null;default:false"`
	CreatedAt        time.Time
}

func (DBBusiness) TableName() string {
	return "businesses"
}

func (b *DBBusiness) BeforeCreate(*gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) domain.UserRepository {
	return &UserRepositoryImpl{db: db}
}

// Create implements domain.UserRepository
func (r *UserRepositoryImpl) Create(ctx context.Context, user *domain.User) error {
	dbUser := userToDB(user)
	if err := r.db.WithContext(ctx).Create(dbUser).Error; err != nil {
		return err
	}
	user.ID = dbUser.ID
	user.CreatedAt = dbUser.CreatedAt
	return nil
}

// CreateWithProfile implements domain.UserRepository. The user row and its
// profile-extension row are committed as one transaction so a profile
// insert failure rolls back the user insert.
func (r *UserRepositoryImpl) CreateWithProfile(ctx context.Context, user *domain.User, customer *domain.CustomerProfile, business *domain.BusinessProfile) error {
	dbUser := userToDB(user)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(dbUser).Error; err != nil {
			return err
		}
		if customer != nil {
			if err := tx.Create(&DBCustomer{UserID: dbUser.ID}).Error; err != nil {
				return err
			}
		}
		if business != nil {
			if err := tx.Create(&DBBusiness{UserID: dbUser.ID, HaveSubscription: business.HaveSubscription}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	user.ID = dbUser.ID
	user.CreatedAt = dbUser.CreatedAt
	return nil
}

// FindByEmail implements domain.UserRepository
func (r *UserRepositoryImpl) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&dbUser).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return dbToUser(&dbUser), nil
}

// FindByPhone implements domain.UserRepository
func (r *UserRepositoryImpl) FindByPhone(ctx context.Context, phone string) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).Where("phone = ?", phone).First(&dbUser).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return dbToUser(&dbUser), nil
}

// FindByID implements domain.UserRepository
func (r *UserRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dbUser).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return dbToUser(&dbUser), nil
}

// UpdatePassword implements domain.UserRepository
func (r *UserRepositoryImpl) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return r.db.WithContext(ctx).Model(&DBUser{}).Where("id = ?", id).
		Update("password_hash", passwordHash).Error
}

// UpdateLastLogin implements domain.UserRepository
func (r *UserRepositoryImpl) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).Model(&DBUser{}).Where("id = ?", id).
		Update("last_login", at).Error
}

// MarkVerified implements domain.UserRepository
func (r *UserRepositoryImpl) MarkVerified(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&DBUser{}).Where("id = ?", id).
		Update("is_verified", true).Error
}

func userToDB(user *domain.User) *DBUser {
	return &DBUser{
		ID:           user.ID,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		FullName:     user.FullName,
		Phone:        user.Phone,
		Role:         user.Role,
		IsVerified:   user.IsVerified,
		Address:      user.Address,
		City:         user.City,
		State:        user.State,
		Country:      user.Country,
		Picture:      user.Picture,
		Gender:       user.Gender,
		LastLogin:    user.LastLogin,
	}
}

func dbToUser(dbUser *DBUser) *domain.User {
	return &domain.User{
		ID:           dbUser.ID,
		Email:        dbUser.Email,
		PasswordHash: dbUser.PasswordHash,
		FullName:     dbUser.FullName,
		Phone:        dbUser.Phone,
		Role:         dbUser.Role,
		IsVerified:   dbUser.IsVerified,
		Address:      dbUser.Address,
		City:         dbUser.City,
		State:        dbUser.State,
		Country:      dbUser.Country,
		Picture:      dbUser.Picture,
		Gender:       dbUser.Gender,
		LastLogin:    dbUser.LastLogin,
		CreatedAt:    dbUser.CreatedAt,
		UpdatedAt:    dbUser.UpdatedAt,
	}
}
