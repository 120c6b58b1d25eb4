package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/you/marketauth/domain"
)

// OTPRepositoryImpl implements domain.OTPRepository using GORM. These rows
// are the audit trail only; the cache entry decides verification outcomes.
type OTPRepositoryImpl struct {
	db *gorm.DB
}

// DBOneTimePasscode represents the database model for OneTimePasscode
type DBOneTimePasscode struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null"`
	User      DBUser    `gorm:"constraint:OnDelete:CASCADE"`
	Code      string    `gorm:"size:10;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
	IsUsed    bool      `gorm:"not null;default:false"`
	Attempts  int       `gorm:"not null;default:0"`
	UsedAt    *time.Time
	CreatedAt time.Time
}

// TableName returns the table name for GORM
func (DBOneTimePasscode) TableName() string {
	return "one_time_passcodes"
}

// BeforeCreate assigns a UUID primary key when none is set
func (o *DBOneTimePasscode) BeforeCreate(*gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// NewOTPRepository creates a new OTP audit repository
func NewOTPRepository(db *gorm.DB) domain.OTPRepository {
	return &OTPRepositoryImpl{db: db}
}

// Insert implements domain.OTPRepository
func (r *OTPRepositoryImpl) Insert(ctx context.Context, otp *domain.OneTimePasscode) error {
	dbOTP := &DBOneTimePasscode{
		ID:        otp.ID,
		UserID:    otp.UserID,
		Code:      otp.Code,
		ExpiresAt: otp.ExpiresAt,
		IsUsed:    otp.IsUsed,
		Attempts:  otp.Attempts,
	}
	if err := r.db.WithContext(ctx).Create(dbOTP).Error; err != nil {
		return err
	}
	otp.ID = dbOTP.ID
	otp.CreatedAt = dbOTP.CreatedAt
	return nil
}

// FindActiveByUser implements domain.OTPRepository; returns the most recent
// unused, unexpired row for the user.
func (r *OTPRepositoryImpl) FindActiveByUser(ctx context.Context, userID uuid.UUID) (*domain.OneTimePasscode, error) {
	var dbOTP DBOneTimePasscode
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_used = ? AND expires_at > ?", userID, false, time.Now()).
		Order("created_at DESC").
		First(&dbOTP).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrOTPNotFound
		}
		return nil, err
	}
	return &domain.OneTimePasscode{
		ID:        dbOTP.ID,
		UserID:    dbOTP.UserID,
		Code:      dbOTP.Code,
		ExpiresAt: dbOTP.ExpiresAt,
		IsUsed:    dbOTP.IsUsed,
		Attempts:  dbOTP.Attempts,
		UsedAt:    dbOTP.UsedAt,
		CreatedAt: dbOTP.CreatedAt,
	}, nil
}

// IncrementAttempts implements domain.OTPRepository
func (r *OTPRepositoryImpl) IncrementAttempts(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&DBOneTimePasscode{}).Where("id = ?", id).
		UpdateColumn("attempts", gorm.Expr("attempts + 1")).Error
}

// MarkUsed implements domain.OTPRepository
func (r *OTPRepositoryImpl) MarkUsed(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&DBOneTimePasscode{}).Where("id = ?", id).
		Updates(map[string]interface{}{"is_used": true, "used_at": now}).Error
}

// DeleteExpired implements domain.OTPRepository; removes unused rows past
// expiry. The cache self-expires and needs no sweep.
func (r *OTPRepositoryImpl) DeleteExpired(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("is_used = ? AND expires_at <= ?", false, time.Now()).
		Delete(&DBOneTimePasscode{})
	return res.RowsAffected, res.Error
}
