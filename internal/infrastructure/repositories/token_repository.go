package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/you/marketauth/domain"
)

// TokenRepositoryImpl implements domain.TokenRepository using GORM
type TokenRepositoryImpl struct {
	db *gorm.DB
}

// DBAccessToken represents the database model for AccessToken. The
// token_hash column holds the SHA-256 hex digest; plaintext is never stored.
type DBAccessToken struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null"`
	User      DBUser    `gorm:"constraint:OnDelete:CASCADE"`
	TokenHash string    `gorm:"uniqueIndex;size:64;not null"`
	IPAddress *string   `gorm:"size:45"`
	UserAgent *string   `gorm:"size:512"`
	ExpiresAt time.Time `gorm:"index;not null"`
	CreatedAt time.Time
}

// TableName returns the table name for GORM
func (DBAccessToken) TableName() string {
	return "access_tokens"
}

// BeforeCreate assigns a UUID primary key when none is set
func (t *DBAccessToken) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// NewTokenRepository creates a new access token repository
func NewTokenRepository(db *gorm.DB) domain.TokenRepository {
	return &TokenRepositoryImpl{db: db}
}

// Insert implements domain.TokenRepository
func (r *TokenRepositoryImpl) Insert(ctx context.Context, token *domain.AccessToken) error {
	dbToken := &DBAccessToken{
		ID:        token.ID,
		UserID:    token.UserID,
		TokenHash: token.TokenHash,
		IPAddress: token.IPAddress,
		UserAgent: token.UserAgent,
		ExpiresAt: token.ExpiresAt,
	}
	if err := r.db.WithContext(ctx).Create(dbToken).Error; err != nil {
		return err
	}
	token.ID = dbToken.ID
	token.CreatedAt = dbToken.CreatedAt
	return nil
}

// FindActiveByHash implements domain.TokenRepository. Records whose expiry
// has passed are invalid even before the sweeper removes them.
func (r *TokenRepositoryImpl) FindActiveByHash(ctx context.Context, tokenHash string) (*domain.AccessToken, error) {
	var dbToken DBAccessToken
	err := r.db.WithContext(ctx).
		Where("token_hash = ? AND expires_at > ?", tokenHash, time.Now()).
		First(&dbToken).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrTokenInvalid
		}
		return nil, err
	}
	return &domain.AccessToken{
		ID:        dbToken.ID,
		UserID:    dbToken.UserID,
		TokenHash: dbToken.TokenHash,
		IPAddress: dbToken.IPAddress,
		UserAgent: dbToken.UserAgent,
		ExpiresAt: dbToken.ExpiresAt,
		CreatedAt: dbToken.CreatedAt,
	}, nil
}

// DeleteByHash implements domain.TokenRepository; reports whether a record existed
func (r *TokenRepositoryImpl) DeleteByHash(ctx context.Context, tokenHash string) (bool, error) {
	res := r.db.WithContext(ctx).Where("token_hash = ?", tokenHash).Delete(&DBAccessToken{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// DeleteByUser implements domain.TokenRepository
func (r *TokenRepositoryImpl) DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&DBAccessToken{})
	return res.RowsAffected, res.Error
}

// DeleteExpired implements domain.TokenRepository
func (r *TokenRepositoryImpl) DeleteExpired(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at <= ?", time.Now()).Delete(&DBAccessToken{})
	return res.RowsAffected, res.Error
}
