package services

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/you/marketauth/domain"
)

// OTPConfig holds one-time passcode tuning knobs
type OTPConfig struct {
	Length      int
	TTL         time.Duration
	MaxAttempts int
}

// OTPServiceImpl implements domain.OTPService with dual storage: the Redis
// entry is the source of truth for verification; a durable audit row is
// written best-effort and never decides an outcome.
type OTPServiceImpl struct {
	notificationSvc domain.NotificationService
	auditRepo       domain.OTPRepository
	redisClient     *redis.Client
	config          OTPConfig
	logger          *zap.Logger
}

// NewOTPService creates a new Redis-backed OTP service
func NewOTPService(notificationSvc domain.NotificationService, auditRepo domain.OTPRepository, redisClient *redis.Client, config OTPConfig, logger *zap.Logger) domain.OTPService {
	return &OTPServiceImpl{
		notificationSvc: notificationSvc,
		auditRepo:       auditRepo,
		redisClient:     redisClient,
		config:          config,
		logger:          logger,
	}
}

func otpKey(userID uuid.UUID) string {
	return fmt.Sprintf("otp:%s", userID)
}

// CreateAndSend implements domain.OTPService. Writing the cache entry at
// the user's key supersedes any prior active code (last write wins; at most
// one active code per user). The audit-row write is best-effort and a
// failure there never rolls back the cache write.
func (s *OTPServiceImpl) CreateAndSend(ctx context.Context, userID uuid.UUID, email, purpose string) error {
	code, err := s.generateSecureCode()
	if err != nil {
		return fmt.Errorf("failed to generate OTP code: %w", err)
	}

	now := time.Now()
	entry := domain.OTPEntry{
		Code:      code,
		Attempts:  0,
		CreatedAt: now,
		Purpose:   purpose,
	}
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal OTP entry: %w", err)
	}

	if err := s.redisClient.Set(ctx, otpKey(userID), payload, s.config.TTL).Err(); err != nil {
		return fmt.Errorf("failed to store OTP in cache: %w", err)
	}

	audit := &domain.OneTimePasscode{
		UserID:    userID,
		Code:      code,
		ExpiresAt: now.Add(s.config.TTL),
	}
	if err := s.auditRepo.Insert(ctx, audit); err != nil {
		s.logger.Error("failed to store OTP audit row",
			zap.String("user_id", userID.String()), zap.Error(err))
	}

	if purpose == domain.OTPPurposePasswordReset {
		err = s.notificationSvc.SendPasswordResetEmail(email, code)
	} else {
		err = s.notificationSvc.SendOTPEmail(email, code)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrOTPDeliveryFailed, err)
	}

	s.logger.Info("OTP created and sent",
		zap.String("user_id", userID.String()), zap.String("purpose", purpose))
	return nil
}

// Verify implements domain.OTPService. A matching code is single-use: the
// cache entry is deleted on success. Mismatches re-write the entry with its
// remaining TTL (KeepTTL), so the expiry window decays naturally.
func (s *OTPServiceImpl) Verify(ctx context.Context, userID uuid.UUID, code string) error {
	key := otpKey(userID)

	payload, err := s.redisClient.Get(ctx, key).Result()
	if err == redis.Nil {
		return domain.ErrOTPNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to read OTP from cache: %w", err)
	}

	var entry domain.OTPEntry
	if err := json.Unmarshal([]byte(payload), &entry); err != nil {
		return fmt.Errorf("failed to unmarshal OTP entry: %w", err)
	}

	if entry.Attempts >= s.config.MaxAttempts {
		s.redisClient.Del(ctx, key)
		return domain.ErrOTPMaxAttempts
	}

	if entry.Code != code {
		entry.Attempts++
		updated, err := json.Marshal(entry)
		if err == nil {
			if err := s.redisClient.Set(ctx, key, updated, redis.KeepTTL).Err(); err != nil {
				s.logger.Error("failed to record OTP attempt in cache",
					zap.String("user_id", userID.String()), zap.Error(err))
			}
		}
		s.bumpAuditAttempts(ctx, userID)
		return domain.ErrOTPInvalid
	}

	s.markAuditUsed(ctx, userID)

	if err := s.redisClient.Del(ctx, key).Err(); err != nil {
		s.logger.Error("failed to delete OTP cache entry after use",
			zap.String("user_id", userID.String()), zap.Error(err))
	}

	s.logger.Info("OTP verified", zap.String("user_id", userID.String()))
	return nil
}

// CleanupExpired implements domain.OTPService; durable-store-only sweep.
func (s *OTPServiceImpl) CleanupExpired(ctx context.Context) (int64, error) {
	count, err := s.auditRepo.DeleteExpired(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		s.logger.Info("cleaned up expired OTP audit rows", zap.Int64("count", count))
	}
	return count, nil
}

// bumpAuditAttempts mirrors a failed attempt onto the audit row; failures
// here are logged only.
func (s *OTPServiceImpl) bumpAuditAttempts(ctx context.Context, userID uuid.UUID) {
	active, err := s.auditRepo.FindActiveByUser(ctx, userID)
	if err != nil {
		if err != domain.ErrOTPNotFound {
			s.logger.Error("failed to load OTP audit row",
				zap.String("user_id", userID.String()), zap.Error(err))
		}
		return
	}
	if err := s.auditRepo.IncrementAttempts(ctx, active.ID); err != nil {
		s.logger.Error("failed to increment OTP audit attempts",
			zap.String("user_id", userID.String()), zap.Error(err))
	}
}

// markAuditUsed marks the audit row consumed; failures are logged only.
func (s *OTPServiceImpl) markAuditUsed(ctx context.Context, userID uuid.UUID) {
	active, err := s.auditRepo.FindActiveByUser(ctx, userID)
	if err != nil {
		if err != domain.ErrOTPNotFound {
			s.logger.Error("failed to load OTP audit row",
				zap.String("user_id", userID.String()), zap.Error(err))
		}
		return
	}
	if err := s.auditRepo.MarkUsed(ctx, active.ID); err != nil {
		s.logger.Error("failed to mark OTP audit row used",
			zap.String("user_id", userID.String()), zap.Error(err))
	}
}

// generateSecureCode draws each digit independently from crypto/rand
func (s *OTPServiceImpl) generateSecureCode() (string, error) {
	digits := make([]byte, s.config.Length)

	for i := 0; i < s.config.Length; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate random digit: %w", err)
		}
		digits[i] = byte('0' + num.Int64())
	}

	return string(digits), nil
}
