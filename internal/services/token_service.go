package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/you/marketauth/domain"
)

// tokenPrefix identifies marketauth bearer tokens in logs and configs.
const tokenPrefix = "mk_"

// tokenEntropyBytes is the random payload size; 32 bytes gives 256 bits.
const tokenEntropyBytes = 32

const (
	maxIPLength        = 45
	maxUserAgentLength = 512
)

// TokenServiceImpl implements domain.TokenService over durable storage.
// There is no secondary cache for tokens.
type TokenServiceImpl struct {
	tokens domain.TokenRepository
	users  domain.UserRepository
	logger *zap.Logger
}

// NewTokenService creates a new opaque bearer token service
func NewTokenService(tokens domain.TokenRepository, users domain.UserRepository, logger *zap.Logger) domain.TokenService {
	return &TokenServiceImpl{tokens: tokens, users: users, logger: logger}
}

// Issue implements domain.TokenService. The returned plaintext is
// unrecoverable after this call; only its SHA-256 digest is persisted.
func (s *TokenServiceImpl) Issue(ctx context.Context, userID uuid.UUID, client domain.ClientInfo, ttl time.Duration) (string, error) {
	raw := make([]byte, tokenEntropyBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	plaintext := tokenPrefix + base64.RawURLEncoding.EncodeToString(raw)

	record := &domain.AccessToken{
		UserID:    userID,
		TokenHash: hashToken(plaintext),
		IPAddress: truncatePtr(client.IPAddress, maxIPLength),
		UserAgent: truncatePtr(client.UserAgent, maxUserAgentLength),
		ExpiresAt: time.Now().Add(ttl),
	}
	if err := s.tokens.Insert(ctx, record); err != nil {
		return "", fmt.Errorf("failed to store token: %w", err)
	}

	return plaintext, nil
}

// Validate implements domain.TokenService. IP/user-agent mismatches are
// logged for anomaly detection but never block validation.
func (s *TokenServiceImpl) Validate(ctx context.Context, plaintext string, client domain.ClientInfo) (*domain.User, error) {
	record, err := s.tokens.FindActiveByHash(ctx, hashToken(plaintext))
	if err != nil {
		return nil, err
	}

	if record.IPAddress != nil && client.IPAddress != "" && *record.IPAddress != client.IPAddress {
		s.logger.Warn("token presented from different IP",
			zap.String("user_id", record.UserID.String()),
			zap.String("issued_ip", *record.IPAddress),
			zap.String("current_ip", client.IPAddress))
	}
	if record.UserAgent != nil && client.UserAgent != "" && *record.UserAgent != truncate(client.UserAgent, maxUserAgentLength) {
		s.logger.Warn("token presented from different user agent",
			zap.String("user_id", record.UserID.String()))
	}

	user, err := s.users.FindByID(ctx, record.UserID)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return nil, domain.ErrTokenInvalid
		}
		return nil, err
	}
	return user, nil
}

// Revoke implements domain.TokenService; reports whether a record existed
func (s *TokenServiceImpl) Revoke(ctx context.Context, plaintext string) (bool, error) {
	return s.tokens.DeleteByHash(ctx, hashToken(plaintext))
}

// RevokeAll implements domain.TokenService (logout from all devices)
func (s *TokenServiceImpl) RevokeAll(ctx context.Context, userID uuid.UUID) (int64, error) {
	count, err := s.tokens.DeleteByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		s.logger.Info("revoked all tokens for user",
			zap.String("user_id", userID.String()), zap.Int64("count", count))
	}
	return count, nil
}

// SweepExpired implements domain.TokenService; runs off the request path
func (s *TokenServiceImpl) SweepExpired(ctx context.Context) (int64, error) {
	return s.tokens.DeleteExpired(ctx)
}

func hashToken(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}

func truncatePtr(s string, max int) *string {
	if s == "" {
		return nil
	}
	t := truncate(s, max)
	return &t
}
