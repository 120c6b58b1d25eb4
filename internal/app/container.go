package app

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/you/marketauth/domain"
	"github.com/you/marketauth/internal/config"
	"github.com/you/marketauth/internal/infrastructure/auth"
	"github.com/you/marketauth/internal/infrastructure/database"
	"github.com/you/marketauth/internal/infrastructure/notifications"
	"github.com/you/marketauth/internal/infrastructure/repositories"
	"github.com/you/marketauth/internal/services"
)

// Container holds all dependencies. Connections are constructed once here
// and passed to components explicitly; there are no package-level clients.
type Container struct {
	Config *config.Config
	Logger *zap.Logger

	// Infrastructure
	DB          *gorm.DB
	RedisClient *redis.Client
	Casbin      *auth.CasbinService

	// Repositories
	UserRepo  domain.UserRepository
	TokenRepo domain.TokenRepository
	OTPRepo   domain.OTPRepository

	// Services
	PasswordSvc     domain.PasswordService
	TokenSvc        domain.TokenService
	NotificationSvc domain.NotificationService
	OTPSvc          domain.OTPService
	AuthSvc         domain.AuthService
	PolicySvc       domain.PolicyService
}

// NewContainer creates and initializes all dependencies
func NewContainer(cfg *config.Config, logger *zap.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}

	gdb, err := database.Open(cfg.DSN)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(gdb); err != nil {
		return nil, err
	}
	c.DB = gdb

	rdb := database.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err := rdb.Ping(context.Background()); err != nil {
		return nil, err
	}
	c.RedisClient = rdb.Client

	cas, err := auth.NewCasbinService(gdb, cfg.CasbinModelPath)
	if err != nil {
		return nil, err
	}
	c.Casbin = cas

	c.initRepositories()
	c.initServices()

	return c, nil
}

func (c *Container) initRepositories() {
	c.UserRepo = repositories.NewUserRepository(c.DB)
	c.TokenRepo = repositories.NewTokenRepository(c.DB)
	c.OTPRepo = repositories.NewOTPRepository(c.DB)
}

func (c *Container) initServices() {
	c.PasswordSvc = auth.NewPasswordService()
	c.TokenSvc = services.NewTokenService(c.TokenRepo, c.UserRepo, c.Logger)
	c.NotificationSvc = notifications.NewSMTPService(notifications.SMTPConfig{
		Host:            c.Config.SMTPHost,
		Port:            c.Config.SMTPPort,
		Username:        c.Config.SMTPUsername,
		Password:        c.Config.SMTPPassword,
		FromEmail:       c.Config.SMTPFromEmail,
		FromName:        c.Config.SMTPFromName,
		OTPExpiry:       c.Config.OTP_TTL,
		LenientDelivery: !c.Config.IsProduction(),
	}, c.Logger)

	c.OTPSvc = services.NewOTPService(c.NotificationSvc, c.OTPRepo, c.RedisClient, services.OTPConfig{
		Length:      c.Config.OTP_Length,
		TTL:         c.Config.OTP_TTL,
		MaxAttempts: c.Config.OTP_MaxAttempts,
	}, c.Logger)

	c.AuthSvc = services.NewAuthService(c.UserRepo, c.PasswordSvc, c.TokenSvc, c.Config.TokenTTL, c.Logger)
	c.PolicySvc = services.NewPolicyService(c.Casbin.E)
}

// Close closes all connections
func (c *Container) Close() error {
	if c.RedisClient != nil {
		c.RedisClient.Close()
	}

	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}

	return nil
}
