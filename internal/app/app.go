package app

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/you/marketauth/internal/config"
	httpx "github.com/you/marketauth/internal/http"
	"github.com/you/marketauth/internal/http/handlers"
	"github.com/you/marketauth/internal/http/middleware"
)

func Run(cfg *config.Config) error {
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	c, err := NewContainer(cfg, logger)
	if err != nil {
		return err
	}
	defer c.Close()

	authH := handlers.NewAuthHandlers(c.AuthSvc, c.OTPSvc, c.UserRepo, !cfg.IsProduction())
	polH := handlers.NewPolicyHandlers(c.PolicySvc)
	authMW := middleware.NewAuthMW(c.TokenSvc)
	casbinMW := middleware.NewCasbinMW(c.Casbin.E)

	r := httpx.BuildRouter(authH, polH, authMW, casbinMW)

	seedDefaultPolicies(c, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go runJanitor(ctx, c, logger)

	addr := ":" + cfg.Port
	logger.Info("listening", zap.String("addr", addr))
	return http.ListenAndServe(addr, r)
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// seedDefaultPolicies installs the baseline role policies on first boot
func seedDefaultPolicies(c *Container, logger *zap.Logger) {
	policies, _ := c.Casbin.E.GetPolicy()
	if len(policies) > 0 {
		return
	}

	for _, role := range []string{"role_customer", "role_business_owner", "role_admin"} {
		c.Casbin.E.AddPolicy(role, "/api/v1/auth/me", "GET")
		c.Casbin.E.AddPolicy(role, "/api/v1/auth/logout", "POST")
		c.Casbin.E.AddPolicy(role, "/api/v1/auth/logout-all", "POST")
	}
	c.Casbin.E.AddPolicy("role_admin", "/api/v1/admin/*", "(GET|POST|PUT|DELETE)")
	if err := c.Casbin.E.SavePolicy(); err != nil {
		logger.Warn("failed to persist seeded policies", zap.Error(err))
		return
	}
	logger.Info("casbin: seeded default policies")
}

// runJanitor sweeps expired tokens and OTP audit rows off the request path
func runJanitor(ctx context.Context, c *Container, logger *zap.Logger) {
	ticker := time.NewTicker(c.Config.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if count, err := c.TokenSvc.SweepExpired(ctx); err != nil {
				logger.Error("token sweep failed", zap.Error(err))
			} else if count > 0 {
				logger.Info("swept expired tokens", zap.Int64("count", count))
			}

			if _, err := c.OTPSvc.CleanupExpired(ctx); err != nil {
				logger.Error("otp cleanup failed", zap.Error(err))
			}
		}
	}
}
