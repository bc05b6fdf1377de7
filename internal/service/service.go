package service

import (
	"github.com/redis/go-redis/v9"

	"customize-api/internal/config"
	"customize-api/internal/registry"
	"customize-api/internal/repository"
	"customize-api/internal/service/auth"
	"customize-api/internal/service/changeset"
	"customize-api/internal/service/customize"
	"customize-api/internal/service/email"
)

type Services struct {
	Auth      auth.Service
	Email     email.Service
	Changeset changeset.Service
	Customize customize.Service
}

func NewServices(repos *repository.Repositories, reg *registry.Registry, redisClient *redis.Client, cfg *config.Config) *Services {
	caps := registry.NewRoleChecker()

	authService := auth.NewService(repos.User, cfg)
	emailService := email.NewService(cfg)
	changesetService := changeset.NewService(
		repos.Changeset,
		repos.Option,
		repos.User,
		repos.AuditLog,
		reg,
		caps,
		emailService,
		redisClient,
	)
	customizeService := customize.NewService(repos.Option, repos.AuditLog, reg, caps, redisClient)

	return &Services{
		Auth:      authService,
		Email:     emailService,
		Changeset: changesetService,
		Customize: customizeService,
	}
}
