package handler

import (
	"github.com/gofiber/fiber/v2"

	"customize-api/internal/domain"
	"customize-api/internal/service"
)

type Handlers struct {
	Auth      *AuthHandler
	Changeset *ChangesetHandler
	Setting   *SettingHandler
	Customize *CustomizeHandler
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Auth:      NewAuthHandler(services.Auth),
		Changeset: NewChangesetHandler(services.Changeset),
		Setting:   NewSettingHandler(services.Customize),
		Customize: NewCustomizeHandler(services.Customize),
	}
}

func getPaginationParams(c *fiber.Ctx) domain.PaginationParams {
	params := domain.DefaultPagination()
	if err := c.QueryParser(&params); err != nil {
		return domain.DefaultPagination()
	}
	params.Validate()
	return params
}
