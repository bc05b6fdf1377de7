package handler

import (
	"github.com/gofiber/fiber/v2"

	"customize-api/internal/middleware"
	"customize-api/internal/service/customize"
)

// CustomizeHandler serves the read-only metadata tree: panels, sections,
// controls and partials.
type CustomizeHandler struct {
	customizeService customize.Service
}

func NewCustomizeHandler(customizeService customize.Service) *CustomizeHandler {
	return &CustomizeHandler{customizeService: customizeService}
}

func (h *CustomizeHandler) ListPanels(c *fiber.Ctx) error {
	return c.JSON(h.customizeService.ListPanels(middleware.GetCurrentUser(c)))
}

func (h *CustomizeHandler) GetPanel(c *fiber.Ctx) error {
	resp, err := h.customizeService.GetPanel(middleware.GetCurrentUser(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

func (h *CustomizeHandler) ListSections(c *fiber.Ctx) error {
	return c.JSON(h.customizeService.ListSections(middleware.GetCurrentUser(c)))
}

func (h *CustomizeHandler) GetSection(c *fiber.Ctx) error {
	resp, err := h.customizeService.GetSection(middleware.GetCurrentUser(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

func (h *CustomizeHandler) ListControls(c *fiber.Ctx) error {
	return c.JSON(h.customizeService.ListControls(middleware.GetCurrentUser(c)))
}

func (h *CustomizeHandler) GetControl(c *fiber.Ctx) error {
	resp, err := h.customizeService.GetControl(middleware.GetCurrentUser(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

func (h *CustomizeHandler) ListPartials(c *fiber.Ctx) error {
	return c.JSON(h.customizeService.ListPartials(middleware.GetCurrentUser(c)))
}

func (h *CustomizeHandler) GetPartial(c *fiber.Ctx) error {
	resp, err := h.customizeService.GetPartial(middleware.GetCurrentUser(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
