package handler

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"customize-api/internal/middleware"
	"customize-api/internal/service/customize"
)

type SettingHandler struct {
	customizeService customize.Service
}

func NewSettingHandler(customizeService customize.Service) *SettingHandler {
	return &SettingHandler{customizeService: customizeService}
}

func (h *SettingHandler) List(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)

	settings, err := h.customizeService.ListSettings(c.Context(), user)
	if err != nil {
		return err
	}
	return c.JSON(settings)
}

func (h *SettingHandler) Get(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)

	resp, err := h.customizeService.GetSetting(c.Context(), user, settingID(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Update writes a single setting value to the live configuration directly,
// without going through a changeset.
func (h *SettingHandler) Update(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)

	var body struct {
		Value any `json:"value"`
	}
	if err := c.BodyParser(&body); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	resp, err := h.customizeService.UpdateSetting(c.Context(), user, settingID(c), body.Value)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// settingID decodes the path segment: dynamic ids such as nav_menu[123]
// arrive URL-encoded.
func settingID(c *fiber.Ctx) string {
	raw := c.Params("id")
	if id, err := url.PathUnescape(raw); err == nil {
		return id
	}
	return raw
}
