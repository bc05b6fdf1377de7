package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"customize-api/internal/domain"
	"customize-api/internal/middleware"
	"customize-api/internal/service/changeset"
)

type ChangesetHandler struct {
	changesetService changeset.Service
}

func NewChangesetHandler(changesetService changeset.Service) *ChangesetHandler {
	return &ChangesetHandler{changesetService: changesetService}
}

func (h *ChangesetHandler) List(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	params := getPaginationParams(c)

	filter := domain.ChangesetFilter{
		Search:  c.Query("search"),
		OrderBy: c.Query("orderby"),
		Order:   c.Query("order"),
	}
	if author := c.Query("author"); author != "" {
		id, err := uuid.Parse(author)
		if err != nil {
			return middleware.BadRequest("Invalid author id")
		}
		filter.Author = &id
	}
	if exclude := c.Query("author_exclude"); exclude != "" {
		id, err := uuid.Parse(exclude)
		if err != nil {
			return middleware.BadRequest("Invalid author_exclude id")
		}
		filter.AuthorExclude = &id
	}
	if statuses := c.Query("status"); statuses != "" {
		for _, raw := range strings.Split(statuses, ",") {
			st := domain.ChangesetStatus(strings.TrimSpace(raw))
			if !st.IsValid() {
				return middleware.BadRequest("Invalid status filter: " + string(st))
			}
			filter.Statuses = append(filter.Statuses, st)
		}
	}

	result, err := h.changesetService.List(c.Context(), user, filter, params)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

func (h *ChangesetHandler) Get(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)

	resp, err := h.changesetService.Get(c.Context(), user, c.Params("uuid"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

func (h *ChangesetHandler) Create(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)

	var input domain.SaveChangesetInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	resp, created, err := h.changesetService.Save(c.Context(), user, input)
	if err != nil {
		return err
	}
	if created {
		return c.Status(fiber.StatusCreated).JSON(resp)
	}
	return c.JSON(resp)
}

// Update is update-or-create-if-absent: saving to an unseen uuid creates the
// changeset and answers 201.
func (h *ChangesetHandler) Update(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)

	var input domain.SaveChangesetInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	input.UUID = c.Params("uuid")

	resp, created, err := h.changesetService.Save(c.Context(), user, input)
	if err != nil {
		return err
	}
	if created {
		return c.Status(fiber.StatusCreated).JSON(resp)
	}
	return c.JSON(resp)
}

func (h *ChangesetHandler) RecentActivity(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	limit := c.QueryInt("limit", 20)

	entries, err := h.changesetService.RecentActivity(c.Context(), user, limit)
	if err != nil {
		return err
	}
	return c.JSON(entries)
}

func (h *ChangesetHandler) Delete(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	force := c.QueryBool("force")

	resp, result, err := h.changesetService.Delete(c.Context(), user, c.Params("uuid"), force)
	if err != nil {
		return err
	}
	if result != nil {
		return c.JSON(result)
	}
	return c.JSON(resp)
}
