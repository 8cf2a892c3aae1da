package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"cardvault/internal/middleware"
	"cardvault/internal/models"
	"cardvault/internal/repositories"
	"cardvault/internal/utils"
)

// TagHandler exposes tag CRUD. Tags have no balance semantics, so the
// handler talks to the store directly.
type TagHandler struct {
	store repositories.Store
}

func NewTagHandler(store repositories.Store) *TagHandler {
	return &TagHandler{store: store}
}

func (h *TagHandler) Create(c *fiber.Ctx) error {
	var input struct {
		Name string `json:"nome"`
	}
	if err := c.BodyParser(&input); err != nil || input.Name == "" {
		return utils.BadRequest(c, "tag name is required")
	}

	claims := middleware.Claims(c)
	tag := &models.Tag{Name: input.Name, CompanyID: claims.CompanyID}
	if err := h.store.Tags().Create(tag); err != nil {
		return utils.InternalError(c, "failed to create tag")
	}
	return utils.Created(c, tag)
}

func (h *TagHandler) List(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	tags, err := h.store.Tags().List(func(t *models.Tag) bool {
		return claims.CompanyID == 0 || t.CompanyID == claims.CompanyID
	})
	if err != nil {
		return utils.InternalError(c, "failed to list tags")
	}
	return utils.Success(c, tags)
}

func (h *TagHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return utils.BadRequest(c, err.Error())
	}

	links, err := h.store.GiftCardTags().List(func(l *models.GiftCardTag) bool {
		return l.TagID == id
	})
	if err != nil {
		return utils.InternalError(c, "failed to delete tag")
	}
	for _, link := range links {
		if err := h.store.GiftCardTags().Delete(link.ID); err != nil {
			return utils.InternalError(c, "failed to delete tag")
		}
	}

	if err := h.store.Tags().Delete(id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return utils.NotFound(c, "tag not found")
		}
		return utils.InternalError(c, "failed to delete tag")
	}
	return utils.Success(c, fiber.Map{"deleted": true})
}
