package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"cardvault/internal/middleware"
	"cardvault/internal/models"
	"cardvault/internal/repositories"
	"cardvault/internal/services/giftcard"
	"cardvault/internal/utils"
)

// PermRevealAccess lets a profile read the gcNumber/gcPass access fields.
const PermRevealAccess = "giftcards.reveal"

// GiftCardHandler exposes gift card CRUD and the query layer over HTTP.
type GiftCardHandler struct {
	cards giftcard.Service
}

func NewGiftCardHandler(cardService giftcard.Service) *GiftCardHandler {
	return &GiftCardHandler{cards: cardService}
}

func (h *GiftCardHandler) maskForCaller(c *fiber.Ctx, cards ...*models.GiftCard) {
	claims := middleware.Claims(c)
	if claims != nil && claims.HasPermission(PermRevealAccess) {
		return
	}
	for _, card := range cards {
		card.MaskAccess()
	}
}

func (h *GiftCardHandler) Create(c *fiber.Ctx) error {
	var input giftcard.CreateGiftCardInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	claims := middleware.Claims(c)
	input.UserID = claims.UserID
	input.CompanyID = claims.CompanyID

	card, err := h.cards.CreateGiftCard(c.Context(), input)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return utils.NotFound(c, err.Error())
		}
		return utils.BadRequest(c, err.Error())
	}
	return utils.Created(c, card)
}

func (h *GiftCardHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return utils.BadRequest(c, err.Error())
	}

	claims := middleware.Claims(c)
	card, err := h.cards.GetGiftCard(c.Context(), id, claims.CompanyID)
	if err != nil {
		if errors.Is(err, giftcard.ErrGiftCardNotFound) {
			return utils.NotFound(c, err.Error())
		}
		return utils.InternalError(c, "failed to get gift card")
	}

	h.maskForCaller(c, card)
	return utils.Success(c, card)
}

func (h *GiftCardHandler) List(c *fiber.Ctx) error {
	claims := middleware.Claims(c)

	if term := c.Query("search"); term != "" {
		cards, err := h.cards.SearchGiftCards(c.Context(), claims.UserID, term)
		if err != nil {
			return utils.InternalError(c, "failed to search gift cards")
		}
		h.maskForCaller(c, cards...)
		return utils.Success(c, cards)
	}

	if days, _ := strconv.Atoi(c.Query("expiringDays")); days > 0 {
		cards, err := h.cards.ListExpiring(c.Context(), claims.CompanyID, days)
		if err != nil {
			return utils.InternalError(c, "failed to list expiring gift cards")
		}
		h.maskForCaller(c, cards...)
		return utils.Success(c, cards)
	}

	supplierID, _ := strconv.ParseUint(c.Query("fornecedorId"), 10, 32)
	tagID, _ := strconv.ParseUint(c.Query("tagId"), 10, 32)

	cards, err := h.cards.ListGiftCards(c.Context(), giftcard.ListFilter{
		UserID:     claims.UserID,
		SupplierID: uint(supplierID),
		CompanyID:  claims.CompanyID,
		TagID:      uint(tagID),
	})
	if err != nil {
		return utils.InternalError(c, "failed to list gift cards")
	}

	h.maskForCaller(c, cards...)
	return utils.Success(c, cards)
}

func (h *GiftCardHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return utils.BadRequest(c, err.Error())
	}

	var patch giftcard.GiftCardPatch
	if err := c.BodyParser(&patch); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	card, err := h.cards.UpdateGiftCard(c.Context(), id, patch)
	if err != nil {
		if errors.Is(err, giftcard.ErrGiftCardNotFound) {
			return utils.NotFound(c, err.Error())
		}
		return utils.BadRequest(c, err.Error())
	}

	h.maskForCaller(c, card)
	return utils.Success(c, card)
}

func (h *GiftCardHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return utils.BadRequest(c, err.Error())
	}

	if err := h.cards.DeleteGiftCard(c.Context(), id); err != nil {
		switch {
		case errors.Is(err, giftcard.ErrGiftCardNotFound):
			return utils.NotFound(c, err.Error())
		case errors.Is(err, giftcard.ErrGiftCardInUse):
			return utils.Conflict(c, err.Error())
		default:
			return utils.InternalError(c, "failed to delete gift card")
		}
	}
	return utils.Success(c, fiber.Map{"deleted": true})
}

func (h *GiftCardHandler) AddTag(c *fiber.Ctx) error {
	cardID, err := parseID(c, "id")
	if err != nil {
		return utils.BadRequest(c, err.Error())
	}
	tagID, err := parseID(c, "tagId")
	if err != nil {
		return utils.BadRequest(c, err.Error())
	}

	if err := h.cards.AddTag(c.Context(), cardID, tagID); err != nil {
		switch {
		case errors.Is(err, giftcard.ErrGiftCardNotFound), errors.Is(err, giftcard.ErrTagNotFound):
			return utils.NotFound(c, err.Error())
		default:
			return utils.InternalError(c, "failed to tag gift card")
		}
	}
	return utils.Success(c, fiber.Map{"tagged": true})
}

func (h *GiftCardHandler) RemoveTag(c *fiber.Ctx) error {
	cardID, err := parseID(c, "id")
	if err != nil {
		return utils.BadRequest(c, err.Error())
	}
	tagID, err := parseID(c, "tagId")
	if err != nil {
		return utils.BadRequest(c, err.Error())
	}

	if err := h.cards.RemoveTag(c.Context(), cardID, tagID); err != nil {
		return utils.InternalError(c, "failed to untag gift card")
	}
	return utils.Success(c, fiber.Map{"tagged": false})
}
