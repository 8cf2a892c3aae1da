package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"cardvault/internal/middleware"
	"cardvault/internal/services/ledger"
	"cardvault/internal/utils"
)

// TransactionHandler exposes the ledger over HTTP.
type TransactionHandler struct {
	ledger ledger.Service
}

func NewTransactionHandler(ledgerService ledger.Service) *TransactionHandler {
	return &TransactionHandler{ledger: ledgerService}
}

func parseID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}

func (h *TransactionHandler) Create(c *fiber.Ctx) error {
	var input ledger.CreateTransactionInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	claims := middleware.Claims(c)
	input.UserID = claims.UserID
	input.CompanyID = claims.CompanyID

	tx, err := h.ledger.CreateTransaction(c.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrMissingRequiredField), errors.Is(err, ledger.ErrInvalidAmount):
			return utils.BadRequest(c, err.Error())
		case errors.Is(err, ledger.ErrTransactionNotFound):
			return utils.NotFound(c, err.Error())
		default:
			return utils.InternalError(c, "failed to create transaction")
		}
	}
	return utils.Created(c, tx)
}

func (h *TransactionHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return utils.BadRequest(c, err.Error())
	}

	tx, err := h.ledger.GetTransaction(c.Context(), id)
	if err != nil {
		if errors.Is(err, ledger.ErrTransactionNotFound) {
			return utils.NotFound(c, err.Error())
		}
		return utils.InternalError(c, "failed to get transaction")
	}
	return utils.Success(c, tx)
}

func (h *TransactionHandler) List(c *fiber.Ctx) error {
	claims := middleware.Claims(c)

	if giftCardID, _ := strconv.ParseUint(c.Query("giftCardId"), 10, 32); giftCardID != 0 {
		txs, err := h.ledger.ListByGiftCard(c.Context(), uint(giftCardID), claims.CompanyID)
		if err != nil {
			return utils.InternalError(c, "failed to list transactions")
		}
		return utils.Success(c, txs)
	}

	txs, err := h.ledger.ListByUser(c.Context(), claims.UserID)
	if err != nil {
		return utils.InternalError(c, "failed to list transactions")
	}
	return utils.Success(c, txs)
}

func (h *TransactionHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return utils.BadRequest(c, err.Error())
	}

	var patch ledger.TransactionPatch
	if err := c.BodyParser(&patch); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	tx, err := h.ledger.UpdateTransaction(c.Context(), id, patch)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrTransactionNotFound):
			return utils.NotFound(c, err.Error())
		case errors.Is(err, ledger.ErrInvalidAmount):
			return utils.BadRequest(c, err.Error())
		default:
			return utils.InternalError(c, "failed to update transaction")
		}
	}
	return utils.Success(c, tx)
}

func (h *TransactionHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return utils.BadRequest(c, err.Error())
	}

	existed, err := h.ledger.DeleteTransaction(c.Context(), id)
	if err != nil {
		return utils.InternalError(c, "failed to delete transaction")
	}
	return utils.Success(c, fiber.Map{"deleted": existed})
}
