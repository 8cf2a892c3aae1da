package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"cardvault/internal/middleware"
	"cardvault/internal/services/supplier"
	"cardvault/internal/utils"
)

// SupplierHandler exposes supplier CRUD over HTTP.
type SupplierHandler struct {
	suppliers supplier.Service
}

func NewSupplierHandler(supplierService supplier.Service) *SupplierHandler {
	return &SupplierHandler{suppliers: supplierService}
}

func (h *SupplierHandler) Create(c *fiber.Ctx) error {
	var input supplier.CreateSupplierInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	claims := middleware.Claims(c)
	input.UserID = claims.UserID
	input.CompanyID = claims.CompanyID

	sup, err := h.suppliers.CreateSupplier(c.Context(), input)
	if err != nil {
		return utils.BadRequest(c, err.Error())
	}
	return utils.Created(c, sup)
}

func (h *SupplierHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return utils.BadRequest(c, err.Error())
	}

	claims := middleware.Claims(c)
	sup, err := h.suppliers.GetSupplier(c.Context(), id, claims.CompanyID)
	if err != nil {
		if errors.Is(err, supplier.ErrSupplierNotFound) {
			return utils.NotFound(c, err.Error())
		}
		return utils.InternalError(c, "failed to get supplier")
	}
	return utils.Success(c, sup)
}

func (h *SupplierHandler) List(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	suppliers, err := h.suppliers.ListSuppliers(c.Context(), claims.UserID, claims.CompanyID)
	if err != nil {
		return utils.InternalError(c, "failed to list suppliers")
	}
	return utils.Success(c, suppliers)
}

func (h *SupplierHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return utils.BadRequest(c, err.Error())
	}

	var patch supplier.SupplierPatch
	if err := c.BodyParser(&patch); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	sup, err := h.suppliers.UpdateSupplier(c.Context(), id, patch)
	if err != nil {
		if errors.Is(err, supplier.ErrSupplierNotFound) {
			return utils.NotFound(c, err.Error())
		}
		return utils.BadRequest(c, err.Error())
	}
	return utils.Success(c, sup)
}

func (h *SupplierHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return utils.BadRequest(c, err.Error())
	}

	if err := h.suppliers.DeleteSupplier(c.Context(), id); err != nil {
		switch {
		case errors.Is(err, supplier.ErrSupplierNotFound):
			return utils.NotFound(c, err.Error())
		case errors.Is(err, supplier.ErrSupplierInUse):
			return utils.Conflict(c, err.Error())
		default:
			return utils.InternalError(c, "failed to delete supplier")
		}
	}
	return utils.Success(c, fiber.Map{"deleted": true})
}
