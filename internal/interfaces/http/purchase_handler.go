package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/inventario-sedes/internal/application/dto"
	"github.com/jhoicas/inventario-sedes/internal/application/purchasing"
)

// PurchaseHandler maneja órdenes de compra (protegido).
type PurchaseHandler struct {
	uc *purchasing.PurchaseUseCase
}

// NewPurchaseHandler construye el handler.
func NewPurchaseHandler(uc *purchasing.PurchaseUseCase) *PurchaseHandler {
	return &PurchaseHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar compra
// @Description  Por defecto la compra queda completed y acredita el stock de la sede. Con status=pending
//
//	el stock se acredita al completarla.
//
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePurchaseRequest  true  "supplier_id, location_id, status, lines"
// @Success      201   {object}  dto.PurchaseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/purchases [post]
func (h *PurchaseHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePurchaseRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.Context(), ActorFrom(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Get godoc
// @Summary      Obtener compra
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "Purchase ID"
// @Success      200  {object}  dto.PurchaseResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id} [get]
func (h *PurchaseHandler) Get(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Get(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Complete godoc
// @Summary      Completar compra pendiente
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "Purchase ID"
// @Success      200  {object}  dto.PurchaseResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id}/complete [post]
func (h *PurchaseHandler) Complete(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Complete(c.Context(), ActorFrom(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Cancelar compra pendiente
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "Purchase ID"
// @Success      200  {object}  dto.PurchaseResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id}/cancel [post]
func (h *PurchaseHandler) Cancel(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Cancel(c.Context(), ActorFrom(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar compra pendiente
// @Tags         purchases
// @Security     Bearer
// @Param        id   path  string  true  "Purchase ID"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id} [delete]
func (h *PurchaseHandler) Delete(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.Delete(c.Context(), ActorFrom(c), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
