package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/inventario-sedes/internal/application/dto"
	"github.com/jhoicas/inventario-sedes/internal/application/inventory"
)

// InventoryHandler maneja ajustes, consultas del libro de stock, diario y verificación (protegido).
type InventoryHandler struct {
	adjust        *inventory.AdjustStockUseCase
	query         *inventory.QueryUseCase
	reconciler    *inventory.Reconciler
	replenishment *inventory.ReplenishmentUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	adjust *inventory.AdjustStockUseCase,
	query *inventory.QueryUseCase,
	reconciler *inventory.Reconciler,
	replenishment *inventory.ReplenishmentUseCase,
) *InventoryHandler {
	return &InventoryHandler{adjust: adjust, query: query, reconciler: reconciler, replenishment: replenishment}
}

// AdjustStock godoc
// @Summary      Ajuste manual de stock en una sede
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustStockRequest  true  "product_id, location_id, delta (+/-), reason"
// @Success      201   {object}  dto.AdjustStockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments [post]
func (h *InventoryHandler) AdjustStock(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.adjust.AdjustStock(c.Context(), ActorFrom(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetStock godoc
// @Summary      Existencias de un producto en una sede
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id   path  string  true  "Product ID"
// @Param        location_id  path  string  true  "Location ID"
// @Success      200  {object}  dto.StockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/stock/{product_id}/{location_id} [get]
func (h *InventoryHandler) GetStock(c *fiber.Ctx) error {
	productID, err := uuidParam(c, "product_id")
	if err != nil {
		return writeError(c, err)
	}
	locationID, err := uuidParam(c, "location_id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.query.GetStock(c.Context(), productID, locationID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListStock godoc
// @Summary      Listar existencias por producto y/o sede
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id   query  string  false  "Product ID"
// @Param        location_id  query  string  false  "Location ID"
// @Success      200  {object}  dto.StockListResponse
// @Router       /api/inventory/stock [get]
func (h *InventoryHandler) ListStock(c *fiber.Ctx) error {
	productID, err := uuidQuery(c, "product_id")
	if err != nil {
		return writeError(c, err)
	}
	locationID, err := uuidQuery(c, "location_id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.query.ListStock(c.Context(), productID, locationID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListMovements godoc
// @Summary      Consultar el diario de movimientos
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id   query  string  false  "Product ID"
// @Param        location_id  query  string  false  "Location ID (cualquiera de las sedes del movimiento)"
// @Param        type         query  string  false  "inbound | outbound | transfer | adjustment"
// @Param        from         query  string  false  "RFC3339"
// @Param        to           query  string  false  "RFC3339"
// @Param        limit        query  int     false  "Límite (default 20, max 100)"
// @Param        offset       query  int     false  "Offset"
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	productID, err := uuidQuery(c, "product_id")
	if err != nil {
		return writeError(c, err)
	}
	locationID, err := uuidQuery(c, "location_id")
	if err != nil {
		return writeError(c, err)
	}
	in := dto.MovementListRequest{
		ProductID:  productID,
		LocationID: locationID,
		Type:       c.Query("type"),
		PageRequest: dto.PageRequest{
			Limit:  c.QueryInt("limit", 20),
			Offset: c.QueryInt("offset", 0),
		},
	}
	if in.From, err = parseTimeQuery(c, "from"); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from debe ser RFC3339"})
	}
	if in.To, err = parseTimeQuery(c, "to"); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to debe ser RFC3339"})
	}
	out, err := h.query.ListMovements(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// VerifyLedger godoc
// @Summary      Verificar el libro contra el diario
// @Description  Reproduce todos los movimientos y compara cada celda con su cantidad registrada.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.VerifyLedgerResponse
// @Router       /api/inventory/verify [get]
func (h *InventoryHandler) VerifyLedger(c *fiber.Ctx) error {
	out, err := h.reconciler.Verify(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetReplenishmentList godoc
// @Summary      Lista de reposición de una sede
// @Description  Productos por debajo de su stock mínimo con la cantidad sugerida de pedido,
//
//	ordenados por margen y déficit.
//
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        location_id  query  string  true  "Location ID"
// @Success      200  {array}   dto.ReplenishmentSuggestionDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/replenishment [get]
func (h *InventoryHandler) GetReplenishmentList(c *fiber.Ctx) error {
	if c.Query("location_id") == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "location_id requerido"})
	}
	locationID, err := uuidQuery(c, "location_id")
	if err != nil {
		return writeError(c, err)
	}
	list, err := h.replenishment.GenerateReplenishmentList(c.Context(), locationID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

func parseTimeQuery(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
