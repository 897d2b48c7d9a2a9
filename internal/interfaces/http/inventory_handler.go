package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/omnicanal-api/internal/application/dto"
	"github.com/jhoicas/omnicanal-api/internal/application/inventory"
)

// InventoryHandler movimientos manuales, conciliación y reposición (solo admin).
type InventoryHandler struct {
	movements      *inventory.RegisterMovementUseCase
	reconciliation *inventory.ReconciliationUseCase
	replenishment  *inventory.ReplenishmentUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	movements *inventory.RegisterMovementUseCase,
	reconciliation *inventory.ReconciliationUseCase,
	replenishment *inventory.ReplenishmentUseCase,
) *InventoryHandler {
	return &InventoryHandler{movements: movements, reconciliation: reconciliation, replenishment: replenishment}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de inventario
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "branch_id (o from/to para TRANSFER), variant_id, type, quantity"
// @Success      201   {object}  map[string][]dto.MovementResponse  "movements"
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.movements.RegisterMovementFromRequest(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"movements": resp})
}

// Reconcile godoc
// @Summary      Conciliación de kardex
// @Description  Compara la suma firmada de movimientos con el registro de stock.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        branch_id   query  string  false  "Filtrar por sucursal"
// @Param        variant_id  query  string  false  "Filtrar por variante"
// @Success      200  {object}  dto.ReconciliationResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/inventory/reconciliation [get]
func (h *InventoryHandler) Reconcile(c *fiber.Ctx) error {
	resp, err := h.reconciliation.Reconcile(c.UserContext(), c.Query("branch_id"), c.Query("variant_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}

// GetReplenishmentList godoc
// @Summary      Lista de reposición
// @Description  Pares (sucursal, variante) en o bajo su stock mínimo, con la cantidad sugerida.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        branch_id  query  string  false  "Filtrar por sucursal. Vacío = todas."
// @Success      200  {object}  map[string]interface{}  "total, replenishments"
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/inventory/replenishment [get]
func (h *InventoryHandler) GetReplenishmentList(c *fiber.Ctx) error {
	list, err := h.replenishment.GenerateReplenishmentList(c.UserContext(), c.Query("branch_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"total":          len(list),
		"replenishments": list,
	})
}
