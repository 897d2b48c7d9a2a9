package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/omnicanal-api/internal/application/cancellation"
	"github.com/jhoicas/omnicanal-api/internal/application/dto"
	"github.com/jhoicas/omnicanal-api/internal/application/orders"
)

// OrderHandler lectura, cancelación y transiciones administrativas de pedidos.
type OrderHandler struct {
	orders       *orders.UseCase
	cancellation *cancellation.UseCase
}

func NewOrderHandler(ordersUC *orders.UseCase, cancellationUC *cancellation.UseCase) *OrderHandler {
	return &OrderHandler{orders: ordersUC, cancellation: cancellationUC}
}

// GetByID godoc
// @Summary      Consultar pedido
// @Description  Pedido con sus líneas y su pago. Solo el cliente dueño o un administrador.
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "id del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	resp, err := h.orders.GetOrder(c.UserContext(), actorFrom(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}

// PreviewCancellation godoc
// @Summary      Vista previa de cancelación
// @Description  Muestra el impacto de cancelar (stock, pago, puntos) sin modificar nada.
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "id del pedido"
// @Success      200  {object}  dto.CancellationPreviewResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/cancellation-preview [get]
func (h *OrderHandler) PreviewCancellation(c *fiber.Ctx) error {
	resp, err := h.cancellation.Preview(c.UserContext(), actorFrom(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}

// Cancel godoc
// @Summary      Cancelar pedido
// @Description  Requiere confirm=true y un motivo. Reintegra stock si el pedido estaba PAID o IN_PREPARATION.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "id del pedido"
// @Param        body  body  dto.CancelOrderRequest  true  "reason, confirm"
// @Success      200   {object}  dto.CancellationResult
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	var in dto.CancelOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.cancellation.Cancel(c.UserContext(), actorFrom(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}

// UpdateStatus godoc
// @Summary      Cambiar estado del pedido
// @Description  Transición administrativa validada contra la máquina de estados. Solo admin.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                        true  "id del pedido"
// @Param        body  body  dto.UpdateOrderStatusRequest  true  "status"
// @Success      200   {object}  dto.OrderResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateOrderStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.orders.TransitionStatus(c.UserContext(), actorFrom(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}
