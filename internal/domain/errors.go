package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound             = errors.New("recurso no encontrado")
	ErrInvalidInput         = errors.New("entrada inválida")
	ErrUnauthorized         = errors.New("no autorizado")
	ErrForbidden            = errors.New("acceso denegado")
	ErrConflict             = errors.New("conflicto con el estado actual")
	ErrEmptyCart            = errors.New("el carrito está vacío")
	ErrCartClosed           = errors.New("el carrito ya fue procesado")
	ErrInvalidAddress       = errors.New("dirección de envío inválida")
	ErrNoBranchesAvailable  = errors.New("no hay sucursales activas")
	ErrInsufficientStock    = errors.New("stock insuficiente")
	ErrInvalidRedemption    = errors.New("canje de puntos inválido")
	ErrCannotCancel         = errors.New("el pedido no se puede cancelar")
	ErrConfirmationRequired = errors.New("se requiere confirmación explícita")
	ErrInvalidTransition    = errors.New("transición de estado inválida")
	ErrConcurrencyConflict  = errors.New("conflicto de concurrencia")
	ErrPersistenceFailure   = errors.New("fallo de persistencia")
)

// InsufficientStockError indica qué línea del carrito no pudo asignarse a ninguna sucursal.
type InsufficientStockError struct {
	VariantID string
	LineIndex int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para la variante %s (línea %d, cantidad %d)", e.VariantID, e.LineIndex+1, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// InvalidRedemptionError rechazo de un canje de puntos con su motivo.
type InvalidRedemptionError struct {
	Reason string
}

func (e *InvalidRedemptionError) Error() string {
	return "canje de puntos inválido: " + e.Reason
}

func (e *InvalidRedemptionError) Unwrap() error { return ErrInvalidRedemption }

// Códigos estables de rechazo de cancelación.
const (
	CancelCodeAlreadyCancelled = "already_cancelled"
	CancelCodeAlreadyShipped   = "already_shipped"
	CancelCodeDelivered        = "delivered"
	CancelCodeClosed           = "closed"
)

// CannotCancelError rechazo de negocio de una cancelación. NoOp es true cuando el pedido
// ya estaba cancelado (la solicitud repetida no produce efectos).
type CannotCancelError struct {
	Status string
	Code   string
	Reason string
	NoOp   bool
}

func (e *CannotCancelError) Error() string {
	return fmt.Sprintf("no se puede cancelar (estado %s): %s", e.Status, e.Reason)
}

func (e *CannotCancelError) Unwrap() error { return ErrCannotCancel }

// IsTransient indica si el error proviene del almacén transaccional y admite un reintento.
func IsTransient(err error) bool {
	return errors.Is(err, ErrConcurrencyConflict) || errors.Is(err, ErrPersistenceFailure)
}
