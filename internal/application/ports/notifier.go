package ports

import (
	"context"

	"github.com/jhoicas/omnicanal-api/internal/domain/entity"
)

// Notifier puerto de salida hacia el despacho de notificaciones.
// Se invoca después del Commit; un fallo se registra pero no revierte la operación.
type Notifier interface {
	Publish(ctx context.Context, event entity.OrderEvent) error
}
