package entity

import (
	"encoding/json"
	"time"
)

// Acciones auditadas.
const (
	AuditActionOrderCancelled     = "ORDER_CANCELLED"
	AuditActionOrderStatusChanged = "ORDER_STATUS_CHANGED"
	AuditActionStockMovement      = "STOCK_MOVEMENT"
)

// AuditEntry registro de auditoría.
type AuditEntry struct {
	ID         string
	Action     string
	EntityType string
	EntityID   string
	Actor      string
	Detail     json.RawMessage
	CreatedAt  time.Time
}
