package entity

import "time"

// Branch representa una sucursal física (tienda o bodega) con inventario propio.
// Es de solo lectura para el motor de pedidos; la administra un flujo externo.
type Branch struct {
	ID        string
	Code      string // código corto usado en el número de pedido
	Name      string
	Region    string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
