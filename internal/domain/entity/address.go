package entity

// ShippingAddress dirección de envío validada que pertenece a un cliente.
type ShippingAddress struct {
	ID         string
	CustomerID string
	Region     string
	City       string
	Line1      string
}
