package entity

import "time"

// LoyaltyAccount saldo de puntos de un cliente (colaborador externo, leído y escrito por el motor).
type LoyaltyAccount struct {
	CustomerID string
	Balance    int
	UpdatedAt  time.Time
}
