package fulfillment

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/omnicanal-api/internal/domain"
	"github.com/jhoicas/omnicanal-api/internal/domain/entity"
)

// Materializer convierte un plan de asignación en pedidos, líneas y pagos, repartiendo envío,
// descuento por puntos, puntos ganados e IVA entre las sucursales. No persiste nada.
type Materializer struct {
	Shipping    ShippingTable
	Loyalty     LoyaltyRules
	VATRate     decimal.Decimal
	ManualProof map[entity.PaymentMethod]bool
}

// MaterializeInput datos de un intento de checkout ya asignado.
type MaterializeInput struct {
	CheckoutID      string
	CustomerID      string
	AddressID       string
	Lines           []entity.CartLine
	Plan            Plan
	Branches        map[string]*entity.Branch
	ShippingMethod  string
	PaymentMethod   entity.PaymentMethod
	RequestedPoints int
	PointsBalance   int
	Now             time.Time
	NewID           func() string
}

// OrderDraft pedido listo para persistir con sus líneas y su pago.
type OrderDraft struct {
	Order   *entity.Order
	Items   []*entity.OrderLineItem
	Payment *entity.Payment
}

// Materialization resultado completo; Orders va en orden ascendente de sucursal y el primero es el principal.
type Materialization struct {
	Orders         []OrderDraft
	CartSubtotal   decimal.Decimal
	Redemption     Redemption
	ShippingMethod string
	ShippingCost   decimal.Decimal
	PointsEarned   int
}

// Materialize aplica los pasos de cálculo del checkout sobre un plan ya asignado.
func (m *Materializer) Materialize(in MaterializeInput) (*Materialization, error) {
	if len(in.Lines) == 0 {
		return nil, domain.ErrEmptyCart
	}
	newID := in.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	if err := checkPlanCoversLines(in.Lines, in.Plan); err != nil {
		return nil, err
	}

	// 1) Subtotal del carrito (precios con IVA incluido)
	cartSubtotal := decimal.Zero
	for _, l := range in.Lines {
		cartSubtotal = cartSubtotal.Add(l.Subtotal())
	}

	// 2) Canje de puntos limitado por el tope y por el subtotal
	redemption, err := ResolveRedemption(in.RequestedPoints, in.PointsBalance, cartSubtotal, m.Loyalty)
	if err != nil {
		return nil, err
	}

	// 3) Costo de envío
	method, shippingCost := m.Shipping.Resolve(in.ShippingMethod)

	// 4) Reparto por sucursal en orden ascendente de ID
	branchIDs := in.Plan.BranchIDs()
	groups := in.Plan.ByBranch()
	weights := make([]decimal.Decimal, len(branchIDs))
	for i, id := range branchIDs {
		sub := decimal.Zero
		for _, a := range groups[id] {
			sub = sub.Add(a.Subtotal())
		}
		weights[i] = sub
	}
	discounts := SplitAmount(redemption.Discount, weights)
	redeemed := SplitPoints(redemption.Points, weights)
	pointsEarned := m.Loyalty.PointsEarned(cartSubtotal)
	earned := SplitPoints(pointsEarned, weights)

	orderStatus, paymentStatus := entity.OrderStatusPaid, entity.PaymentStatusApproved
	if m.ManualProof[in.PaymentMethod] {
		orderStatus, paymentStatus = entity.OrderStatusPendingVerification, entity.PaymentStatusPending
	}

	out := &Materialization{
		Orders:         make([]OrderDraft, 0, len(branchIDs)),
		CartSubtotal:   cartSubtotal,
		Redemption:     redemption,
		ShippingMethod: method,
		ShippingCost:   shippingCost,
		PointsEarned:   pointsEarned,
	}
	for i, branchID := range branchIDs {
		orderID := newID()
		shipping := decimal.Zero
		if i == 0 {
			shipping = shippingCost
		}
		items := make([]*entity.OrderLineItem, 0, len(groups[branchID]))
		taxTotal := decimal.Zero
		for _, a := range groups[branchID] {
			lineSubtotal := a.Subtotal()
			lineTax := IncludedTax(lineSubtotal, m.VATRate)
			taxTotal = taxTotal.Add(lineTax)
			items = append(items, &entity.OrderLineItem{
				ID:                newID(),
				OrderID:           orderID,
				VariantID:         a.VariantID,
				Quantity:          a.Quantity,
				UnitPrice:         a.UnitPrice,
				LineSubtotal:      lineSubtotal,
				LineTax:           lineTax,
				AllocatedBranchID: a.BranchID,
			})
		}
		grandTotal := weights[i].Add(shipping).Sub(discounts[i])
		order := &entity.Order{
			ID:              orderID,
			Number:          OrderNumber(in.CheckoutID, in.CustomerID, in.Branches[branchID], branchID, in.Now),
			CheckoutID:      in.CheckoutID,
			CustomerID:      in.CustomerID,
			BranchID:        branchID,
			AddressID:       in.AddressID,
			Subtotal:        weights[i],
			ShippingCost:    shipping,
			LoyaltyDiscount: discounts[i],
			PointsRedeemed:  redeemed[i],
			TaxTotal:        taxTotal,
			GrandTotal:      grandTotal,
			PointsEarned:    earned[i],
			Status:          orderStatus,
			PaymentMethod:   in.PaymentMethod,
			ShippingMethod:  method,
			CreatedAt:       in.Now,
			UpdatedAt:       in.Now,
		}
		payment := &entity.Payment{
			ID:        newID(),
			OrderID:   orderID,
			Method:    in.PaymentMethod,
			Amount:    grandTotal,
			Status:    paymentStatus,
			CreatedAt: in.Now,
			UpdatedAt: in.Now,
		}
		out.Orders = append(out.Orders, OrderDraft{Order: order, Items: items, Payment: payment})
	}
	return out, nil
}

// checkPlanCoversLines Σ cantidad asignada por línea = cantidad pedida.
func checkPlanCoversLines(lines []entity.CartLine, plan Plan) error {
	allocated := make([]int, len(lines))
	for _, a := range plan.Allocations {
		if a.LineIndex < 0 || a.LineIndex >= len(lines) || lines[a.LineIndex].VariantID != a.VariantID {
			return fmt.Errorf("asignación fuera del carrito (línea %d): %w", a.LineIndex, domain.ErrInvalidInput)
		}
		allocated[a.LineIndex] += a.Quantity
	}
	for i, l := range lines {
		if allocated[i] != l.Quantity {
			return &domain.InsufficientStockError{VariantID: l.VariantID, LineIndex: i, Requested: l.Quantity}
		}
	}
	return nil
}

// OrderNumber número legible: OC-<fecha+ms>-<cliente>-<sucursal>-<checkout>. El sufijo del checkout
// distingue dos checkouts del mismo cliente en el mismo milisegundo.
func OrderNumber(checkoutID, customerID string, branch *entity.Branch, branchID string, now time.Time) string {
	code := branchID
	if branch != nil && branch.Code != "" {
		code = branch.Code
	}
	chk := shortTag(checkoutID)
	if len(chk) > 4 {
		chk = chk[:4]
	}
	return fmt.Sprintf("OC-%s%03d-%s-%s-%s",
		now.UTC().Format("20060102150405"), now.Nanosecond()/int(time.Millisecond),
		shortTag(customerID), strings.ToUpper(shortTag(code)), chk)
}

func shortTag(s string) string {
	s = strings.ReplaceAll(s, "-", "")
	if len(s) > 8 {
		s = s[:8]
	}
	return strings.ToUpper(s)
}
